package webhook

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testSecret = "S"

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveWebhook(eventType string, handled bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	state := "unhandled"
	if handled {
		state = "handled"
	}
	o.calls = append(o.calls, eventType+":"+state)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	body := []byte(`{"type":"contact.created","contact":{"email":"a@b.c"}}`)
	sig := Sign(body, testSecret)

	if !Verify(body, sig, testSecret) {
		t.Fatalf("Verify() = false, want true for a correct signature")
	}

	for i := range body {
		mutated := append([]byte(nil), body...)
		mutated[i] ^= 0x01
		if Verify(mutated, sig, testSecret) {
			t.Errorf("Verify() = true with body byte %d mutated, want false", i)
		}
	}

	for i := range sig {
		mutated := []byte(sig)
		if mutated[i] == '0' {
			mutated[i] = '1'
		} else {
			mutated[i] = '0'
		}
		if Verify(body, string(mutated), testSecret) {
			t.Errorf("Verify() = true with signature byte %d mutated, want false", i)
		}
	}
}

func TestVerifyRejects(t *testing.T) {
	t.Parallel()

	body := []byte(`{}`)

	tests := []struct {
		name      string
		signature string
		secret    string
	}{
		{name: "empty secret", signature: Sign(body, ""), secret: ""},
		{name: "not hex", signature: "zz", secret: testSecret},
		{name: "wrong secret", signature: Sign(body, "other"), secret: testSecret},
		{name: "truncated", signature: Sign(body, testSecret)[:10], secret: testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if Verify(body, tt.signature, tt.secret) {
				t.Errorf("Verify() = true, want false")
			}
		})
	}
}

func TestProcessWebhook(t *testing.T) {
	t.Parallel()

	valid := []byte(`{"type":"contact.created","contact":{"id":"c1","email":"a@b.c"}}`)
	unknown := []byte(`{"type":"opportunity.won"}`)
	noType := []byte(`{"contact":{}}`)
	notJSON := []byte(`type=contact.created`)

	tests := []struct {
		name    string
		secret  string
		req     ProcessRequest
		want    Acknowledgement
		wantErr error
		wantObs []string
	}{
		{
			name:    "handled type",
			secret:  testSecret,
			req:     ProcessRequest{Body: valid, Signature: Sign(valid, testSecret)},
			want:    Acknowledgement{Status: "received", Type: "contact.created"},
			wantObs: []string{"contact.created:handled"},
		},
		{
			name:    "unknown type acknowledged",
			secret:  testSecret,
			req:     ProcessRequest{Body: unknown, Signature: Sign(unknown, testSecret)},
			want:    Acknowledgement{Status: "received", Type: "opportunity.won"},
			wantObs: []string{"opportunity.won:unhandled"},
		},
		{
			name:    "missing header",
			secret:  testSecret,
			req:     ProcessRequest{Body: valid},
			wantErr: ErrMissingSignature,
		},
		{
			name:    "missing secret",
			req:     ProcessRequest{Body: valid, Signature: Sign(valid, testSecret)},
			wantErr: ErrMissingSignature,
		},
		{
			name:    "signature mismatch",
			secret:  testSecret,
			req:     ProcessRequest{Body: valid, Signature: Sign(unknown, testSecret)},
			wantErr: ErrInvalidSignature,
		},
		{
			name:    "forged non-json body is rejected before parsing",
			secret:  testSecret,
			req:     ProcessRequest{Body: notJSON, Signature: Sign(valid, testSecret)},
			wantErr: ErrInvalidSignature,
		},
		{
			name:    "signed body without type",
			secret:  testSecret,
			req:     ProcessRequest{Body: noType, Signature: Sign(noType, testSecret)},
			wantErr: ErrInvalidPayload,
		},
		{
			name:    "signed non-json body",
			secret:  testSecret,
			req:     ProcessRequest{Body: notJSON, Signature: Sign(notJSON, testSecret)},
			wantErr: ErrInvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			obs := &recordingObserver{}
			p := NewProcessor(tt.secret, NewContactDispatcher(), obs)

			got, err := p.ProcessWebhook(t.Context(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ProcessWebhook() error = %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ProcessWebhook() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantObs, obs.calls); diff != "" {
				t.Errorf("observations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDispatchSwallowsHandlerFailures(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	d.Handle("boom.error", func(context.Context, Event) error { return errors.New("boom") })
	d.Handle("boom.panic", func(context.Context, Event) error { panic("boom") })

	for _, eventType := range []string{"boom.error", "boom.panic"} {
		if handled := d.Dispatch(t.Context(), Event{Type: eventType}); !handled {
			t.Errorf("Dispatch(%q) = false, want true", eventType)
		}
	}
	if handled := d.Dispatch(t.Context(), Event{Type: "other"}); handled {
		t.Errorf("Dispatch(other) = true, want false")
	}
}

func TestContactRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{name: "email", event: Event{Contact: &Contact{ID: "c1", Email: "a@b.c"}}, want: "a@b.c"},
		{name: "nested id", event: Event{Contact: &Contact{ID: "c1"}}, want: "c1"},
		{name: "top level id", event: Event{ContactID: "c2"}, want: "c2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.event.ContactRef(); got != tt.want {
				t.Errorf("ContactRef() = %q, want %q", got, tt.want)
			}
		})
	}
}
