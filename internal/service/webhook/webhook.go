package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/garrettladley/passbridge/internal/xslog"
)

// Observer receives one observation per dispatched event.
type Observer interface {
	ObserveWebhook(eventType string, handled bool)
}

type noopObserver struct{}

func (noopObserver) ObserveWebhook(string, bool) {}

type Processor struct {
	secret     string
	dispatcher *Dispatcher
	observer   Observer
}

var _ Service = (*Processor)(nil)

func NewProcessor(secret string, dispatcher *Dispatcher, observer Observer) *Processor {
	if observer == nil {
		observer = noopObserver{}
	}
	return &Processor{
		secret:     secret,
		dispatcher: dispatcher,
		observer:   observer,
	}
}

func (p *Processor) ProcessWebhook(ctx context.Context, req ProcessRequest) (Acknowledgement, error) {
	logger := xslog.FromContext(ctx)

	signature := strings.TrimSpace(req.Signature)
	if signature == "" || p.secret == "" {
		return Acknowledgement{}, ErrMissingSignature
	}

	if !Verify(req.Body, signature, p.secret) {
		return Acknowledgement{}, ErrInvalidSignature
	}

	event, err := ParseEvent(req.Body)
	if err != nil {
		return Acknowledgement{}, err
	}

	handled := p.dispatcher.Dispatch(ctx, event)
	p.observer.ObserveWebhook(event.Type, handled)

	logger.InfoContext(ctx, "processed webhook", xslog.EventType(event.Type))

	return Acknowledgement{Status: "received", Type: event.Type}, nil
}

// Verify reports whether signature is the hex HMAC-SHA256 of body keyed by
// secret. Hex case is ignored. An empty secret never verifies.
func Verify(body []byte, signature, secret string) bool {
	if secret == "" {
		return false
	}
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), got)
}

// Sign returns the signature Verify expects.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
