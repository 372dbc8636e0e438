package auth

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/garrettladley/passbridge/internal/config"
	"github.com/garrettladley/passbridge/internal/oauth"
	"github.com/google/go-cmp/cmp"
)

func newTokenServer(t *testing.T, status int, body string) (*httptest.Server, *url.Values) {
	t.Helper()

	form := &url.Values{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		parsed, _ := url.ParseQuery(string(data))
		*form = parsed
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, form
}

func newService(srv *httptest.Server) *OAuth {
	cfg := oauth.NewConfig(config.GHL{
		ClientID:     "client",
		ClientSecret: "secret",
		TokenURL:     srv.URL + "/oauth/token",
	})
	return NewOAuth(cfg, srv.Client())
}

func TestHandleCallback(t *testing.T) {
	t.Parallel()

	srv, form := newTokenServer(t, http.StatusOK,
		`{"access_token":"at","token_type":"Bearer","expires_in":86399,"refresh_token":"rt","locationId":"loc-1","companyId":"co-1","userType":"Location"}`)

	got, err := newService(srv).HandleCallback(t.Context(), CallbackRequest{Code: "abc"})
	if err != nil {
		t.Fatalf("HandleCallback() error = %v", err)
	}

	want := Installation{LocationID: "loc-1", CompanyID: "co-1", UserType: "Location"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("HandleCallback() mismatch (-want +got):\n%s", diff)
	}

	for key, want := range map[string]string{
		"code":          "abc",
		"grant_type":    "authorization_code",
		"user_type":     "Location",
		"client_id":     "client",
		"client_secret": "secret",
	} {
		if got := form.Get(key); got != want {
			t.Errorf("form[%s] = %q, want %q", key, got, want)
		}
	}
}

func TestHandleCallbackErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		req     CallbackRequest
		wantErr error
	}{
		{name: "missing code", status: http.StatusOK, req: CallbackRequest{}, wantErr: ErrMissingCode},
		{name: "denied", status: http.StatusOK, req: CallbackRequest{ErrorCode: "access_denied"}, wantErr: ErrAuthDenied},
		{name: "exchange rejected", status: http.StatusBadRequest, req: CallbackRequest{Code: "stale"}, wantErr: ErrExchangeFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, _ := newTokenServer(t, tt.status, `{"error":"invalid_grant"}`)
			_, err := newService(srv).HandleCallback(t.Context(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("HandleCallback() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
