package oauth

import (
	"testing"

	"github.com/garrettladley/passbridge/internal/config"
	"golang.org/x/oauth2"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig(config.GHL{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "https://bridge.example.com/oauth/callback",
		TokenURL:     "https://auth.example.com/oauth/token",
		AuthURL:      "https://auth.example.com/oauth/chooselocation",
	})

	if cfg.Endpoint.AuthStyle != oauth2.AuthStyleInParams {
		t.Errorf("AuthStyle = %v, want AuthStyleInParams", cfg.Endpoint.AuthStyle)
	}
	if cfg.Endpoint.TokenURL != "https://auth.example.com/oauth/token" {
		t.Errorf("TokenURL = %q, want configured url", cfg.Endpoint.TokenURL)
	}
	if cfg.ClientID != "client" || cfg.ClientSecret != "secret" {
		t.Errorf("client credentials = %q/%q, want client/secret", cfg.ClientID, cfg.ClientSecret)
	}
}
