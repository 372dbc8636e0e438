package oauth

import (
	"github.com/garrettladley/passbridge/internal/config"
	"golang.org/x/oauth2"
)

// Scopes requested when the app is installed on a location.
var scopes = []string{
	"contacts.readonly",
	"contacts.write",
	"locations.readonly",
}

// NewConfig builds the marketplace app's OAuth client. The token endpoint
// expects client credentials in the form body.
func NewConfig(ghl config.GHL) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     ghl.ClientID,
		ClientSecret: ghl.ClientSecret,
		RedirectURL:  ghl.RedirectURL,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   ghl.AuthURL,
			TokenURL:  ghl.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}
