package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/garrettladley/passbridge/internal/oauth"
	"github.com/garrettladley/passbridge/internal/xslog"
	"golang.org/x/oauth2"
)

const exchangeTimeout = 10 * time.Second

type OAuth struct {
	config     *oauth2.Config
	httpClient *http.Client
}

var _ Service = (*OAuth)(nil)

// NewOAuth uses httpClient for the token exchange; nil selects
// http.DefaultClient.
func NewOAuth(config *oauth2.Config, httpClient *http.Client) *OAuth {
	return &OAuth{config: config, httpClient: httpClient}
}

func (s *OAuth) HandleCallback(ctx context.Context, req CallbackRequest) (Installation, error) {
	if req.ErrorCode != "" {
		return Installation{}, fmt.Errorf("%w: %s %s", ErrAuthDenied, req.ErrorCode, req.ErrorDesc)
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return Installation{}, ErrMissingCode
	}

	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()
	if s.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	}

	token, err := s.config.Exchange(ctx, code, oauth2.SetAuthURLParam(oauth.ParamUserType, oauth.UserTypeLocation))
	if err != nil {
		return Installation{}, fmt.Errorf("%w: %w", ErrExchangeFail, err)
	}

	install := Installation{
		LocationID: extraString(token, oauth.ExtraLocationID),
		CompanyID:  extraString(token, oauth.ExtraCompanyID),
		UserType:   extraString(token, oauth.ExtraUserType),
	}

	xslog.FromContext(ctx).InfoContext(ctx, "app installed",
		xslog.TenantID(install.LocationID),
		xslog.CompanyID(install.CompanyID),
		xslog.UserType(install.UserType),
	)

	return install, nil
}

func extraString(token *oauth2.Token, key string) string {
	if v, ok := token.Extra(key).(string); ok {
		return v
	}
	return ""
}
