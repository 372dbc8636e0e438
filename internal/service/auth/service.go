package auth

import (
	"context"
	"errors"
)

var (
	ErrMissingCode  = errors.New("missing authorization code")
	ErrAuthDenied   = errors.New("authorization denied")
	ErrExchangeFail = errors.New("token exchange failed")
)

type CallbackRequest struct {
	Code      string
	ErrorCode string
	ErrorDesc string
}

// Installation identifies where the app was installed. Tokens are not kept;
// credentials for the loyalty provider are entered on the settings page.
type Installation struct {
	LocationID string
	CompanyID  string
	UserType   string
}

type Service interface {
	// HandleCallback exchanges the authorization code.
	// Returns ErrAuthDenied if the platform reported an error.
	// Returns ErrMissingCode if code is empty.
	// Returns an error wrapping ErrExchangeFail if the token endpoint refused
	// the code or could not be reached.
	HandleCallback(ctx context.Context, req CallbackRequest) (Installation, error)
}
