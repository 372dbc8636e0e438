package webhook

import (
	"context"
	"errors"
)

var (
	ErrMissingSignature = errors.New("missing webhook signature or secret")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
)

type ProcessRequest struct {
	Body      []byte
	Signature string
}

// Acknowledgement is returned for every verified delivery, handled or not.
type Acknowledgement struct {
	Status string `json:"status"`
	Type   string `json:"type"`
}

type Service interface {
	// ProcessWebhook verifies the signature over the raw body before parsing
	// it, then dispatches on the event type.
	// Returns ErrMissingSignature if the header or the shared secret is empty.
	// Returns ErrInvalidSignature if the signature doesn't match.
	// Returns ErrInvalidPayload if the verified body is not a typed JSON object.
	ProcessWebhook(ctx context.Context, req ProcessRequest) (Acknowledgement, error)
}
