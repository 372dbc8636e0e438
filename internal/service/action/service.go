package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/garrettladley/passbridge/internal/client/smartpasses"
	"github.com/garrettladley/passbridge/internal/service/tenant"
	go_json "github.com/goccy/go-json"
)

type Name string

const (
	NameCreateCustomer Name = "create_customer"
	NameGetCustomer    Name = "get_customer"
	NameUpdateCustomer Name = "update_customer"
	NameDeleteCustomer Name = "delete_customer"
	NameAddPoints      Name = "add_points"
	NameSendPush       Name = "send_push"
)

// ErrMissingCustomerID means the provider accepted a create but returned no
// customer id. It is a transport-class failure.
var ErrMissingCustomerID = fmt.Errorf("%w: provider returned no customer id", smartpasses.ErrTransport)

// ValidationError is a missing or malformed action field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func required(field string) *ValidationError {
	return &ValidationError{Field: field, Message: field + " is required."}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Tenant carries the tenant selection shared by every action payload.
// location_id is the primary key and locationId its legacy alias.
type Tenant struct {
	LocationID       string     `json:"location_id"`
	LegacyLocationID string     `json:"locationId"`
	ProgramID        FlexString `json:"program_id"`
}

// TenantID returns location_id, falling back to locationId.
func (t Tenant) TenantID() string {
	if t.LocationID != "" {
		return t.LocationID
	}
	return t.LegacyLocationID
}

func (t Tenant) resolveRequest() tenant.ResolveRequest {
	return tenant.ResolveRequest{TenantID: t.TenantID(), ProgramID: string(t.ProgramID)}
}

type CreateCustomerRequest struct {
	Tenant
	Email     string `json:"contact_email"`
	FirstName string `json:"contact_first_name"`
	LastName  string `json:"contact_last_name"`
	Phone     string `json:"contact_phone"`
}

// CustomerRequest addresses one customer; used by get and delete.
type CustomerRequest struct {
	Tenant
	CustomerID FlexString `json:"customer_id"`
}

// UpdateCustomerRequest fields left empty are not sent. Points is checked by
// presence so an explicit zero is forwarded.
type UpdateCustomerRequest struct {
	Tenant
	CustomerID FlexString `json:"customer_id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Points     *Number    `json:"points"`
}

type AddPointsRequest struct {
	Tenant
	CustomerID  FlexString `json:"customer_id"`
	PointsToAdd *Number    `json:"points_to_add"`
}

type SendPushRequest struct {
	Tenant
	Message string `json:"message"`
}

type CreateCustomerResult struct {
	CustomerID         go_json.RawMessage `json:"customer_id"`
	Status             string             `json:"status"`
	PassURL            string             `json:"pass_url,omitempty"`
	SerialNumber       string             `json:"serial_number,omitempty"`
	PassTypeIdentifier string             `json:"pass_type_identifier,omitempty"`
}

type AddPointsResult struct {
	NewPointTotal go_json.RawMessage `json:"new_point_total"`
	Status        string             `json:"status"`
}

type StatusMessage struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Service runs workflow actions against the loyalty provider. Every method
// resolves the tenant first and returns the resolver's errors unchanged, then
// a *ValidationError before any provider call, then *smartpasses.APIError or
// an error wrapping smartpasses.ErrTransport.
type Service interface {
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (CreateCustomerResult, error)
	// GetCustomer returns the provider's customer JSON unchanged.
	GetCustomer(ctx context.Context, req CustomerRequest) (go_json.RawMessage, error)
	// UpdateCustomer returns the provider's customer JSON unchanged.
	UpdateCustomer(ctx context.Context, req UpdateCustomerRequest) (go_json.RawMessage, error)
	DeleteCustomer(ctx context.Context, req CustomerRequest) (StatusMessage, error)
	AddPoints(ctx context.Context, req AddPointsRequest) (AddPointsResult, error)
	SendPush(ctx context.Context, req SendPushRequest) (StatusMessage, error)
}
