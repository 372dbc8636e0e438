package action

import (
	"context"
	"fmt"

	"github.com/garrettladley/passbridge/internal/client/smartpasses"
	"github.com/garrettladley/passbridge/internal/service/tenant"
	"github.com/garrettladley/passbridge/internal/xslog"
	go_json "github.com/goccy/go-json"
)

const statusSuccess = "success"

// Gateway executes one provider request. *smartpasses.Client satisfies it.
type Gateway interface {
	Do(ctx context.Context, apiKey string, req smartpasses.Request) (*smartpasses.Response, error)
}

type Actions struct {
	tenants tenant.Service
	gateway Gateway
}

var _ Service = (*Actions)(nil)

func NewActions(tenants tenant.Service, gateway Gateway) *Actions {
	return &Actions{tenants: tenants, gateway: gateway}
}

// run resolves the tenant, translates, and executes. The provider call is
// detached from the inbound request's cancellation so a dropped client does
// not abort a mutation midway.
func run[R any](ctx context.Context, a *Actions, t Tenant, req R, translate func(tenant.ResolvedContext, R) (smartpasses.Request, error)) (*smartpasses.Response, error) {
	rc, err := a.tenants.Resolve(ctx, t.resolveRequest())
	if err != nil {
		return nil, err
	}

	out, err := translate(rc, req)
	if err != nil {
		return nil, err
	}

	ctx = xslog.WithAttrs(ctx, xslog.TenantID(rc.TenantID), xslog.ProgramID(rc.ProgramID))
	return a.gateway.Do(context.WithoutCancel(ctx), rc.APIKey, out)
}

func (a *Actions) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (CreateCustomerResult, error) {
	resp, err := run(ctx, a, req.Tenant, req, translateCreateCustomer)
	if err != nil {
		return CreateCustomerResult{}, err
	}

	var customer smartpasses.Customer
	if err := resp.Decode(&customer); err != nil {
		return CreateCustomerResult{}, err
	}
	if !customer.HasID() {
		return CreateCustomerResult{}, ErrMissingCustomerID
	}

	result := CreateCustomerResult{
		CustomerID: customer.ID,
		Status:     statusSuccess,
	}
	if card := smartpasses.NormalizeCard(customer.Card); card.Present() {
		result.PassURL = card.URL
		result.SerialNumber = card.SerialNumber
		result.PassTypeIdentifier = card.PassTypeIdentifier
	} else {
		xslog.FromContext(ctx).InfoContext(ctx, "created customer has no card", xslog.CustomerID(string(customer.ID)))
	}

	return result, nil
}

func (a *Actions) GetCustomer(ctx context.Context, req CustomerRequest) (go_json.RawMessage, error) {
	resp, err := run(ctx, a, req.Tenant, req, translateGetCustomer)
	if err != nil {
		return nil, err
	}
	return passthrough(resp)
}

func (a *Actions) UpdateCustomer(ctx context.Context, req UpdateCustomerRequest) (go_json.RawMessage, error) {
	resp, err := run(ctx, a, req.Tenant, req, translateUpdateCustomer)
	if err != nil {
		return nil, err
	}
	return passthrough(resp)
}

func (a *Actions) DeleteCustomer(ctx context.Context, req CustomerRequest) (StatusMessage, error) {
	if _, err := run(ctx, a, req.Tenant, req, translateDeleteCustomer); err != nil {
		return StatusMessage{}, err
	}
	return StatusMessage{Status: statusSuccess, Message: "Customer deleted successfully"}, nil
}

func (a *Actions) AddPoints(ctx context.Context, req AddPointsRequest) (AddPointsResult, error) {
	resp, err := run(ctx, a, req.Tenant, req, translateAddPoints)
	if err != nil {
		return AddPointsResult{}, err
	}

	var balance smartpasses.PointsBalance
	if err := resp.Decode(&balance); err != nil {
		return AddPointsResult{}, err
	}
	total := balance.Points
	if len(total) == 0 {
		total = go_json.RawMessage("null")
	}

	return AddPointsResult{NewPointTotal: total, Status: statusSuccess}, nil
}

func (a *Actions) SendPush(ctx context.Context, req SendPushRequest) (StatusMessage, error) {
	if _, err := run(ctx, a, req.Tenant, req, translateSendPush); err != nil {
		return StatusMessage{}, err
	}
	return StatusMessage{Status: statusSuccess, Message: "Push notification sent successfully"}, nil
}

func passthrough(resp *smartpasses.Response) (go_json.RawMessage, error) {
	if !go_json.Valid(resp.Body) {
		return nil, fmt.Errorf("%w: body is not json", smartpasses.ErrMalformedResponse)
	}
	return go_json.RawMessage(resp.Body), nil
}
