package action

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/garrettladley/passbridge/internal/client/smartpasses"
	"github.com/garrettladley/passbridge/internal/service/tenant"
)

type createCustomerBody struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type updateCustomerBody struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Points    *int64 `json:"points,omitempty"`
}

func (b updateCustomerBody) empty() bool {
	return b == updateCustomerBody{}
}

type pointsBody struct {
	Points int64 `json:"points"`
}

type broadcastBody struct {
	Message string `json:"message"`
}

func customersPath(rc tenant.ResolvedContext) string {
	return "/programs/" + url.PathEscape(rc.ProgramID) + "/customers"
}

func customerPath(rc tenant.ResolvedContext, customerID FlexString) string {
	return customersPath(rc) + "/" + url.PathEscape(string(customerID))
}

func translateCreateCustomer(rc tenant.ResolvedContext, req CreateCustomerRequest) (smartpasses.Request, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return smartpasses.Request{}, required("contact_email")
	}

	return smartpasses.Request{
		Action: string(NameCreateCustomer),
		Method: http.MethodPost,
		Path:   customersPath(rc),
		Body: createCustomerBody{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     email,
			Phone:     req.Phone,
		},
	}, nil
}

func translateGetCustomer(rc tenant.ResolvedContext, req CustomerRequest) (smartpasses.Request, error) {
	if req.CustomerID == "" {
		return smartpasses.Request{}, required("customer_id")
	}
	return smartpasses.Request{
		Action: string(NameGetCustomer),
		Method: http.MethodGet,
		Path:   customerPath(rc, req.CustomerID),
	}, nil
}

func translateUpdateCustomer(rc tenant.ResolvedContext, req UpdateCustomerRequest) (smartpasses.Request, error) {
	if req.CustomerID == "" {
		return smartpasses.Request{}, required("customer_id")
	}

	body := updateCustomerBody{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if req.Points != nil {
		points, err := req.Points.Int64()
		if err != nil {
			return smartpasses.Request{}, &ValidationError{Field: "points", Message: "points must be an integer."}
		}
		body.Points = &points
	}
	if body.empty() {
		return smartpasses.Request{}, &ValidationError{
			Field:   "fields",
			Message: "At least one of first_name, last_name, email, phone or points is required.",
		}
	}

	return smartpasses.Request{
		Action: string(NameUpdateCustomer),
		Method: http.MethodPut,
		Path:   customerPath(rc, req.CustomerID),
		Body:   body,
	}, nil
}

func translateDeleteCustomer(rc tenant.ResolvedContext, req CustomerRequest) (smartpasses.Request, error) {
	if req.CustomerID == "" {
		return smartpasses.Request{}, required("customer_id")
	}
	return smartpasses.Request{
		Action: string(NameDeleteCustomer),
		Method: http.MethodDelete,
		Path:   customerPath(rc, req.CustomerID),
	}, nil
}

func translateAddPoints(rc tenant.ResolvedContext, req AddPointsRequest) (smartpasses.Request, error) {
	if req.CustomerID == "" {
		return smartpasses.Request{}, required("customer_id")
	}
	if req.PointsToAdd == nil {
		return smartpasses.Request{}, required("points_to_add")
	}
	points, err := req.PointsToAdd.Int64()
	if err != nil {
		return smartpasses.Request{}, &ValidationError{Field: "points_to_add", Message: "points_to_add must be an integer."}
	}
	if points == 0 {
		return smartpasses.Request{}, required("points_to_add")
	}

	return smartpasses.Request{
		Action: string(NameAddPoints),
		Method: http.MethodPost,
		Path:   customerPath(rc, req.CustomerID) + "/points/add",
		Body:   pointsBody{Points: points},
	}, nil
}

func translateSendPush(rc tenant.ResolvedContext, req SendPushRequest) (smartpasses.Request, error) {
	if strings.TrimSpace(req.Message) == "" {
		return smartpasses.Request{}, required("message")
	}
	return smartpasses.Request{
		Action: string(NameSendPush),
		Method: http.MethodPost,
		Path:   "/programs/" + url.PathEscape(rc.ProgramID) + "/broadcast",
		Body:   broadcastBody{Message: req.Message},
	}, nil
}
