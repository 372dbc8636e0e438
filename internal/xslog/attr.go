package xslog

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/garrettladley/passbridge/internal/version"
	"github.com/garrettladley/passbridge/internal/xhttp"
)

const keyError = "error"

func Error(err error) slog.Attr {
	return slog.String(keyError, err.Error())
}

func RequestID(requestID string) slog.Attr {
	const requestIDKey = "request_id"
	return slog.String(requestIDKey, requestID)
}

func Stack() slog.Attr {
	const stackKey = "stack"
	return slog.String(stackKey, string(debug.Stack()))
}

func HTTPStatus(status int) slog.Attr {
	const statusKey = "status"
	return slog.Int(statusKey, status)
}

func Duration(duration time.Duration) slog.Attr {
	const durationKey = "duration"
	return slog.Duration(durationKey, duration)
}

func RequestMethod(r *http.Request) slog.Attr {
	const methodKey = "method"
	return slog.String(methodKey, r.Method)
}

func RequestPath(r *http.Request) slog.Attr {
	const pathKey = "path"
	return slog.String(pathKey, r.URL.Path)
}

func IP(ip string) slog.Attr {
	const ipKey = "ip"
	return slog.String(ipKey, ip)
}

func RequestIP(r *http.Request) slog.Attr {
	return IP(xhttp.GetRequestIP(r))
}

func Version() slog.Attr {
	const versionKey = "version"
	return slog.String(versionKey, version.Get())
}

func TenantID(tenantID string) slog.Attr {
	const tenantIDKey = "tenant_id"
	return slog.String(tenantIDKey, tenantID)
}

func ProgramID(programID string) slog.Attr {
	const programIDKey = "program_id"
	return slog.String(programIDKey, programID)
}

func CustomerID(customerID string) slog.Attr {
	const customerIDKey = "customer_id"
	return slog.String(customerIDKey, customerID)
}

func Action(action string) slog.Attr {
	const actionKey = "action"
	return slog.String(actionKey, action)
}

func EventType(eventType string) slog.Attr {
	const eventTypeKey = "event_type"
	return slog.String(eventTypeKey, eventType)
}

func Field(field string) slog.Attr {
	const fieldKey = "field"
	return slog.String(fieldKey, field)
}

func Driver(driver string) slog.Attr {
	const driverKey = "driver"
	return slog.String(driverKey, driver)
}

func Port(port string) slog.Attr {
	const portKey = "port"
	return slog.String(portKey, port)
}

func CompanyID(companyID string) slog.Attr {
	const companyIDKey = "company_id"
	return slog.String(companyIDKey, companyID)
}

func UserType(userType string) slog.Attr {
	const userTypeKey = "user_type"
	return slog.String(userTypeKey, userType)
}

func Dependency(name string) slog.Attr {
	const dependencyKey = "dependency"
	return slog.String(dependencyKey, name)
}
