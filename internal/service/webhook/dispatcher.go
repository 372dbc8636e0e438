package webhook

import (
	"context"
	"fmt"

	"github.com/garrettladley/passbridge/internal/xslog"
)

type HandlerFunc func(ctx context.Context, event Event) error

// Dispatcher routes verified events by type. Unknown types are not an error.
type Dispatcher struct {
	handlers map[string]HandlerFunc
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]HandlerFunc)}
}

// NewContactDispatcher registers the contact lifecycle handlers.
func NewContactDispatcher() *Dispatcher {
	d := NewDispatcher()
	d.Handle(EventContactCreated, logContact("contact created"))
	d.Handle(EventContactUpdated, logContact("contact updated"))
	d.Handle(EventContactDeleted, logContact("contact deleted"))
	return d
}

// Handle registers fn for eventType, replacing any previous handler.
func (d *Dispatcher) Handle(eventType string, fn HandlerFunc) {
	d.handlers[eventType] = fn
}

// Dispatch reports whether a handler was registered for the event type.
// Handler errors and panics are logged and never surface to the sender.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) (handled bool) {
	logger := xslog.FromContext(ctx)

	fn, ok := d.handlers[event.Type]
	if !ok {
		logger.InfoContext(ctx, "unhandled webhook type", xslog.EventType(event.Type))
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "webhook handler panicked",
				xslog.EventType(event.Type),
				xslog.Error(fmt.Errorf("panic: %v", r)),
			)
		}
	}()

	if err := fn(ctx, event); err != nil {
		logger.ErrorContext(ctx, "webhook handler failed",
			xslog.EventType(event.Type),
			xslog.Error(err),
		)
	}
	return true
}

func logContact(msg string) HandlerFunc {
	return func(ctx context.Context, event Event) error {
		xslog.FromContext(ctx).InfoContext(ctx, msg,
			xslog.EventType(event.Type),
			xslog.CustomerID(event.ContactRef()),
		)
		return nil
	}
}
