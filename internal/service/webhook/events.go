package webhook

import (
	"fmt"
	"strings"

	go_json "github.com/goccy/go-json"
)

const (
	EventContactCreated = "contact.created"
	EventContactUpdated = "contact.updated"
	EventContactDeleted = "contact.deleted"
)

type Contact struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Event is an inbound webhook after signature verification. Raw keeps the
// full payload for handlers that need fields beyond the common ones.
type Event struct {
	Type       string   `json:"type"`
	LocationID string   `json:"locationId"`
	ContactID  string   `json:"contactId"`
	Contact    *Contact `json:"contact"`

	Raw go_json.RawMessage `json:"-"`
}

// ContactRef picks the most specific identifier available for log lines.
func (e Event) ContactRef() string {
	switch {
	case e.Contact != nil && e.Contact.Email != "":
		return e.Contact.Email
	case e.Contact != nil && e.Contact.ID != "":
		return e.Contact.ID
	default:
		return e.ContactID
	}
}

// ParseEvent decodes a verified body. The body must be a JSON object with a
// non-empty string "type".
func ParseEvent(data []byte) (Event, error) {
	var event Event
	if err := go_json.Unmarshal(data, &event); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	event.Type = strings.TrimSpace(event.Type)
	if event.Type == "" {
		return Event{}, fmt.Errorf("%w: missing type", ErrInvalidPayload)
	}
	event.Raw = go_json.RawMessage(data)
	return event, nil
}
