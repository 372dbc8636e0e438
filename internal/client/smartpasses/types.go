package smartpasses

import (
	"bytes"

	go_json "github.com/goccy/go-json"
)

// Customer is the subset of the provider's customer record the bridge reads.
// ID is kept raw because the provider may send it as a number or a string.
type Customer struct {
	ID   go_json.RawMessage `json:"id"`
	Card go_json.RawMessage `json:"card"`
}

// HasID reports whether the record carries a usable identifier.
func (c Customer) HasID() bool {
	return !isEmptyJSON(c.ID) && !bytes.Equal(bytes.TrimSpace(c.ID), []byte(`""`))
}

// PointsBalance is the provider's answer to a points mutation.
type PointsBalance struct {
	Points go_json.RawMessage `json:"points"`
}

func isEmptyJSON(raw go_json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
