package action

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	go_json "github.com/goccy/go-json"
)

var errNotInteger = errors.New("not an integer")

// Number is a JSON value expected to hold an integer. Workflow payloads send
// numbers as either JSON numbers or strings, so conversion happens at
// translation time where a failure can name the field.
type Number struct {
	raw go_json.RawMessage
}

func NewNumber(raw string) *Number {
	return &Number{raw: go_json.RawMessage(raw)}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	n.raw = append(n.raw[:0], b...)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if len(n.raw) == 0 {
		return []byte("null"), nil
	}
	return n.raw, nil
}

// Int64 accepts JSON integers, integral floats, and strings holding either.
func (n Number) Int64() (int64, error) {
	raw := bytes.TrimSpace(n.raw)
	if len(raw) == 0 {
		return 0, errNotInteger
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := go_json.Unmarshal(raw, &s); err != nil {
			return 0, errNotInteger
		}
		text = strings.TrimSpace(s)
	}

	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, errNotInteger
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, errNotInteger
	}
	return int64(f), nil
}

// FlexString is an identifier sent as a JSON string or number. null leaves
// it empty.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		*s = ""
		return nil
	case raw[0] == '"':
		var v string
		if err := go_json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*s = FlexString(strings.TrimSpace(v))
		return nil
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		*s = FlexString(raw)
		return nil
	default:
		return fmt.Errorf("identifier must be a string or number, got %s", raw)
	}
}
