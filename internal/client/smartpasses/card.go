package smartpasses

import (
	"bytes"

	go_json "github.com/goccy/go-json"
)

type CardSource int

const (
	// CardAbsent covers a missing or null card, an empty list, and any
	// value that is neither a list nor an object.
	CardAbsent CardSource = iota
	// CardFromList means the card was the first element of a list.
	CardFromList
	// CardFromObject means the card was a bare object.
	CardFromObject
)

// Card is the wallet pass attached to a customer.
type Card struct {
	Source             CardSource `json:"-"`
	URL                string     `json:"url"`
	SerialNumber       string     `json:"serialNumber"`
	PassTypeIdentifier string     `json:"passTypeIdentifier"`
}

func (c Card) Present() bool { return c.Source != CardAbsent }

// NormalizeCard reduces the provider's "card" value to at most one card.
// Precedence: a non-empty list yields its first element, an object is used
// as-is, anything else is absent.
func NormalizeCard(raw go_json.RawMessage) Card {
	trimmed := bytes.TrimSpace(raw)
	if isEmptyJSON(trimmed) {
		return Card{Source: CardAbsent}
	}

	switch trimmed[0] {
	case '[':
		var list []go_json.RawMessage
		if err := go_json.Unmarshal(trimmed, &list); err != nil || len(list) == 0 {
			return Card{Source: CardAbsent}
		}
		card, ok := decodeCardObject(list[0])
		if !ok {
			return Card{Source: CardAbsent}
		}
		card.Source = CardFromList
		return card
	case '{':
		card, ok := decodeCardObject(trimmed)
		if !ok {
			return Card{Source: CardAbsent}
		}
		card.Source = CardFromObject
		return card
	default:
		return Card{Source: CardAbsent}
	}
}

func decodeCardObject(raw go_json.RawMessage) (Card, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Card{}, false
	}
	var card Card
	if err := go_json.Unmarshal(trimmed, &card); err != nil {
		return Card{}, false
	}
	return card, true
}
