package smartpasses

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want Card
	}{
		{name: "absent", raw: "", want: Card{Source: CardAbsent}},
		{name: "null", raw: "null", want: Card{Source: CardAbsent}},
		{name: "empty list", raw: "[]", want: Card{Source: CardAbsent}},
		{name: "string", raw: `"card-1"`, want: Card{Source: CardAbsent}},
		{name: "list of null", raw: `[null]`, want: Card{Source: CardAbsent}},
		{
			name: "object",
			raw:  `{"url":"https://pass/1","serialNumber":"SN1","passTypeIdentifier":"pass.com.x"}`,
			want: Card{Source: CardFromObject, URL: "https://pass/1", SerialNumber: "SN1", PassTypeIdentifier: "pass.com.x"},
		},
		{
			name: "list takes first element",
			raw:  `[{"url":"https://pass/1","serialNumber":"SN1"},{"url":"https://pass/2","serialNumber":"SN2"}]`,
			want: Card{Source: CardFromList, URL: "https://pass/1", SerialNumber: "SN1"},
		},
		{
			name: "object with extra fields",
			raw:  ` {"url":"u","id":7,"passTypeIdentifier":"p"} `,
			want: Card{Source: CardFromObject, URL: "u", PassTypeIdentifier: "p"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := NormalizeCard([]byte(tt.raw))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NormalizeCard(%s) mismatch (-want +got):\n%s", tt.raw, diff)
			}
			if got.Present() != (tt.want.Source != CardAbsent) {
				t.Errorf("Present() = %v, want %v", got.Present(), tt.want.Source != CardAbsent)
			}
		})
	}
}

func TestCustomerHasID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want bool
	}{
		{raw: ``, want: false},
		{raw: `null`, want: false},
		{raw: `""`, want: false},
		{raw: `"cus_123"`, want: true},
		{raw: `42`, want: true},
	}

	for _, tt := range tests {
		if got := (Customer{ID: []byte(tt.raw)}).HasID(); got != tt.want {
			t.Errorf("Customer{ID: %s}.HasID() = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
