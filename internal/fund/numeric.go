package fund

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Numeric is a provider-supplied number kept verbatim as text.
// It decodes from either a JSON string or a JSON number and always encodes as a string.
type Numeric string

// UnmarshalJSON accepts "1.2345", 1.2345 and null.
func (n *Numeric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Numeric(strings.TrimSpace(s))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("numeric field: %w", err)
	}
	*n = Numeric(num.String())
	return nil
}

// IsEmpty reports whether the provider left the field blank.
func (n Numeric) IsEmpty() bool {
	return strings.TrimSpace(string(n)) == ""
}

// String returns the raw text.
func (n Numeric) String() string { return string(n) }

// Decimal parses the value on demand.
func (n Numeric) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(string(n)))
}
