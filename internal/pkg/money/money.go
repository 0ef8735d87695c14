// Package money holds the decimal helpers shared by pricing, cart and checkout.
//
// All arithmetic is done on decimal.Decimal values; rounding to cents happens
// only when an amount is formatted for display or serialised.
package money

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits shown to customers.
const Places = 2

// Parse reads a price as it appears in catalog responses and cart items.
// It tolerates a leading currency symbol, thousands separators and
// surrounding whitespace: "$1,250.50" and "1250.5" are the same amount.
func Parse(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return decimal.Zero, fmt.Errorf("money: empty amount")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("money: parse %q: %w", s, err)
	}
	return d, nil
}

// ParseOrZero is Parse with malformed input mapped to zero.
func ParseOrZero(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FromAny converts the loosely typed price values found in decoded JSON
// (string, float64, json.Number, integers, nil) into a decimal.
// A nil value is zero.
func FromAny(v any) (decimal.Decimal, error) {
	switch p := v.(type) {
	case nil:
		return decimal.Zero, nil
	case string:
		return Parse(p)
	case json.Number:
		return Parse(p.String())
	case float64:
		return decimal.NewFromFloat(p), nil
	case float32:
		return decimal.NewFromFloat32(p), nil
	case int:
		return decimal.NewFromInt(int64(p)), nil
	case int64:
		return decimal.NewFromInt(p), nil
	case decimal.Decimal:
		return p, nil
	default:
		return decimal.Zero, fmt.Errorf("money: unsupported price type %T", v)
	}
}

// Format renders d with two fractional digits, e.g. "625.00".
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// Round rounds d half away from zero to cents.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Amount is a decimal that serialises as a JSON number with two decimals.
// It accepts numbers and price strings on the way in.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps d.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// MustAmount parses s and panics on malformed input. Intended for fixtures.
func MustAmount(s string) Amount {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return Amount{Decimal: d}
}

func (a Amount) String() string {
	return Format(a.Decimal)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(Format(a.Decimal)), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("money: decode amount: %w", err)
		}
		d, err := Parse(s)
		if err != nil {
			return err
		}
		a.Decimal = d
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return fmt.Errorf("money: decode amount %s: %w", b, err)
	}
	a.Decimal = d
	return nil
}
