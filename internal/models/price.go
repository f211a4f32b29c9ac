package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Price is a listing price. It holds either a numeric amount in the base
// currency unit or free text such as "1 lakh Rs" or "Price on request".
// The zero value means no price.
type Price struct {
	Amount  float64
	Text    string
	Numeric bool
}

// NumericPrice builds a numeric price.
func NumericPrice(amount float64) Price {
	return Price{Amount: amount, Numeric: true}
}

// ParsePrice turns user input into a Price. Strings that parse as a finite
// number become numeric, anything else is kept as text.
func ParsePrice(s string) Price {
	s = strings.TrimSpace(s)
	if s == "" {
		return Price{}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return NumericPrice(f)
	}
	return Price{Text: s}
}

// IsZero reports whether no price was given.
func (p Price) IsZero() bool {
	return !p.Numeric && p.Text == ""
}

// Raw returns the price as float64, string or nil, the shape the currency
// formatter accepts.
func (p Price) Raw() any {
	switch {
	case p.Numeric:
		return p.Amount
	case p.Text != "":
		return p.Text
	default:
		return nil
	}
}

func (p Price) String() string {
	switch {
	case p.Numeric:
		return strconv.FormatFloat(p.Amount, 'f', -1, 64)
	default:
		return p.Text
	}
}

func (p Price) MarshalJSON() ([]byte, error) {
	switch {
	case p.Numeric:
		if math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) {
			return nil, fmt.Errorf("price amount is not finite")
		}
		return []byte(strconv.FormatFloat(p.Amount, 'f', -1, 64)), nil
	case p.Text != "":
		return json.Marshal(p.Text)
	default:
		return []byte("null"), nil
	}
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = Price{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid price: %w", err)
		}
		*p = ParsePrice(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("price must be a number or a string: %w", err)
	}
	*p = NumericPrice(f)
	return nil
}

// Value stores the price as text so both shapes fit one column.
func (p Price) Value() (driver.Value, error) {
	if p.IsZero() {
		return nil, nil
	}
	return p.String(), nil
}

func (p *Price) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = Price{}
	case string:
		*p = ParsePrice(v)
	case []byte:
		*p = ParsePrice(string(v))
	case float64:
		*p = NumericPrice(v)
	case int64:
		*p = NumericPrice(float64(v))
	default:
		return fmt.Errorf("unsupported price column type %T", src)
	}
	return nil
}
