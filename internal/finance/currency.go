package finance

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is rendered for missing or unusable amounts.
const Placeholder = "—"

var symbols = map[currency.Unit]string{
	currency.INR: "₹",
	currency.USD: "$",
	currency.EUR: "€",
	currency.GBP: "£",
	currency.JPY: "¥",
	currency.MustParseISO("AED"): "AED ",
}

// FormatterConfig selects the locale and currency used for display
type FormatterConfig struct {
	Locale       string
	CurrencyCode string
}

// Formatter renders prices as currency strings. It is safe for concurrent use.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
	symbol  string
}

// rawValuer is implemented by values that carry either a number or free text,
// such as models.Price.
type rawValuer interface {
	Raw() any
}

func NewFormatter(cfg FormatterConfig) (*Formatter, error) {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("invalid currency locale %q: %w", cfg.Locale, err)
	}

	unit, err := currency.ParseISO(cfg.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("invalid currency code %q: %w", cfg.CurrencyCode, err)
	}

	symbol, ok := symbols[unit]
	if !ok {
		symbol = unit.String() + " "
	}

	return &Formatter{
		printer: message.NewPrinter(tag),
		unit:    unit,
		symbol:  symbol,
	}, nil
}

// Currency returns the ISO code of the configured currency
func (f *Formatter) Currency() string {
	return f.unit.String()
}

// Format renders value for display:
//   - nil, blank strings and non-finite numbers give Placeholder;
//   - numbers and numeric strings are rounded to whole units and grouped
//     according to the locale, prefixed with the currency symbol;
//   - any other string is returned unchanged.
func (f *Formatter) Format(value any) string {
	if rv, ok := value.(rawValuer); ok {
		value = rv.Raw()
	}

	switch v := value.(type) {
	case nil:
		return Placeholder
	case string:
		return f.formatText(v)
	case json.Number:
		return f.formatText(v.String())
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Placeholder
		}
		return f.Format(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return f.FormatAmount(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return f.FormatAmount(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return f.FormatAmount(rv.Float())
	case reflect.String:
		return f.formatText(rv.String())
	default:
		return fmt.Sprint(value)
	}
}

// FormatAmount renders a numeric amount.
func (f *Formatter) FormatAmount(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Placeholder
	}

	rounded := RoundUnits(amount)
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}

	digits := f.printer.Sprint(number.Decimal(rounded, number.MaxFractionDigits(0)))
	return sign + f.symbol + digits
}

func (f *Formatter) formatText(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Placeholder
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return s
	}
	return f.FormatAmount(n)
}
