// Package money converts between user-facing decimal amounts and the integer
// minor units stored by the backend, and renders minor units for display.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var hundred = decimal.NewFromInt(100)

// ToMinorUnits returns round(amount * 100).
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits returns cents / 100.
func FromMinorUnits(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(hundred)
}

type SymbolPosition string

const (
	SymbolPrefix SymbolPosition = "prefix"
	SymbolSuffix SymbolPosition = "suffix"
)

// Formatter renders minor units as localized currency strings.
type Formatter struct {
	printer  *message.Printer
	symbol   string
	point    string
	position SymbolPosition
}

// NewFormatter builds a Formatter for an ISO 4217 code and a BCP 47 locale.
func NewFormatter(code, locale string, position SymbolPosition) (*Formatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency code %q: %w", code, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	switch position {
	case SymbolPrefix, SymbolSuffix:
	default:
		return nil, fmt.Errorf("invalid symbol position %q", position)
	}

	p := message.NewPrinter(tag)
	return &Formatter{
		printer:  p,
		symbol:   p.Sprint(currency.Symbol(unit)),
		point:    decimalPoint(p),
		position: position,
	}, nil
}

// MustFormatter is NewFormatter that panics on error. Intended for tests and defaults.
func MustFormatter(code, locale string, position SymbolPosition) *Formatter {
	f, err := NewFormatter(code, locale, position)
	if err != nil {
		panic(err)
	}
	return f
}

// Default formats US dollars the en-US way, e.g. "$1,234.56".
func Default() *Formatter {
	return MustFormatter("USD", "en-US", SymbolPrefix)
}

// decimalPoint returns the locale's decimal separator.
func decimalPoint(p *message.Printer) string {
	s := p.Sprint(number.Decimal(1.5, number.Scale(1)))
	return strings.TrimSuffix(strings.TrimPrefix(s, "1"), "5")
}

// Format renders cents exactly: the whole units are grouped by the locale
// and the two fraction digits are appended after its decimal separator.
func (f *Formatter) Format(cents int64) string {
	sign := ""
	magnitude := uint64(cents)
	if cents < 0 {
		sign = "-"
		magnitude = uint64(-(cents + 1)) + 1
	}
	whole := f.printer.Sprint(number.Decimal(magnitude / 100))
	digits := fmt.Sprintf("%s%s%02d", whole, f.point, magnitude%100)

	if f.position == SymbolSuffix {
		return sign + digits + " " + f.symbol
	}
	return sign + f.symbol + digits
}

// Symbol returns the currency symbol used by the formatter.
func (f *Formatter) Symbol() string {
	return strings.TrimSpace(f.symbol)
}
