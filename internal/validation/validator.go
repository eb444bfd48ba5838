// Package validation turns raw form values into typed records or a map of
// field errors. It performs no I/O.
package validation

import (
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldErrors maps a form field name to its error messages.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator with form tag names and custom rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			}
			return name
		})
		_ = v.RegisterValidation("amount_gt0", amountGreaterThanZero)
		_ = v.RegisterValidation("notblank", notBlank)
		instance = v
	})
	return instance
}

// ParseAmount coerces a form value to a decimal.
func ParseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}

var (
	minCents = decimal.NewFromInt(1)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// amountGreaterThanZero accepts amounts that round to at least one cent
// and whose cents fit the stored int64.
func amountGreaterThanZero(fl validator.FieldLevel) bool {
	d, err := ParseAmount(fl.Field().String())
	if err != nil {
		return false
	}
	return AmountInRange(d)
}

// AmountInRange reports whether round(d * 100) lies in [1, MaxInt64].
func AmountInRange(d decimal.Decimal) bool {
	cents := d.Mul(decimal.NewFromInt(100)).Round(0)
	return cents.GreaterThanOrEqual(minCents) && cents.LessThanOrEqual(maxCents)
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// collect converts validator errors into FieldErrors using the per-field messages.
// Fields without a message fall back to a generic one.
func collect(err error, messages map[string]string) FieldErrors {
	fe := FieldErrors{}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		fe.Add("form", "Invalid value")
		return fe
	}
	for _, e := range errs {
		msg, ok := messages[e.Field()]
		if !ok {
			msg = "Invalid value"
		}
		if existing := fe[e.Field()]; len(existing) > 0 && existing[len(existing)-1] == msg {
			continue
		}
		fe.Add(e.Field(), msg)
	}
	return fe
}
