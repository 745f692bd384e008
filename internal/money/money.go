package money

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidMoney = errors.New("invalid money amount")
)

// maxAmount keeps amounts inside the range a float64 represents exactly to the cent.
const maxAmount = 9e13

// FromFloat converts a user-supplied amount to a decimal rounded to cents.
// Amounts are magnitudes: NaN, infinities and negatives are rejected.
func FromFloat(v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, ErrInvalidMoney
	}
	if v < 0 {
		return decimal.Zero, fmt.Errorf("%w: must not be negative", ErrInvalidMoney)
	}
	if v > maxAmount {
		return decimal.Zero, fmt.Errorf("%w: too large", ErrInvalidMoney)
	}
	return decimal.NewFromFloat(v).Round(2), nil
}

// Validate reports whether v is an acceptable transaction amount.
func Validate(v float64) error {
	_, err := FromFloat(v)
	return err
}

// Format renders d with exactly two decimals, e.g. "-12.30".
func Format(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

// FormatFloat is Format for raw stored amounts.
func FormatFloat(v float64) string {
	return Format(decimal.NewFromFloat(v))
}
