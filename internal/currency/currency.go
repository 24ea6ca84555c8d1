// Package currency converts between ledger amounts, which are integers in a
// currency's minor unit, and human readable major-unit amounts.
package currency

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Lookup returns the ISO 4217 definition of code.
func Lookup(code string) (*money.Currency, error) {
	c := money.GetCurrency(strings.ToUpper(code))
	if c == nil {
		return nil, fmt.Errorf("unknown currency %q", code)
	}

	return c, nil
}

// Valid reports whether code is a known currency.
func Valid(code string) bool {
	_, err := Lookup(code)
	return err == nil
}

// Format renders amount with the currency's symbol and separators.
// Unknown codes fall back to the plain integer followed by the code.
func Format(amount int64, code string) string {
	c, err := Lookup(code)
	if err != nil {
		return fmt.Sprintf("%d %s", amount, code)
	}

	return money.New(amount, c.Code).Display()
}

// Signed is Format with an explicit plus sign on positive amounts.
func Signed(amount int64, code string) string {
	if amount > 0 {
		return "+" + Format(amount, code)
	}

	return Format(amount, code)
}

// ToMajor converts a minor-unit amount into major units.
func ToMajor(amount int64, code string) (decimal.Decimal, error) {
	c, err := Lookup(code)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return decimal.New(amount, -int32(c.Fraction)), nil
}

// FormatMajor renders amount in major units with the currency's number of
// decimal places and a dot separator, e.g. "250.00".
func FormatMajor(amount int64, code string) (string, error) {
	c, err := Lookup(code)
	if err != nil {
		return "", err
	}

	return decimal.New(amount, -int32(c.Fraction)).StringFixed(int32(c.Fraction)), nil
}

// ParseMajor parses a major-unit amount such as "12.5" into minor units.
// More decimal places than the currency has are rejected.
func ParseMajor(s, code string) (int64, error) {
	c, err := Lookup(code)
	if err != nil {
		return 0, err
	}

	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	minor := d.Shift(int32(c.Fraction))
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has more than %d decimal places", s, c.Fraction)
	}

	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return 0, fmt.Errorf("amount %q is out of range", s)
	}

	return minor.IntPart(), nil
}

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)
