package valutatrade

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ParseAmount parses a strictly positive decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if err := checkPositive(v); err != nil {
		return decimal.Zero, err
	}
	return v, nil
}

func checkPositive(v decimal.Decimal) error {
	if !v.IsPositive() {
		return fmt.Errorf("%w: %s must be strictly positive", ErrInvalidAmount, v)
	}
	return nil
}

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// FormatAmount renders an amount for humans.
//
// Crypto amounts keep 8 digits, fiat amounts use the go-money formatter of the code.
func FormatAmount(v decimal.Decimal, c Currency) string {
	if c.Kind == Crypto {
		return v.StringFixed(8) + " " + c.Code
	}
	cur := money.GetCurrency(c.Code)
	if cur == nil {
		return v.StringFixed(2) + " " + c.Code
	}
	// go-money formats minor units, which must fit an int64.
	minor := v.Shift(int32(cur.Fraction)).Round(0)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return v.StringFixed(int32(cur.Fraction)) + " " + c.Code
	}
	return cur.Formatter().Format(minor.IntPart())
}
