package model

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// minorUnitExp is the number of decimal places stored in minor currency units.
const minorUnitExp = 2

var ErrInvalidMoney = errors.New("invalid money amount")

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// ParseAmount converts a decimal major-unit string ("149.50") to minor units (14950).
func ParseAmount(value string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, ErrInvalidMoney
	}
	if d.Sign() <= 0 {
		return 0, ErrInvalidMoney
	}
	minor := d.Shift(minorUnitExp)
	if !minor.IsInteger() || minor.GreaterThan(maxMinorUnits) {
		return 0, ErrInvalidMoney
	}
	return minor.IntPart(), nil
}

// FormatAmount renders minor units as a fixed two-place major-unit string.
func FormatAmount(minor int64) string {
	return decimal.New(minor, -minorUnitExp).StringFixed(minorUnitExp)
}
