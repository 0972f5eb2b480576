package model

import "github.com/shopspring/decimal"

// MinimumChargeMinor is the smallest amount the processor accepts, in minor units.
const MinimumChargeMinor int64 = 50

var (
	minorUnitFactor = decimal.NewFromInt(100)
	percent         = decimal.NewFromInt(100)
)

// ToMinorUnits converts a major-unit amount to the processor's integer minor
// units, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitFactor).Round(0).IntPart()
}

func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// PlatformFee is pct percent of minor, rounded to whole minor units.
func PlatformFee(minor, pct int64) int64 {
	return decimal.NewFromInt(minor).Mul(decimal.NewFromInt(pct)).Div(percent).Round(0).IntPart()
}
