package domain

import "math"

// Amounts cross the API boundary in decimal currency units (PHP) and are
// converted to integer minor units (centavos) exactly once, here, before any
// processor call. Rounding is round-half-up for the non-negative amounts this
// system handles; repeating the conversion would double-round, so callers
// convert at most once per amount.

// ToMinorUnits converts a decimal amount to integer minor units.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Floor(amount*100 + 0.5))
}

// FromMinorUnits converts integer minor units back to decimal units.
func FromMinorUnits(minor int64) float64 {
	return float64(minor) / 100
}

// ValidateAmount rejects non-positive or non-finite decimal amounts.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return NewInvalidAmountError(amount)
	}
	if amount <= 0 {
		return NewInvalidAmountError(amount)
	}
	return nil
}

// LateHours converts minutes late into billable hours, rounding up. Ninety
// minutes late bills two hours.
func LateHours(minutesLate float64) int {
	if minutesLate <= 0 {
		return 0
	}
	return int(math.Ceil(minutesLate / 60))
}
