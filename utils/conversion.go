package utils

import "math"

// ToMinorUnits converts a price to the smallest currency unit (paise, cents).
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
