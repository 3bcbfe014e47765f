package utils

import (
	"fmt"
	"math"
)

// FormatCurrency formats a number as Turkish Lira currency
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("₺%.2f", amount)
}

// RoundToDecimalPlaces rounds a float to specified decimal places
func RoundToDecimalPlaces(value float64, places int) float64 {
	multiplier := math.Pow(10, float64(places))
	return math.Round(value*multiplier) / multiplier
}

// MinorUnits converts a currency amount to integer minor units
// (kuruş), rounding to the nearest unit
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
