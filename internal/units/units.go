// Package units provides shared constants and conversion for length units.
// Decks are stored in centimetres, the transport code's native length unit.
package units

import "strings"

// Unit constants
const (
	CM   = "cm"
	MM   = "mm"
	M    = "m"
	INCH = "in"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{CM, MM, M, INCH}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// centimetresPer holds the size of one unit in centimetres.
var centimetresPer = map[string]float64{
	CM:   1,
	MM:   0.1,
	M:    100,
	INCH: 2.54,
}

// ToCentimetres converts a length in the given units to centimetres.
// Unknown units are treated as centimetres.
func ToCentimetres(v float64, unit string) float64 {
	if f, ok := centimetresPer[unit]; ok {
		return v * f
	}
	return v
}

// FromCentimetres converts a length in centimetres to the target units.
func FromCentimetres(v float64, unit string) float64 {
	if f, ok := centimetresPer[unit]; ok {
		return v / f
	}
	return v
}

// ScaleAll converts every value to centimetres, returning a new slice.
func ScaleAll(values []float64, unit string) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = ToCentimetres(v, unit)
	}
	return out
}
