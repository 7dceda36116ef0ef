package payment

import "math"

// floatNoise bounds the representation error of a decimal amount held
// in a float64. Differences below it are encoding noise, not sub-cent
// precision, and must not be truncated away.
const floatNoise = 1e-6

// ToSubunits converts a decimal currency amount to the smallest integer
// currency subunit. Genuine sub-cent digits are truncated toward zero
// (10.555 -> 1055), matching the gateway's historical behavior.
func ToSubunits(amount float64) int64 {
	scaled := amount * 100
	rounded := math.Round(scaled)
	if math.Abs(scaled-rounded) < floatNoise {
		return int64(rounded)
	}
	return int64(math.Trunc(scaled))
}

// FromSubunits converts an integer subunit amount back to decimal
// currency units.
func FromSubunits(subunits int64) float64 {
	return float64(subunits) / 100
}
