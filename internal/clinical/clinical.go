// Package clinical holds the value types, unit conversions and input policies
// shared by every calculator.
package clinical

import (
	"fmt"
	"math"
	"strings"
)

type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// ParseSex accepts "male"/"female" and the single-letter forms.
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return Male, nil
	case "female", "f":
		return Female, nil
	default:
		return "", fmt.Errorf("invalid sex: %q", s)
	}
}

// Region is the ESC cardiovascular risk region used for recalibration.
type Region string

const (
	RegionLow      Region = "low"
	RegionModerate Region = "moderate"
	RegionHigh     Region = "high"
	RegionVeryHigh Region = "very_high"
)

func ParseRegion(s string) (Region, error) {
	switch strings.ToLower(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s))) {
	case "low":
		return RegionLow, nil
	case "moderate":
		return RegionModerate, nil
	case "high":
		return RegionHigh, nil
	case "very_high", "veryhigh":
		return RegionVeryHigh, nil
	default:
		return "", fmt.Errorf("invalid risk region: %q", s)
	}
}

// Range is a closed valid domain for one numeric input.
type Range struct {
	Min float64
	Max float64
}

func (r Range) Clamp(v float64) float64 {
	return ClampToValidDomain(v, r.Min, r.Max)
}

// ClampToValidDomain pulls v onto [lo, hi]. Out-of-range input is never
// rejected so that a form stays computable while it is being filled in.
// NaN is returned unchanged and surfaces later as ErrNoResult.
func ClampToValidDomain(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round1 rounds to one decimal place, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
