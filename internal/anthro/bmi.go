// Package anthro computes body mass index and its weight category.
package anthro

import (
	"fmt"
	"strings"

	"github.com/Skufu/riskcalc/internal/clinical"
)

// Cutoffs selects the category table applied to a BMI value.
type Cutoffs string

const (
	CutoffsWHO         Cutoffs = "who"
	CutoffsAsiaPacific Cutoffs = "asia-pacific"
)

func ParseCutoffs(s string) (Cutoffs, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "who", "international":
		return CutoffsWHO, nil
	case "asia-pacific", "asia_pacific", "asian", "wpro":
		return CutoffsAsiaPacific, nil
	}
	return "", fmt.Errorf("unknown BMI cutoffs: %q", s)
}

type category struct {
	below float64
	name  string
}

// Tables are ordered by upper bound; the last row catches everything above.
var (
	whoCategories = []category{
		{18.5, "Underweight"},
		{25, "Normal"},
		{30, "Overweight"},
		{35, "Obese class I"},
		{40, "Obese class II"},
		{0, "Obese class III"},
	}
	asiaPacificCategories = []category{
		{18.5, "Underweight"},
		{23, "Normal"},
		{25, "Overweight"},
		{30, "Obese class I"},
		{0, "Obese class II"},
	}
)

type Result struct {
	BMI      float64 `json:"bmi"`
	Category string  `json:"category"`
	Cutoffs  Cutoffs `json:"cutoffs"`
}

// BMI returns weight over height squared, rounded to one decimal. Height is
// in centimetres. Non-positive or non-finite inputs give clinical.ErrNoResult.
func BMI(weightKg, heightCm float64, cutoffs Cutoffs) (Result, error) {
	if !(heightCm > 0) || !(weightKg > 0) || !clinical.IsFinite(heightCm) {
		return Result{}, clinical.ErrNoResult
	}
	m := heightCm / 100
	v := weightKg / (m * m)
	if !clinical.IsFinite(v) {
		return Result{}, clinical.ErrNoResult
	}

	table := whoCategories
	if cutoffs == CutoffsAsiaPacific {
		table = asiaPacificCategories
	} else {
		cutoffs = CutoffsWHO
	}

	v = clinical.Round1(v)
	return Result{BMI: v, Category: categorize(table, v), Cutoffs: cutoffs}, nil
}

func categorize(table []category, v float64) string {
	for _, c := range table[:len(table)-1] {
		if v < c.below {
			return c.name
		}
	}
	return table[len(table)-1].name
}
