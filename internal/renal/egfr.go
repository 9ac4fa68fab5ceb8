// Package renal estimates kidney function from serum creatinine and stages
// the result on the KDIGO G scale.
package renal

import (
	"fmt"
	"math"
	"strings"

	"github.com/Skufu/riskcalc/internal/clinical"
)

type Formula int

const (
	CKDEPI2021 Formula = iota
	CKDEPI2009
	MDRD175
	CockcroftGault
	Schwartz
)

var formulaTags = [...]string{
	CKDEPI2021:     "ckd-epi-2021",
	CKDEPI2009:     "ckd-epi-2009",
	MDRD175:        "mdrd",
	CockcroftGault: "cockcroft-gault",
	Schwartz:       "schwartz",
}

func (f Formula) String() string {
	if f < 0 || int(f) >= len(formulaTags) {
		return fmt.Sprintf("Formula(%d)", int(f))
	}
	return formulaTags[f]
}

func ParseFormula(s string) (Formula, error) {
	tag := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	if tag == "mdrd-175" || tag == "mdrd175" {
		tag = "mdrd"
	}
	for i, t := range formulaTags {
		if t == tag {
			return Formula(i), nil
		}
	}
	return 0, fmt.Errorf("unknown eGFR formula: %q", s)
}

func (f Formula) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Formula) UnmarshalText(b []byte) error {
	parsed, err := ParseFormula(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

type Input struct {
	Formula        Formula
	Sex            clinical.Sex
	Age            float64
	Creatinine     float64
	CreatinineUnit clinical.CreatinineUnit
	// WeightKg is read by Cockcroft-Gault only.
	WeightKg float64
	// HeightCm is read by the bedside Schwartz formula only.
	HeightCm float64
	// Black applies the race coefficient of CKD-EPI 2009 and MDRD.
	Black bool
}

type Result struct {
	Formula Formula `json:"formula"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit"`
	// Stage is empty when Staged is false.
	Stage  Stage `json:"stage,omitempty"`
	Staged bool  `json:"staged"`
}

const (
	unitNormalised = "mL/min/1.73m²"
	unitAbsolute   = "mL/min"
	// creatinineFloor keeps the power laws finite for empty or zero input.
	creatinineFloor = 1e-3
)

// Estimate evaluates in.Formula. Cockcroft-Gault is an absolute clearance and
// is returned unstaged.
func Estimate(in Input) (Result, error) {
	if in.Sex != clinical.Male && in.Sex != clinical.Female {
		return Result{}, fmt.Errorf("%s: invalid sex %q", in.Formula, in.Sex)
	}
	scr := creatinineMgdl(in.Creatinine, in.CreatinineUnit)
	female := in.Sex == clinical.Female

	var value float64
	switch in.Formula {
	case CKDEPI2021:
		value = ckdEpi2021(scr, in.Age, female)
	case CKDEPI2009:
		value = ckdEpi2009(scr, in.Age, female, in.Black)
	case MDRD175:
		value = mdrd175(scr, in.Age, female, in.Black)
	case CockcroftGault:
		if !positive(in.WeightKg) {
			return Result{}, fmt.Errorf("%s: weight required: %w", in.Formula, clinical.ErrNoResult)
		}
		value = cockcroftGault(scr, in.Age, in.WeightKg, female)
	case Schwartz:
		if !positive(in.HeightCm) {
			return Result{}, fmt.Errorf("%s: height required: %w", in.Formula, clinical.ErrNoResult)
		}
		value = schwartzBedside(scr, in.HeightCm)
	default:
		return Result{}, fmt.Errorf("unknown eGFR formula %d", int(in.Formula))
	}
	if !clinical.IsFinite(value) || value <= 0 {
		return Result{}, fmt.Errorf("%s: %w", in.Formula, clinical.ErrNoResult)
	}

	res := Result{Formula: in.Formula, Value: clinical.Round1(value), Unit: unitNormalised}
	if in.Formula == CockcroftGault {
		res.Unit = unitAbsolute
		return res, nil
	}
	res.Stage = StageFor(res.Value)
	res.Staged = true
	return res, nil
}

func positive(v float64) bool {
	return clinical.IsFinite(v) && v > 0
}

func creatinineMgdl(v float64, unit clinical.CreatinineUnit) float64 {
	if !clinical.IsFinite(v) || v <= 0 {
		return creatinineFloor
	}
	if unit == clinical.MgPerDL {
		return math.Max(v, creatinineFloor)
	}
	return math.Max(clinical.CreatinineUmolToMgdl(v), creatinineFloor)
}

func ckdEpi2021(scr, age float64, female bool) float64 {
	kappa, alpha, sexFactor := 0.9, -0.302, 1.0
	if female {
		kappa, alpha, sexFactor = 0.7, -0.241, 1.012
	}
	r := scr / kappa
	return 142 * math.Pow(math.Min(r, 1), alpha) * math.Pow(math.Max(r, 1), -1.200) *
		math.Pow(0.9938, age) * sexFactor
}

func ckdEpi2009(scr, age float64, female, black bool) float64 {
	kappa, alpha, sexFactor := 0.9, -0.411, 1.0
	if female {
		kappa, alpha, sexFactor = 0.7, -0.329, 1.018
	}
	r := scr / kappa
	v := 141 * math.Pow(math.Min(r, 1), alpha) * math.Pow(math.Max(r, 1), -1.209) *
		math.Pow(0.993, age) * sexFactor
	if black {
		v *= 1.159
	}
	return v
}

func mdrd175(scr, age float64, female, black bool) float64 {
	v := 175 * math.Pow(scr, -1.154) * math.Pow(age, -0.203)
	if female {
		v *= 0.742
	}
	if black {
		v *= 1.212
	}
	return v
}

func cockcroftGault(scr, age, weightKg float64, female bool) float64 {
	v := (140 - age) * weightKg / (72 * scr)
	if female {
		v *= 0.85
	}
	return v
}

func schwartzBedside(scr, heightCm float64) float64 {
	return 0.413 * heightCm / scr
}
