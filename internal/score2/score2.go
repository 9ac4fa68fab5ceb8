// Package score2 implements the ESC SCORE2 family of calibrated 10-year
// cardiovascular risk models: SCORE2, SCORE2-OP, SCORE2-ASIAN and
// SCORE2-Diabetes.
package score2

import (
	"fmt"
	"math"
	"strings"

	"github.com/Skufu/riskcalc/internal/clinical"
)

// Model identifies one variant of the family.
type Model int

const (
	SCORE2 Model = iota
	SCORE2OP
	SCORE2Asian
	SCORE2Diabetes
)

var modelTags = [...]string{
	SCORE2:         "score2",
	SCORE2OP:       "score2-op",
	SCORE2Asian:    "score2-asian",
	SCORE2Diabetes: "score2-diabetes",
}

func (m Model) String() string {
	if m < 0 || int(m) >= len(modelTags) {
		return fmt.Sprintf("Model(%d)", int(m))
	}
	return modelTags[m]
}

// ParseModel maps a model tag to its Model.
func ParseModel(s string) (Model, error) {
	tag := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	for i, t := range modelTags {
		if t == tag {
			return Model(i), nil
		}
	}
	return 0, fmt.Errorf("unknown SCORE2 model: %q", s)
}

func (m Model) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Model) UnmarshalText(b []byte) error {
	parsed, err := ParseModel(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

type RiskGroup string

const (
	Low      RiskGroup = "Low risk"
	Moderate RiskGroup = "Moderate risk"
	High     RiskGroup = "High risk"
	VeryHigh RiskGroup = "Very high risk"
)

// Input holds every covariate of the family. SBP is mmHg, cholesterol and
// HDL are mmol/L. DiabetesAge, HbA1c and EGFR are only read by
// SCORE2-Diabetes.
type Input struct {
	Region    clinical.Region
	Sex       clinical.Sex
	Age       float64
	Smoker    bool
	SBP       float64
	TotalChol float64
	HDL       float64
	Diabetes  bool

	DiabetesAge float64
	HbA1c       float64
	HbA1cUnit   clinical.HbA1cUnit
	EGFR        float64
}

type Result struct {
	Model           Model     `json:"model"`
	RiskPercent     float64   `json:"riskPercent"`
	RiskGroup       RiskGroup `json:"riskGroup"`
	Uncalibrated    float64   `json:"uncalibratedPercent"`
	LinearPredictor float64   `json:"linearPredictor"`
}

// Valid input domains. Values outside are clamped, never rejected.
var (
	sbpRange   = clinical.Range{Min: 80, Max: 250}
	tcholRange = clinical.Range{Min: 2, Max: 12}
	hdlRange   = clinical.Range{Min: 0.3, Max: 4}
	egfrRange  = clinical.Range{Min: 10, Max: 150}
	hba1cRange = clinical.Range{Min: 20, Max: 140}
)

const (
	minAge   = 40
	opMinAge = 70
	opMaxAge = 99
)

// Calculate evaluates model for in. It returns a *clinical.NotApplicableError
// when the age is outside the model's band and clinical.ErrNoResult when the
// arithmetic is not finite.
func Calculate(m Model, in Input) (Result, error) {
	if _, ok := score2Coefficients[in.Sex]; !ok {
		return Result{}, fmt.Errorf("%s: invalid sex %q", m, in.Sex)
	}
	if _, ok := score2Scales[in.Region]; !ok {
		return Result{}, fmt.Errorf("%s: invalid region %q", m, in.Region)
	}

	var (
		lp, uncal float64
		scales    regionScales
	)
	switch m {
	case SCORE2, SCORE2Asian:
		if err := checkMidlifeAge(m, in.Age); err != nil {
			return Result{}, err
		}
		lp = score2LinearPredictor(score2Coefficients[in.Sex], in)
		uncal = baselineTransform(score2BaseSurvival[in.Sex], lp)
		scales = score2Scales
		if m == SCORE2Asian {
			scales = score2AsianScales
		}
	case SCORE2OP:
		if in.Age < opMinAge {
			return Result{}, clinical.NewNotApplicableError(
				fmt.Sprintf("SCORE2-OP applies from age %d, got %g", opMinAge, in.Age), SCORE2.String())
		}
		lp = opLinearPredictor(score2OPCoefficients[in.Sex], in)
		uncal = baselineTransform(opBaseSurvival[in.Sex], lp-opMeanLinearPredictor[in.Sex])
		scales = score2OPScales
	case SCORE2Diabetes:
		if err := checkMidlifeAge(m, in.Age); err != nil {
			return Result{}, err
		}
		lp = diabetesLinearPredictor(score2DiabetesCoefficients[in.Sex], in)
		uncal = baselineTransform(score2BaseSurvival[in.Sex], lp)
		scales = score2Scales
	default:
		return Result{}, fmt.Errorf("unknown SCORE2 model %d", int(m))
	}

	sc := scales[in.Region][in.Sex]
	risk := recalibrate(uncal, sc)
	if !clinical.IsFinite(risk) {
		return Result{}, fmt.Errorf("%s: %w", m, clinical.ErrNoResult)
	}

	pct := clinical.Round1(risk * 100)
	return Result{
		Model:           m,
		RiskPercent:     pct,
		RiskGroup:       Band(m, in.Age, pct),
		Uncalibrated:    clinical.Round1(uncal * 100),
		LinearPredictor: lp,
	}, nil
}

func CalcSCORE2(in Input) (Result, error)         { return Calculate(SCORE2, in) }
func CalcSCORE2OP(in Input) (Result, error)       { return Calculate(SCORE2OP, in) }
func CalcSCORE2Asian(in Input) (Result, error)    { return Calculate(SCORE2Asian, in) }
func CalcSCORE2Diabetes(in Input) (Result, error) { return Calculate(SCORE2Diabetes, in) }

func checkMidlifeAge(m Model, age float64) error {
	switch {
	case age < minAge:
		return clinical.NewNotApplicableError(
			fmt.Sprintf("%s applies from age %d, got %g", m, minAge, age), "")
	case age >= opMinAge:
		return clinical.NewNotApplicableError(
			fmt.Sprintf("%s applies below age %d, got %g", m, opMinAge, age), SCORE2OP.String())
	}
	return nil
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func score2LinearPredictor(c coefficients, in Input) float64 {
	cage := (in.Age - 60) / 5
	csbp := (sbpRange.Clamp(in.SBP) - 120) / 20
	ctchol := tcholRange.Clamp(in.TotalChol) - 6
	chdl := (hdlRange.Clamp(in.HDL) - 1.3) / 0.5
	smk := b2f(in.Smoker)
	dm := b2f(in.Diabetes)

	return c.Age*cage +
		c.Smoking*smk +
		c.SBP*csbp +
		c.Diabetes*dm +
		c.TChol*ctchol +
		c.HDL*chdl +
		c.SmokingAge*smk*cage +
		c.SBPAge*csbp*cage +
		c.DiabetesAge*dm*cage +
		c.TCholAge*ctchol*cage +
		c.HDLAge*chdl*cage
}

func opLinearPredictor(c coefficients, in Input) float64 {
	age := clinical.ClampToValidDomain(in.Age, opMinAge, opMaxAge)
	cage := age - 73
	csbp := sbpRange.Clamp(in.SBP) - 150
	ctchol := tcholRange.Clamp(in.TotalChol) - 6
	chdl := hdlRange.Clamp(in.HDL) - 1.4
	smk := b2f(in.Smoker)
	dm := b2f(in.Diabetes)

	return c.Age*cage +
		c.Diabetes*dm +
		c.Smoking*smk +
		c.SBP*csbp +
		c.TChol*ctchol +
		c.HDL*chdl +
		c.DiabetesAge*dm*cage +
		c.SmokingAge*smk*cage +
		c.SBPAge*csbp*cage +
		c.TCholAge*ctchol*cage +
		c.HDLAge*chdl*cage
}

func diabetesLinearPredictor(c coefficients, in Input) float64 {
	lp := score2LinearPredictor(c, in)

	cage := (in.Age - 60) / 5
	var cagediab float64
	if in.Diabetes {
		onset := clinical.ClampToValidDomain(in.DiabetesAge, 10, in.Age)
		cagediab = (onset - 50) / 5
	}
	hba1c := hba1cRange.Clamp(clinical.HbA1cToMmolMol(in.HbA1c, in.HbA1cUnit))
	ca1c := (hba1c - 31) / 9.34
	cegfr := (math.Log(egfrRange.Clamp(in.EGFR)) - 4.5) / 0.15

	return lp +
		c.AgeAtDiagnosis*cagediab +
		c.HbA1c*ca1c +
		c.EGFR*cegfr +
		c.EGFR2*cegfr*cegfr +
		c.HbA1cAge*ca1c*cage +
		c.EGFRAge*cegfr*cage
}

// baselineTransform gives the uncalibrated 10-year risk 1 - S0^exp(lp).
func baselineTransform(s0, lp float64) float64 {
	return 1 - math.Pow(s0, math.Exp(lp))
}

// recalibrate applies 1 - exp(-exp(s1 + s2*ln(-ln(1-p)))).
func recalibrate(p float64, sc scale) float64 {
	return 1 - math.Exp(-math.Exp(sc.S1+sc.S2*math.Log(-math.Log(1-p))))
}
