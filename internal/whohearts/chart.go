package whohearts

import (
	"fmt"
	"math"
	"strings"

	"github.com/Skufu/riskcalc/internal/clinical"
)

// Region is a WHO region used to recalibrate the chart regression.
type Region string

const (
	RegionAFR  Region = "afr"
	RegionAMR  Region = "amr"
	RegionEMR  Region = "emr"
	RegionEUR  Region = "eur"
	RegionSEAR Region = "sear"
	RegionWPR  Region = "wpr"
)

func ParseRegion(s string) (Region, error) {
	r := Region(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := regionScales[r]; ok {
		return r, nil
	}
	return "", fmt.Errorf("unknown WHO region: %q", s)
}

// ChartModel says which chart produced a percentage.
type ChartModel string

const (
	ChartLab    ChartModel = "lab"
	ChartNonLab ChartModel = "non-lab"
)

var (
	chartAge  = clinical.Range{Min: 40, Max: 74}
	chartSBP  = clinical.Range{Min: 80, Max: 250}
	chartChol = clinical.Range{Min: 2, Max: 12}
	chartBMI  = clinical.Range{Min: 15, Max: 50}
)

type labCoefficients struct {
	age, chol, sbp, diabetes, smoker        float64
	ageChol, ageSBP, ageDiabetes, ageSmoker float64
}

type nonLabCoefficients struct {
	age, bmi, sbp, smoker     float64
	ageBMI, ageSBP, ageSmoker float64
}

var labModel = map[clinical.Sex]labCoefficients{
	clinical.Male: {
		age: 0.0719227, chol: 0.2284944, sbp: 0.0132183, diabetes: 0.6410114, smoker: 0.5638109,
		ageChol: -0.0045806, ageSBP: -0.0001576, ageDiabetes: -0.0124966, ageSmoker: -0.0182545,
	},
	clinical.Female: {
		age: 0.1020713, chol: 0.2050377, sbp: 0.015823, diabetes: 1.070358, smoker: 1.053223,
		ageChol: -0.0051932, ageSBP: -0.0001378, ageDiabetes: -0.0234174, ageSmoker: -0.0332666,
	},
}

var nonLabModel = map[clinical.Sex]nonLabCoefficients{
	clinical.Male: {
		age: 0.073593, bmi: 0.0337219, sbp: 0.0133937, smoker: 0.5954767,
		ageBMI: -0.0010432, ageSBP: -0.0001837, ageSmoker: -0.0200831,
	},
	clinical.Female: {
		age: 0.1049418, bmi: 0.0257616, sbp: 0.016726, smoker: 1.093132,
		ageBMI: -0.0006537, ageSBP: -0.0001966, ageSmoker: -0.0343739,
	},
}

// scale maps the centred linear predictor onto a regional cumulative
// incidence: risk = 1 - exp(-exp(intercept + slope*lp)). published is false
// until the pair has been checked against the WHO recalibration table; results
// from an unpublished pair are reported as provisional.
type scale struct {
	intercept, slope float64
	published        bool
}

// TODO: replace with the WHO CVD Risk Chart Working Group (2019) regional
// recalibration table and set published on each entry.
var regionScales = map[Region]map[clinical.Sex]scale{
	RegionAFR:  {clinical.Male: {-2.45, 0.90, false}, clinical.Female: {-2.80, 0.85, false}},
	RegionAMR:  {clinical.Male: {-2.40, 0.92, false}, clinical.Female: {-2.85, 0.90, false}},
	RegionEMR:  {clinical.Male: {-2.05, 0.93, false}, clinical.Female: {-2.35, 0.90, false}},
	RegionEUR:  {clinical.Male: {-2.20, 0.95, false}, clinical.Female: {-2.65, 0.92, false}},
	RegionSEAR: {clinical.Male: {-2.15, 0.92, false}, clinical.Female: {-2.55, 0.90, false}},
	RegionWPR:  {clinical.Male: {-2.25, 0.92, false}, clinical.Female: {-2.70, 0.90, false}},
}

// ProvisionalNote is attached to decisions whose chart percentage came from
// an unpublished regional calibration.
const ProvisionalNote = "Regional calibration is provisional: confirm the band on the printed WHO chart for this region before acting on it."

// ChartBand is the colour band of the WHO risk charts.
type ChartBand string

const (
	BandBelow5    ChartBand = "<5"
	Band5To10     ChartBand = "5-<10"
	Band10To20    ChartBand = "10-<20"
	Band20To30    ChartBand = "20-<30"
	Band30OrAbove ChartBand = "≥30"
)

func bandFor(pct float64) ChartBand {
	switch {
	case pct >= 30:
		return Band30OrAbove
	case pct >= 20:
		return Band20To30
	case pct >= 10:
		return Band10To20
	case pct >= 5:
		return Band5To10
	default:
		return BandBelow5
	}
}

type ChartResult struct {
	Model       ChartModel `json:"model"`
	RiskPercent float64    `json:"riskPercent"`
	Band        ChartBand  `json:"band"`
	// Calibrated is false when the regional calibration is provisional.
	Calibrated bool `json:"calibrated"`
}

func computeChart(in Input) (ChartResult, error) {
	sc, ok := regionScales[in.Region]
	if !ok {
		return ChartResult{}, fmt.Errorf("unknown WHO region: %q", in.Region)
	}
	s, ok := sc[in.Sex]
	if !ok {
		return ChartResult{}, fmt.Errorf("invalid sex: %q", in.Sex)
	}

	age := chartAge.Clamp(in.Age) - 60
	sbp := chartSBP.Clamp(in.SBP) - 120
	smk := boolf(in.Smoker)

	var lp float64
	model := ChartNonLab
	if in.TotalChol != nil {
		model = ChartLab
		c := labModel[in.Sex]
		chol := chartChol.Clamp(*in.TotalChol) - 6
		dm := boolf(in.Diabetes)
		lp = c.age*age + c.chol*chol + c.sbp*sbp + c.diabetes*dm + c.smoker*smk +
			c.ageChol*age*chol + c.ageSBP*age*sbp + c.ageDiabetes*age*dm + c.ageSmoker*age*smk
	} else {
		if in.BMI == nil {
			return ChartResult{}, fmt.Errorf("chart needs total cholesterol or BMI")
		}
		c := nonLabModel[in.Sex]
		bmi := chartBMI.Clamp(*in.BMI) - 25
		lp = c.age*age + c.bmi*bmi + c.sbp*sbp + c.smoker*smk +
			c.ageBMI*age*bmi + c.ageSBP*age*sbp + c.ageSmoker*age*smk
	}

	pct := 100 * (1 - math.Exp(-math.Exp(s.intercept+s.slope*lp)))
	if !clinical.IsFinite(pct) {
		return ChartResult{}, clinical.ErrNoResult
	}
	pct = clinical.Round1(pct)
	return ChartResult{Model: model, RiskPercent: pct, Band: bandFor(pct), Calibrated: s.published}, nil
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
