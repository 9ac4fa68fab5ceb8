// Package whohearts implements the WHO PEN/HEARTS cardiovascular decision
// gate: emergency signs first, then categorical very-high-risk criteria, and
// only then the regional risk chart.
package whohearts

import "github.com/Skufu/riskcalc/internal/clinical"

type Stage string

const (
	StageEmergency Stage = "emergency"
	StageVeryHigh  Stage = "very_high"
	StageChart     Stage = "chart"
)

// EmergencySigns are the presenting features that require referral before
// any risk assessment.
type EmergencySigns struct {
	ChestPain            bool `json:"chestPain"`
	StrokeSymptoms       bool `json:"strokeSymptoms"`
	SevereBreathlessness bool `json:"severeBreathlessness"`
	Syncope              bool `json:"syncope"`
	// HypertensiveUrgency is BP ≥180/110 with symptoms.
	HypertensiveUrgency bool `json:"hypertensiveUrgency"`
}

type Input struct {
	Emergency      bool           `json:"emergency"`
	EmergencySigns EmergencySigns `json:"emergencySigns"`

	KnownASCVD            bool     `json:"knownAscvd"`
	DiabetesComplications bool     `json:"diabetesComplications"`
	EGFR                  *float64 `json:"egfr,omitempty"`

	Region    Region       `json:"region"`
	Sex       clinical.Sex `json:"sex"`
	Age       float64      `json:"age"`
	Smoker    bool         `json:"smoker"`
	SBP       float64      `json:"sbp"`
	DBP       float64      `json:"dbp"`
	TotalChol *float64     `json:"totalChol,omitempty"`
	BMI       *float64     `json:"bmi,omitempty"`
	Diabetes  bool         `json:"diabetes"`
	// ConfirmedHypertension means raised BP on two separate visits.
	ConfirmedHypertension bool `json:"confirmedHypertension"`
}

type Recommendation struct {
	Refer          bool     `json:"refer"`
	BPMedication   bool     `json:"bpMedication"`
	Statin         bool     `json:"statin"`
	FollowUpMonths int      `json:"followUpMonths,omitempty"`
	Notes          []string `json:"notes,omitempty"`
}

type Decision struct {
	Stage          Stage          `json:"stage"`
	Reasons        []string       `json:"reasons,omitempty"`
	Chart          *ChartResult   `json:"chart,omitempty"`
	Recommendation Recommendation `json:"recommendation"`
}

// Evaluate runs the gate. Emergency and very-high outcomes are terminal and
// never compute a chart percentage.
func Evaluate(in Input) (Decision, error) {
	return evaluate(in, computeChart)
}

func evaluate(in Input, chartRisk func(Input) (ChartResult, error)) (Decision, error) {
	if reasons := emergencyReasons(in); len(reasons) > 0 {
		return Decision{
			Stage:   StageEmergency,
			Reasons: reasons,
			Recommendation: Recommendation{
				Refer: true,
				Notes: []string{"Refer immediately to a higher-level facility."},
			},
		}, nil
	}

	if reasons := veryHighReasons(in); len(reasons) > 0 {
		return Decision{
			Stage:   StageVeryHigh,
			Reasons: reasons,
			Recommendation: Recommendation{
				BPMedication:   in.SBP >= 160 || in.DBP >= 100 || (in.ConfirmedHypertension && (in.SBP >= 130 || in.DBP >= 80)),
				Statin:         true,
				FollowUpMonths: 3,
				Notes:          []string{"Very high risk by clinical criteria; chart not applied."},
			},
		}, nil
	}

	chart, err := chartRisk(in)
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		Stage:          StageChart,
		Chart:          &chart,
		Recommendation: recommend(in, chart),
	}, nil
}

func emergencyReasons(in Input) []string {
	var r []string
	if in.Emergency {
		r = append(r, "emergency flagged")
	}
	s := in.EmergencySigns
	if s.ChestPain {
		r = append(r, "chest pain")
	}
	if s.StrokeSymptoms {
		r = append(r, "stroke symptoms")
	}
	if s.SevereBreathlessness {
		r = append(r, "severe breathlessness")
	}
	if s.Syncope {
		r = append(r, "syncope")
	}
	if s.HypertensiveUrgency {
		r = append(r, "hypertensive urgency")
	}
	return r
}

func veryHighReasons(in Input) []string {
	var r []string
	if in.KnownASCVD {
		r = append(r, "established atherosclerotic CVD")
	}
	if in.SBP >= 160 || in.DBP >= 100 {
		r = append(r, "blood pressure ≥160/100")
	}
	if in.DiabetesComplications {
		r = append(r, "diabetes with target-organ damage")
	}
	if in.TotalChol != nil && *in.TotalChol >= 8 {
		r = append(r, "total cholesterol ≥8 mmol/L")
	}
	if in.EGFR != nil && *in.EGFR < 60 {
		r = append(r, "eGFR <60 mL/min/1.73m²")
	}
	return r
}

var followUpMonths = map[ChartBand]int{
	BandBelow5:    12,
	Band5To10:     12,
	Band10To20:    6,
	Band20To30:    3,
	Band30OrAbove: 3,
}

func recommend(in Input, c ChartResult) Recommendation {
	high := c.RiskPercent >= 20

	bp := in.ConfirmedHypertension && (in.SBP >= 140 || in.DBP >= 90)
	if high {
		bp = in.ConfirmedHypertension && (in.SBP >= 130 || in.DBP >= 80)
	}

	rec := Recommendation{
		Refer:          c.Band == Band30OrAbove,
		BPMedication:   bp,
		Statin:         high || (in.Diabetes && in.Age >= 40),
		FollowUpMonths: followUpMonths[c.Band],
	}
	if rec.Refer {
		rec.Notes = append(rec.Notes, "Refer if risk factors cannot be controlled at this level.")
	}
	if in.Smoker {
		rec.Notes = append(rec.Notes, "Advise tobacco cessation.")
	}
	if !c.Calibrated {
		rec.Notes = append(rec.Notes, ProvisionalNote)
	}
	return rec
}
