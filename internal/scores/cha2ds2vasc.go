package scores

import "github.com/Skufu/riskcalc/internal/clinical"

// CHA2DS2VAScInput covers the CHA2DS2-VASc criteria for stroke risk in
// atrial fibrillation.
type CHA2DS2VAScInput struct {
	Sex             clinical.Sex `json:"sex"`
	Age             float64      `json:"age"`
	CHF             bool         `json:"chf"`
	Hypertension    bool         `json:"hypertension"`
	Diabetes        bool         `json:"diabetes"`
	StrokeTIA       bool         `json:"strokeTia"`
	VascularDisease bool         `json:"vascularDisease"`
}

// ScoreToStrokeRisk maps the score to the annual stroke risk in percent
// (Lip 2010). The published rate at 8 is lower than at 7.
var ScoreToStrokeRisk = map[int]float64{0: 0, 1: 1.3, 2: 2.2, 3: 3.2, 4: 4.0, 5: 6.7, 6: 9.8, 7: 9.6, 8: 6.7, 9: 15.2}

func CHA2DS2VASc(in CHA2DS2VAScInput) Score {
	c := newCard(ToolCHA2DS2VASc)
	c.flag("Congestive Heart Failure", in.CHF, 1)
	c.flag("Hypertension", in.Hypertension, 1)
	switch {
	case in.Age >= 75:
		c.add("Age", 2, 2)
	case in.Age >= 65:
		c.add("Age", 1, 2)
	default:
		c.add("Age", 0, 2)
	}
	c.flag("Diabetes", in.Diabetes, 1)
	c.flag("Stroke/TIA/Thromboembolism", in.StrokeTIA, 2)
	c.flag("Vascular Disease", in.VascularDisease, 1)
	female := in.Sex == clinical.Female
	c.flag("Sex Category", female, 1)

	s := c.score()
	risk := ScoreToStrokeRisk[s.Total]
	s.EstimatePercent = &risk

	// The female sex point alone does not raise the risk band.
	nonSex := s.Total
	if female {
		nonSex--
	}
	switch {
	case nonSex >= 2:
		s.Band = BandHigh
		s.Advice = "Oral anticoagulation is recommended."
	case nonSex == 1:
		s.Band = BandModerate
		s.Advice = "Oral anticoagulation should be considered."
	default:
		s.Band = BandLow
		s.Advice = "No antithrombotic therapy indicated."
	}
	return s
}
