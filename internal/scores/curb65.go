package scores

type CURB65Input struct {
	Confusion        bool `json:"confusion"`
	Urea             bool `json:"urea"`
	RespiratoryRate  bool `json:"respiratoryRate"`
	LowBloodPressure bool `json:"lowBloodPressure"`
	Age65            bool `json:"age65"`
}

// CURB65FromVitals derives the criteria from raw measurements: urea in
// mmol/L, respiratory rate per minute, blood pressure in mmHg.
func CURB65FromVitals(confusion bool, ureaMmol, respRate, sbp, dbp, age float64) CURB65Input {
	return CURB65Input{
		Confusion:        confusion,
		Urea:             ureaMmol > 7,
		RespiratoryRate:  respRate >= 30,
		LowBloodPressure: sbp < 90 || dbp <= 60,
		Age65:            age >= 65,
	}
}

// CURB65 scores community-acquired pneumonia severity.
func CURB65(in CURB65Input) Score {
	c := newCard(ToolCURB65)
	c.flag("Confusion", in.Confusion, 1)
	c.flag("Urea >7 mmol/L", in.Urea, 1)
	c.flag("Respiratory rate ≥30", in.RespiratoryRate, 1)
	c.flag("SBP <90 or DBP ≤60", in.LowBloodPressure, 1)
	c.flag("Age ≥65", in.Age65, 1)

	s := c.score()
	switch {
	case s.Total >= 3:
		s.Band = BandHigh
		s.Advice = "Severe pneumonia: manage in hospital, assess for intensive care."
	case s.Total == 2:
		s.Band = BandModerate
		s.Advice = "Consider short inpatient stay or closely supervised outpatient treatment."
	default:
		s.Band = BandLow
		s.Advice = "Likely suitable for home treatment."
	}
	return s
}
