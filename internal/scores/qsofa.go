package scores

type QSOFAInput struct {
	RespiratoryRate  bool `json:"respiratoryRate"`
	AlteredMentation bool `json:"alteredMentation"`
	LowSystolicBP    bool `json:"lowSystolicBp"`
}

func QSOFAFromVitals(respRate, sbp float64, alteredMentation bool) QSOFAInput {
	return QSOFAInput{
		RespiratoryRate:  respRate >= 22,
		AlteredMentation: alteredMentation,
		LowSystolicBP:    sbp <= 100,
	}
}

func QSOFA(in QSOFAInput) Score {
	c := newCard(ToolQSOFA)
	c.flag("Respiratory rate ≥22", in.RespiratoryRate, 1)
	c.flag("Altered mentation", in.AlteredMentation, 1)
	c.flag("Systolic BP ≤100", in.LowSystolicBP, 1)

	s := c.score()
	if s.Total >= 2 {
		s.Band = BandHigh
		s.Advice = "High risk of poor outcome in suspected infection: assess for sepsis and organ dysfunction."
	} else {
		s.Band = BandLow
		s.Advice = "Not high risk by qSOFA; keep monitoring if infection suspected."
	}
	return s
}
