package scores

type HASBLEDInput struct {
	UncontrolledHypertension bool `json:"uncontrolledHypertension"`
	AbnormalRenal            bool `json:"abnormalRenal"`
	AbnormalLiver            bool `json:"abnormalLiver"`
	Stroke                   bool `json:"stroke"`
	Bleeding                 bool `json:"bleeding"`
	LabileINR                bool `json:"labileInr"`
	Elderly                  bool `json:"elderly"`
	Drugs                    bool `json:"drugs"`
	Alcohol                  bool `json:"alcohol"`
}

// HASBLED scores major bleeding risk on anticoagulation.
func HASBLED(in HASBLEDInput) Score {
	c := newCard(ToolHASBLED)
	c.flag("Hypertension (SBP >160)", in.UncontrolledHypertension, 1)
	c.flag("Abnormal renal function", in.AbnormalRenal, 1)
	c.flag("Abnormal liver function", in.AbnormalLiver, 1)
	c.flag("Stroke", in.Stroke, 1)
	c.flag("Bleeding history or predisposition", in.Bleeding, 1)
	c.flag("Labile INR", in.LabileINR, 1)
	c.flag("Elderly (>65)", in.Elderly, 1)
	c.flag("Antiplatelet or NSAID use", in.Drugs, 1)
	c.flag("Alcohol (≥8 drinks/week)", in.Alcohol, 1)

	s := c.score()
	switch {
	case s.Total >= 3:
		s.Band = BandHigh
		s.Advice = "High bleeding risk: address modifiable factors and review more often."
	case s.Total >= 1:
		s.Band = BandModerate
		s.Advice = "Moderate bleeding risk: correct modifiable factors."
	default:
		s.Band = BandLow
		s.Advice = "Low bleeding risk."
	}
	return s
}
