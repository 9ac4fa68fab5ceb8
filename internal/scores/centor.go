package scores

// CentorInput holds the Centor criteria. With McIsaac set the age modifier
// is applied as well.
type CentorInput struct {
	Fever            bool    `json:"fever"`
	AbsenceOfCough   bool    `json:"absenceOfCough"`
	TenderNodes      bool    `json:"tenderNodes"`
	TonsillarExudate bool    `json:"tonsillarExudate"`
	McIsaac          bool    `json:"mcIsaac"`
	Age              float64 `json:"age"`
}

func Centor(in CentorInput) Score {
	c := newCard(ToolCentor)
	c.flag("Temperature >38°C", in.Fever, 1)
	c.flag("Absence of cough", in.AbsenceOfCough, 1)
	c.flag("Tender anterior cervical nodes", in.TenderNodes, 1)
	c.flag("Tonsillar swelling or exudate", in.TonsillarExudate, 1)
	if in.McIsaac {
		switch {
		case in.Age >= 3 && in.Age < 15:
			c.add("Age 3-14", 1, 1)
		case in.Age >= 45:
			c.add("Age ≥45", -1, 1)
		default:
			c.add("Age 15-44", 0, 1)
		}
	}

	s := c.score()
	switch {
	case s.Total >= 4:
		s.Band = BandHigh
		s.Advice = "Test for group A strep; consider empiric antibiotics."
	case s.Total >= 2:
		s.Band = BandModerate
		s.Advice = "Rapid antigen test or culture; treat if positive."
	default:
		s.Band = BandLow
		s.Advice = "No testing or antibiotics indicated."
	}
	return s
}
