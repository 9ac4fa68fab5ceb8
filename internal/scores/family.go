package scores

// Family APGAR answers: 0 hardly ever, 1 some of the time, 2 almost always.
type FamilyAPGARInput struct {
	Adaptation  int `json:"adaptation"`
	Partnership int `json:"partnership"`
	Growth      int `json:"growth"`
	Affection   int `json:"affection"`
	Resolve     int `json:"resolve"`
}

const (
	FamilyHighlyFunctional    Band = "Highly functional"
	FamilyModerateDysfunction Band = "Moderately dysfunctional"
	FamilySevereDysfunction   Band = "Severely dysfunctional"
)

func FamilyAPGAR(in FamilyAPGARInput) Score {
	c := newCard(ToolFamilyAPGAR)
	c.add("Adaptation", clampInt(in.Adaptation, 0, 2), 2)
	c.add("Partnership", clampInt(in.Partnership, 0, 2), 2)
	c.add("Growth", clampInt(in.Growth, 0, 2), 2)
	c.add("Affection", clampInt(in.Affection, 0, 2), 2)
	c.add("Resolve", clampInt(in.Resolve, 0, 2), 2)

	s := c.score()
	switch {
	case s.Total >= 7:
		s.Band = FamilyHighlyFunctional
		s.Advice = "Family is a resource for care."
	case s.Total >= 4:
		s.Band = FamilyModerateDysfunction
		s.Advice = "Explore family stressors at follow-up."
	default:
		s.Band = FamilySevereDysfunction
		s.Advice = "Consider family counselling or referral."
	}
	return s
}

// SCREEM rates each family resource domain 0 lacking, 1 partial, 2 adequate.
type SCREEMInput struct {
	Social      int `json:"social"`
	Cultural    int `json:"cultural"`
	Religious   int `json:"religious"`
	Economic    int `json:"economic"`
	Educational int `json:"educational"`
	Medical     int `json:"medical"`
}

const (
	ResourcesAdequate Band = "Adequate resources"
	ResourcesPartial  Band = "Partial resources"
	ResourcesLimited  Band = "Limited resources"
)

func SCREEM(in SCREEMInput) Score {
	c := newCard(ToolSCREEM)
	c.add("Social", clampInt(in.Social, 0, 2), 2)
	c.add("Cultural", clampInt(in.Cultural, 0, 2), 2)
	c.add("Religious", clampInt(in.Religious, 0, 2), 2)
	c.add("Economic", clampInt(in.Economic, 0, 2), 2)
	c.add("Educational", clampInt(in.Educational, 0, 2), 2)
	c.add("Medical", clampInt(in.Medical, 0, 2), 2)

	s := c.score()
	switch {
	case s.Total >= 9:
		s.Band = ResourcesAdequate
		s.Advice = "Family resources can support the care plan."
	case s.Total >= 5:
		s.Band = ResourcesPartial
		s.Advice = "Mobilise the weaker domains when planning care."
	default:
		s.Band = ResourcesLimited
		s.Advice = "Link the family to community and social services."
	}
	return s
}
