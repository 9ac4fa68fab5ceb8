package scores

import (
	"fmt"
	"strings"
)

// Grade is the three-level clinical grading used for ascites and
// encephalopathy.
type Grade int

const (
	GradeNone Grade = iota + 1
	GradeMild
	GradeSevere
)

// ParseGrade accepts "none", "mild"/"grade1-2" and "moderate-severe"/"grade3-4".
func ParseGrade(s string) (Grade, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "absent":
		return GradeNone, nil
	case "mild", "slight", "grade1-2", "grade 1-2":
		return GradeMild, nil
	case "moderate", "severe", "moderate-severe", "grade3-4", "grade 3-4":
		return GradeSevere, nil
	}
	return 0, fmt.Errorf("invalid grade: %q", s)
}

func (g *Grade) UnmarshalText(b []byte) error {
	parsed, err := ParseGrade(string(b))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

func (g Grade) MarshalText() ([]byte, error) {
	switch g {
	case GradeMild:
		return []byte("mild"), nil
	case GradeSevere:
		return []byte("moderate-severe"), nil
	default:
		return []byte("none"), nil
	}
}

// ChildPughInput takes bilirubin in mg/dL and albumin in g/dL.
type ChildPughInput struct {
	Bilirubin      float64 `json:"bilirubin"`
	Albumin        float64 `json:"albumin"`
	INR            float64 `json:"inr"`
	Ascites        Grade   `json:"ascites"`
	Encephalopathy Grade   `json:"encephalopathy"`
}

const (
	ChildPughA Band = "Class A"
	ChildPughB Band = "Class B"
	ChildPughC Band = "Class C"
)

// ChildPugh grades chronic liver disease severity.
func ChildPugh(in ChildPughInput) Score {
	c := newCard(ToolChildPugh)

	switch {
	case in.Bilirubin > 3:
		c.add("Bilirubin", 3, 3)
	case in.Bilirubin >= 2:
		c.add("Bilirubin", 2, 3)
	default:
		c.add("Bilirubin", 1, 3)
	}

	switch {
	case in.Albumin > 3.5:
		c.add("Albumin", 1, 3)
	case in.Albumin >= 2.8:
		c.add("Albumin", 2, 3)
	default:
		c.add("Albumin", 3, 3)
	}

	switch {
	case in.INR > 2.3:
		c.add("INR", 3, 3)
	case in.INR >= 1.7:
		c.add("INR", 2, 3)
	default:
		c.add("INR", 1, 3)
	}

	c.add("Ascites", clampInt(int(in.Ascites), 1, 3), 3)
	c.add("Encephalopathy", clampInt(int(in.Encephalopathy), 1, 3), 3)

	s := c.score()
	var survival float64
	switch {
	case s.Total >= 10:
		s.Band = ChildPughC
		s.Advice = "Decompensated disease: specialist care, consider transplant evaluation."
		survival = 45
	case s.Total >= 7:
		s.Band = ChildPughB
		s.Advice = "Significant functional compromise: review hepatically cleared drugs."
		survival = 80
	default:
		s.Band = ChildPughA
		s.Advice = "Well-compensated disease."
		survival = 100
	}
	s.EstimatePercent = &survival
	return s
}
