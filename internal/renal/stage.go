package renal

// Stage is the KDIGO GFR category.
type Stage string

const (
	G1  Stage = "G1"
	G2  Stage = "G2"
	G3a Stage = "G3a"
	G3b Stage = "G3b"
	G4  Stage = "G4"
	G5  Stage = "G5"
)

var stageLabels = map[Stage]string{
	G1:  "Normal or high",
	G2:  "Mildly decreased",
	G3a: "Mildly to moderately decreased",
	G3b: "Moderately to severely decreased",
	G4:  "Severely decreased",
	G5:  "Kidney failure",
}

// StageFor bands an eGFR in mL/min/1.73m².
func StageFor(egfr float64) Stage {
	switch {
	case egfr >= 90:
		return G1
	case egfr >= 60:
		return G2
	case egfr >= 45:
		return G3a
	case egfr >= 30:
		return G3b
	case egfr >= 15:
		return G4
	default:
		return G5
	}
}

func (s Stage) Label() string { return stageLabels[s] }
