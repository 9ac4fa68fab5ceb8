package clinical

import (
	"fmt"
	"strings"
)

const (
	creatinineFactor  = 88.4
	cholesterolFactor = 38.67
	hba1cOffset       = 2.15
	hba1cSlope        = 10.929
)

// CreatinineUmolToMgdl converts µmol/L to mg/dL.
func CreatinineUmolToMgdl(umol float64) float64 { return umol / creatinineFactor }

// CreatinineMgdlToUmol converts mg/dL to µmol/L.
func CreatinineMgdlToUmol(mgdl float64) float64 { return mgdl * creatinineFactor }

// CholesterolMmolToMgdl converts mmol/L to mg/dL.
func CholesterolMmolToMgdl(mmol float64) float64 { return mmol * cholesterolFactor }

// HbA1cPctToMmolMol converts an NGSP percentage to IFCC mmol/mol.
func HbA1cPctToMmolMol(pct float64) float64 { return (pct - hba1cOffset) * hba1cSlope }

type CreatinineUnit string

const (
	UmolPerL CreatinineUnit = "umol/L"
	MgPerDL  CreatinineUnit = "mg/dL"
)

func ParseCreatinineUnit(s string) (CreatinineUnit, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "µ", "u")) {
	case "", "umol/l", "umol":
		return UmolPerL, nil
	case "mg/dl", "mg":
		return MgPerDL, nil
	default:
		return "", fmt.Errorf("invalid creatinine unit: %q", s)
	}
}

type HbA1cUnit string

const (
	MmolPerMol HbA1cUnit = "mmol/mol"
	Percent    HbA1cUnit = "%"
)

func ParseHbA1cUnit(s string) (HbA1cUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mmol/mol", "ifcc":
		return MmolPerMol, nil
	case "%", "pct", "percent", "ngsp":
		return Percent, nil
	default:
		return "", fmt.Errorf("invalid HbA1c unit: %q", s)
	}
}

// HbA1cToMmolMol normalises an HbA1c reading to mmol/mol.
func HbA1cToMmolMol(v float64, unit HbA1cUnit) float64 {
	if unit == Percent {
		return HbA1cPctToMmolMol(v)
	}
	return v
}
