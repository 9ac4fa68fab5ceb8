package score2

import "github.com/Skufu/riskcalc/internal/clinical"

// coefficients is one sex-specific linear predictor. Terms a model does not
// use are left at zero.
type coefficients struct {
	Age      float64
	Smoking  float64
	SBP      float64
	Diabetes float64
	TChol    float64
	HDL      float64

	SmokingAge  float64
	SBPAge      float64
	DiabetesAge float64
	TCholAge    float64
	HDLAge      float64

	// SCORE2-Diabetes extensions.
	AgeAtDiagnosis float64
	HbA1c          float64
	EGFR           float64
	EGFR2          float64
	HbA1cAge       float64
	EGFRAge        float64
}

type scale struct{ S1, S2 float64 }

type regionScales map[clinical.Region]map[clinical.Sex]scale

var score2Coefficients = map[clinical.Sex]coefficients{
	clinical.Male: {
		Age: 0.3742, Smoking: 0.6012, SBP: 0.2777, Diabetes: 0.6457, TChol: 0.1458, HDL: -0.2698,
		SmokingAge: -0.0755, SBPAge: -0.0255, TCholAge: -0.0281, HDLAge: 0.0426, DiabetesAge: -0.0983,
	},
	clinical.Female: {
		Age: 0.4648, Smoking: 0.7744, SBP: 0.3131, Diabetes: 0.8096, TChol: 0.1002, HDL: -0.2606,
		SmokingAge: -0.1088, SBPAge: -0.0277, TCholAge: -0.0226, HDLAge: 0.0613, DiabetesAge: -0.1272,
	},
}

var score2OPCoefficients = map[clinical.Sex]coefficients{
	clinical.Male: {
		Age: 0.0634, Diabetes: 0.4245, Smoking: 0.3524, SBP: 0.0094, TChol: 0.0850, HDL: -0.3564,
		DiabetesAge: -0.0174, SmokingAge: -0.0247, SBPAge: -0.0005, TCholAge: 0.0073, HDLAge: 0.0091,
	},
	clinical.Female: {
		Age: 0.0789, Diabetes: 0.6010, Smoking: 0.4921, SBP: 0.0102, TChol: 0.0605, HDL: -0.3040,
		DiabetesAge: -0.0107, SmokingAge: -0.0255, SBPAge: -0.0004, TCholAge: -0.0009, HDLAge: 0.0154,
	},
}

var score2DiabetesCoefficients = map[clinical.Sex]coefficients{
	clinical.Male: {
		Age: 0.5368, Smoking: 0.4774, SBP: 0.1322, Diabetes: 0.6457, TChol: 0.1102, HDL: -0.1087,
		SmokingAge: -0.0672, SBPAge: -0.0268, DiabetesAge: -0.0983, TCholAge: -0.0181, HDLAge: 0.0095,
		AgeAtDiagnosis: -0.0998, HbA1c: 0.0955, EGFR: -0.0591, EGFR2: 0.0058, HbA1cAge: -0.0134, EGFRAge: 0.0115,
	},
	clinical.Female: {
		Age: 0.6624, Smoking: 0.6139, SBP: 0.1421, Diabetes: 0.8096, TChol: 0.1127, HDL: -0.1568,
		SmokingAge: -0.1122, SBPAge: -0.0167, DiabetesAge: -0.1272, TCholAge: -0.0200, HDLAge: 0.0186,
		AgeAtDiagnosis: -0.1180, HbA1c: 0.1173, EGFR: -0.0640, EGFR2: 0.0062, HbA1cAge: -0.0196, EGFRAge: 0.0169,
	},
}

// Baseline 10-year survival.
var (
	score2BaseSurvival = map[clinical.Sex]float64{clinical.Male: 0.9605, clinical.Female: 0.9776}
	opBaseSurvival     = map[clinical.Sex]float64{clinical.Male: 0.7576, clinical.Female: 0.8082}
	// SCORE2-OP centres the linear predictor on its derivation-cohort mean.
	opMeanLinearPredictor = map[clinical.Sex]float64{clinical.Male: 0.0929, clinical.Female: 0.2290}
)

var score2Scales = regionScales{
	clinical.RegionLow: {
		clinical.Male:   {-0.5699, 0.7476},
		clinical.Female: {-0.7380, 0.7019},
	},
	clinical.RegionModerate: {
		clinical.Male:   {-0.1565, 0.8009},
		clinical.Female: {-0.3143, 0.7701},
	},
	clinical.RegionHigh: {
		clinical.Male:   {0.3207, 0.9360},
		clinical.Female: {0.5710, 0.9369},
	},
	clinical.RegionVeryHigh: {
		clinical.Male:   {0.5836, 0.8294},
		clinical.Female: {0.9412, 0.8329},
	},
}

var score2OPScales = regionScales{
	clinical.RegionLow: {
		clinical.Male:   {-0.34, 1.19},
		clinical.Female: {-0.52, 1.01},
	},
	clinical.RegionModerate: {
		clinical.Male:   {0.01, 1.25},
		clinical.Female: {-0.10, 1.10},
	},
	clinical.RegionHigh: {
		clinical.Male:   {0.08, 1.15},
		clinical.Female: {0.38, 1.09},
	},
	clinical.RegionVeryHigh: {
		clinical.Male:   {0.05, 0.70},
		clinical.Female: {0.38, 0.69},
	},
}

// SCORE2-ASIAN shares the SCORE2 linear predictor and, until a published
// Asia-Pacific recalibration table is supplied, the SCORE2 region scales.
var score2AsianScales = score2Scales
