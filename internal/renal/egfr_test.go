package renal

import (
	"math"
	"testing"

	"github.com/Skufu/riskcalc/internal/clinical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate_CKDEPI2021(t *testing.T) {
	res, err := Estimate(Input{Formula: CKDEPI2021, Sex: clinical.Female, Age: 40, Creatinine: 80, CreatinineUnit: clinical.UmolPerL})
	require.NoError(t, err)
	assert.Equal(t, 82.3, res.Value)
	assert.Equal(t, G2, res.Stage)
	assert.True(t, res.Staged)

	res, err = Estimate(Input{Formula: CKDEPI2021, Sex: clinical.Female, Age: 40, Creatinine: 60})
	require.NoError(t, err)
	assert.Equal(t, 112.9, res.Value)
	assert.Equal(t, G1, res.Stage)

	res, err = Estimate(Input{Formula: CKDEPI2021, Sex: clinical.Male, Age: 60, Creatinine: 1.2, CreatinineUnit: clinical.MgPerDL})
	require.NoError(t, err)
	assert.Equal(t, 69.2, res.Value)
}

func TestEstimate_OtherFormulas(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		want float64
	}{
		{"ckd-epi-2009", Input{Formula: CKDEPI2009, Sex: clinical.Male, Age: 60, Creatinine: 1.2, CreatinineUnit: clinical.MgPerDL}, 65.3},
		{"ckd-epi-2009 black", Input{Formula: CKDEPI2009, Sex: clinical.Male, Age: 60, Creatinine: 1.2, CreatinineUnit: clinical.MgPerDL, Black: true}, 75.7},
		{"mdrd", Input{Formula: MDRD175, Sex: clinical.Male, Age: 60, Creatinine: 1.2, CreatinineUnit: clinical.MgPerDL}, 61.8},
		{"mdrd female", Input{Formula: MDRD175, Sex: clinical.Female, Age: 60, Creatinine: 1.2, CreatinineUnit: clinical.MgPerDL}, 45.8},
		{"cockcroft-gault", Input{Formula: CockcroftGault, Sex: clinical.Male, Age: 60, Creatinine: 1.2, CreatinineUnit: clinical.MgPerDL, WeightKg: 80}, 74.1},
		{"cockcroft-gault female", Input{Formula: CockcroftGault, Sex: clinical.Female, Age: 60, Creatinine: 1.2, CreatinineUnit: clinical.MgPerDL, WeightKg: 80}, 63.0},
		{"schwartz", Input{Formula: Schwartz, Sex: clinical.Male, Age: 8, Creatinine: 0.5, CreatinineUnit: clinical.MgPerDL, HeightCm: 120}, 99.1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Estimate(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Value)
		})
	}
}

func TestEstimate_CockcroftGaultIsNotStaged(t *testing.T) {
	res, err := Estimate(Input{Formula: CockcroftGault, Sex: clinical.Male, Age: 60, Creatinine: 106, WeightKg: 80})
	require.NoError(t, err)
	assert.False(t, res.Staged)
	assert.Empty(t, res.Stage)
	assert.Equal(t, "mL/min", res.Unit)
}

func TestEstimate_MonotonicInCreatinine(t *testing.T) {
	formulas := []Formula{CKDEPI2021, CKDEPI2009, MDRD175, CockcroftGault, Schwartz}
	for _, f := range formulas {
		for _, sex := range []clinical.Sex{clinical.Male, clinical.Female} {
			prev := math.Inf(1)
			for scr := 30.0; scr <= 800; scr += 10 {
				res, err := Estimate(Input{Formula: f, Sex: sex, Age: 55, Creatinine: scr, WeightKg: 70, HeightCm: 150})
				require.NoError(t, err)
				assert.LessOrEqual(t, res.Value, prev, "%s %s scr=%g", f, sex, scr)
				prev = res.Value
			}
		}
	}
}

func TestEstimate_FloorsBadCreatinine(t *testing.T) {
	for _, scr := range []float64{0, -5, math.NaN(), math.Inf(-1)} {
		res, err := Estimate(Input{Formula: CKDEPI2021, Sex: clinical.Male, Age: 50, Creatinine: scr})
		require.NoError(t, err)
		assert.Greater(t, res.Value, 0.0)
		assert.Equal(t, G1, res.Stage)
	}
}

func TestEstimate_InvalidInput(t *testing.T) {
	_, err := Estimate(Input{Formula: CKDEPI2021, Sex: "x", Age: 50, Creatinine: 80})
	assert.Error(t, err)

	_, err = Estimate(Input{Formula: Formula(9), Sex: clinical.Male, Age: 50, Creatinine: 80})
	assert.Error(t, err)

	_, err = Estimate(Input{Formula: MDRD175, Sex: clinical.Male, Age: math.NaN(), Creatinine: 80})
	assert.ErrorIs(t, err, clinical.ErrNoResult)
}

func TestEstimate_MissingAnthropometryIsNoResult(t *testing.T) {
	for name, in := range map[string]Input{
		"schwartz no height":        {Formula: Schwartz, Sex: clinical.Female, Age: 8, Creatinine: 40},
		"schwartz negative height":  {Formula: Schwartz, Sex: clinical.Female, Age: 8, Creatinine: 40, HeightCm: -120},
		"schwartz inf height":       {Formula: Schwartz, Sex: clinical.Female, Age: 8, Creatinine: 40, HeightCm: math.Inf(1)},
		"cockcroft-gault no weight": {Formula: CockcroftGault, Sex: clinical.Male, Age: 60, Creatinine: 106},
		"cockcroft-gault age 150":   {Formula: CockcroftGault, Sex: clinical.Male, Age: 150, Creatinine: 106, WeightKg: 80},
	} {
		t.Run(name, func(t *testing.T) {
			res, err := Estimate(in)
			assert.ErrorIs(t, err, clinical.ErrNoResult)
			assert.False(t, res.Staged)
		})
	}
}

func TestStageFor(t *testing.T) {
	cases := map[float64]Stage{
		120: G1, 90: G1, 89.9: G2, 60: G2, 59: G3a, 45: G3a, 44.9: G3b, 30: G3b, 29: G4, 15: G4, 14.9: G5, 0: G5,
	}
	for egfr, want := range cases {
		assert.Equal(t, want, StageFor(egfr), "egfr=%g", egfr)
	}
	assert.Equal(t, "Kidney failure", G5.Label())
}

func TestParseFormula(t *testing.T) {
	for tag, want := range map[string]Formula{
		"ckd-epi-2021":    CKDEPI2021,
		"CKD_EPI_2009":    CKDEPI2009,
		"mdrd-175":        MDRD175,
		"cockcroft-gault": CockcroftGault,
		"schwartz":        Schwartz,
	} {
		f, err := ParseFormula(tag)
		require.NoError(t, err)
		assert.Equal(t, want, f)
	}
	_, err := ParseFormula("cystatin")
	assert.Error(t, err)
}
