package anthro

import (
	"math"
	"testing"

	"github.com/Skufu/riskcalc/internal/clinical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBMI_WHO(t *testing.T) {
	r, err := BMI(70, 175, CutoffsWHO)
	require.NoError(t, err)
	assert.Equal(t, 22.9, r.BMI)
	assert.Equal(t, "Normal", r.Category)

	r, err = BMI(120, 170, CutoffsWHO)
	require.NoError(t, err)
	assert.Equal(t, 41.5, r.BMI)
	assert.Equal(t, "Obese class III", r.Category)
}

func TestBMI_AsiaPacificShiftsCategories(t *testing.T) {
	who, err := BMI(70, 170, CutoffsWHO)
	require.NoError(t, err)
	ap, err := BMI(70, 170, CutoffsAsiaPacific)
	require.NoError(t, err)

	assert.Equal(t, 24.2, who.BMI)
	assert.Equal(t, who.BMI, ap.BMI)
	assert.Equal(t, "Normal", who.Category)
	assert.Equal(t, "Overweight", ap.Category)
}

func TestBMI_BoundaryBelongsToUpperCategory(t *testing.T) {
	assert.Equal(t, "Overweight", categorize(whoCategories, 25))
	assert.Equal(t, "Underweight", categorize(whoCategories, 18.4))
	assert.Equal(t, "Obese class II", categorize(asiaPacificCategories, 30))
}

func TestBMI_NoResult(t *testing.T) {
	for _, c := range []struct{ w, h float64 }{{70, 0}, {70, -10}, {0, 170}, {math.NaN(), 170}, {70, math.Inf(1)}} {
		_, err := BMI(c.w, c.h, CutoffsWHO)
		assert.ErrorIs(t, err, clinical.ErrNoResult, "w=%v h=%v", c.w, c.h)
	}
}

func TestParseCutoffs(t *testing.T) {
	c, err := ParseCutoffs("")
	require.NoError(t, err)
	assert.Equal(t, CutoffsWHO, c)
	c, err = ParseCutoffs("Asia-Pacific")
	require.NoError(t, err)
	assert.Equal(t, CutoffsAsiaPacific, c)
	_, err = ParseCutoffs("usa")
	assert.Error(t, err)
}
