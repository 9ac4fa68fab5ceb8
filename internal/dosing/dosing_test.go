package dosing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTableT(t *testing.T) *Table {
	t.Helper()
	tbl, err := DefaultTable()
	require.NoError(t, err)
	return tbl
}

func TestLookup_Metformin(t *testing.T) {
	tbl := defaultTableT(t)

	cases := []struct {
		egfr float64
		want Severity
	}{
		{90, SeverityNone},
		{60, SeverityNone},
		{59.9, SeverityLow},
		{44, SeverityMedium},
		{30, SeverityMedium},
		{29, SeverityHigh},
	}
	for _, c := range cases {
		adj, err := tbl.Lookup("metformin", c.egfr)
		require.NoError(t, err)
		assert.Equal(t, c.want, adj.Severity, "egfr=%v", c.egfr)
	}

	adj, err := tbl.Lookup("Metformin", 40)
	require.NoError(t, err)
	assert.Equal(t, "metformin", adj.Drug)
	assert.Equal(t, 45.0, adj.Below)
	assert.Contains(t, adj.Advice, "1000 mg/day")
}

func TestLookup_Alias(t *testing.T) {
	adj, err := defaultTableT(t).Lookup(" Xarelto ", 40)
	require.NoError(t, err)
	assert.Equal(t, "rivaroxaban", adj.Drug)
	assert.Equal(t, SeverityMedium, adj.Severity)
}

func TestLookup_UnknownDrug(t *testing.T) {
	_, err := defaultTableT(t).Lookup("unobtainium", 40)
	assert.ErrorIs(t, err, ErrUnknownDrug)
}

func TestParseTable_SortsBands(t *testing.T) {
	tbl, err := ParseTable([]byte(`
drugs:
  - name: Foo
    bands:
      - {below: 60, severity: LOW, advice: watch}
      - {below: 30, severity: HIGH, advice: stop}
`))
	require.NoError(t, err)
	adj, err := tbl.Lookup("foo", 20)
	require.NoError(t, err)
	assert.Equal(t, SeverityHigh, adj.Severity)
	assert.Equal(t, []string{"foo"}, tbl.Names())
}

func TestParseTable_Invalid(t *testing.T) {
	for name, doc := range map[string]string{
		"syntax":    "drugs: [",
		"no name":   "drugs:\n  - bands: []\n",
		"severity":  "drugs:\n  - name: a\n    bands:\n      - {below: 30, severity: URGENT}\n",
		"below":     "drugs:\n  - name: a\n    bands:\n      - {below: 0, severity: LOW}\n",
		"duplicate": "drugs:\n  - name: a\n  - name: b\n    aliases: [A]\n",
	} {
		_, err := ParseTable([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte("drugs:\n  - name: bar\n    bands:\n      - {below: 50, severity: MEDIUM, advice: halve}\n"), 0o600))

	tbl, err := LoadTable(path)
	require.NoError(t, err)
	adj, err := tbl.Lookup("bar", 49)
	require.NoError(t, err)
	assert.Equal(t, "halve", adj.Advice)

	_, err = LoadTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestReviewList(t *testing.T) {
	r := defaultTableT(t).ReviewList("Metformin 500mg; glucophage, dabigatran\nallopurinol, paracetamol", 25)

	assert.Equal(t, SeverityHigh, r.MaxSeverity)
	require.Len(t, r.Findings, 3)
	assert.Equal(t, "metformin", r.Findings[0].Drug)
	assert.Equal(t, "dabigatran", r.Findings[1].Drug)
	assert.Equal(t, "allopurinol", r.Findings[2].Drug)
	assert.Equal(t, SeverityMedium, r.Findings[2].Severity)
	assert.Equal(t, []string{"paracetamol"}, r.Unknown)
	assert.Equal(t, 100, r.RiskScore)
	assert.Len(t, r.Issues, 3)
}

func TestReviewList_Clean(t *testing.T) {
	r := defaultTableT(t).ReviewList("metformin, tadalafil", 95)
	assert.Empty(t, r.Findings)
	assert.Equal(t, SeverityNone, r.MaxSeverity)
	assert.Equal(t, []string{"None"}, r.Issues)
}
