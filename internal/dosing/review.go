package dosing

import (
	"fmt"
	"strings"
)

// Review is the renal check of a whole medication list.
type Review struct {
	EGFR        float64      `json:"egfr"`
	Findings    []Adjustment `json:"findings"`
	Unknown     []string     `json:"unknown,omitempty"`
	MaxSeverity Severity     `json:"maxSeverity"`
	// RiskScore sums severity weights, capped at 100.
	RiskScore int      `json:"riskScore"`
	Issues    []string `json:"issues"`
}

// ReviewList checks a comma- or semicolon-separated medication list against
// the table. Drugs missing from the table are reported, not rejected.
func (t *Table) ReviewList(medications string, egfr float64) Review {
	r := Review{EGFR: egfr, Findings: []Adjustment{}, MaxSeverity: SeverityNone}
	seen := map[string]bool{}
	for _, med := range normalizeList(medications) {
		adj, err := t.Lookup(med, egfr)
		if err != nil {
			// "metformin 500mg bd" matches on its first word.
			adj, err = t.Lookup(strings.Fields(med)[0], egfr)
		}
		if err != nil {
			r.Unknown = append(r.Unknown, med)
			continue
		}
		if seen[adj.Drug] {
			continue
		}
		seen[adj.Drug] = true
		if adj.Severity == SeverityNone {
			continue
		}
		r.Findings = append(r.Findings, adj)
		r.RiskScore += severityWeight[adj.Severity]
		if severityWeight[adj.Severity] > severityWeight[r.MaxSeverity] {
			r.MaxSeverity = adj.Severity
		}
		r.Issues = append(r.Issues, fmt.Sprintf("[%s] %s: %s", adj.Severity, adj.Drug, adj.Advice))
	}
	if r.RiskScore > 100 {
		r.RiskScore = 100
	}
	if len(r.Issues) == 0 {
		r.Issues = []string{"None"}
	}
	return r
}

func normalizeList(text string) []string {
	out := []string{}
	for _, t := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	}) {
		trimmed := strings.TrimSpace(t)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
