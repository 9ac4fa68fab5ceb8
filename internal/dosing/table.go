// Package dosing looks up renal dose adjustments from a table of drugs and
// eGFR bands.
package dosing

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_table.yaml
var defaultTable []byte

var ErrUnknownDrug = errors.New("unknown drug")

type Severity string

const (
	SeverityNone   Severity = "NONE"
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

var severityWeight = map[Severity]int{
	SeverityHigh:   40,
	SeverityMedium: 20,
	SeverityLow:    10,
	SeverityNone:   0,
}

type Band struct {
	Below    float64  `yaml:"below" json:"below"`
	Severity Severity `yaml:"severity" json:"severity"`
	Advice   string   `yaml:"advice" json:"advice"`
}

type Drug struct {
	Name    string   `yaml:"name" json:"name"`
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Bands   []Band   `yaml:"bands" json:"bands"`
}

// Table is an immutable, indexed set of drugs.
type Table struct {
	Drugs []Drug `yaml:"drugs"`

	index map[string]*Drug
}

// Adjustment is the result of a lookup. Severity is NONE when the eGFR is
// above every band of the drug.
type Adjustment struct {
	Drug     string   `json:"drug"`
	EGFR     float64  `json:"egfr"`
	Severity Severity `json:"severity"`
	Advice   string   `json:"advice"`
	// Below is the upper bound of the matched band, zero when none matched.
	Below float64 `json:"below,omitempty"`
}

// LoadTable reads a YAML dosing table from path.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dosing table: %w", err)
	}
	return ParseTable(data)
}

// DefaultTable returns the table compiled into the binary.
func DefaultTable() (*Table, error) {
	return ParseTable(defaultTable)
}

func ParseTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dosing table YAML: %w", err)
	}
	if err := t.build(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Table) build() error {
	t.index = make(map[string]*Drug, len(t.Drugs))
	for i := range t.Drugs {
		d := &t.Drugs[i]
		d.Name = normalizeName(d.Name)
		if d.Name == "" {
			return fmt.Errorf("drug %d: missing name", i)
		}
		for j, b := range d.Bands {
			if _, ok := severityWeight[b.Severity]; !ok || b.Severity == SeverityNone {
				return fmt.Errorf("drug %s band %d: invalid severity %q", d.Name, j, b.Severity)
			}
			if !(b.Below > 0) {
				return fmt.Errorf("drug %s band %d: below must be positive", d.Name, j)
			}
		}
		sort.SliceStable(d.Bands, func(a, b int) bool { return d.Bands[a].Below < d.Bands[b].Below })

		for _, key := range append([]string{d.Name}, d.Aliases...) {
			key = normalizeName(key)
			if _, dup := t.index[key]; dup {
				return fmt.Errorf("duplicate drug name %q", key)
			}
			t.index[key] = d
		}
	}
	return nil
}

// Lookup returns the adjustment for drug at the given eGFR. Drug names and
// aliases match case-insensitively.
func (t *Table) Lookup(drug string, egfr float64) (Adjustment, error) {
	d, ok := t.index[normalizeName(drug)]
	if !ok {
		return Adjustment{}, fmt.Errorf("%w: %q", ErrUnknownDrug, drug)
	}
	adj := Adjustment{Drug: d.Name, EGFR: egfr, Severity: SeverityNone, Advice: "No renal adjustment needed."}
	for _, b := range d.Bands {
		if egfr < b.Below {
			adj.Severity, adj.Advice, adj.Below = b.Severity, b.Advice, b.Below
			break
		}
	}
	return adj, nil
}

// Names lists the canonical drug names in table order.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.Drugs))
	for _, d := range t.Drugs {
		out = append(out, d.Name)
	}
	return out
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
