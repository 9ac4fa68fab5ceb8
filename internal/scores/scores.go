// Package scores implements the rule-based bedside scores: each one sums a
// fixed set of weighted criteria and bands the total through a fixed table.
package scores

import "fmt"

type Tool string

const (
	ToolCHA2DS2VASc Tool = "cha2ds2-vasc"
	ToolHASBLED     Tool = "has-bled"
	ToolCURB65      Tool = "curb-65"
	ToolCentor      Tool = "centor"
	ToolQSOFA       Tool = "qsofa"
	ToolChildPugh   Tool = "child-pugh"
	ToolFamilyAPGAR Tool = "family-apgar"
	ToolSCREEM      Tool = "screem"
)

// Tools lists every score in this package.
var Tools = []Tool{
	ToolCHA2DS2VASc, ToolHASBLED, ToolCURB65, ToolCentor,
	ToolQSOFA, ToolChildPugh, ToolFamilyAPGAR, ToolSCREEM,
}

func ParseTool(s string) (Tool, error) {
	for _, t := range Tools {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown score: %q", s)
}

type Band string

const (
	BandLow      Band = "Low"
	BandModerate Band = "Moderate"
	BandHigh     Band = "High"
)

// Item is one criterion of a score. The client draws the score composition
// from these.
type Item struct {
	Name      string `json:"name"`
	Points    int    `json:"points"`
	MaxPoints int    `json:"maxPoints"`
}

type Score struct {
	Tool   Tool   `json:"tool"`
	Total  int    `json:"total"`
	Max    int    `json:"max"`
	Band   Band   `json:"band"`
	Advice string `json:"advice"`
	Items  []Item `json:"items"`
	// EstimatePercent is an event-rate estimate for scores that publish one.
	EstimatePercent *float64 `json:"estimatePercent,omitempty"`
}

// card accumulates criteria for one score.
type card struct {
	tool  Tool
	items []Item
}

func newCard(tool Tool) *card {
	return &card{tool: tool}
}

// flag adds a yes/no criterion worth points when present.
func (c *card) flag(name string, present bool, points int) {
	v := 0
	if present {
		v = points
	}
	c.add(name, v, points)
}

func (c *card) add(name string, points, max int) {
	c.items = append(c.items, Item{Name: name, Points: points, MaxPoints: max})
}

func (c *card) score() Score {
	s := Score{Tool: c.tool, Items: c.items}
	for _, it := range c.items {
		s.Total += it.Points
		s.Max += it.MaxPoints
	}
	return s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
