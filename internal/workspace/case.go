package workspace

import (
	"encoding/json"
	"time"

	"github.com/Skufu/riskcalc/internal/clinical"
)

type Patient struct {
	Name        string       `json:"name"`
	YearOfBirth int          `json:"yob"`
	Sex         clinical.Sex `json:"sex"`
	WeightKg    *float64     `json:"weightKg,omitempty"`
	HeightCm    *float64     `json:"heightCm,omitempty"`
}

// ToolResult is one calculator run recorded against a case. Inputs and
// Outputs are stored as given; each tool decides its own shape.
type ToolResult struct {
	Tool    string          `json:"tool"`
	When    time.Time       `json:"when"`
	Inputs  json.RawMessage `json:"inputs"`
	Outputs json.RawMessage `json:"outputs"`
	Summary string          `json:"summary"`
}

type Case struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"createdAt"`
	Patient   Patient      `json:"patient"`
	Results   []ToolResult `json:"results"`
}

func (c *Case) clone() Case {
	out := *c
	out.Results = append([]ToolResult(nil), c.Results...)
	if out.Results == nil {
		out.Results = []ToolResult{}
	}
	return out
}

// Snapshot is the whole persisted workspace.
type Snapshot struct {
	ActiveID string `json:"activeId,omitempty"`
	Cases    []Case `json:"cases"`
}

func encodeSnapshot(s Snapshot) ([]byte, error) {
	if s.Cases == nil {
		s.Cases = []Case{}
	}
	return json.Marshal(s)
}

func decodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}
