package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Document is the persisted form of a plan, written to the project meta dir
// so later stages (compose, verify) reuse the exact boundaries the planner
// produced instead of re-planning.
type Document struct {
	GeneratedAt    time.Time  `json:"generated_at"`
	ClipCount      int        `json:"clip_count"`
	MinDurationSec float64    `json:"min_duration_s"`
	MaxDurationSec float64    `json:"max_duration_s"`
	RangeStartSec  float64    `json:"range_start_s"`
	RangeEndSec    float64    `json:"range_end_s"`
	Boundaries     []Boundary `json:"boundaries"`
}

// Save writes the document as indented JSON, creating parent directories as
// needed.
func Save(path string, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure plan dir: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write plan: %w", err)
	}
	return nil
}

// LoadDocument reads a previously saved plan.
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read plan: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode plan: %w", err)
	}
	if len(doc.Boundaries) == 0 {
		return Document{}, fmt.Errorf("plan %s has no boundaries", path)
	}
	return doc, nil
}
