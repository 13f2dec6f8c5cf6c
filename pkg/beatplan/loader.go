// Package beatplan loads and validates beat analysis documents: the beat
// timestamps, tempo, and optional user range selection an offline analysis
// step produces for one track.
package beatplan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Selection span limits, mirrored by the config package. A selection narrower
// than the minimum cannot hold a clip; one wider than the maximum defeats the
// point of selecting.
const (
	MinSelectionSpanSec = 1.0
	MaxSelectionSpanSec = 30.0
)

// Selection is an optional user-chosen sub-range of the track.
type Selection struct {
	StartSec float64 `json:"start_s" yaml:"start_s"`
	EndSec   float64 `json:"end_s" yaml:"end_s"`
}

// SpanSec returns the selection width in seconds.
func (s Selection) SpanSec() float64 {
	return s.EndSec - s.StartSec
}

// Document is a validated beat analysis for one track.
type Document struct {
	BPM         float64    `json:"bpm" yaml:"bpm"`
	DurationSec float64    `json:"duration_s" yaml:"duration_s"`
	Beats       []float64  `json:"beats" yaml:"beats"`
	Selection   *Selection `json:"selection,omitempty" yaml:"selection,omitempty"`
}

// Range returns the timeline window to plan over: the user selection when
// present, otherwise the full track.
func (d Document) Range() (startSec, endSec float64) {
	if d.Selection != nil {
		return d.Selection.StartSec, d.Selection.EndSec
	}
	return 0, d.DurationSec
}

// Load reads an analysis document from a JSON or YAML file (by extension) and
// validates it. When validation issues are found the returned error is of
// type ValidationErrors and the parsed document is still returned, so callers
// can decide whether to continue with degraded data.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read analysis file: %w", err)
	}
	if len(data) == 0 {
		return Document{}, errors.New("analysis file is empty")
	}

	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("parse analysis yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("parse analysis json: %w", err)
		}
	}

	if errs := Validate(doc); len(errs) > 0 {
		return doc, errs
	}
	return doc, nil
}

// Validate checks a document's internal consistency.
func Validate(doc Document) ValidationErrors {
	var errs ValidationErrors

	if doc.BPM <= 0 {
		errs = append(errs, ValidationError{
			Field: "bpm", Index: -1,
			Message: fmt.Sprintf("must be positive, got %g", doc.BPM),
		})
	}
	if doc.DurationSec <= 0 {
		errs = append(errs, ValidationError{
			Field: "duration_s", Index: -1,
			Message: fmt.Sprintf("must be positive, got %g", doc.DurationSec),
		})
	}

	prev := -1.0
	for i, b := range doc.Beats {
		if b < 0 {
			errs = append(errs, ValidationError{
				Field: "beats", Index: i,
				Message: fmt.Sprintf("negative timestamp %g", b),
			})
		}
		if doc.DurationSec > 0 && b > doc.DurationSec {
			errs = append(errs, ValidationError{
				Field: "beats", Index: i,
				Message: fmt.Sprintf("timestamp %g past track end %g", b, doc.DurationSec),
			})
		}
		if b <= prev {
			errs = append(errs, ValidationError{
				Field: "beats", Index: i,
				Message: fmt.Sprintf("timestamps must be strictly increasing (%g after %g)", b, prev),
			})
		}
		prev = b
	}

	if doc.Selection != nil {
		errs = append(errs, validateSelection(*doc.Selection, doc.DurationSec)...)
	}

	return errs
}

func validateSelection(sel Selection, durationSec float64) ValidationErrors {
	var errs ValidationErrors

	if sel.StartSec < 0 {
		errs = append(errs, ValidationError{
			Field: "selection.start_s", Index: -1,
			Message: fmt.Sprintf("must not be negative, got %g", sel.StartSec),
		})
	}
	if durationSec > 0 && sel.EndSec > durationSec {
		errs = append(errs, ValidationError{
			Field: "selection.end_s", Index: -1,
			Message: fmt.Sprintf("%g past track end %g", sel.EndSec, durationSec),
		})
	}

	span := sel.SpanSec()
	if span < MinSelectionSpanSec {
		errs = append(errs, ValidationError{
			Field: "selection", Index: -1,
			Message: fmt.Sprintf("span %gs below minimum %gs", span, MinSelectionSpanSec),
		})
	} else if span > MaxSelectionSpanSec {
		errs = append(errs, ValidationError{
			Field: "selection", Index: -1,
			Message: fmt.Sprintf("span %gs above maximum %gs", span, MaxSelectionSpanSec),
		})
	}

	return errs
}
