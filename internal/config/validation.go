package config

import (
	"fmt"
	"os"
	"path/filepath"

	"beatcut/internal/effects"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// ValidateStrict runs all strict validations against the config and returns
// structured results. projectRoot resolves relative file references.
func (c Config) ValidateStrict(projectRoot string) []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateFiles(projectRoot)...)
	results = append(results, c.validateVideo()...)
	results = append(results, c.validateClips()...)
	results = append(results, c.validateEffects()...)
	results = append(results, c.validateEncoder()...)
	return results
}

func (c Config) validateFiles(projectRoot string) []ValidationResult {
	var results []ValidationResult

	analysis := c.AnalysisFile
	if !filepath.IsAbs(analysis) {
		analysis = filepath.Join(projectRoot, analysis)
	}
	if _, err := os.Stat(analysis); err != nil {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("analysis file %q not found; run beat analysis before planning", c.AnalysisFile),
		})
	}

	clipsDir := c.ClipsDir
	if !filepath.IsAbs(clipsDir) {
		clipsDir = filepath.Join(projectRoot, clipsDir)
	}
	if info, err := os.Stat(clipsDir); err != nil || !info.IsDir() {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("clips directory %q not found; compose needs generated clips", c.ClipsDir),
		})
	}

	return results
}

func (c Config) validateVideo() []ValidationResult {
	var results []ValidationResult
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("invalid video dimensions %dx%d", c.Video.Width, c.Video.Height),
		})
	}
	if c.Video.FPS <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("invalid video fps %g", c.Video.FPS),
		})
	}
	return results
}

func (c Config) validateClips() []ValidationResult {
	var results []ValidationResult
	if c.Clips.Count <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("clip count must be positive, got %d", c.Clips.Count),
		})
	}
	if c.Clips.MinDurationSec <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("minimum clip duration must be positive, got %g", c.Clips.MinDurationSec),
		})
	}
	if c.Clips.MaxDurationSec < c.Clips.MinDurationSec {
		results = append(results, ValidationResult{
			Level: "error",
			Message: fmt.Sprintf("maximum clip duration %g is below minimum %g",
				c.Clips.MaxDurationSec, c.Clips.MinDurationSec),
		})
	}
	return results
}

func (c Config) validateEffects() []ValidationResult {
	var results []ValidationResult
	for _, name := range c.Effects.Order {
		if !effects.Known(effects.Type(name)) {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("unknown effect type %q in effect order", name),
			})
		}
	}
	if c.Effects.Stride <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("effect stride must be positive, got %d", c.Effects.Stride),
		})
	}
	if c.Effects.RepeatCount <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("effect repeat count must be positive, got %d", c.Effects.RepeatCount),
		})
	}
	if c.Effects.TestMode && c.Effects.TestModeMultiplier <= 1 {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("test mode multiplier %g will not make effects more visible", c.Effects.TestModeMultiplier),
		})
	}
	return results
}

func (c Config) validateEncoder() []ValidationResult {
	var results []ValidationResult
	if c.Encoder.MaxBeatsPerExpression <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("max beats per expression must be positive, got %d", c.Encoder.MaxBeatsPerExpression),
		})
	}
	if c.Encoder.CRF < 0 || c.Encoder.CRF > 51 {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("crf %d is outside the usual 0-51 range", c.Encoder.CRF),
		})
	}
	return results
}

// HasErrors reports whether any result is an error (warnings alone pass).
func HasErrors(results []ValidationResult) bool {
	for _, r := range results {
		if r.Level == "error" {
			return true
		}
	}
	return false
}
