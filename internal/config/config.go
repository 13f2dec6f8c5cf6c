package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"beatcut/internal/effects"
)

// Selection span limits for a user-selected sub-range of the track.
const (
	MinSelectionSpanSec = 1.0
	MaxSelectionSpanSec = 30.0
)

// Config captures the composition configuration for a project.
type Config struct {
	Version      int            `yaml:"version"`
	AnalysisFile string         `yaml:"analysis_file"`
	ClipsDir     string         `yaml:"clips_dir"`
	Video        VideoConfig    `yaml:"video"`
	Clips        ClipsConfig    `yaml:"clips"`
	Effects      EffectsConfig  `yaml:"effects"`
	Encoder      EncoderConfig  `yaml:"encoder"`
	Verify       VerifyConfig   `yaml:"verify"`
}

// VideoConfig contains output sizing and framerate information.
type VideoConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	FPS    float64 `yaml:"fps"`
}

// ClipsConfig controls boundary planning.
type ClipsConfig struct {
	Count          int     `yaml:"count"`
	MinDurationSec float64 `yaml:"min_duration_s"`
	MaxDurationSec float64 `yaml:"max_duration_s"`
}

// EffectsConfig controls beat selection and effect rotation.
type EffectsConfig struct {
	Order              []string `yaml:"order"`
	Stride             int      `yaml:"stride"`
	RepeatCount        int      `yaml:"repeat_count"`
	TestMode           bool     `yaml:"test_mode"`
	TestModeMultiplier float64  `yaml:"test_mode_multiplier"`
}

// EncoderConfig describes the ffmpeg invocation and its expression limits.
type EncoderConfig struct {
	Codec                 string `yaml:"codec"`
	Preset                string `yaml:"preset"`
	CRF                   int    `yaml:"crf"`
	MaxBeatsPerExpression int    `yaml:"max_beats_per_expression"`
}

// VerifyConfig holds the cut verification tolerance. Cuts are less forgiving
// than effect flashes, so this is wider than any per-effect tolerance.
type VerifyConfig struct {
	CutToleranceSec float64 `yaml:"cut_tolerance_s"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version:      1,
		AnalysisFile: "analysis.json",
		ClipsDir:     "clips",
		Video: VideoConfig{
			Width:  1280,
			Height: 720,
			FPS:    30,
		},
		Clips: ClipsConfig{
			Count:          8,
			MinDurationSec: 2.5,
			MaxDurationSec: 6.0,
		},
		Effects: EffectsConfig{
			Order:              effectOrderStrings(effects.DefaultOrder),
			Stride:             4,
			RepeatCount:        3,
			TestMode:           false,
			TestModeMultiplier: 3.0,
		},
		Encoder: EncoderConfig{
			Codec:                 "libx264",
			Preset:                "veryfast",
			CRF:                   23,
			MaxBeatsPerExpression: 100,
		},
		Verify: VerifyConfig{
			CutToleranceSec: 0.05,
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// Save writes the configuration to disk as YAML.
func Save(path string, cfg Config) error {
	contents, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ApplyDefaults ensures nested fields fall back to sensible defaults when the
// YAML omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.AnalysisFile == "" {
		c.AnalysisFile = defaults.AnalysisFile
	}
	if c.ClipsDir == "" {
		c.ClipsDir = defaults.ClipsDir
	}
	if c.Video.Width == 0 {
		c.Video.Width = defaults.Video.Width
	}
	if c.Video.Height == 0 {
		c.Video.Height = defaults.Video.Height
	}
	if c.Video.FPS == 0 {
		c.Video.FPS = defaults.Video.FPS
	}
	if c.Clips.Count == 0 {
		c.Clips.Count = defaults.Clips.Count
	}
	if c.Clips.MinDurationSec == 0 {
		c.Clips.MinDurationSec = defaults.Clips.MinDurationSec
	}
	if c.Clips.MaxDurationSec == 0 {
		c.Clips.MaxDurationSec = defaults.Clips.MaxDurationSec
	}
	if len(c.Effects.Order) == 0 {
		c.Effects.Order = defaults.Effects.Order
	}
	if c.Effects.Stride == 0 {
		c.Effects.Stride = defaults.Effects.Stride
	}
	if c.Effects.RepeatCount == 0 {
		c.Effects.RepeatCount = defaults.Effects.RepeatCount
	}
	if c.Effects.TestModeMultiplier == 0 {
		c.Effects.TestModeMultiplier = defaults.Effects.TestModeMultiplier
	}
	if c.Encoder.Codec == "" {
		c.Encoder.Codec = defaults.Encoder.Codec
	}
	if c.Encoder.Preset == "" {
		c.Encoder.Preset = defaults.Encoder.Preset
	}
	if c.Encoder.CRF == 0 {
		c.Encoder.CRF = defaults.Encoder.CRF
	}
	if c.Encoder.MaxBeatsPerExpression == 0 {
		c.Encoder.MaxBeatsPerExpression = defaults.Encoder.MaxBeatsPerExpression
	}
	if c.Verify.CutToleranceSec == 0 {
		c.Verify.CutToleranceSec = defaults.Verify.CutToleranceSec
	}
}

// EffectOrder converts the configured order strings into effect types.
// Unknown names are skipped here; ValidateStrict reports them.
func (c Config) EffectOrder() []effects.Type {
	var order []effects.Type
	for _, name := range c.Effects.Order {
		t := effects.Type(name)
		if effects.Known(t) {
			order = append(order, t)
		}
	}
	if len(order) == 0 {
		return effects.DefaultOrder
	}
	return order
}

// ScheduleConfig builds the scheduler configuration from the effects section.
func (c Config) ScheduleConfig() effects.ScheduleConfig {
	return effects.ScheduleConfig{
		Order:       c.EffectOrder(),
		Stride:      c.Effects.Stride,
		RepeatCount: c.Effects.RepeatCount,
		TestMode:    c.Effects.TestMode,
		Multiplier:  c.Effects.TestModeMultiplier,
	}
}

func effectOrderStrings(order []effects.Type) []string {
	names := make([]string, len(order))
	for i, t := range order {
		names[i] = string(t)
	}
	return names
}
