package config

import (
	"os"
	"path/filepath"
	"testing"

	"beatcut/internal/effects"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "beatcut.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Video.FPS != 30 || cfg.Clips.Count != 8 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Encoder.MaxBeatsPerExpression != 100 {
		t.Fatalf("max beats default = %d", cfg.Encoder.MaxBeatsPerExpression)
	}
	if cfg.Verify.CutToleranceSec != 0.05 {
		t.Fatalf("cut tolerance default = %v", cfg.Verify.CutToleranceSec)
	}
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "beatcut.yaml")
	contents := `
version: 1
clips:
  count: 5
effects:
  stride: 2
  test_mode: true
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Clips.Count != 5 {
		t.Fatalf("clip count = %d, want 5", cfg.Clips.Count)
	}
	if cfg.Clips.MinDurationSec != 2.5 {
		t.Fatalf("min duration should default, got %v", cfg.Clips.MinDurationSec)
	}
	if cfg.Effects.Stride != 2 {
		t.Fatalf("stride = %d, want 2", cfg.Effects.Stride)
	}
	if cfg.Effects.RepeatCount != 3 {
		t.Fatalf("repeat count should default, got %d", cfg.Effects.RepeatCount)
	}
	if !cfg.Effects.TestMode {
		t.Fatal("test mode should be set")
	}
	if cfg.Effects.TestModeMultiplier != 3.0 {
		t.Fatalf("multiplier should default to 3.0, got %v", cfg.Effects.TestModeMultiplier)
	}
}

func TestEffectOrderSkipsUnknownNames(t *testing.T) {
	cfg := Default()
	cfg.Effects.Order = []string{"flash", "strobe", "glitch"}

	order := cfg.EffectOrder()
	want := []effects.Type{effects.Flash, effects.Glitch}
	if len(order) != len(want) {
		t.Fatalf("order length = %d, want %d", len(order), len(want))
	}
	for i, e := range order {
		if e != want[i] {
			t.Fatalf("order[%d] = %s, want %s", i, e, want[i])
		}
	}
}

func TestEffectOrderFallsBackToDefault(t *testing.T) {
	cfg := Default()
	cfg.Effects.Order = []string{"strobe"}

	order := cfg.EffectOrder()
	if len(order) != len(effects.DefaultOrder) {
		t.Fatalf("expected default order fallback, got %v", order)
	}
}

func TestValidateStrict(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "analysis.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "clips"), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if results := cfg.ValidateStrict(dir); HasErrors(results) {
		t.Fatalf("default config should validate, got %v", results)
	}

	cfg.Effects.Order = []string{"flash", "strobe"}
	cfg.Clips.MaxDurationSec = 1.0
	cfg.Encoder.MaxBeatsPerExpression = 0

	results := cfg.ValidateStrict(dir)
	if !HasErrors(results) {
		t.Fatal("expected validation errors")
	}

	errorCount := 0
	for _, r := range results {
		if r.Level == "error" {
			errorCount++
		}
	}
	if errorCount != 3 {
		t.Fatalf("expected 3 errors (unknown effect, max<min, zero ceiling), got %d: %v", errorCount, results)
	}
}

func TestValidateStrictWarnsOnMissingFiles(t *testing.T) {
	cfg := Default()
	results := cfg.ValidateStrict(t.TempDir())

	warnings := 0
	for _, r := range results {
		if r.Level == "warning" {
			warnings++
		}
	}
	if warnings != 2 {
		t.Fatalf("expected 2 warnings for missing analysis and clips dir, got %v", results)
	}
	if HasErrors(results) {
		t.Fatalf("missing files should warn, not error: %v", results)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "beatcut.yaml")

	cfg := Default()
	cfg.Clips.Count = 12
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Clips.Count != 12 {
		t.Fatalf("round trip lost clip count: %d", loaded.Clips.Count)
	}
}
