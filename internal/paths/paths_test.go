package paths

import (
	"path/filepath"
	"testing"

	"beatcut/internal/config"
)

func TestResolveUsesProjectFlag(t *testing.T) {
	dir := t.TempDir()
	pp, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if pp.Root != dir {
		t.Fatalf("Root = %s, want %s", pp.Root, dir)
	}
	if pp.ConfigFile != filepath.Join(dir, "beatcut.yaml") {
		t.Fatalf("ConfigFile = %s", pp.ConfigFile)
	}
	if pp.PlanFile != filepath.Join(dir, ".beatcut", "plan.json") {
		t.Fatalf("PlanFile = %s", pp.PlanFile)
	}
}

func TestApplyConfigOverridesLocations(t *testing.T) {
	dir := t.TempDir()
	pp, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	cfg := config.Default()
	cfg.AnalysisFile = "beats/track.yaml"
	cfg.ClipsDir = "/abs/clips"

	pp = ApplyConfig(pp, cfg)
	if pp.AnalysisFile != filepath.Join(dir, "beats", "track.yaml") {
		t.Fatalf("AnalysisFile = %s", pp.AnalysisFile)
	}
	if pp.ClipsDir != "/abs/clips" {
		t.Fatalf("ClipsDir = %s", pp.ClipsDir)
	}
}

func TestClipPaths(t *testing.T) {
	pp := newProjectPaths("/proj")
	if got := pp.ClipPath(0); got != "/proj/clips/clip_001.mp4" {
		t.Fatalf("ClipPath(0) = %s", got)
	}
	if got := pp.ConformedClipPath(11); got != "/proj/render/conformed_012.mp4" {
		t.Fatalf("ConformedClipPath(11) = %s", got)
	}
}

func TestEnsureMetaDirs(t *testing.T) {
	pp := newProjectPaths(t.TempDir())
	if err := pp.EnsureMetaDirs(); err != nil {
		t.Fatalf("EnsureMetaDirs error: %v", err)
	}
	for _, dir := range []string{pp.MetaDir, pp.ClipsDir, pp.RenderDir, pp.LogsDir} {
		ok, err := DirExists(dir)
		if err != nil || !ok {
			t.Fatalf("directory %s missing (ok=%v err=%v)", dir, ok, err)
		}
	}
}
