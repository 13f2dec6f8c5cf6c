package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStatusFreshProject(t *testing.T) {
	dir := seedProject(t)
	withProject(t, dir)

	var out bytes.Buffer
	cmd := newStatusCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := runStatus(cmd, nil); err != nil {
		t.Fatalf("runStatus: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "analysis") || !strings.Contains(text, "ok (9 beats)") {
		t.Errorf("expected analysis state with beat count, got:\n%s", text)
	}
	if !strings.Contains(text, "plan") || !strings.Contains(text, "missing") {
		t.Errorf("expected missing plan, got:\n%s", text)
	}
	if !strings.Contains(text, "0/3 present") {
		t.Errorf("expected no clips present, got:\n%s", text)
	}
}

func TestStatusAfterPlanAndClips(t *testing.T) {
	dir := planProject(t)

	clipsDir := filepath.Join(dir, "clips")
	if err := os.MkdirAll(clipsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"clip_001.mp4", "clip_002.mp4"} {
		if err := os.WriteFile(filepath.Join(clipsDir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	cmd := newStatusCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := runStatus(cmd, nil); err != nil {
		t.Fatalf("runStatus: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "ok (3 clips)") {
		t.Errorf("expected plan with 3 clips, got:\n%s", text)
	}
	if !strings.Contains(text, "2/3 present") {
		t.Errorf("expected 2 clips present, got:\n%s", text)
	}
}

func TestStatusJSON(t *testing.T) {
	dir := seedProject(t)
	withProject(t, dir)
	outputJSON = true

	var out bytes.Buffer
	cmd := newStatusCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := runStatus(cmd, nil); err != nil {
		t.Fatalf("runStatus: %v", err)
	}

	var report statusReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("decode status json: %v\n%s", err, out.String())
	}
	if report.Project != dir {
		t.Errorf("expected project %s, got %s", dir, report.Project)
	}
	if report.BeatCount != 9 || report.AnalysisState != "ok" {
		t.Errorf("unexpected analysis fields: %+v", report)
	}
	if report.PlanState != "missing" {
		t.Errorf("expected missing plan, got %q", report.PlanState)
	}
}
