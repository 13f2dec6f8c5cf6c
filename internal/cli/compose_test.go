package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"beatcut/internal/plan"
)

func TestComposeDryRun(t *testing.T) {
	dir := seedProject(t)
	withProject(t, dir)

	var out bytes.Buffer
	cmd := newComposeCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	// Set after newComposeCmd: flag registration resets composeDryRun.
	prevDryRun := composeDryRun
	composeDryRun = true
	defer func() { composeDryRun = prevDryRun }()

	if err := runCompose(cmd, nil); err != nil {
		t.Fatalf("runCompose: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Plan: 3 clips") {
		t.Errorf("expected plan summary, got:\n%s", text)
	}
	if !strings.Contains(text, "concat") {
		t.Errorf("expected concat command, got:\n%s", text)
	}
	if !strings.Contains(text, "eq=brightness") {
		t.Errorf("expected effects filter chain, got:\n%s", text)
	}
	if !strings.Contains(text, "final.mp4") {
		t.Errorf("expected output path, got:\n%s", text)
	}

	// Dry run still persists the plan so verify can use it.
	if _, err := plan.LoadDocument(filepath.Join(dir, ".beatcut", "plan.json")); err != nil {
		t.Errorf("expected plan.json after dry run: %v", err)
	}
}
