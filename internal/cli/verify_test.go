package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func planProject(t *testing.T) string {
	t.Helper()
	dir := seedProject(t)
	withProject(t, dir)

	var out bytes.Buffer
	cmd := newPlanCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if err := runPlan(cmd, nil); err != nil {
		t.Fatalf("runPlan: %v", err)
	}
	return dir
}

func TestVerifyAllWithinTolerance(t *testing.T) {
	planProject(t)

	prevTolerance := verifyTolerance
	prevStrict := verifyStrict
	verifyTolerance = 0
	verifyStrict = false
	defer func() {
		verifyTolerance = prevTolerance
		verifyStrict = prevStrict
	}()

	var out bytes.Buffer
	cmd := newVerifyCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := runVerify(cmd, nil); err != nil {
		t.Fatalf("runVerify: %v", err)
	}
	if !strings.Contains(out.String(), "all cuts within tolerance") {
		t.Errorf("expected within-tolerance verdict, got: %s", out.String())
	}
}

func TestVerifyStrictFailsOffBeatCuts(t *testing.T) {
	dir := planProject(t)

	// Shift every beat so the stored cuts no longer land on one.
	analysis := `{
  "bpm": 60,
  "duration_s": 10,
  "beats": [1.4, 2.4, 3.4, 4.4, 5.4, 6.4, 7.4, 8.4, 9.4]
}`
	if err := os.WriteFile(filepath.Join(dir, "analysis.json"), []byte(analysis), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	cmd := newVerifyCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	// Set after newVerifyCmd: flag registration resets these variables.
	prevTolerance := verifyTolerance
	prevStrict := verifyStrict
	verifyTolerance = 0.05
	verifyStrict = true
	defer func() {
		verifyTolerance = prevTolerance
		verifyStrict = prevStrict
	}()

	err := runVerify(cmd, nil)
	if err == nil {
		t.Fatal("expected strict verify to fail")
	}
	if !strings.Contains(err.Error(), "exceed tolerance") {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "off-tolerance") {
		t.Errorf("expected off-tolerance rows, got: %s", out.String())
	}
}

func TestVerifyWithoutPlan(t *testing.T) {
	dir := seedProject(t)
	withProject(t, dir)

	var out bytes.Buffer
	cmd := newVerifyCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := runVerify(cmd, nil)
	if err == nil {
		t.Fatal("expected error without a stored plan")
	}
	if !strings.Contains(err.Error(), "beatcut plan") {
		t.Errorf("expected pointer to plan command, got: %v", err)
	}
}
