package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestEffectsTableOutput(t *testing.T) {
	dir := seedProject(t)
	withProject(t, dir)

	var out bytes.Buffer
	cmd := newEffectsCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := runEffects(cmd, nil); err != nil {
		t.Fatalf("runEffects: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "EFFECT") {
		t.Errorf("expected window table header, got:\n%s", text)
	}
	// 9 beats at stride 4 select indices 0, 4, 8; one group of flash.
	if !strings.Contains(text, "flash") {
		t.Errorf("expected flash window, got:\n%s", text)
	}
	if !strings.Contains(text, "Expressions: 1") {
		t.Errorf("expected one expression, got:\n%s", text)
	}
}

func TestEffectsJSONOutput(t *testing.T) {
	dir := seedProject(t)
	withProject(t, dir)
	outputJSON = true

	var out bytes.Buffer
	cmd := newEffectsCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := runEffects(cmd, nil); err != nil {
		t.Fatalf("runEffects: %v", err)
	}
	if !strings.Contains(out.String(), `"windows"`) {
		t.Errorf("expected windows in json, got:\n%s", out.String())
	}
}
