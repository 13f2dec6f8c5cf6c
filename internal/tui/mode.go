package tui

import (
	"io"
	"os"
	"runtime"
	"strings"
)

// OutputMode describes how the conform stage's progress is rendered.
type OutputMode int

const (
	// ModeTUI uses bubbletea for the interactive per-clip table.
	ModeTUI OutputMode = iota
	// ModePlain logs one line per clip status change, for pipes and dumb
	// terminals.
	ModePlain
	// ModeJSON suppresses progress entirely; the command emits a JSON
	// summary at the end instead.
	ModeJSON
)

// DetectMode determines the appropriate output mode for the given writer.
func DetectMode(out io.Writer, noProgress, jsonOutput bool) OutputMode {
	if jsonOutput {
		return ModeJSON
	}
	if noProgress {
		return ModePlain
	}
	file, ok := out.(*os.File)
	if !ok {
		return ModePlain
	}
	info, err := file.Stat()
	if err != nil {
		return ModePlain
	}
	if info.Mode()&os.ModeCharDevice == 0 {
		return ModePlain
	}
	if runtime.GOOS != "windows" {
		term := os.Getenv("TERM")
		if term == "" || strings.EqualFold(term, "dumb") {
			return ModePlain
		}
	}
	return ModeTUI
}
