// Package tools locates the external media binaries the compose pipeline
// shells out to.
package tools

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Status reports whether one required tool is usable.
type Status struct {
	Tool    string `json:"tool"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Found   bool   `json:"found"`
	Error   string `json:"error,omitempty"`
}

// KnownTools lists the binaries beatcut requires.
func KnownTools() []string {
	return []string{"ffmpeg", "ffprobe"}
}

// Lookup resolves a tool name to an executable path via PATH.
func Lookup(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH: %w", name, err)
	}
	return path, nil
}

// Detect checks each known tool and reads its version banner.
func Detect(ctx context.Context) []Status {
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	var statuses []Status
	for _, name := range KnownTools() {
		statuses = append(statuses, detectOne(ctx, name))
	}
	return statuses
}

func detectOne(ctx context.Context, name string) Status {
	status := Status{Tool: name}

	path, err := Lookup(name)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Path = path
	status.Found = true

	out, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		status.Error = fmt.Sprintf("read version: %v", err)
		return status
	}
	status.Version = parseVersionBanner(string(out))
	return status
}

// parseVersionBanner extracts the version token from ffmpeg/ffprobe's first
// banner line, e.g. "ffmpeg version 6.1.1 Copyright ..." -> "6.1.1".
func parseVersionBanner(banner string) string {
	line := banner
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	for i, f := range fields {
		if f == "version" && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return ""
}

// EnsureAll resolves every known tool, returning paths keyed by tool name.
func EnsureAll() (map[string]string, error) {
	found := make(map[string]string, len(KnownTools()))
	for _, name := range KnownTools() {
		path, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		found[name] = path
	}
	return found, nil
}
