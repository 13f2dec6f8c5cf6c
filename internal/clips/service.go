// Package clips conforms generated clips to their planned boundaries: it
// probes each clip's actual duration, decides the conform action, and runs
// the ffmpeg command that realizes it.
package clips

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"beatcut/internal/config"
	"beatcut/internal/paths"
	"beatcut/internal/plan"
	"beatcut/internal/render"
)

// Status values reported per clip while conforming.
const (
	StatusPending   = "pending"
	StatusProbing   = "probing"
	StatusConform   = "conforming"
	StatusConformed = "conformed"
	StatusMissing   = "missing"
	StatusError     = "error"
)

// ClipResult records the outcome of conforming one clip.
type ClipResult struct {
	Index       int
	SourcePath  string
	OutputPath  string
	ActualSec   float64
	Action      plan.Action
	Status      string
	Err         error
}

// Service runs the conform stage for one project.
type Service struct {
	Paths   paths.ProjectPaths
	Config  config.Config
	Runner  Runner
	FFmpeg  string
	FFprobe string
	Logger  *log.Logger

	// Progress, when set, is called after every per-clip status change.
	Progress func(index int, status string)
}

func (s *Service) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

func (s *Service) report(index int, status string) {
	if s.Progress != nil {
		s.Progress(index, status)
	}
}

// ConformAll probes and conforms every clip against its boundary. A missing
// or failing clip is recorded in its result and does not stop the remaining
// clips; the caller inspects results for partial failure.
func (s *Service) ConformAll(ctx context.Context, boundaries []plan.Boundary) ([]ClipResult, error) {
	if err := os.MkdirAll(s.Paths.RenderDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure render dir: %w", err)
	}

	results := make([]ClipResult, len(boundaries))
	for i, b := range boundaries {
		results[i] = s.conformOne(ctx, i, b)
	}
	return results, nil
}

func (s *Service) conformOne(ctx context.Context, index int, b plan.Boundary) ClipResult {
	result := ClipResult{
		Index:      index,
		SourcePath: s.Paths.ClipPath(index),
		OutputPath: s.Paths.ConformedClipPath(index),
	}

	if ok, err := paths.FileExists(result.SourcePath); err != nil || !ok {
		result.Status = StatusMissing
		result.Err = fmt.Errorf("clip %d not found at %s", index+1, result.SourcePath)
		s.logf("conform clip=%d missing path=%s", index+1, result.SourcePath)
		s.report(index, result.Status)
		return result
	}

	s.report(index, StatusProbing)
	actual, err := ProbeDuration(ctx, s.Runner, s.FFprobe, result.SourcePath)
	if err != nil {
		result.Status = StatusError
		result.Err = err
		s.logf("conform clip=%d probe failed: %v", index+1, err)
		s.report(index, result.Status)
		return result
	}
	result.ActualSec = actual

	result.Action = plan.Conform(actual, b, s.Config.Video.FPS)
	s.logf("conform clip=%d actual=%.3fs planned=%.3fs action=%d",
		index+1, actual, b.DurationSec(), result.Action.Kind)

	s.report(index, StatusConform)
	args, err := render.BuildConformCmd(result.SourcePath, result.OutputPath, result.Action, b, s.Config)
	if err != nil {
		result.Status = StatusError
		result.Err = err
		s.report(index, result.Status)
		return result
	}

	logPath := filepath.Join(s.Paths.LogsDir, fmt.Sprintf("conform_%03d.log", index+1))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		result.Status = StatusError
		result.Err = fmt.Errorf("open conform log: %w", err)
		s.report(index, result.Status)
		return result
	}
	defer logFile.Close()

	if _, err := s.Runner.Run(ctx, s.FFmpeg, args, RunOptions{Stdout: logFile, Stderr: logFile}); err != nil {
		result.Status = StatusError
		result.Err = fmt.Errorf("ffmpeg conform: %w (see %s)", err, logPath)
		s.report(index, result.Status)
		return result
	}

	result.Status = StatusConformed
	s.report(index, result.Status)
	return result
}

// OutputPaths returns the conformed clip paths for successful results, in
// boundary order.
func OutputPaths(results []ClipResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		if r.Status == StatusConformed {
			out = append(out, r.OutputPath)
		}
	}
	return out
}

// FailedCount returns how many clips did not conform.
func FailedCount(results []ClipResult) int {
	failed := 0
	for _, r := range results {
		if r.Status != StatusConformed {
			failed++
		}
	}
	return failed
}
