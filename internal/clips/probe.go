package clips

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

type ffprobeOutput struct {
	Format ffprobeFormat `json:"format"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

// ProbeDuration returns a clip's actual rendered duration in seconds by
// decoding ffprobe's JSON format block.
func ProbeDuration(ctx context.Context, runner Runner, ffprobePath, target string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_format",
		"-print_format", "json",
		target,
	}

	result, err := runner.Run(ctx, ffprobePath, args, RunOptions{})
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", target, err)
	}
	if len(result.Stdout) == 0 {
		return 0, fmt.Errorf("ffprobe produced no output for %s", target)
	}

	var parsed ffprobeOutput
	if err := json.Unmarshal(result.Stdout, &parsed); err != nil {
		return 0, fmt.Errorf("decode ffprobe output: %w", err)
	}
	if parsed.Format.Duration == "" {
		return 0, fmt.Errorf("ffprobe reported no duration for %s", target)
	}

	duration, err := strconv.ParseFloat(parsed.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", parsed.Format.Duration, err)
	}
	return duration, nil
}
