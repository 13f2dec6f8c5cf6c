package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"beatcut/internal/config"
	"beatcut/internal/plan"
)

// BuildConformCmd assembles the ffmpeg CLI arguments that conform one
// generated clip to its planned boundary. NoOp clips are stream-copied so the
// concat step sees a file either way.
func BuildConformCmd(inputPath, outputPath string, a plan.Action, b plan.Boundary, cfg config.Config) ([]string, error) {
	if strings.TrimSpace(inputPath) == "" {
		return nil, errors.New("input path is empty")
	}
	if strings.TrimSpace(outputPath) == "" {
		return nil, errors.New("output path is empty")
	}

	args := []string{
		"-hide_banner",
		"-y",
		"-i", inputPath,
	}

	switch a.Kind {
	case plan.ActionNoOp:
		args = append(args, "-c", "copy", outputPath)
		return args, nil

	case plan.ActionTrim:
		args = append(args, "-t", formatFloat(a.TrimEndSec))

	case plan.ActionExtend:
		filters := FiltersForConform(a, b)
		args = append(args,
			"-vf", strings.Join(filters, ","),
			"-t", formatFloat(b.DurationSec()),
		)

	default:
		return nil, fmt.Errorf("unknown conform action kind %d", a.Kind)
	}

	args = append(args, encodingArgs(cfg)...)
	args = append(args, outputPath)
	return args, nil
}

// BuildEffectsCmd assembles the ffmpeg CLI arguments that apply the beat
// effect filter chain to the concatenated video.
func BuildEffectsCmd(inputPath, outputPath, filterChain string, cfg config.Config) ([]string, error) {
	if strings.TrimSpace(inputPath) == "" {
		return nil, errors.New("input path is empty")
	}
	if strings.TrimSpace(outputPath) == "" {
		return nil, errors.New("output path is empty")
	}

	args := []string{
		"-hide_banner",
		"-y",
		"-i", inputPath,
	}

	if strings.TrimSpace(filterChain) != "" {
		args = append(args, "-vf", filterChain)
	}

	args = append(args, encodingArgs(cfg)...)
	args = append(args,
		"-c:a", "copy",
		"-movflags", "+faststart",
		outputPath,
	)
	return args, nil
}

func encodingArgs(cfg config.Config) []string {
	codec := strings.TrimSpace(cfg.Encoder.Codec)
	if codec == "" {
		codec = "libx264"
	}
	args := []string{"-c:v", codec}

	if preset := strings.TrimSpace(cfg.Encoder.Preset); preset != "" {
		args = append(args, "-preset", preset)
	}
	if cfg.Encoder.CRF >= 0 {
		args = append(args, "-crf", strconv.Itoa(cfg.Encoder.CRF))
	}
	args = append(args, "-pix_fmt", "yuv420p")
	return args
}
