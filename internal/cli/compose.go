package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"beatcut/internal/clips"
	"beatcut/internal/config"
	"beatcut/internal/effects"
	"beatcut/internal/logx"
	"beatcut/internal/paths"
	"beatcut/internal/plan"
	"beatcut/internal/render"
	"beatcut/internal/tools"
	"beatcut/internal/tui"
	"beatcut/internal/verify"
)

var (
	composeDryRun     bool
	composeNoProgress bool
)

func newComposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Run the full pipeline: plan, conform, concat, effects, verify",
		RunE:  runCompose,
	}

	cmd.Flags().BoolVar(&composeDryRun, "dry-run", false, "print the ffmpeg commands without running them")
	cmd.Flags().BoolVar(&composeNoProgress, "no-progress", false, "disable interactive progress output")
	return cmd
}

func runCompose(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}
	pp = paths.ApplyConfig(pp, cfg)

	if err := ensureProjectDirs(pp); err != nil {
		return err
	}

	logger, closer, err := logx.New(pp)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Printf("beatcut compose: project=%s dry_run=%v", pp.Root, composeDryRun)

	grid, err := loadGrid(pp, cfg)
	if err != nil {
		return err
	}

	boundaries, err := plan.Plan(grid, cfg.Clips.Count, cfg.Clips.MinDurationSec, cfg.Clips.MaxDurationSec)
	if err != nil {
		return err
	}
	doc := plan.Document{
		GeneratedAt:    time.Now().UTC(),
		ClipCount:      cfg.Clips.Count,
		MinDurationSec: cfg.Clips.MinDurationSec,
		MaxDurationSec: cfg.Clips.MaxDurationSec,
		RangeStartSec:  grid.RangeStart(),
		RangeEndSec:    grid.RangeEnd(),
		Boundaries:     boundaries,
	}
	if err := plan.Save(pp.PlanFile, doc); err != nil {
		return err
	}
	logger.Printf("planned %d boundaries over [%.3f,%.3f]", len(boundaries), grid.RangeStart(), grid.RangeEnd())

	windows := effects.Schedule(grid, cfg.ScheduleConfig())
	exprs := render.BuildExpressions(windows, render.BuildConfig{
		FrameRate:             cfg.Video.FPS,
		TotalTimelineSec:      grid.RangeEnd() - grid.RangeStart(),
		MaxBeatsPerExpression: cfg.Encoder.MaxBeatsPerExpression,
		TestMode:              cfg.Effects.TestMode,
		TestModeMultiplier:    cfg.Effects.TestModeMultiplier,
	})
	chain, err := render.FilterChain(exprs, cfg.Video.Width, cfg.Video.Height, cfg.Video.FPS)
	if err != nil {
		return err
	}
	logger.Printf("scheduled %d effect windows into %d expressions", len(windows), len(exprs))

	concatFile := filepath.Join(pp.MetaDir, "concat.txt")
	concatOutput := filepath.Join(pp.RenderDir, "timeline.mp4")

	if composeDryRun {
		return writeDryRun(cmd, pp, boundaries, chain, concatFile, concatOutput)
	}

	binaries, err := tools.EnsureAll()
	if err != nil {
		return fmt.Errorf("%w; run `beatcut check`", err)
	}

	svc := &clips.Service{
		Paths:   pp,
		Config:  cfg,
		Runner:  clips.CmdRunner{},
		FFmpeg:  binaries["ffmpeg"],
		FFprobe: binaries["ffprobe"],
		Logger:  logger,
	}

	results, err := runConformStage(ctx, cmd, svc, boundaries)
	if err != nil {
		return err
	}
	if failed := clips.FailedCount(results); failed > 0 {
		return composeFailure(cmd, results, failed)
	}

	sw := tui.NewStatusWriter(cmd.ErrOrStderr())
	defer sw.Stop()

	sw.Update("concatenating conformed clips")
	if err := render.WriteConcatList(concatFile, clips.OutputPaths(results)); err != nil {
		return err
	}
	if err := runFFmpeg(ctx, svc, render.BuildConcatCmd(concatFile, concatOutput), filepath.Join(pp.LogsDir, "concat.log")); err != nil {
		return err
	}
	logger.Printf("concatenated %d clips into %s", len(results), concatOutput)

	sw.Update("rendering beat effects")
	effectsArgs, err := render.BuildEffectsCmd(concatOutput, pp.OutputFile, chain, cfg)
	if err != nil {
		return err
	}
	if err := runFFmpeg(ctx, svc, effectsArgs, filepath.Join(pp.LogsDir, "effects.log")); err != nil {
		return err
	}
	logger.Printf("rendered effects into %s", pp.OutputFile)
	sw.Stop()

	result := verify.Verify(boundaries, grid, cfg.Verify.CutToleranceSec)
	logger.Printf("verify: max_error=%.4fs within_tolerance=%v", result.MaxErrorSec, result.AllWithinTolerance)

	if outputJSON {
		return writeComposeJSON(cmd, pp, results, result)
	}

	cmd.Printf("Composed %s\n", pp.OutputFile)
	if result.AllWithinTolerance {
		cmd.Printf("All %d cuts within %.3fs of a beat\n", len(result.PerTransitionErrorSec), cfg.Verify.CutToleranceSec)
	} else {
		cmd.Printf("Warning: max cut error %.3fs exceeds tolerance %.3fs\n", result.MaxErrorSec, cfg.Verify.CutToleranceSec)
	}
	return nil
}

// runConformStage conforms every clip, with a progress table when the output
// is an interactive terminal.
func runConformStage(ctx context.Context, cmd *cobra.Command, svc *clips.Service, boundaries []plan.Boundary) ([]clips.ClipResult, error) {
	out := cmd.OutOrStdout()
	mode := tui.DetectMode(out, composeNoProgress, outputJSON)

	if mode != tui.ModeTUI {
		if mode == tui.ModePlain {
			svc.Progress = func(index int, status string) {
				if status == clips.StatusProbing || status == clips.StatusConform {
					return
				}
				fmt.Fprintf(out, "clip %03d: %s\n", index+1, status)
			}
		}
		return svc.ConformAll(ctx, boundaries)
	}

	model := tui.NewProgressModel("Conforming clips", []tui.Column{
		{Header: "CLIP", Width: 5},
		{Header: "STATUS", Width: 12},
		{Header: "DURATION", Width: 10},
	})
	for i, b := range boundaries {
		model.AddRow(clipRowKey(i), []string{
			fmt.Sprintf("%03d", i+1),
			clips.StatusPending,
			fmt.Sprintf("%.2fs", b.DurationSec()),
		})
	}

	var (
		results    []clips.ClipResult
		conformErr error
	)
	err := tui.RunWithWork(out, model, func(send func(tea.Msg)) {
		svc.Progress = func(index int, status string) {
			send(tui.RowUpdateMsg{
				Key:    clipRowKey(index),
				Fields: map[string]string{"STATUS": status},
			})
		}
		results, conformErr = svc.ConformAll(ctx, boundaries)
		if conformErr != nil {
			send(tui.ErrorMsg{Err: conformErr})
		}
	})
	if err != nil {
		return nil, err
	}
	return results, conformErr
}

func clipRowKey(index int) string {
	return fmt.Sprintf("clip:%03d", index+1)
}

func runFFmpeg(ctx context.Context, svc *clips.Service, args []string, logPath string) error {
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer logFile.Close()

	if _, err := svc.Runner.Run(ctx, svc.FFmpeg, args, clips.RunOptions{Stdout: logFile, Stderr: logFile}); err != nil {
		return fmt.Errorf("ffmpeg: %w (see %s)", err, logPath)
	}
	return nil
}

func composeFailure(cmd *cobra.Command, results []clips.ClipResult, failed int) error {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "clip %03d: %v\n", r.Index+1, r.Err)
		}
	}
	return fmt.Errorf("%d of %d clips failed to conform", failed, len(results))
}

func writeDryRun(cmd *cobra.Command, pp paths.ProjectPaths, boundaries []plan.Boundary, chain, concatFile, concatOutput string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Plan: %d clips\n", len(boundaries))
	for i, b := range boundaries {
		fmt.Fprintf(out, "  clip %03d: %s -> %s  [%.3f-%.3f]\n",
			i+1, pp.ClipPath(i), pp.ConformedClipPath(i), b.StartTime, b.EndTime)
	}

	fmt.Fprintf(out, "\nConcat:\n  ffmpeg %s\n", strings.Join(render.BuildConcatCmd(concatFile, concatOutput), " "))
	fmt.Fprintf(out, "\nEffects filter chain:\n  %s\n", chain)
	fmt.Fprintf(out, "\nOutput: %s\n", pp.OutputFile)
	return nil
}

func writeComposeJSON(cmd *cobra.Command, pp paths.ProjectPaths, results []clips.ClipResult, result verify.Result) error {
	type jsonClip struct {
		Index     int     `json:"index"`
		Status    string  `json:"status"`
		ActualSec float64 `json:"actual_s"`
		Output    string  `json:"output"`
		Error     string  `json:"error,omitempty"`
	}

	payload := struct {
		Project string        `json:"project"`
		Output  string        `json:"output"`
		Clips   []jsonClip    `json:"clips"`
		Verify  verify.Result `json:"verify"`
	}{
		Project: pp.Root,
		Output:  pp.OutputFile,
		Clips:   make([]jsonClip, 0, len(results)),
		Verify:  result,
	}

	for _, r := range results {
		entry := jsonClip{
			Index:     r.Index + 1,
			Status:    r.Status,
			ActualSec: r.ActualSec,
			Output:    r.OutputPath,
		}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		}
		payload.Clips = append(payload.Clips, entry)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode compose json: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
