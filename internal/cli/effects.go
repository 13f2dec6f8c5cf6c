package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"beatcut/internal/config"
	"beatcut/internal/effects"
	"beatcut/internal/paths"
	"beatcut/internal/render"
)

func newEffectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "effects",
		Short: "Show scheduled effect windows and filter expressions",
		RunE:  runEffects,
	}
	return cmd
}

func runEffects(cmd *cobra.Command, _ []string) error {
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

	grid, err := loadGrid(pp, cfg)
	if err != nil {
		return err
	}

	windows := effects.Schedule(grid, cfg.ScheduleConfig())
	exprs := render.BuildExpressions(windows, render.BuildConfig{
		FrameRate:             cfg.Video.FPS,
		TotalTimelineSec:      grid.RangeEnd() - grid.RangeStart(),
		MaxBeatsPerExpression: cfg.Encoder.MaxBeatsPerExpression,
		TestMode:              cfg.Effects.TestMode,
		TestModeMultiplier:    cfg.Effects.TestModeMultiplier,
	})

	if outputJSON {
		return writeEffectsJSON(cmd, pp.Root, windows, exprs)
	}

	writeEffectsTable(cmd, pp.Root, windows, exprs)
	return nil
}

func writeEffectsTable(cmd *cobra.Command, projectName string, windows []effects.Window, exprs []render.Expression) {
	fmt.Fprintf(cmd.OutOrStdout(), "Project: %s\n\n", projectName)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "WINDOW\tEFFECT\tBEATS\tFIRST\tLAST\tTOLERANCE")
	for i, win := range windows {
		first, last := 0.0, 0.0
		if len(win.BeatTimestamps) > 0 {
			first = win.BeatTimestamps[0]
			last = win.BeatTimestamps[len(win.BeatTimestamps)-1]
		}
		fmt.Fprintf(w, "%03d\t%s\t%d\t%.3f\t%.3f\t%.3f\n",
			i+1, win.Effect, len(win.BeatTimestamps), first, last, win.ToleranceSec)
	}
	w.Flush()

	fmt.Fprintf(cmd.OutOrStdout(), "\nExpressions: %d\n", len(exprs))
	for _, e := range exprs {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d beats\n", e.Effect, e.BeatCount())
	}
}

func writeEffectsJSON(cmd *cobra.Command, projectName string, windows []effects.Window, exprs []render.Expression) error {
	type jsonWindow struct {
		Effect       string    `json:"effect"`
		Beats        []float64 `json:"beats"`
		ToleranceSec float64   `json:"tolerance_s"`
	}
	type jsonExpression struct {
		Effect    string `json:"effect"`
		BeatCount int    `json:"beat_count"`
	}

	payload := struct {
		Project     string           `json:"project"`
		Windows     []jsonWindow     `json:"windows"`
		Expressions []jsonExpression `json:"expressions"`
	}{
		Project:     projectName,
		Windows:     make([]jsonWindow, 0, len(windows)),
		Expressions: make([]jsonExpression, 0, len(exprs)),
	}

	for _, win := range windows {
		payload.Windows = append(payload.Windows, jsonWindow{
			Effect:       string(win.Effect),
			Beats:        win.BeatTimestamps,
			ToleranceSec: win.ToleranceSec,
		})
	}
	for _, e := range exprs {
		payload.Expressions = append(payload.Expressions, jsonExpression{
			Effect:    string(e.Effect),
			BeatCount: e.BeatCount(),
		})
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode effects json: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
