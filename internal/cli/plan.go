package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"beatcut/internal/beat"
	"beatcut/internal/config"
	"beatcut/internal/logx"
	"beatcut/internal/paths"
	"beatcut/internal/plan"
	"beatcut/pkg/beatplan"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan beat-aligned clip boundaries from the analysis file",
		RunE:  runPlan,
	}
	return cmd
}

func runPlan(cmd *cobra.Command, _ []string) error {
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
	logger.Printf("beatcut plan: project=%s", pp.Root)

	grid, err := loadGrid(pp, cfg)
	if err != nil {
		return err
	}
	logger.Printf("grid: beats=%d range=[%.3f,%.3f]", grid.Len(), grid.RangeStart(), grid.RangeEnd())

	boundaries, err := plan.Plan(grid, cfg.Clips.Count, cfg.Clips.MinDurationSec, cfg.Clips.MaxDurationSec)
	if err != nil {
		var insufficient plan.InsufficientDurationError
		if errors.As(err, &insufficient) {
			return fmt.Errorf("cannot fit %d clips of at least %.2fs into %.2fs of track; reduce clips.count or clips.min_duration_s",
				insufficient.ClipCount, insufficient.MinDurationSec, insufficient.AvailableSec)
		}
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
	logger.Printf("wrote plan: %s (%d boundaries)", pp.PlanFile, len(boundaries))

	if outputJSON {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encode plan json: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	writePlanTable(cmd, pp.Root, boundaries, grid)
	cmd.Printf("\nPlan written to %s\n", pp.PlanFile)
	return nil
}

// loadGrid builds the beat grid from the analysis document, applying the
// user's range selection when present.
func loadGrid(pp paths.ProjectPaths, cfg config.Config) (beat.Grid, error) {
	doc, err := beatplan.Load(pp.AnalysisFile)
	if err != nil {
		var issues beatplan.ValidationErrors
		if errors.As(err, &issues) {
			return beat.Grid{}, fmt.Errorf("analysis file %s is invalid: %w", pp.AnalysisFile, issues)
		}
		return beat.Grid{}, err
	}

	start, end := doc.Range()
	return beat.NewGrid(doc.Beats, start, end, cfg.Video.FPS), nil
}

func writePlanTable(cmd *cobra.Command, projectName string, boundaries []plan.Boundary, grid beat.Grid) {
	fmt.Fprintf(cmd.OutOrStdout(), "Project: %s\n", projectName)
	fmt.Fprintf(cmd.OutOrStdout(), "Beats: %d  Range: %.3f-%.3fs\n\n", grid.Len(), grid.RangeStart(), grid.RangeEnd())

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "CLIP\tSTART\tEND\tDURATION\tBEATS")
	for i, b := range boundaries {
		fmt.Fprintf(w, "%03d\t%.3f\t%.3f\t%.3f\t%d\n",
			i+1, b.StartTime, b.EndTime, b.DurationSec(), b.BeatsWithin)
	}
	w.Flush()
}

func ensureProjectDirs(pp paths.ProjectPaths) error {
	exists, err := paths.DirExists(pp.Root)
	if err != nil {
		return fmt.Errorf("stat project dir: %w", err)
	}
	if !exists {
		return fmt.Errorf("project directory does not exist: %s", pp.Root)
	}

	return pp.EnsureMetaDirs()
}
