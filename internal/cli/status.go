package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"beatcut/internal/config"
	"beatcut/internal/paths"
	"beatcut/internal/plan"
	"beatcut/pkg/beatplan"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show project state",
		RunE:  runStatus,
	}
	return cmd
}

type statusReport struct {
	Project        string `json:"project"`
	ConfigPresent  bool   `json:"config_present"`
	AnalysisState  string `json:"analysis"`
	BeatCount      int    `json:"beat_count,omitempty"`
	PlanState      string `json:"plan"`
	PlannedClips   int    `json:"planned_clips,omitempty"`
	ClipsPresent   int    `json:"clips_present"`
	ClipsConformed int    `json:"clips_conformed"`
	OutputPresent  bool   `json:"output_present"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
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

	report := statusReport{Project: pp.Root}

	report.ConfigPresent, _ = paths.FileExists(pp.ConfigFile)

	report.AnalysisState = "missing"
	if exists, _ := paths.FileExists(pp.AnalysisFile); exists {
		doc, err := beatplan.Load(pp.AnalysisFile)
		var issues beatplan.ValidationErrors
		switch {
		case err == nil:
			report.AnalysisState = "ok"
			report.BeatCount = len(doc.Beats)
		case errors.As(err, &issues):
			report.AnalysisState = "invalid"
			report.BeatCount = len(doc.Beats)
		default:
			report.AnalysisState = "unreadable"
		}
	}

	report.PlanState = "missing"
	if doc, err := plan.LoadDocument(pp.PlanFile); err == nil {
		report.PlanState = "ok"
		report.PlannedClips = len(doc.Boundaries)
	}

	for i := 0; i < cfg.Clips.Count; i++ {
		if exists, _ := paths.FileExists(pp.ClipPath(i)); exists {
			report.ClipsPresent++
		}
		if exists, _ := paths.FileExists(pp.ConformedClipPath(i)); exists {
			report.ClipsConformed++
		}
	}

	report.OutputPresent, _ = paths.FileExists(pp.OutputFile)

	if outputJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode status json: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	writeStatusTable(cmd, cfg, report)
	return nil
}

func writeStatusTable(cmd *cobra.Command, cfg config.Config, report statusReport) {
	fmt.Fprintf(cmd.OutOrStdout(), "Project: %s\n\n", report.Project)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintf(w, "config\t%s\n", presentOrMissing(report.ConfigPresent))
	if report.BeatCount > 0 {
		fmt.Fprintf(w, "analysis\t%s (%d beats)\n", report.AnalysisState, report.BeatCount)
	} else {
		fmt.Fprintf(w, "analysis\t%s\n", report.AnalysisState)
	}
	if report.PlannedClips > 0 {
		fmt.Fprintf(w, "plan\t%s (%d clips)\n", report.PlanState, report.PlannedClips)
	} else {
		fmt.Fprintf(w, "plan\t%s\n", report.PlanState)
	}
	fmt.Fprintf(w, "clips\t%d/%d present\n", report.ClipsPresent, cfg.Clips.Count)
	fmt.Fprintf(w, "conformed\t%d/%d\n", report.ClipsConformed, cfg.Clips.Count)
	fmt.Fprintf(w, "output\t%s\n", presentOrMissing(report.OutputPresent))
	w.Flush()
}

func presentOrMissing(present bool) string {
	if present {
		return "present"
	}
	return "missing"
}
