package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"beatcut/internal/config"
	"beatcut/internal/paths"
	"beatcut/internal/plan"
	"beatcut/internal/verify"
)

var (
	verifyTolerance float64
	verifyStrict    bool
)

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Measure each planned cut's distance to the nearest beat",
		RunE:  runVerify,
	}

	cmd.Flags().Float64Var(&verifyTolerance, "tolerance", 0, "cut tolerance in seconds (default from config)")
	cmd.Flags().BoolVar(&verifyStrict, "strict", false, "exit non-zero when any cut is out of tolerance")
	return cmd
}

func runVerify(cmd *cobra.Command, _ []string) error {
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

	doc, err := plan.LoadDocument(pp.PlanFile)
	if err != nil {
		return fmt.Errorf("%w; run `beatcut plan` first", err)
	}

	grid, err := loadGrid(pp, cfg)
	if err != nil {
		return err
	}

	tolerance := verifyTolerance
	if tolerance <= 0 {
		tolerance = cfg.Verify.CutToleranceSec
	}
	if tolerance <= 0 {
		tolerance = verify.DefaultCutToleranceSec
	}

	result := verify.Verify(doc.Boundaries, grid, tolerance)

	if outputJSON {
		payload := struct {
			Project      string        `json:"project"`
			ToleranceSec float64       `json:"tolerance_s"`
			Result       verify.Result `json:"result"`
		}{
			Project:      pp.Root,
			ToleranceSec: tolerance,
			Result:       result,
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode verify json: %w", err)
		}
		cmd.Println(string(data))
	} else {
		writeVerifyTable(cmd, pp.Root, doc.Boundaries, result, tolerance)
	}

	if verifyStrict && !result.AllWithinTolerance {
		return fmt.Errorf("%d of %d cuts exceed tolerance %.3fs (max error %.3fs)",
			countOutOfTolerance(result, tolerance), len(result.PerTransitionErrorSec), tolerance, result.MaxErrorSec)
	}
	return nil
}

func writeVerifyTable(cmd *cobra.Command, projectName string, boundaries []plan.Boundary, result verify.Result, tolerance float64) {
	fmt.Fprintf(cmd.OutOrStdout(), "Project: %s\n", projectName)
	fmt.Fprintf(cmd.OutOrStdout(), "Tolerance: %.3fs\n\n", tolerance)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "CUT\tTIME\tERROR\tSTATUS")
	for i, errSec := range result.PerTransitionErrorSec {
		status := "ok"
		if errSec > tolerance {
			status = "off-tolerance"
		}
		fmt.Fprintf(w, "%03d\t%.3f\t%.3f\t%s\n", i+1, boundaries[i].EndTime, errSec, status)
	}
	w.Flush()

	verdict := "all cuts within tolerance"
	if !result.AllWithinTolerance {
		verdict = fmt.Sprintf("max error %.3fs exceeds tolerance", result.MaxErrorSec)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", verdict)
}

func countOutOfTolerance(result verify.Result, tolerance float64) int {
	count := 0
	for _, errSec := range result.PerTransitionErrorSec {
		if errSec > tolerance {
			count++
		}
	}
	return count
}
