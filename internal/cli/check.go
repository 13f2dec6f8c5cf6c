package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"beatcut/internal/logx"
	"beatcut/internal/paths"
	"beatcut/internal/tools"
)

var checkStrict bool

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check external tool availability",
		RunE:  runCheck,
	}

	cmd.Flags().BoolVar(&checkStrict, "strict", false, "fail when required tools are missing")

	return cmd
}

func runCheck(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}

	exists, err := paths.DirExists(pp.Root)
	if err != nil {
		return fmt.Errorf("stat project dir: %w", err)
	}
	if !exists {
		return fmt.Errorf("project directory does not exist: %s", pp.Root)
	}

	if err := pp.EnsureMetaDirs(); err != nil {
		return err
	}

	logger, closer, err := logx.New(pp)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Printf("beatcut check: project=%s", pp.Root)

	statuses := tools.Detect(cmd.Context())
	for _, st := range statuses {
		logger.Printf("tool %s: path=%s version=%s found=%v error=%s",
			st.Tool, st.Path, st.Version, st.Found, st.Error)
	}

	if checkStrict {
		if err := ensureStrict(statuses); err != nil {
			return err
		}
	}

	if outputJSON {
		payload := struct {
			Project string         `json:"project"`
			Tools   []tools.Status `json:"tools"`
		}{
			Project: pp.Root,
			Tools:   statuses,
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printCheckResult(cmd, pp.Root, statuses)
	return nil
}

func printCheckResult(cmd *cobra.Command, project string, statuses []tools.Status) {
	bold := lipgloss.NewStyle().Bold(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faint := lipgloss.NewStyle().Faint(true)

	cmd.Println(bold.Render("Project:") + " " + project)
	cmd.Println()

	sorted := make([]tools.Status, len(statuses))
	copy(sorted, statuses)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Tool < sorted[j].Tool
	})

	for _, st := range sorted {
		if st.Found {
			headline := green.Render("✓") + " " + bold.Render(st.Tool)
			if st.Version != "" {
				headline += " v" + st.Version
			}
			cmd.Println(headline)
			if st.Path != "" {
				cmd.Println(faint.Render("  " + st.Path))
			}
		} else {
			headline := red.Render("✗") + " " + bold.Render(st.Tool)
			if st.Error != "" {
				headline += red.Render(" (" + st.Error + ")")
			}
			cmd.Println(headline)
		}
		cmd.Println()
	}
}

func ensureStrict(statuses []tools.Status) error {
	var failures []string
	for _, st := range statuses {
		if st.Found {
			continue
		}
		msg := st.Tool
		if st.Error != "" {
			msg += ": " + st.Error
		}
		failures = append(failures, msg)
	}
	if len(failures) > 0 {
		return errors.New("missing tools: " + strings.Join(failures, "; "))
	}
	return nil
}
