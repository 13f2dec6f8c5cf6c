package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"beatcut/internal/config"
	"beatcut/internal/logx"
	"beatcut/internal/paths"
)

const analysisTemplateJSON = `{
  "bpm": 0,
  "duration_s": 0,
  "beats": []
}
`

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a beatcut project",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}

	return cmd
}

func resolveInitDir(projectFlag string, args []string) (string, error) {
	if projectFlag != "" {
		return projectFlag, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	if len(args) > 0 {
		if args[0] == "." {
			return cwd, nil
		}
		return filepath.Join(cwd, args[0]), nil
	}

	return nextAvailableDir(cwd)
}

func nextAvailableDir(base string) (string, error) {
	for i := 1; ; i++ {
		candidate := filepath.Join(base, fmt.Sprintf("beatcut-%d", i))
		exists, err := paths.DirExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := resolveInitDir(projectDir, args)
	if err != nil {
		return err
	}

	pp, err := paths.Resolve(dir)
	if err != nil {
		return err
	}

	if err := pp.EnsureRoot(); err != nil {
		return err
	}
	if err := pp.EnsureMetaDirs(); err != nil {
		return err
	}

	logger, closer, err := logx.New(pp)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Printf("beatcut init: project=%s", pp.Root)

	created := make([]string, 0, 3)

	if err := ensureAnalysisTemplate(pp, &created, logger); err != nil {
		return err
	}

	if err := ensureClipsDir(pp, &created, logger); err != nil {
		return err
	}

	if err := ensureConfig(pp, &created, logger); err != nil {
		return err
	}

	if len(created) == 0 {
		cmd.Printf("Project already initialized at %s\n", pp.Root)
		return nil
	}

	cmd.Printf("Initialized project at %s\n", pp.Root)
	for _, entry := range created {
		cmd.Printf("  created %s\n", entry)
	}

	return nil
}

func ensureAnalysisTemplate(pp paths.ProjectPaths, created *[]string, logger Logger) error {
	exists, err := paths.FileExists(pp.AnalysisFile)
	if err != nil {
		return fmt.Errorf("check analysis file: %w", err)
	}
	if exists {
		logger.Printf("analysis file exists: %s", pp.AnalysisFile)
		return nil
	}

	if err := os.WriteFile(pp.AnalysisFile, []byte(analysisTemplateJSON), 0o644); err != nil {
		return fmt.Errorf("write analysis template: %w", err)
	}
	logger.Printf("created analysis template: %s", pp.AnalysisFile)
	*created = append(*created, filepath.Base(pp.AnalysisFile))
	return nil
}

func ensureClipsDir(pp paths.ProjectPaths, created *[]string, logger Logger) error {
	exists, err := paths.DirExists(pp.ClipsDir)
	if err != nil {
		return fmt.Errorf("check clips dir: %w", err)
	}
	if exists {
		logger.Printf("clips dir exists: %s", pp.ClipsDir)
		return nil
	}

	if err := os.MkdirAll(pp.ClipsDir, 0o755); err != nil {
		return fmt.Errorf("create clips dir: %w", err)
	}
	logger.Printf("created clips dir: %s", pp.ClipsDir)
	*created = append(*created, filepath.Base(pp.ClipsDir)+string(filepath.Separator))
	return nil
}

func ensureConfig(pp paths.ProjectPaths, created *[]string, logger Logger) error {
	exists, err := paths.FileExists(pp.ConfigFile)
	if err != nil {
		return fmt.Errorf("check config: %w", err)
	}
	if exists {
		logger.Printf("config exists: %s", pp.ConfigFile)
		return nil
	}

	cfg := config.Default()
	cfg.ApplyDefaults()
	if err := config.Save(pp.ConfigFile, cfg); err != nil {
		return err
	}
	logger.Printf("created config: %s", pp.ConfigFile)
	*created = append(*created, filepath.Base(pp.ConfigFile))
	return nil
}

// Logger keeps the subset of log.Logger used locally, enabling easy testing.
type Logger interface {
	Printf(format string, v ...any)
}
