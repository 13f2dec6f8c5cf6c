package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"beatcut/internal/config"
)

// ProjectPaths captures canonical locations for a beatcut project.
type ProjectPaths struct {
	Root         string
	ConfigFile   string
	AnalysisFile string
	MetaDir      string
	ClipsDir     string
	RenderDir    string
	LogsDir      string
	PlanFile     string
	OutputFile   string
}

// Resolve determines the project root using the optional --project flag or
// the current working directory when the flag is empty.
func Resolve(projectFlag string) (ProjectPaths, error) {
	var (
		root string
		err  error
	)

	if projectFlag != "" {
		root, err = filepath.Abs(projectFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return ProjectPaths{}, fmt.Errorf("resolve project root: %w", err)
	}

	return newProjectPaths(root), nil
}

func newProjectPaths(root string) ProjectPaths {
	metaDir := filepath.Join(root, ".beatcut")
	return ProjectPaths{
		Root:         root,
		ConfigFile:   filepath.Join(root, "beatcut.yaml"),
		AnalysisFile: filepath.Join(root, "analysis.json"),
		MetaDir:      metaDir,
		ClipsDir:     filepath.Join(root, "clips"),
		RenderDir:    filepath.Join(root, "render"),
		LogsDir:      filepath.Join(root, "logs"),
		PlanFile:     filepath.Join(metaDir, "plan.json"),
		OutputFile:   filepath.Join(root, "final.mp4"),
	}
}

// ApplyConfig overrides default locations with config-supplied ones.
func ApplyConfig(pp ProjectPaths, cfg config.Config) ProjectPaths {
	if cfg.AnalysisFile != "" {
		pp.AnalysisFile = resolveProjectPath(pp.Root, cfg.AnalysisFile)
	}
	if cfg.ClipsDir != "" {
		pp.ClipsDir = resolveProjectPath(pp.Root, cfg.ClipsDir)
	}
	return pp
}

func resolveProjectPath(root, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(root, value)
}

// EnsureRoot makes sure the project root exists on disk.
func (p ProjectPaths) EnsureRoot() error {
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("create project root: %w", err)
	}
	return nil
}

// EnsureMetaDirs creates the standard clips/render/logs hierarchy alongside
// the hidden .beatcut metadata directory.
func (p ProjectPaths) EnsureMetaDirs() error {
	dirs := []string{p.MetaDir, p.ClipsDir, p.RenderDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ClipPath returns the expected location of the generated clip for a
// boundary index (0-based input, 1-based filename).
func (p ProjectPaths) ClipPath(index int) string {
	return filepath.Join(p.ClipsDir, fmt.Sprintf("clip_%03d.mp4", index+1))
}

// ConformedClipPath returns the location the conformed copy of a clip is
// written to.
func (p ProjectPaths) ConformedClipPath(index int) string {
	return filepath.Join(p.RenderDir, fmt.Sprintf("conformed_%03d.mp4", index+1))
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
