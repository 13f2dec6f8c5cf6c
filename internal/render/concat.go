package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteConcatList writes an ffmpeg concat demuxer list to concatFile. It
// verifies each clip path exists before writing.
func WriteConcatList(concatFile string, clipPaths []string) error {
	var missing []string
	for _, p := range clipPaths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %d clip file(s):\n  %s", len(missing), strings.Join(missing, "\n  "))
	}

	f, err := os.Create(concatFile)
	if err != nil {
		return fmt.Errorf("create concat list: %w", err)
	}
	defer f.Close()

	for _, p := range clipPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		// Escape single quotes in paths for the concat file format.
		escaped := strings.ReplaceAll(abs, "'", "'\\''")
		fmt.Fprintf(f, "file '%s'\n", escaped)
	}
	return nil
}

// BuildConcatCmd assembles the ffmpeg arguments that concatenate conformed
// clips with stream copy. All clips share an encoding after the conform step,
// so re-encode fallback is not needed here.
func BuildConcatCmd(concatFile, outputPath string) []string {
	return []string{
		"-hide_banner",
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", concatFile,
		"-c", "copy",
		outputPath,
	}
}
