package clips

import (
	"bytes"
	"context"
	"io"
	"os/exec"
)

// RunOptions controls where a subprocess writes its output streams.
type RunOptions struct {
	Stdout io.Writer
	Stderr io.Writer
}

// RunResult captures the buffered output of a finished subprocess.
type RunResult struct {
	Stdout []byte
	Stderr []byte
}

// Runner abstracts subprocess execution so tests can substitute canned
// ffprobe/ffmpeg results.
type Runner interface {
	Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error)
}

// CmdRunner executes commands with os/exec.
type CmdRunner struct{}

func (CmdRunner) Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)

	var stdoutBuf, stderrBuf bytes.Buffer

	stdoutWriter := io.Writer(&stdoutBuf)
	if opts.Stdout != nil {
		stdoutWriter = io.MultiWriter(&stdoutBuf, opts.Stdout)
	}
	stderrWriter := io.Writer(&stderrBuf)
	if opts.Stderr != nil {
		stderrWriter = io.MultiWriter(&stderrBuf, opts.Stderr)
	}

	cmd.Stdout = stdoutWriter
	cmd.Stderr = stderrWriter

	err := cmd.Run()
	return RunResult{Stdout: stdoutBuf.Bytes(), Stderr: stderrBuf.Bytes()}, err
}

var _ Runner = CmdRunner{}
