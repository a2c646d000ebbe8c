package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

const (
	DefaultExecutable = "FreeFem++"
)

var DefaultArgs = []string{"-v", "0"}

// Error reports a solver run that exited non-zero or could not start. None
// of the captured output is trusted as a result.
type Error struct {
	ExitCode int // -1 when the process never ran to completion
	Stdout   string
	Stderr   string
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("solver failed with exit code %d: %v", e.ExitCode, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += " (stderr: " + s + ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

/*
Runner invokes the external solver on a script. The script is written to a
temporary file passed as the last argument, and the solver's standard output
is returned when it exits zero. No timeout is imposed beyond the context.
*/
type Runner struct {
	Executable string
	Args       []string
	Verbose    bool
	Logger     *slog.Logger
}

type Option func(*Runner)

func WithExecutable(path string, args ...string) Option {
	return func(r *Runner) {
		r.Executable = path
		r.Args = args
	}
}

func WithVerbose(verbose bool) Option {
	return func(r *Runner) { r.Verbose = verbose }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.Logger = logger }
}

func NewRunner(opts ...Option) (r *Runner) {
	r = &Runner{
		Executable: DefaultExecutable,
		Args:       append([]string(nil), DefaultArgs...),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = slog.Default()
	}
	return
}

func (r *Runner) Run(ctx context.Context, script string) (output string, err error) {
	var (
		file           *os.File
		stdout, stderr bytes.Buffer
	)
	if file, err = os.CreateTemp("", "freefem-*.edp"); err != nil {
		return "", fmt.Errorf("creating script file: %w", err)
	}
	defer os.Remove(file.Name())
	if _, err = file.WriteString(script); err != nil {
		file.Close()
		return "", fmt.Errorf("writing script file: %w", err)
	}
	if err = file.Close(); err != nil {
		return "", fmt.Errorf("writing script file: %w", err)
	}

	args := append(append([]string(nil), r.Args...), file.Name())
	command := exec.CommandContext(ctx, r.Executable, args...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if r.Verbose {
		r.Logger.Info("running solver", "executable", r.Executable, "args", args)
	}
	if err = command.Run(); err != nil {
		serr := &Error{ExitCode: -1, Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			serr.ExitCode = exitErr.ExitCode()
		}
		r.Logger.Error("solver error", "exit_code", serr.ExitCode,
			"stdout", serr.Stdout, "stderr", serr.Stderr)
		if r.Verbose {
			r.Logger.Error("solver script", "script", numberLines(script))
		}
		return "", serr
	}
	if r.Verbose {
		r.Logger.Info("solver run successful", "bytes", stdout.Len())
	}
	return stdout.String(), nil
}

func numberLines(script string) string {
	var sb strings.Builder
	for i, line := range strings.Split(script, "\n") {
		fmt.Fprintf(&sb, "%d    %s\n", i+1, line)
	}
	return sb.String()
}
