// wifiapplet/gonetworkmanager/runner.go

//go:generate mockgen -destination=mock_runner.go -package=gonetworkmanager wifiapplet/gonetworkmanager Runner

package gonetworkmanager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// --- Errors ---

var (
	// ErrSpawnFailed matches any error for a process that could not be started.
	ErrSpawnFailed = errors.New("failed to start command")
	// ErrCommandFailed matches any error for a process that ran and exited non-zero.
	ErrCommandFailed = errors.New("command returned a failure status")
)

// SpawnError reports that the program could not be started at all
// (missing binary, permission denied).
type SpawnError struct {
	Program string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Program, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

func (e *SpawnError) Is(target error) bool { return target == ErrSpawnFailed }

// CommandError reports a non-zero exit. Its message is the trimmed stderr of
// the process, so callers can match on the tool's own diagnostic.
type CommandError struct {
	Program  string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s returned a failure status.", e.Program)
	}
	return e.Stderr
}

func (e *CommandError) Is(target error) bool { return target == ErrCommandFailed }

// --- Runner ---

// Completion is the single value delivered when a started process exits.
type Completion struct {
	Stdout string
	Err    error
}

// Runner starts external programs without blocking the caller.
// Start returns a *SpawnError immediately if the process cannot be started;
// otherwise the returned channel yields exactly one Completion and is closed.
type Runner interface {
	Start(ctx context.Context, program string, args []string) (<-chan Completion, error)
}

// Run is the blocking form: it starts the program and waits for it to exit.
func Run(ctx context.Context, r Runner, program string, args []string) (string, error) {
	done, err := r.Start(ctx, program, args)
	if err != nil {
		return "", err
	}
	c, ok := <-done
	if !ok {
		return "", fmt.Errorf("%s: runner closed without a result", program)
	}
	return c.Stdout, c.Err
}

// outcome is what the child process left behind.
type outcome struct {
	exitCode int
	stdout   string
	stderr   string
}

func (o outcome) completion(program string, args []string) Completion {
	if o.exitCode == 0 {
		return Completion{Stdout: o.stdout}
	}
	return Completion{Err: &CommandError{
		Program:  program,
		Args:     args,
		ExitCode: o.exitCode,
		Stderr:   strings.TrimSpace(o.stderr),
	}}
}

// waitDelay bounds how long Wait keeps reading pipes held open by
// grandchildren after the context kills the process.
const waitDelay = time.Second

// ExecRunner runs programs as OS child processes.
type ExecRunner struct {
	Log zerolog.Logger
}

var _ Runner = (*ExecRunner)(nil)

// NewExecRunner returns an ExecRunner that traces invocations to log at debug level.
func NewExecRunner(log zerolog.Logger) *ExecRunner {
	return &ExecRunner{Log: log}
}

func (r *ExecRunner) Start(ctx context.Context, program string, args []string) (<-chan Completion, error) {
	cmd := exec.CommandContext(ctx, program, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	r.Log.Debug().Str("program", program).Strs("args", args).Msg("executing command")
	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Program: program, Err: err}
	}

	done := make(chan Completion, 1)
	go func() {
		defer close(done)
		done <- r.wait(ctx, cmd, program, args, &stdout, &stderr)
	}()
	return done, nil
}

func (r *ExecRunner) wait(ctx context.Context, cmd *exec.Cmd, program string, args []string, stdout, stderr *bytes.Buffer) Completion {
	err := cmd.Wait()
	if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
		return Completion{Err: fmt.Errorf("%s %s: %w", program, strings.Join(args, " "), ctxErr)}
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
	default:
		return Completion{Err: fmt.Errorf("failed to read %s output: %w", program, err)}
	}

	o := outcome{
		exitCode: cmd.ProcessState.ExitCode(),
		stdout:   stdout.String(),
		stderr:   stderr.String(),
	}
	r.Log.Debug().Str("program", program).Int("exit_code", o.exitCode).Msg("command finished")
	return o.completion(program, args)
}
