package hotspot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	defaultBinary  = "nmcli"
	commandTimeout = 30 * time.Second
)

// Result is the captured output of one command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes nmcli with the given arguments. A non-zero exit must be
// reported as a *CommandError.
type Runner interface {
	Run(ctx context.Context, args ...string) (Result, error)
}

// ExecRunner runs the real nmcli binary, one invocation at a time.
type ExecRunner struct {
	Path    string        // empty means "nmcli" from PATH
	Timeout time.Duration // per invocation; zero means 30s
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, args ...string) (Result, error) {
	path := strings.TrimSpace(r.Path)
	if path == "" {
		path = defaultBinary
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = commandTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err == nil {
		return res, nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("timed out after %s: %w", timeout, ctx.Err())
	}
	return res, &CommandError{
		Args:     append([]string{path}, args...),
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		Err:      err,
	}
}
