// Package tool runs external command-line tools with a bounded lifetime and
// classifies how they failed.
package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a tool run when its Spec has no timeout
const DefaultTimeout = 30 * time.Second

// ErrorKind distinguishes the ways an external tool run can fail
type ErrorKind string

const (
	KindNotFound   ErrorKind = "not_found"
	KindExitStatus ErrorKind = "exit_status"
	KindTimeout    ErrorKind = "timeout"
)

// Spec describes how to invoke a tool
type Spec struct {
	Name    string
	Command string
	Args    []string
	Timeout time.Duration
	Dir     string
}

// Output is what a finished tool run produced
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Error is returned when a tool could not run to a zero exit status.
// For KindExitStatus the Output is still populated.
type Error struct {
	Tool     string
	Kind     ErrorKind
	ExitCode int
	Stderr   string
	Err      error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("%s: command not found", e.Tool)
	case KindTimeout:
		return fmt.Sprintf("%s: timed out", e.Tool)
	default:
		msg := fmt.Sprintf("%s: exit status %d", e.Tool, e.ExitCode)
		if s := strings.TrimSpace(e.Stderr); s != "" {
			msg += ": " + firstLine(s)
		}
		return msg
	}
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err, or "" if err is not a tool error
func KindOf(err error) ErrorKind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

// IsCommandNotFound reports whether err means the executable is missing
func IsCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	if KindOf(err) == KindNotFound || errors.Is(err, exec.ErrNotFound) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "executable file not found") ||
		strings.Contains(errStr, "no such file or directory")
}

// Available reports whether the spec's command resolves on PATH
func Available(spec Spec) bool {
	_, err := exec.LookPath(spec.Command)
	return err == nil
}

// Run executes spec.Command with spec.Args followed by extra. The returned
// Output is non-nil whenever the process started, including when it exited
// with a non-zero status.
func Run(ctx context.Context, spec Spec, extra ...string) (*Output, error) {
	name := spec.Name
	if name == "" {
		name = spec.Command
	}

	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	args := make([]string, 0, len(spec.Args)+len(extra))
	args = append(args, spec.Args...)
	args = append(args, extra...)

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, spec.Command, args...)
	cmd.Dir = spec.Dir
	// Children that inherit the pipes must not hold Wait open after a kill
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	out := &Output{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if err == nil {
		return out, nil
	}

	// Parent cancellation is not a tool failure
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if cmdCtx.Err() == context.DeadlineExceeded {
		return nil, &Error{Tool: name, Kind: KindTimeout, Stderr: stderr.String(), Err: cmdCtx.Err()}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, &Error{
			Tool:     name,
			Kind:     KindExitStatus,
			ExitCode: out.ExitCode,
			Stderr:   stderr.String(),
			Err:      err,
		}
	}

	if IsCommandNotFound(err) {
		return nil, &Error{Tool: name, Kind: KindNotFound, Err: err}
	}

	return nil, fmt.Errorf("running %s: %w", name, err)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
