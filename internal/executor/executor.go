// Package executor runs external build tools.
package executor

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Executor runs a single external tool invocation.
type Executor interface {
	Execute(ctx context.Context, req *Request) (*Result, error)
}

// Request describes one tool invocation.
type Request struct {
	Tool string
	Args []string
	Dir  string
	// Env entries are layered over the process environment.
	Env map[string]string
}

func (r *Request) String() string {
	if len(r.Args) == 0 {
		return r.Tool
	}
	return r.Tool + " " + strings.Join(r.Args, " ")
}

// Result holds the output of a successful invocation.
type Result struct {
	Output   string
	Duration time.Duration
}

// Exit codes used when a tool never produced one of its own.
const (
	CodeNotRun  = 127
	CodeTimeout = 124
)

// ToolError reports a tool that exited nonzero, could not be started or was
// killed. Code is the tool's own exit code when it ran to completion.
type ToolError struct {
	Tool   string
	Args   []string
	Code   int
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Tool, e.Code)
	if e.Err != nil && e.Code == CodeNotRun {
		msg = fmt.Sprintf("%s could not be run: %v", e.Tool, e.Err)
	} else if e.Code == CodeTimeout {
		msg = fmt.Sprintf("%s timed out", e.Tool)
	}
	if tail := lastLines(e.Stderr, 20); tail != "" {
		msg += "\nstderr: " + tail
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// ExitCode returns the code a failing run should exit with.
func (e *ToolError) ExitCode() int { return e.Code }

func lastLines(s string, n int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
