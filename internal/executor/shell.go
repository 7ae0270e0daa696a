package executor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/magefile/mage/sh"

	vlog "github.com/futureCreator/nfbuild/internal/log"
)

// ShellExecutor runs tools as child processes and waits for them.
type ShellExecutor struct {
	// Timeout bounds each invocation. Zero means wait forever.
	Timeout time.Duration
	// Stdout and Stderr, when set, receive a live copy of the tool output.
	Stdout io.Writer
	Stderr io.Writer
}

func (e *ShellExecutor) Execute(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()

	execCtx := ctx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(execCtx, req.Tool, req.Args...)
	cmd.Dir = req.Dir
	if len(req.Env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), req.Env)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = tee(&stdout, e.Stdout)
	cmd.Stderr = tee(&stderr, e.Stderr)

	vlog.Debug("running tool", "cmd", req.String(), "dir", req.Dir)
	err := cmd.Run()
	if err != nil {
		toolErr := &ToolError{Tool: req.Tool, Args: req.Args, Stderr: stderr.String(), Err: err}
		var exitErr *exec.ExitError
		switch {
		case errors.Is(execCtx.Err(), context.DeadlineExceeded):
			toolErr.Code = CodeTimeout
		case !sh.CmdRan(err):
			toolErr.Code = CodeNotRun
		case errors.As(err, &exitErr):
			toolErr.Code = exitErr.ExitCode()
		default:
			toolErr.Code = sh.ExitStatus(err)
		}
		return nil, toolErr
	}

	return &Result{
		Output:   stdout.String(),
		Duration: time.Since(start),
	}, nil
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

func mergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}
