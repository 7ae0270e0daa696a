package executor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestShellExecutorCapturesOutput(t *testing.T) {
	e := &ShellExecutor{}
	res, err := e.Execute(context.Background(), &Request{
		Tool: "sh",
		Args: []string{"-c", "echo formatted"},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if strings.TrimSpace(res.Output) != "formatted" {
		t.Errorf("expected captured stdout, got %q", res.Output)
	}
}

func TestShellExecutorPropagatesExitCode(t *testing.T) {
	e := &ShellExecutor{}
	_, err := e.Execute(context.Background(), &Request{
		Tool: "sh",
		Args: []string{"-c", "echo boom >&2; exit 7"},
	})
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected *ToolError, got %T: %v", err, err)
	}
	if toolErr.Code != 7 {
		t.Errorf("expected exit code 7, got %d", toolErr.Code)
	}
	if !strings.Contains(toolErr.Error(), "boom") {
		t.Errorf("expected stderr in error message, got %q", toolErr.Error())
	}
}

func TestShellExecutorMissingTool(t *testing.T) {
	e := &ShellExecutor{}
	_, err := e.Execute(context.Background(), &Request{Tool: "nfbuild-definitely-missing-tool"})
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected *ToolError, got %T: %v", err, err)
	}
	if toolErr.Code != CodeNotRun {
		t.Errorf("expected code %d, got %d", CodeNotRun, toolErr.Code)
	}
}

func TestShellExecutorTimeout(t *testing.T) {
	e := &ShellExecutor{Timeout: 50 * time.Millisecond}
	_, err := e.Execute(context.Background(), &Request{Tool: "sleep", Args: []string{"5"}})
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected *ToolError, got %T: %v", err, err)
	}
	if toolErr.Code != CodeTimeout {
		t.Errorf("expected code %d, got %d", CodeTimeout, toolErr.Code)
	}
}

func TestShellExecutorEnvAndDir(t *testing.T) {
	dir := t.TempDir()
	var live bytes.Buffer
	e := &ShellExecutor{Stdout: &live}
	res, err := e.Execute(context.Background(), &Request{
		Tool: "sh",
		Args: []string{"-c", `echo "$CC" && pwd`},
		Dir:  dir,
		Env:  map[string]string{"CC": "clang"},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.HasPrefix(res.Output, "clang\n") {
		t.Errorf("expected CC from request env, got %q", res.Output)
	}
	if !strings.Contains(res.Output, dir) {
		t.Errorf("expected command to run in %s, got %q", dir, res.Output)
	}
	if live.String() != res.Output {
		t.Errorf("expected live copy of stdout, got %q", live.String())
	}
}

func TestRequestString(t *testing.T) {
	r := &Request{Tool: "ninja", Args: []string{"-C", "build", "NFParam"}}
	if got := r.String(); got != "ninja -C build NFParam" {
		t.Errorf("String() = %q", got)
	}
}
