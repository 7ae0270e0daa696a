// Package pipeline drives the selected steps of one invocation and reports
// progress.
package pipeline

import (
	"context"
	"fmt"
	"time"

	vlog "github.com/futureCreator/nfbuild/internal/log"
	"github.com/futureCreator/nfbuild/internal/run"
	"github.com/futureCreator/nfbuild/internal/steps"
	"github.com/futureCreator/nfbuild/internal/workflow"
)

// StepError reports the step a build failed in.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Engine orchestrates step execution.
type Engine struct {
	Catalog *steps.Catalog
	Env     *steps.Env
	// Run, when set, records step results and the final status.
	Run     *run.Run
	Display *Display
	// ExitCode maps a failure to the process exit code stored in the run.
	ExitCode func(error) int
}

// Execute runs the selection's action steps in order, stopping at the first
// failure. Cancellation is honored between steps.
func (e *Engine) Execute(ctx context.Context, sel *workflow.Selection) error {
	startTime := time.Now()
	actions := e.Catalog.Actions(sel)

	for _, step := range actions {
		if err := ctx.Err(); err != nil {
			e.Display.Cancelled()
			if e.Run != nil {
				if rerr := e.Run.Cancel(); rerr != nil {
					vlog.Warn("failed to update run meta", "err", rerr)
				}
			}
			return err
		}

		e.Display.StepStart(step.Name, step.Description)
		log := vlog.With("step", step.Name)
		log.Debug("step started")
		stepStart := time.Now()

		stepErr := step.Run(ctx, e.Env)
		duration := time.Since(stepStart)

		if stepErr != nil {
			e.Display.StepFailed(step.Name, stepErr)
			log.Error("step failed", "err", stepErr, "duration", duration)
			err := &StepError{Step: step.Name, Err: stepErr}
			e.record(run.StepResult{
				Name:       step.Name,
				Status:     run.StatusFailed,
				DurationMS: duration.Milliseconds(),
				Error:      stepErr.Error(),
			})
			if e.Run != nil {
				if rerr := e.Run.Fail(stepErr.Error(), e.exitCode(err)); rerr != nil {
					vlog.Warn("failed to update run meta", "err", rerr)
				}
			}
			e.Display.Failed(err)
			return err
		}

		log.Debug("step completed", "duration", duration)
		e.record(run.StepResult{
			Name:       step.Name,
			Status:     run.StatusCompleted,
			DurationMS: duration.Milliseconds(),
		})
		e.Display.StepDone(step.Name, duration)
	}

	if e.Run != nil {
		if err := e.Run.Complete(); err != nil {
			vlog.Warn("failed to mark run complete", "err", err)
		}
	}

	e.Display.Summary(len(actions), time.Since(startTime))
	return nil
}

func (e *Engine) record(sr run.StepResult) {
	if e.Run == nil {
		return
	}
	if err := e.Run.AddStepResult(sr); err != nil {
		vlog.Warn("failed to save step result", "step", sr.Name, "err", err)
	}
}

func (e *Engine) exitCode(err error) int {
	if e.ExitCode == nil {
		return 1
	}
	return e.ExitCode(err)
}
