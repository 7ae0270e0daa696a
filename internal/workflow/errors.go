package workflow

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every registration and resolution error.
var ErrConfiguration = errors.New("configuration error")

// DuplicateStepError reports a name registered twice, either as a step, a
// workflow, or a step listed twice inside one workflow.
type DuplicateStepError struct {
	Name     string
	Workflow string
}

func (e *DuplicateStepError) Error() string {
	if e.Workflow != "" {
		return fmt.Sprintf("workflow %q lists step %q more than once", e.Workflow, e.Name)
	}
	return fmt.Sprintf("%q is already registered", e.Name)
}

func (e *DuplicateStepError) Is(target error) bool { return target == ErrConfiguration }

// UnknownStepError reports a workflow that references an unregistered step.
type UnknownStepError struct {
	Workflow string
	Step     string
}

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("workflow %q references unknown step %q", e.Workflow, e.Step)
}

func (e *UnknownStepError) Is(target error) bool { return target == ErrConfiguration }

// UnknownArgumentError reports a command-line token that names neither a
// step nor a workflow.
type UnknownArgumentError struct {
	Arg string
}

func (e *UnknownArgumentError) Error() string {
	return fmt.Sprintf("unknown step or workflow %q", e.Arg)
}

func (e *UnknownArgumentError) Is(target error) bool { return target == ErrConfiguration }

// MultipleWorkflowsError reports more than one workflow token.
type MultipleWorkflowsError struct {
	First  string
	Second string
}

func (e *MultipleWorkflowsError) Error() string {
	return fmt.Sprintf("only one workflow may be selected, got %q and %q", e.First, e.Second)
}

func (e *MultipleWorkflowsError) Is(target error) bool { return target == ErrConfiguration }
