// Package workflow holds the catalog of named build steps and the workflows
// composed from them, and resolves command-line tokens into the ordered list
// of steps to run.
package workflow

import (
	"fmt"
	"io"
	"strings"

	"github.com/futureCreator/nfbuild/internal/types"
)

// DefaultName labels the selection produced when no workflow token is given.
const DefaultName = "default"

// Registry is the catalog for one invocation. It is not safe for concurrent
// registration.
type Registry struct {
	steps         map[string]types.Step
	stepOrder     []string
	workflows     map[string]types.Workflow
	workflowOrder []string
	def           types.Workflow
}

// New returns an empty registry whose default workflow runs nothing.
func New() *Registry {
	return &Registry{
		steps:     make(map[string]types.Step),
		workflows: make(map[string]types.Workflow),
		def:       types.Workflow{Name: DefaultName, Description: "Empty workflow"},
	}
}

// RegisterStep adds a step. Names are shared between steps and workflows.
func (r *Registry) RegisterStep(name, description string) error {
	if name == "" {
		return fmt.Errorf("%w: step name must not be empty", ErrConfiguration)
	}
	if r.taken(name) {
		return &DuplicateStepError{Name: name}
	}
	r.steps[name] = types.Step{Name: name, Description: description}
	r.stepOrder = append(r.stepOrder, name)
	return nil
}

// RegisterWorkflow adds a workflow over already registered steps.
func (r *Registry) RegisterWorkflow(name, description string, steps []string) error {
	if name == "" {
		return fmt.Errorf("%w: workflow name must not be empty", ErrConfiguration)
	}
	if r.taken(name) {
		return &DuplicateStepError{Name: name}
	}
	if err := r.validate(name, steps); err != nil {
		return err
	}
	r.workflows[name] = types.Workflow{Name: name, Description: description, Steps: clone(steps)}
	r.workflowOrder = append(r.workflowOrder, name)
	return nil
}

// SetDefaultWorkflow defines what runs when no workflow token is given.
func (r *Registry) SetDefaultWorkflow(description string, steps []string) error {
	if err := r.validate(DefaultName, steps); err != nil {
		return err
	}
	r.def = types.Workflow{Name: DefaultName, Description: description, Steps: clone(steps)}
	return nil
}

func (r *Registry) taken(name string) bool {
	_, isStep := r.steps[name]
	_, isWorkflow := r.workflows[name]
	return isStep || isWorkflow
}

func (r *Registry) validate(workflow string, steps []string) error {
	seen := make(map[string]bool, len(steps))
	for _, s := range steps {
		if _, ok := r.steps[s]; !ok {
			return &UnknownStepError{Workflow: workflow, Step: s}
		}
		if seen[s] {
			return &DuplicateStepError{Name: s, Workflow: workflow}
		}
		seen[s] = true
	}
	return nil
}

// Step looks up a registered step.
func (r *Registry) Step(name string) (types.Step, bool) {
	s, ok := r.steps[name]
	return s, ok
}

// Steps returns the registered steps in registration order.
func (r *Registry) Steps() []types.Step {
	out := make([]types.Step, 0, len(r.stepOrder))
	for _, name := range r.stepOrder {
		out = append(out, r.steps[name])
	}
	return out
}

// Workflows returns the registered workflows in registration order.
func (r *Registry) Workflows() []types.Workflow {
	out := make([]types.Workflow, 0, len(r.workflowOrder))
	for _, name := range r.workflowOrder {
		w := r.workflows[name]
		w.Steps = clone(w.Steps)
		out = append(out, w)
	}
	return out
}

// Selection is the ordered, duplicate-free list of steps for one run.
type Selection struct {
	// Workflow is the expanded workflow, or DefaultName.
	Workflow string
	Steps    []string
}

// Has reports whether name was selected.
func (s *Selection) Has(name string) bool {
	for _, n := range s.Steps {
		if n == name {
			return true
		}
	}
	return false
}

// Resolve turns command-line tokens into a selection. At most one token may
// name a workflow; it expands in declared order, otherwise the default
// workflow does. Step tokens are appended in order of first appearance when
// not already present. Any other token is an UnknownArgumentError.
func (r *Registry) Resolve(args []string) (*Selection, error) {
	base := r.def
	chosen := false
	var extra []string
	for _, arg := range args {
		if w, ok := r.workflows[arg]; ok {
			if chosen {
				return nil, &MultipleWorkflowsError{First: base.Name, Second: arg}
			}
			base, chosen = w, true
			continue
		}
		if _, ok := r.steps[arg]; ok {
			extra = append(extra, arg)
			continue
		}
		return nil, &UnknownArgumentError{Arg: arg}
	}

	sel := &Selection{Workflow: base.Name}
	seen := make(map[string]bool)
	for _, name := range append(clone(base.Steps), extra...) {
		if seen[name] {
			continue
		}
		seen[name] = true
		sel.Steps = append(sel.Steps, name)
	}
	return sel, nil
}

// Describe writes a listing of every step and workflow for help output.
func (r *Registry) Describe(w io.Writer) {
	width := 0
	for _, name := range append(clone(r.stepOrder), r.workflowOrder...) {
		if len(name) > width {
			width = len(name)
		}
	}

	fmt.Fprintln(w, "Steps:")
	for _, name := range r.stepOrder {
		fmt.Fprintf(w, "  %-*s  %s\n", width, name, r.steps[name].Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Workflows:")
	for _, name := range r.workflowOrder {
		wf := r.workflows[name]
		fmt.Fprintf(w, "  %-*s  %s\n", width, name, wf.Description)
		fmt.Fprintf(w, "  %-*s    %s\n", width, "", strings.Join(wf.Steps, ", "))
	}
	fmt.Fprintln(w)
	steps := "(none)"
	if len(r.def.Steps) > 0 {
		steps = strings.Join(r.def.Steps, ", ")
	}
	fmt.Fprintf(w, "Without a workflow: %s: %s\n", r.def.Description, steps)
}

func clone(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
