// Package process implements the processing engine: a
// step registry keyed by stable name, an ordered pipeline executor
// enforcing skip-on-failure/at-most-once-mutation/failure-isolation,
// and a task-parallel driver over independent streams grounded on
// cmd/main.go's worker-pool pattern.
package process

import (
	"github.com/smcore/go-strongmotion/config"

	strongmotion "github.com/smcore/go-strongmotion"
)

// StepFunc is one registered processing step:
// `step(stream, event, cfg) -> stream'`, expressed as an in-place
// mutation returning an error only for an uncaught internal failure
// (a business-rule rejection instead calls Trace.Fail/Stream.Fail and
// returns nil).
type StepFunc func(stream *strongmotion.Stream, event strongmotion.Event, args map[string]any) error

// StepSpec names one registered step and the argument keys config
// validation requires to be present.
type StepSpec struct {
	Name         string
	RequiredArgs []string
	Activity     string
	Func         StepFunc
}

// Registry is the name -> StepSpec table the pipeline executor and
// config validation both consult.
type Registry struct {
	steps map[string]StepSpec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{steps: make(map[string]StepSpec)}
}

// Register adds spec to the registry, keyed by spec.Name.
func (r *Registry) Register(spec StepSpec) {
	r.steps[spec.Name] = spec
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (StepSpec, bool) {
	s, ok := r.steps[name]
	return s, ok
}

// ValidateSteps checks every configured processing step against the
// registry: an unrecognized step name or a missing required argument
// both produce a ClassConfig error at load time.
func (r *Registry) ValidateSteps(steps []config.ProcessingStep) error {
	for _, step := range steps {
		spec, ok := r.Lookup(step.Name)
		if !ok {
			return strongmotion.NewClassifiedError(strongmotion.ClassConfig, "process.ValidateSteps", strongmotion.ErrUnknownStep)
		}
		for _, required := range spec.RequiredArgs {
			if _, present := step.Args[required]; !present {
				return strongmotion.NewClassifiedError(strongmotion.ClassConfig, "process.ValidateSteps", strongmotion.ErrMissingArg)
			}
		}
	}
	return nil
}

// NewDefaultRegistry returns a Registry with every built-in step (see
// steps.go) already registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	registerBuiltinSteps(r)
	return r
}
