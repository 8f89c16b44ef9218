// Package steps provides the registry and implementations of provisioning steps.
//
// The registry is a closed table built at startup: step targets are resolved
// by stable string name into typed factories, so an unknown step is a
// build-time error instead of a runtime failure halfway through a run.
package steps

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"project-provisioner/pkg/config"
	"project-provisioner/pkg/domain/errors"
	"project-provisioner/pkg/domain/workflow"
	"project-provisioner/pkg/infrastructure/gcp"
)

// Deps carries everything a step factory may need. Clients are built once in
// cmd and injected here; steps never reach for process-wide handles.
type Deps struct {
	Clients *gcp.Clients
	Config  *config.Config
	Logger  *slog.Logger
}

// Factory builds a step from its validated configuration.
type Factory func(Deps) (workflow.Step, error)

var (
	mu       sync.RWMutex
	registry = make(map[string]Factory)
)

// Register makes a step factory discoverable by name.
//
// Usage (in the step's own file):
//
//	func init() { Register(workflow.StepCreateProject, newCreateProjectStep) }
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("duplicate step registration: %s", name))
	}
	registry[name] = factory
}

// Names returns the registered step names (useful for debugging/config).
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DefaultOrder is the fixed provisioning sequence.
func DefaultOrder() []string {
	return []string{
		workflow.StepCreateProject,
		workflow.StepEnableAPIs,
		workflow.StepConfigureNetwork,
		workflow.StepCreateServiceAccount,
		workflow.StepDeployApp,
	}
}

// Build resolves each name through the registry and constructs the step
// list in the given order.
func Build(deps Deps, names []string) ([]workflow.Step, error) {
	built := make([]workflow.Step, 0, len(names))
	for _, name := range names {
		mu.RLock()
		factory, ok := registry[name]
		mu.RUnlock()
		if !ok {
			return nil, errors.New(errors.CodeStepNotFound, "steps",
				fmt.Sprintf("unknown step %q (registered: %v)", name, Names()), nil)
		}
		step, err := factory(deps)
		if err != nil {
			return nil, fmt.Errorf("building step %s: %w", name, err)
		}
		built = append(built, step)
	}
	return built, nil
}
