// Package checkpoint provides durable completion state for provisioning runs.
//
// A run is tracked per scope (typically the target project or environment
// key). Each scope owns an ordered list of completed step names; a step name
// is recorded only after its execution returned without error. Stores rewrite
// the full state on every save, so after a crash the file holds either the
// old or the new state, never a torn one.
package checkpoint

// GlobalScope is the scope key used by single-scope runs.
const GlobalScope = "global"

// ScopeState is the completion record for one scope.
type ScopeState struct {
	Completed []string `json:"completed"`
}

// State maps scope keys to their completion records.
type State struct {
	Scopes map[string]*ScopeState `json:"scopes"`
}

// NewState returns an empty state.
func NewState() *State {
	return &State{Scopes: make(map[string]*ScopeState)}
}

// Done reports whether the step has completed under the scope.
func (s *State) Done(scope, step string) bool {
	sc, ok := s.Scopes[scope]
	if !ok {
		return false
	}
	for _, name := range sc.Completed {
		if name == step {
			return true
		}
	}
	return false
}

// MarkDone records the step as completed under the scope. Recording an
// already-completed step is a no-op, preserving insertion order.
func (s *State) MarkDone(scope, step string) {
	if s.Done(scope, step) {
		return
	}
	if s.Scopes == nil {
		s.Scopes = make(map[string]*ScopeState)
	}
	sc, ok := s.Scopes[scope]
	if !ok {
		sc = &ScopeState{}
		s.Scopes[scope] = sc
	}
	sc.Completed = append(sc.Completed, step)
}

// Completed returns the completed step names for the scope, in completion order.
func (s *State) Completed(scope string) []string {
	sc, ok := s.Scopes[scope]
	if !ok {
		return nil
	}
	return append([]string(nil), sc.Completed...)
}

// Store persists run completion state. Implementations rewrite the whole
// state on every Save; a missing backing file yields an empty state from
// Load, not an error. Single-writer access is assumed, not enforced.
type Store interface {
	Load() (*State, error)
	Save(*State) error
}
