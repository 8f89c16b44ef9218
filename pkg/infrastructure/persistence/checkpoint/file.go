package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"project-provisioner/pkg/domain/errors"
)

// DefaultStatePath is the well-known state file written next to the runner.
const DefaultStatePath = "orchestration_state.json"

// FileStore keeps the state as a JSON document at a fixed path.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path, creating the parent
// directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New(errors.CodeIoError, "checkpoint", fmt.Sprintf("failed to create directory %s", dir), err)
	}
	return &FileStore{path: path}, nil
}

// legacyState is the flat single-scope document written by earlier runners.
type legacyState struct {
	Completed []string `json:"completed"`
}

// Load reads the state file. A missing file yields an empty state. The flat
// legacy shape {"completed":[...]} is read into the global scope.
func (f *FileStore) Load() (*State, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return NewState(), nil
	}
	if err != nil {
		return nil, errors.New(errors.CodeIoError, "checkpoint", fmt.Sprintf("failed to read %s", f.path), err)
	}

	state := NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, errors.New(errors.CodeInvalidState, "checkpoint", fmt.Sprintf("failed to parse %s", f.path), err)
	}
	if len(state.Scopes) > 0 {
		return state, nil
	}

	var legacy legacyState
	if err := json.Unmarshal(data, &legacy); err == nil && len(legacy.Completed) > 0 {
		state = NewState()
		state.Scopes[GlobalScope] = &ScopeState{Completed: legacy.Completed}
	}
	if state.Scopes == nil {
		state.Scopes = make(map[string]*ScopeState)
	}
	return state, nil
}

// Save rewrites the whole state. The document is written to a temp file in
// the same directory and renamed over the target, so a crash mid-save leaves
// the previous content intact.
func (f *FileStore) Save(state *State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.New(errors.CodeInternalError, "checkpoint", "failed to marshal state", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".state-*.json")
	if err != nil {
		return errors.New(errors.CodeIoError, "checkpoint", "failed to create temp state file", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.New(errors.CodeIoError, "checkpoint", "failed to write temp state file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.New(errors.CodeIoError, "checkpoint", "failed to close temp state file", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return errors.New(errors.CodeIoError, "checkpoint", fmt.Sprintf("failed to replace %s", f.path), err)
	}
	return nil
}
