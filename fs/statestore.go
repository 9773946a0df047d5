// Package fs provides file-based storage for monitor state.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/pagewatch"
)

// Ensure StateStore implements pagewatch.StateStore at compile time.
var _ pagewatch.StateStore = (*StateStore)(nil)

// StateStore keeps one JSON file per target in a directory.
// Files are replaced atomically: each save writes a temporary file in the
// same directory and renames it over the previous one.
type StateStore struct {
	dir string
}

// NewStateStore creates a new StateStore rooted at dir.
// The directory is created on first save.
func NewStateStore(dir string) *StateStore {
	return &StateStore{dir: dir}
}

// record is the on-disk layout: the state plus the target it belongs to.
type record struct {
	Target string `json:"target"`
	pagewatch.MonitorState
}

// FileName returns the state file name for target: the xxhash of the URL.
func FileName(target string) string {
	return fmt.Sprintf("%016x.json", xxhash.Sum64String(target))
}

// Path returns the full path of the state file for target.
func (s *StateStore) Path(target string) string {
	return filepath.Join(s.dir, FileName(target))
}

// LoadState reads the state for target. A missing file yields an empty state.
func (s *StateStore) LoadState(_ context.Context, target string) (*pagewatch.MonitorState, error) {
	data, err := os.ReadFile(s.Path(target))
	if errors.Is(err, os.ErrNotExist) {
		return &pagewatch.MonitorState{}, nil
	}
	if err != nil {
		return nil, err
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, pagewatch.Errorf(pagewatch.EINVALID, "corrupt state file %s: %v", s.Path(target), err)
	}
	if rec.Target != "" && rec.Target != target {
		return nil, pagewatch.Errorf(pagewatch.EINVALID, "state file %s belongs to %s", s.Path(target), rec.Target)
	}
	if err := rec.MonitorState.Validate(); err != nil {
		return nil, err
	}

	return &rec.MonitorState, nil
}

// SaveState atomically replaces the state file for target.
func (s *StateStore) SaveState(_ context.Context, target string, state *pagewatch.MonitorState) error {
	if err := state.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(record{Target: target, MonitorState: *state}, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, FileName(target)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	// Atomically rename temp to final
	if err := os.Rename(tmpName, s.Path(target)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
