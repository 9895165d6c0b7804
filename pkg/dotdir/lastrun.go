package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	lastRunFile = "lastrun.json"
)

// LastRun is the persisted record of the most recent completed generation.
// It is written after a generation finishes so the result can be inspected
// or re-exported without hitting the relay again.
type LastRun struct {
	// Prompt is the user prompt that produced the generation.
	Prompt string `json:"prompt"`

	// Kind is the classification of the output ("code" or "text").
	Kind string `json:"kind"`

	// Language is the detected language of the output.
	Language string `json:"language"`

	// Content is the full accumulated output.
	Content string `json:"content"`

	// CreatedAt is when the generation completed.
	CreatedAt time.Time `json:"created_at"`
}

// LoadLastRun loads the last-run record from a target .codestream/lastrun.json.
// Returns nil, nil if no record exists yet.
// If overrideDir is non-empty, it is used instead of the default ~/.codestream/ location.
func (m *Manager) LoadLastRun(overrideDir string) (*LastRun, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, lastRunFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading last-run record: %w", err)
	}

	run := &LastRun{}
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parsing last-run record: %w", err)
	}

	return run, nil
}

// SaveLastRun persists the last-run record to a target .codestream/lastrun.json.
func (m *Manager) SaveLastRun(run *LastRun, overrideDir string) error {
	if run == nil {
		return errors.New("cannot save nil last-run record")
	}

	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling last-run record: %w", err)
	}

	path := filepath.Join(dir, lastRunFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing last-run record: %w", err)
	}

	return nil
}

// ClearLastRun removes the last-run record file.
// Returns nil if the file doesn't exist (already cleared).
func (m *Manager) ClearLastRun(overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, lastRunFile)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing last-run record: %w", err)
	}

	return nil
}
