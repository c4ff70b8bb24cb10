// Package store persists the per-model generation instructions as a simple
// JSON document on disk. The document is a flat map from model name to
// free-text instructions; it is read on demand and rewritten whole on every
// mutation, which is plenty for its size.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrInstructionNotFound is returned when no instructions exist for the
// requested model.
var ErrInstructionNotFound = errors.New("no instructions stored for model")

// InstructionStore reads and writes the model-instructions JSON document.
type InstructionStore struct {
	path string

	// mu serializes writers; the web front end may field concurrent
	// instruction updates.
	mu sync.Mutex
}

// NewInstructionStore creates a store backed by the JSON document at path.
// The file does not need to exist yet; a missing file reads as empty.
func NewInstructionStore(path string) *InstructionStore {
	return &InstructionStore{path: path}
}

// All returns every stored instruction keyed by model name. A missing file
// yields an empty map.
func (s *InstructionStore) All() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read instructions file %s: %w", s.path, err)
	}

	instructions := map[string]string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &instructions); err != nil {
			return nil, fmt.Errorf("failed to parse instructions file %s: %w", s.path, err)
		}
	}
	return instructions, nil
}

// Get returns the instructions stored for one model, or
// ErrInstructionNotFound.
func (s *InstructionStore) Get(modelName string) (string, error) {
	instructions, err := s.All()
	if err != nil {
		return "", err
	}
	text, ok := instructions[modelName]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInstructionNotFound, modelName)
	}
	return text, nil
}

// Lookup returns the instructions for one model, or the empty string when
// none are stored. Read errors surface; absence does not.
func (s *InstructionStore) Lookup(modelName string) (string, error) {
	text, err := s.Get(modelName)
	if errors.Is(err, ErrInstructionNotFound) {
		return "", nil
	}
	return text, err
}

// Set stores or replaces the instructions for one model.
func (s *InstructionStore) Set(modelName, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	instructions, err := s.All()
	if err != nil {
		return err
	}
	instructions[modelName] = text
	return s.save(instructions)
}

// Delete removes the instructions for one model. Deleting a model with no
// stored instructions returns ErrInstructionNotFound.
func (s *InstructionStore) Delete(modelName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	instructions, err := s.All()
	if err != nil {
		return err
	}
	if _, ok := instructions[modelName]; !ok {
		return fmt.Errorf("%w: %s", ErrInstructionNotFound, modelName)
	}
	delete(instructions, modelName)
	return s.save(instructions)
}

func (s *InstructionStore) save(instructions map[string]string) error {
	raw, err := json.MarshalIndent(instructions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode instructions: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write instructions file %s: %w", s.path, err)
	}
	return nil
}
