package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/barcut/internal/model"
)

// DefaultOffcutsPath returns the default file path for the offcut store.
// This is located at ~/.barcut/offcuts.json.
func DefaultOffcutsPath() string {
	return filepath.Join(DefaultConfigDir(), "offcuts.json")
}

// SaveOffcuts writes the offcut store to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveOffcuts(path string, offcuts []model.Offcut) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(offcuts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadOffcuts reads the offcut store from the specified JSON file.
// A missing file is an empty store, not an error.
func LoadOffcuts(path string) ([]model.Offcut, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var offcuts []model.Offcut
	if err := json.Unmarshal(data, &offcuts); err != nil {
		return nil, err
	}
	return offcuts, nil
}

// MergeOffcuts appends newly detected offcuts to the store, skipping
// duplicate IDs.
func MergeOffcuts(existing, detected []model.Offcut) []model.Offcut {
	seen := make(map[string]bool, len(existing))
	for _, o := range existing {
		seen[o.ID] = true
	}
	for _, o := range detected {
		if !seen[o.ID] {
			existing = append(existing, o)
			seen[o.ID] = true
		}
	}
	return existing
}

// ConsumeOffcut removes an offcut from the store by ID, returning the new
// store and whether the ID was found.
func ConsumeOffcut(offcuts []model.Offcut, id string) ([]model.Offcut, bool) {
	for i, o := range offcuts {
		if o.ID == id {
			return append(offcuts[:i], offcuts[i+1:]...), true
		}
	}
	return offcuts, false
}
