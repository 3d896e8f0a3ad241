// Package catalog provides the stock length catalog: which bar lengths are
// purchasable per profile type. The orchestrator consults it when a request
// does not name its own stock lengths.
package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/piwi3910/barcut/internal/model"
)

// Catalog answers which stock lengths are available for a profile.
type Catalog interface {
	// StockLengths returns the candidate lengths for the profile, sorted
	// ascending. Entries with an empty profile apply to every profile type.
	StockLengths(profile string) []model.StockLengthOption
}

// Static is an in-memory catalog.
type Static struct {
	Entries []model.StockLengthOption `json:"entries"`
}

// Default returns the catalog of standard aluminium extrusion bar lengths.
func Default() *Static {
	return &Static{Entries: []model.StockLengthOption{
		{Length: 6000},
		{Length: 6500},
		{Length: 7000},
	}}
}

func (s *Static) StockLengths(profile string) []model.StockLengthOption {
	var out []model.StockLengthOption
	for _, e := range s.Entries {
		if e.Profile == "" || strings.EqualFold(e.Profile, profile) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Length < out[j].Length })
	return out
}

// Add appends an entry to the catalog.
func (s *Static) Add(e model.StockLengthOption) {
	s.Entries = append(s.Entries, e)
}

// DefaultPath returns the default catalog file path, ~/.barcut/catalog.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".barcut", "catalog.json"), nil
}

// Save writes the catalog to the specified JSON file, creating parent
// directories as needed.
func Save(path string, c *Static) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads the catalog from the specified JSON file. If the file does not
// exist, it returns the default catalog and saves it.
func Load(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c := Default()
			if saveErr := Save(path, c); saveErr != nil {
				return c, saveErr
			}
			return c, nil
		}
		return nil, err
	}
	var c Static
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadOrCreate loads the catalog from the default path, creating it with
// default entries on first use.
func LoadOrCreate() (*Static, string, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), "", err
	}
	c, err := Load(path)
	return c, path, err
}
