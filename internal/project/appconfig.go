// Package project handles on-disk state: application configuration, saved
// cutting plans and the reclaimable offcut store. Everything is plain JSON
// under ~/.barcut/ so files stay hand-editable and diffable.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/barcut/internal/engine"
	"github.com/piwi3910/barcut/internal/model"
)

// AppConfig is the persisted application configuration.
type AppConfig struct {
	Constraints model.Constraints     `json:"constraints"`
	Costs       model.CostParameters  `json:"costs"`
	ListenAddr  string                `json:"listen_addr"`
	DataDir     string                `json:"data_dir,omitempty"`
	Genetic     *engine.GeneticConfig `json:"genetic,omitempty"` // nil keeps the adaptive defaults
	RecentPlans []string              `json:"recent_plans"`
}

// DefaultAppConfig returns the configuration used on first run.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Constraints: model.DefaultConstraints(),
		Costs:       model.DefaultCostParameters(),
		ListenAddr:  ":8080",
		RecentPlans: []string{},
	}
}

// DefaultConfigDir returns the default directory for application state.
// On all platforms this is ~/.barcut/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".barcut")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
func LoadAppConfig(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultAppConfig(), nil
		}
		return AppConfig{}, err
	}
	var config AppConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return AppConfig{}, err
	}
	if config.RecentPlans == nil {
		config.RecentPlans = []string{}
	}
	return config, nil
}

// RememberPlan prepends a plan path to the recent list, dropping duplicates
// and keeping at most ten entries.
func (c *AppConfig) RememberPlan(path string) {
	recent := []string{path}
	for _, p := range c.RecentPlans {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > 10 {
		recent = recent[:10]
	}
	c.RecentPlans = recent
}
