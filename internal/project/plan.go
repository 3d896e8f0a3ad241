package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/barcut/internal/model"
)

// PlanFile is the on-disk wrapper for a saved cutting plan.
type PlanFile struct {
	Version     int          `json:"version"`
	SavedAt     time.Time    `json:"saved_at"`
	WorkOrderID string       `json:"work_order_id,omitempty"`
	Result      model.Result `json:"result"`
}

// planFileVersion is bumped when the plan format changes incompatibly.
const planFileVersion = 1

// SavePlan writes a cutting plan to the specified JSON file.
// It creates parent directories if they do not exist.
func SavePlan(path string, workOrderID string, result model.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	pf := PlanFile{
		Version:     planFileVersion,
		SavedAt:     time.Now().UTC(),
		WorkOrderID: workOrderID,
		Result:      result,
	}
	data, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadPlan reads a cutting plan from the specified JSON file.
func LoadPlan(path string) (PlanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PlanFile{}, err
	}
	var pf PlanFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return PlanFile{}, err
	}
	return pf, nil
}
