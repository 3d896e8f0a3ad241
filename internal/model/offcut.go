package model

import (
	"sort"

	"github.com/google/uuid"
)

// Offcut represents a usable bar remnant left over after cutting. Remnants
// at least MinScrapLength long can be stored and fed into future runs as
// candidate stock.
type Offcut struct {
	ID          string  `json:"id"`
	Profile     string  `json:"profile"`
	Length      float64 `json:"length"` // mm
	SourceCutID string  `json:"source_cut_id"`
	WorkOrderID string  `json:"work_order_id,omitempty"`
}

// ToStockOption converts an offcut into a candidate stock length for reuse.
func (o Offcut) ToStockOption() StockLengthOption {
	return StockLengthOption{Profile: o.Profile, Length: o.Length}
}

// DetectOffcuts scans a finished plan for reclaimable remnants. Only bars
// whose remaining length meets the constraint's MinScrapLength qualify.
// Results are sorted by length descending (largest remnants first).
func DetectOffcuts(cuts []Cut, workOrderID string) []Offcut {
	var offcuts []Offcut
	for _, c := range cuts {
		if !c.IsReclaimable {
			continue
		}
		offcuts = append(offcuts, Offcut{
			ID:          uuid.New().String()[:8],
			Profile:     c.Profile,
			Length:      c.RemainingLength,
			SourceCutID: c.ID,
			WorkOrderID: workOrderID,
		})
	}
	sort.Slice(offcuts, func(i, j int) bool {
		return offcuts[i].Length > offcuts[j].Length
	})
	return offcuts
}

// TotalOffcutLength returns the total reclaimable length in mm.
func TotalOffcutLength(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Length
	}
	return total
}
