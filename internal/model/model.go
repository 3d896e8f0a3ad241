package model

import "github.com/google/uuid"

// Item represents one normalized demand line: a number of identical pieces of
// a given profile to cut. Profile types are opaque user-defined strings (they
// arrive from work-order uploads), not a closed enum. Items are immutable once
// produced by the normalizer.
type Item struct {
	ID          string  `json:"id"`
	Profile     string  `json:"profile"`
	Length      float64 `json:"length"` // mm
	Quantity    int     `json:"quantity"`
	Tolerance   float64 `json:"tolerance,omitempty"` // mm, +/- allowed deviation
	Priority    int     `json:"priority,omitempty"`
	WorkOrderID string  `json:"work_order_id,omitempty"`
	Color       string  `json:"color,omitempty"`
}

// NewItem creates an Item with a generated ID.
func NewItem(profile string, length float64, qty int) Item {
	return Item{
		ID:       uuid.New().String()[:8],
		Profile:  profile,
		Length:   length,
		Quantity: qty,
	}
}

// Constraints is the effective numeric policy for one optimization run.
// It is resolved once per run and shared read-only by all packers.
type Constraints struct {
	KerfWidth          float64 `json:"kerf_width"`         // blade width consumed per cut (mm)
	SafetyMargin       float64 `json:"safety_margin"`      // trim reserved at each stock end (mm)
	MinScrapLength     float64 `json:"min_scrap_length"`   // below this a remainder is waste, not stock (mm)
	MaxCutsPerStock    int     `json:"max_cuts_per_stock"`
	MaxWastePercent    float64 `json:"max_waste_percent"` // soft cap, advisory only
	AllowPartialStocks bool    `json:"allow_partial_stocks"`
	ReclaimWasteOnly   bool    `json:"reclaim_waste_only"`
}

// DefaultConstraints returns the documented defaults.
func DefaultConstraints() Constraints {
	return Constraints{
		KerfWidth:          3.5,
		SafetyMargin:       2.0,
		MinScrapLength:     75.0,
		MaxCutsPerStock:    50,
		MaxWastePercent:    25.0,
		AllowPartialStocks: true,
		ReclaimWasteOnly:   false,
	}
}

// Usable returns the packable length of a stock bar after reserving the
// safety margin at both ends.
func (c Constraints) Usable(stockLength float64) float64 {
	u := stockLength - 2*c.SafetyMargin
	if u < 0 {
		return 0
	}
	return u
}

// WasteCategory buckets a bar's remaining length for reporting.
type WasteCategory int

const (
	WasteMinimal   WasteCategory = iota // < 50mm
	WasteSmall                          // 50-150mm
	WasteMedium                         // 150-300mm
	WasteLarge                          // 300-500mm
	WasteExcessive                      // > 500mm
)

// WasteCategoryCount is the number of waste buckets.
const WasteCategoryCount = 5

func (w WasteCategory) String() string {
	switch w {
	case WasteMinimal:
		return "minimal"
	case WasteSmall:
		return "small"
	case WasteMedium:
		return "medium"
	case WasteLarge:
		return "large"
	default:
		return "excessive"
	}
}

// CategorizeWaste buckets a remaining length by the documented thresholds.
func CategorizeWaste(remaining float64) WasteCategory {
	switch {
	case remaining < 50:
		return WasteMinimal
	case remaining < 150:
		return WasteSmall
	case remaining < 300:
		return WasteMedium
	case remaining < 500:
		return WasteLarge
	default:
		return WasteExcessive
	}
}

// Segment is one piece cut from a stock bar. ItemIndex points back into the
// normalized item list so every piece stays traceable to its demand line.
type Segment struct {
	Length      float64 `json:"length"` // mm
	Quantity    int     `json:"quantity"`
	Position    float64 `json:"position"` // mm from bar start, for cut diagrams
	ItemIndex   int     `json:"item_index"`
	WorkOrderID string  `json:"work_order_id,omitempty"`
}

// Cut is one physical stock bar and everything cut from it. Cuts are built
// append-only by a packer and frozen on return.
type Cut struct {
	ID                 string         `json:"id"`
	Profile            string         `json:"profile"`
	StockLength        float64        `json:"stock_length"`
	Segments           []Segment      `json:"segments"`
	UsedLength         float64        `json:"used_length"`      // piece lengths + kerf per cut
	RemainingLength    float64        `json:"remaining_length"` // stock - used
	WasteCategory      WasteCategory  `json:"waste_category"`
	IsReclaimable      bool           `json:"is_reclaimable"`
	WorkOrderBreakdown map[string]int `json:"work_order_breakdown,omitempty"`
}

// PieceLength returns the total length of usable pieces on the bar,
// excluding kerf.
func (c Cut) PieceLength() float64 {
	var total float64
	for _, s := range c.Segments {
		total += s.Length * float64(s.Quantity)
	}
	return total
}

// SegmentCount returns the number of cuts made on the bar.
func (c Cut) SegmentCount() int {
	n := 0
	for _, s := range c.Segments {
		n += s.Quantity
	}
	return n
}

// WasteBucket aggregates bars falling into one waste category.
type WasteBucket struct {
	Count  int     `json:"count"`
	Length float64 `json:"length"`
}

// WasteDistribution is indexed by WasteCategory.
type WasteDistribution [WasteCategoryCount]WasteBucket

// Metrics is the full derived metric set for a candidate plan. Computed by
// the plan scorer; identical for a final plan and for a GA individual.
type Metrics struct {
	StockCount        int               `json:"stock_count"`
	TotalStockLength  float64           `json:"total_stock_length"`
	UsedLength        float64           `json:"used_length"` // pieces only, kerf excluded
	TotalCuts         int               `json:"total_cuts"`
	TotalWaste        float64           `json:"total_waste"`
	WastePercent      float64           `json:"waste_percent"`
	Efficiency        float64           `json:"efficiency"` // 0..1
	ReclaimableLength float64           `json:"reclaimable_length"`
	WasteDistribution WasteDistribution `json:"waste_distribution"`
	MaterialCost      float64           `json:"material_cost"`
	WasteCost         float64           `json:"waste_cost"`
	LaborCost         float64           `json:"labor_cost"`
	TotalCost         float64           `json:"total_cost"`
	CuttingComplexity float64           `json:"cutting_complexity"` // avg cuts per bar
	QualityScore      float64           `json:"quality_score"`      // 0..100
}

// Algorithm selects the packing strategy for a run.
type Algorithm string

const (
	AlgorithmFFD     Algorithm = "ffd"     // First-Fit-Decreasing
	AlgorithmBFD     Algorithm = "bfd"     // Best-Fit-Decreasing
	AlgorithmGenetic Algorithm = "genetic" // permutation GA over packing order
	AlgorithmPooling Algorithm = "pooling" // shared patterns across work orders
)

// Algorithms lists every selectable algorithm in comparison order.
var Algorithms = []Algorithm{AlgorithmFFD, AlgorithmBFD, AlgorithmPooling, AlgorithmGenetic}

// Valid reports whether the algorithm identifier is known.
func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmFFD, AlgorithmBFD, AlgorithmGenetic, AlgorithmPooling:
		return true
	}
	return false
}

// Severity tags a recommendation.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Recommendation is a heuristic suggestion attached to a result.
type Recommendation struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Result is the final output of one algorithm run.
type Result struct {
	Algorithm       Algorithm        `json:"algorithm"`
	Cuts            []Cut            `json:"cuts"`
	Metrics         Metrics          `json:"metrics"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	ExecutionTimeMs int64            `json:"execution_time_ms"`
	Warnings        []string         `json:"warnings,omitempty"`
}

// Attempt records one algorithm's outcome in comparison mode. Failures are
// isolated per algorithm; a failed attempt never aborts its siblings.
type Attempt struct {
	Algorithm Algorithm `json:"algorithm"`
	Result    *Result   `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	ErrorCode string    `json:"error_code,omitempty"`
}

// Comparison is the ranked outcome of running several algorithms on the same
// input. Best points at the winning attempt's result.
type Comparison struct {
	Best     *Result   `json:"best,omitempty"`
	Attempts []Attempt `json:"attempts"`
}
