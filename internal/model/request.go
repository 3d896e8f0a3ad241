package model

// ItemInput is one raw demand row as received from the API or an import.
// The normalizer validates and converts these into Items.
type ItemInput struct {
	Profile     string  `json:"profile_type"`
	Length      float64 `json:"length"`
	Quantity    int     `json:"quantity"`
	Tolerance   float64 `json:"tolerance,omitempty"`
	Priority    int     `json:"priority,omitempty"`
	WorkOrderID string  `json:"work_order_id,omitempty"`
	Color       string  `json:"color,omitempty"`
}

// StockLengthOption is one candidate stock length for a profile. An empty
// Profile means the length is available for any profile type.
type StockLengthOption struct {
	Profile   string  `json:"profile_type,omitempty"`
	Length    float64 `json:"length"`
	CostPerMm float64 `json:"cost_per_mm,omitempty"` // overrides the run's cost parameters when set
}

// ConstraintsInput is a partial constraint set from the request. Nil fields
// fall back to the configured defaults; out-of-range values are clamped by
// the constraint resolver, not rejected.
type ConstraintsInput struct {
	KerfWidth          *float64 `json:"kerf_width,omitempty"`
	SafetyMargin       *float64 `json:"safety_margin,omitempty"`
	MinScrapLength     *float64 `json:"min_scrap_length,omitempty"`
	MaxCutsPerStock    *int     `json:"max_cuts_per_stock,omitempty"`
	MaxWastePercent    *float64 `json:"max_waste_percent,omitempty"`
	AllowPartialStocks *bool    `json:"allow_partial_stocks,omitempty"`
	ReclaimWasteOnly   *bool    `json:"reclaim_waste_only,omitempty"`
}

// OptimizeRequest is the boundary contract for one optimization run.
type OptimizeRequest struct {
	WorkOrderID          string              `json:"work_order_id,omitempty"`
	Algorithm            Algorithm           `json:"algorithm"`
	StockLength          float64             `json:"stock_length,omitempty"`
	StockLengths         []StockLengthOption `json:"material_stock_lengths,omitempty"`
	Constraints          *ConstraintsInput   `json:"constraints,omitempty"`
	Items                []ItemInput         `json:"items"`
	GenerateAlternatives bool                `json:"generate_alternatives,omitempty"`
	MaxAlternatives      int                 `json:"max_alternatives,omitempty"`
	CollectItemErrors    bool                `json:"collect_item_errors,omitempty"` // normalizer partial-acceptance mode
}

// ErrorBody is the structured error object returned on failure.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// OptimizeResponse is the boundary contract for the run outcome.
type OptimizeResponse struct {
	Success         bool             `json:"success"`
	CuttingPlan     []Cut            `json:"cutting_plan,omitempty"`
	Metrics         *Metrics         `json:"metrics,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Alternatives    []Result         `json:"alternatives,omitempty"`
	ExecutionTimeMs int64            `json:"execution_time_ms"`
	Warnings        []string         `json:"warnings,omitempty"`
	Error           *ErrorBody       `json:"error,omitempty"`
}
