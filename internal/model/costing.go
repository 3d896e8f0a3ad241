package model

// WasteCostMultiplier inflates the raw material cost of wasted length.
// Waste is costed above material price because it also consumes handling
// and disposal effort.
const WasteCostMultiplier = 1.2

// QualityScoreWeights is the fixed multi-objective weighting used by the
// default scorer. The weights sum to 1.0 and the combined score is scaled
// to 0-100.
type QualityScoreWeights struct {
	Efficiency float64 `json:"efficiency"`
	Waste      float64 `json:"waste"`
	Complexity float64 `json:"complexity"`
	Setup      float64 `json:"setup"`
}

// DefaultQualityScoreWeights returns the documented weighting.
func DefaultQualityScoreWeights() QualityScoreWeights {
	return QualityScoreWeights{
		Efficiency: 0.35,
		Waste:      0.25,
		Complexity: 0.20,
		Setup:      0.20,
	}
}

// CostParameters holds the unit prices used by the cost model.
type CostParameters struct {
	CostPerMm            float64 `json:"cost_per_mm"`             // material price per mm of stock
	SetupCostPerStock    float64 `json:"setup_cost_per_stock"`    // fixed cost per bar mounted
	LaborCostPerMinute   float64 `json:"labor_cost_per_minute"`   //
	SetupMinutesPerStock float64 `json:"setup_minutes_per_stock"` //
	SecondsPerCut        float64 `json:"seconds_per_cut"`         //
}

// DefaultCostParameters returns unit prices typical for 6xxx-series
// aluminum profile stock.
func DefaultCostParameters() CostParameters {
	return CostParameters{
		CostPerMm:            0.012,
		SetupCostPerStock:    2.5,
		LaborCostPerMinute:   1.2,
		SetupMinutesPerStock: 1.5,
		SecondsPerCut:        8.0,
	}
}

// PurchaseEstimate holds the results of a bar purchasing calculation.
type PurchaseEstimate struct {
	TotalPieceLength float64 `json:"total_piece_length"` // mm of requested pieces
	KerfAllowance    float64 `json:"kerf_allowance"`     // mm consumed by cuts
	BarsNeededExact  float64 `json:"bars_needed_exact"`  // fractional bars
	BarsNeededMin    int     `json:"bars_needed_min"`    // ceiling of exact
	BarsWithWaste    int     `json:"bars_with_waste"`    // recommended incl. waste factor
	WastePercent     float64 `json:"waste_percent"`      // waste factor applied
	EstimatedCost    float64 `json:"estimated_cost"`     //
	PricePerBar      float64 `json:"price_per_bar"`      //
	StockLength      float64 `json:"stock_length"`       //
}
