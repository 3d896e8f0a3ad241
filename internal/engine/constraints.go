package engine

import "github.com/piwi3910/barcut/internal/model"

// Valid ranges for constraint fields. Constraints are operational policy,
// not business data: out-of-range values are clamped, never rejected.
const (
	minKerfWidth = 0.1
	maxKerfWidth = 5.0

	minSafetyMargin = 0.0
	maxSafetyMargin = 20.0

	minScrapFloor   = 0.0
	minScrapCeiling = 1000.0

	minCutsPerStock = 1
	maxCutsPerStock = 100

	minWastePercent = 0.0
	maxWastePercent = 100.0
)

// ResolveConstraints merges a partial constraint set from the request with
// the configured defaults, clamping every numeric field to its valid range.
func ResolveConstraints(in *model.ConstraintsInput, defaults model.Constraints) model.Constraints {
	c := defaults
	if in != nil {
		if in.KerfWidth != nil {
			c.KerfWidth = *in.KerfWidth
		}
		if in.SafetyMargin != nil {
			c.SafetyMargin = *in.SafetyMargin
		}
		if in.MinScrapLength != nil {
			c.MinScrapLength = *in.MinScrapLength
		}
		if in.MaxCutsPerStock != nil {
			c.MaxCutsPerStock = *in.MaxCutsPerStock
		}
		if in.MaxWastePercent != nil {
			c.MaxWastePercent = *in.MaxWastePercent
		}
		if in.AllowPartialStocks != nil {
			c.AllowPartialStocks = *in.AllowPartialStocks
		}
		if in.ReclaimWasteOnly != nil {
			c.ReclaimWasteOnly = *in.ReclaimWasteOnly
		}
	}

	c.KerfWidth = clampFloat(c.KerfWidth, minKerfWidth, maxKerfWidth)
	c.SafetyMargin = clampFloat(c.SafetyMargin, minSafetyMargin, maxSafetyMargin)
	c.MinScrapLength = clampFloat(c.MinScrapLength, minScrapFloor, minScrapCeiling)
	c.MaxCutsPerStock = clampInt(c.MaxCutsPerStock, minCutsPerStock, maxCutsPerStock)
	c.MaxWastePercent = clampFloat(c.MaxWastePercent, minWastePercent, maxWastePercent)
	return c
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
