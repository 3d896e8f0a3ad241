package engine

import (
	"math"

	"github.com/piwi3910/barcut/internal/model"
)

// Scorer ranks candidate plans by their metrics. Higher is better. The
// default strategy is the fixed weighted sum behind Metrics.QualityScore;
// alternative policies (e.g. a Pareto-front ranking for a future
// multi-objective mode) plug in here without touching the packers.
type Scorer interface {
	Score(m model.Metrics) float64
}

// WeightedScorer is the default strategy: the 0-100 quality score computed
// by ScorePlan.
type WeightedScorer struct{}

func (WeightedScorer) Score(m model.Metrics) float64 {
	return m.QualityScore
}

// ScorePlan computes the full derived metric set for a candidate plan. It is
// a pure function and the hot path of the genetic optimizer: it runs once
// per individual per generation, so it allocates nothing beyond the returned
// struct.
func ScorePlan(cuts []model.Cut, c model.Constraints, costs model.CostParameters, weights model.QualityScoreWeights) model.Metrics {
	var m model.Metrics
	m.StockCount = len(cuts)

	maxUsable := 0.0
	for i := range cuts {
		cut := &cuts[i]
		m.TotalStockLength += cut.StockLength
		m.UsedLength += cut.PieceLength()
		m.TotalCuts += cut.SegmentCount()
		m.WasteDistribution[cut.WasteCategory].Count++
		m.WasteDistribution[cut.WasteCategory].Length += cut.RemainingLength
		if cut.IsReclaimable {
			m.ReclaimableLength += cut.RemainingLength
		}
		if u := c.Usable(cut.StockLength); u > maxUsable {
			maxUsable = u
		}
	}

	m.TotalWaste = m.TotalStockLength - m.UsedLength
	if m.TotalStockLength > 0 {
		m.Efficiency = m.UsedLength / m.TotalStockLength
		m.WastePercent = m.TotalWaste / m.TotalStockLength * 100.0
	}

	m.MaterialCost = m.TotalStockLength * costs.CostPerMm
	m.WasteCost = m.TotalWaste * costs.CostPerMm * model.WasteCostMultiplier
	setupTime := float64(m.StockCount) * costs.SetupMinutesPerStock
	cuttingTime := float64(m.TotalCuts) * costs.SecondsPerCut / 60.0
	m.LaborCost = setupTime*costs.SetupCostPerStock + cuttingTime*costs.LaborCostPerMinute
	m.TotalCost = m.MaterialCost + m.WasteCost + m.LaborCost

	if m.StockCount > 0 {
		m.CuttingComplexity = float64(m.TotalCuts) / float64(m.StockCount)
	}

	m.QualityScore = qualityScore(m, c, maxUsable, weights)
	return m
}

// qualityScore combines four normalized component scores into the 0-100
// quality figure.
func qualityScore(m model.Metrics, c model.Constraints, maxUsable float64, w model.QualityScoreWeights) float64 {
	if m.StockCount == 0 || m.TotalStockLength <= 0 {
		return 0
	}

	effScore := m.Efficiency
	wasteScore := 1.0 - m.WastePercent/100.0

	cplxScore := 1.0
	if c.MaxCutsPerStock > 0 {
		cplxScore = 1.0 - math.Min(1.0, m.CuttingComplexity/float64(c.MaxCutsPerStock))
	}

	// Setup score compares the bar count against the theoretical minimum
	// for the same piece length: 1.0 means no avoidable setups.
	setupScore := 1.0
	if maxUsable > 0 {
		minBars := math.Max(1, math.Ceil(m.UsedLength/maxUsable))
		setupScore = math.Min(1.0, minBars/float64(m.StockCount))
	}

	score := 100.0 * (w.Efficiency*effScore + w.Waste*wasteScore + w.Complexity*cplxScore + w.Setup*setupScore)
	return math.Max(0, math.Min(100, score))
}

// betterPlan compares two scored plans for candidate selection: lower total
// cost wins, ties broken by higher efficiency.
func betterPlan(a, b model.Metrics) bool {
	if a.TotalCost != b.TotalCost {
		return a.TotalCost < b.TotalCost
	}
	return a.Efficiency > b.Efficiency
}
