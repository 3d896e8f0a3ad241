package engine

import (
	"fmt"

	"github.com/piwi3910/barcut/internal/model"
)

// geneticSuggestionThreshold is the unit demand count above which the
// deterministic heuristics tend to leave noticeable waste on the table.
const geneticSuggestionThreshold = 50

// buildRecommendations derives advisory messages from the scored plan.
// Recommendations never change the plan; they inform the operator.
func buildRecommendations(items []model.Item, m model.Metrics, c model.Constraints, algo model.Algorithm) []model.Recommendation {
	var recs []model.Recommendation

	totalPieces := 0
	for _, it := range items {
		totalPieces += it.Quantity
	}

	if algo != model.AlgorithmGenetic && totalPieces > geneticSuggestionThreshold {
		recs = append(recs, model.Recommendation{
			Severity: model.SeverityInfo,
			Message:  fmt.Sprintf("large job (%d pieces): the genetic algorithm may find a tighter plan", totalPieces),
		})
	}

	if c.MaxWastePercent > 0 && m.WastePercent > c.MaxWastePercent {
		recs = append(recs, model.Recommendation{
			Severity: model.SeverityWarning,
			Message: fmt.Sprintf("waste %.1f%% exceeds the target of %.1f%%; consider alternative stock lengths",
				m.WastePercent, c.MaxWastePercent),
		})
	}

	if m.ReclaimableLength > 0 {
		recs = append(recs, model.Recommendation{
			Severity: model.SeverityInfo,
			Message:  fmt.Sprintf("%.0fmm of offcuts are long enough to return to stock", m.ReclaimableLength),
		})
	}

	if m.Efficiency < 0.5 && m.StockCount > 0 {
		recs = append(recs, model.Recommendation{
			Severity: model.SeverityCritical,
			Message:  fmt.Sprintf("efficiency %.0f%% is very low; the stock length is likely a poor match for the piece lengths", m.Efficiency*100),
		})
	}

	return recs
}
