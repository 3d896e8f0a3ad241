package engine

import (
	"fmt"
	"sort"

	"github.com/piwi3910/barcut/internal/errs"
	"github.com/piwi3910/barcut/internal/model"
)

// barBuilder accumulates demands on one stock bar during packing. Cuts are
// append-only while packing and frozen by finalize.
type barBuilder struct {
	stockLength float64
	usable      float64
	used        float64 // piece lengths + kerf consumed so far
	demands     []demand
}

func newBarBuilder(stockLength float64, c model.Constraints) *barBuilder {
	return &barBuilder{
		stockLength: stockLength,
		usable:      c.Usable(stockLength),
	}
}

func (b *barBuilder) remaining() float64 {
	return b.usable - b.used
}

// fits reports whether one more demand of the given length can be placed,
// respecting kerf and the per-stock cut limit.
func (b *barBuilder) fits(length, kerf float64, maxCuts int) bool {
	if len(b.demands) >= maxCuts {
		return false
	}
	return b.remaining() >= length+kerf
}

func (b *barBuilder) place(d demand, kerf float64) {
	b.demands = append(b.demands, d)
	b.used += d.length + kerf
}

// finalize freezes the bar into an immutable Cut. Adjacent demands from the
// same item are batched into one segment with quantity > 1; positions are
// measured from the bar start including the leading safety margin.
// Bar IDs are sequential so repeated runs on identical input produce
// identical output.
func (b *barBuilder) finalize(profile string, index int, c model.Constraints) model.Cut {
	cut := model.Cut{
		ID:          fmt.Sprintf("bar-%03d", index+1),
		Profile:     profile,
		StockLength: b.stockLength,
	}

	pos := c.SafetyMargin
	for _, d := range b.demands {
		n := len(cut.Segments)
		if n > 0 && cut.Segments[n-1].ItemIndex == d.originalIndex && cut.Segments[n-1].Length == d.length {
			cut.Segments[n-1].Quantity++
		} else {
			cut.Segments = append(cut.Segments, model.Segment{
				Length:      d.length,
				Quantity:    1,
				Position:    pos,
				ItemIndex:   d.originalIndex,
				WorkOrderID: d.workOrderID,
			})
		}
		pos += d.length + c.KerfWidth
		if d.workOrderID != "" {
			if cut.WorkOrderBreakdown == nil {
				cut.WorkOrderBreakdown = make(map[string]int)
			}
			cut.WorkOrderBreakdown[d.workOrderID]++
		}
	}

	cut.UsedLength = cut.PieceLength() + float64(cut.SegmentCount())*c.KerfWidth
	cut.RemainingLength = b.stockLength - cut.UsedLength
	cut.WasteCategory = model.CategorizeWaste(cut.RemainingLength)
	cut.IsReclaimable = cut.RemainingLength >= c.MinScrapLength
	return cut
}

// sortDemandsDecreasing returns a copy sorted by length descending, ties
// broken by original index ascending. This ordering makes FFD and BFD
// deterministic for identical input.
func sortDemandsDecreasing(demands []demand) []demand {
	sorted := make([]demand, len(demands))
	copy(sorted, demands)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].length != sorted[j].length {
			return sorted[i].length > sorted[j].length
		}
		return sorted[i].originalIndex < sorted[j].originalIndex
	})
	return sorted
}

// checkDemandsFit verifies that every demand fits an empty bar of the given
// stock length. A single impossible demand is a hard domain error, never a
// silent drop.
func checkDemandsFit(demands []demand, stockLength float64, c model.Constraints) error {
	usable := c.Usable(stockLength)
	for _, d := range demands {
		if d.length+c.KerfWidth > usable {
			return errs.Business(errs.CodeInvalidCuttingParameters,
				fmt.Sprintf("piece of %.1fmm does not fit a %.1fmm stock bar (usable %.1fmm)", d.length, stockLength, usable)).
				WithDetail("length", fmt.Sprintf("%.1f", d.length)).
				WithDetail("stock_length", fmt.Sprintf("%.1f", stockLength))
		}
	}
	return nil
}

// packInOrder places demands in the given order using first-fit: each demand
// goes into the first open bar with room, or opens a new bar. This is the
// shared placement core for FFD and the genetic decoder.
func packInOrder(demands []demand, profile string, stockLength float64, c model.Constraints) ([]model.Cut, error) {
	if err := checkDemandsFit(demands, stockLength, c); err != nil {
		return nil, err
	}

	var bars []*barBuilder
	for _, d := range demands {
		placed := false
		for _, b := range bars {
			if b.fits(d.length, c.KerfWidth, c.MaxCutsPerStock) {
				b.place(d, c.KerfWidth)
				placed = true
				break
			}
		}
		if !placed {
			b := newBarBuilder(stockLength, c)
			b.place(d, c.KerfWidth)
			bars = append(bars, b)
		}
	}
	return finalizeBars(bars, profile, c), nil
}

// packFFD runs First-Fit-Decreasing over the expanded demands for a single
// candidate stock length.
func packFFD(demands []demand, profile string, stockLength float64, c model.Constraints) ([]model.Cut, error) {
	return packInOrder(sortDemandsDecreasing(demands), profile, stockLength, c)
}

// packBFD runs Best-Fit-Decreasing: same sort as FFD, but each demand goes
// into the open bar with the smallest sufficient remaining length, ties
// broken by earliest-opened bar.
func packBFD(demands []demand, profile string, stockLength float64, c model.Constraints) ([]model.Cut, error) {
	if err := checkDemandsFit(demands, stockLength, c); err != nil {
		return nil, err
	}

	var bars []*barBuilder
	for _, d := range sortDemandsDecreasing(demands) {
		idx := bestFitIndex(bars, d.length+c.KerfWidth, c.MaxCutsPerStock)
		if idx < 0 {
			b := newBarBuilder(stockLength, c)
			b.place(d, c.KerfWidth)
			bars = append(bars, b)
			continue
		}
		bars[idx].place(d, c.KerfWidth)
	}
	return finalizeBars(bars, profile, c), nil
}

// bestFitIndex returns the index of the open bar with the tightest
// sufficient remaining length, or -1 if none fits. Strict less-than keeps
// the earliest-opened bar on ties.
func bestFitIndex(bars []*barBuilder, need float64, maxCuts int) int {
	bestIdx := -1
	bestSlack := 0.0
	for i, b := range bars {
		if len(b.demands) >= maxCuts {
			continue
		}
		slack := b.remaining() - need
		if slack < 0 {
			continue
		}
		if bestIdx < 0 || slack < bestSlack {
			bestIdx = i
			bestSlack = slack
		}
	}
	return bestIdx
}

func finalizeBars(bars []*barBuilder, profile string, c model.Constraints) []model.Cut {
	cuts := make([]model.Cut, 0, len(bars))
	for i, b := range bars {
		cuts = append(cuts, b.finalize(profile, i, c))
	}
	return cuts
}
