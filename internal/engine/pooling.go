package engine

import (
	"sort"

	"github.com/piwi3910/barcut/internal/model"
)

// packPooling groups demands of identical length (typically spanning several
// work orders) into shared cutting patterns: each length bucket is packed on
// its own with first-fit, which keeps every bar a repeat of one piece length
// and minimizes distinct saw setups. When AllowPartialStocks is set, a
// consolidation pass then backfills leftover pieces across buckets so nearly
// empty bars from different lengths share stock. Work-order traceability is
// preserved through Cut.WorkOrderBreakdown.
func packPooling(demands []demand, profile string, stockLength float64, c model.Constraints) ([]model.Cut, error) {
	if err := checkDemandsFit(demands, stockLength, c); err != nil {
		return nil, err
	}

	// Bucket by exact length; iterate buckets by ascending length for
	// deterministic output.
	buckets := make(map[float64][]demand)
	for _, d := range demands {
		buckets[d.length] = append(buckets[d.length], d)
	}
	lengths := make([]float64, 0, len(buckets))
	for l := range buckets {
		lengths = append(lengths, l)
	}
	sort.Float64s(lengths)

	var bars []*barBuilder
	for _, l := range lengths {
		// First-fit within the bucket: bars here only ever hold one length.
		var local []*barBuilder
		for _, d := range buckets[l] {
			placed := false
			for _, b := range local {
				if b.fits(d.length, c.KerfWidth, c.MaxCutsPerStock) {
					b.place(d, c.KerfWidth)
					placed = true
					break
				}
			}
			if !placed {
				b := newBarBuilder(stockLength, c)
				b.place(d, c.KerfWidth)
				local = append(local, b)
			}
		}
		bars = append(bars, local...)
	}

	if c.AllowPartialStocks {
		bars = consolidateBars(bars, c)
	}
	return finalizeBars(bars, profile, c), nil
}

// consolidateBars performs cross-length backfill: it repeatedly tries to
// dissolve the least-used bar by relocating all of its pieces into the
// remaining bars. A bar is only removed when every piece relocates.
func consolidateBars(bars []*barBuilder, c model.Constraints) []*barBuilder {
	for {
		order := make([]int, len(bars))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return bars[order[i]].used < bars[order[j]].used
		})

		dissolved := -1
		for _, i := range order {
			if tryDissolve(bars, i, c) {
				dissolved = i
				break
			}
		}
		if dissolved < 0 {
			return bars
		}
		bars = append(bars[:dissolved], bars[dissolved+1:]...)
	}
}

// tryDissolve relocates every demand of bars[src] into the other bars,
// longest pieces first, each into its tightest fit. The move is planned
// against a capacity snapshot and only committed when complete.
func tryDissolve(bars []*barBuilder, src int, c model.Constraints) bool {
	type slot struct {
		remaining float64
		count     int
	}
	slots := make([]slot, len(bars))
	for i, b := range bars {
		slots[i] = slot{remaining: b.remaining(), count: len(b.demands)}
	}

	moved := sortDemandsDecreasing(bars[src].demands)
	targets := make([]int, len(moved))

	for mi, d := range moved {
		need := d.length + c.KerfWidth
		best := -1
		bestSlack := 0.0
		for i := range bars {
			if i == src || slots[i].count >= c.MaxCutsPerStock {
				continue
			}
			slack := slots[i].remaining - need
			if slack < 0 {
				continue
			}
			if best < 0 || slack < bestSlack {
				best = i
				bestSlack = slack
			}
		}
		if best < 0 {
			return false
		}
		targets[mi] = best
		slots[best].remaining -= need
		slots[best].count++
	}

	for mi, d := range moved {
		bars[targets[mi]].place(d, c.KerfWidth)
	}
	return true
}
