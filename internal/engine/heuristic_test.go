package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/barcut/internal/errs"
	"github.com/piwi3910/barcut/internal/model"
)

// testConstraints returns a simplified policy: 5mm kerf, no end margins.
func testConstraints() model.Constraints {
	c := model.DefaultConstraints()
	c.KerfWidth = 5
	c.SafetyMargin = 0
	return c
}

// makeDemands expands (length, quantity) pairs the way the normalizer would.
func makeDemands(specs ...[2]float64) []demand {
	var demands []demand
	for i, s := range specs {
		for q := 0; q < int(s[1]); q++ {
			demands = append(demands, demand{length: s[0], originalIndex: i})
		}
	}
	return demands
}

func totalPieces(cuts []model.Cut) int {
	n := 0
	for _, c := range cuts {
		n += c.SegmentCount()
	}
	return n
}

func TestPackFFD_WorkOrderExample(t *testing.T) {
	// 5 x 1000mm and 3 x 1500mm on 6000mm stock with 5mm kerf packs into
	// two bars at roughly 79% efficiency.
	demands := makeDemands([2]float64{1000, 5}, [2]float64{1500, 3})

	cuts, err := packFFD(demands, "AL-6060", 6000, testConstraints())
	require.NoError(t, err)
	require.Len(t, cuts, 2)
	assert.Equal(t, 8, totalPieces(cuts))

	// Longest pieces first: bar one carries all three 1500s plus one 1000.
	first := cuts[0]
	assert.Equal(t, "bar-001", first.ID)
	assert.Equal(t, 5500.0, first.PieceLength())
	assert.Equal(t, 4, first.SegmentCount())
	assert.InDelta(t, 5520.0, first.UsedLength, 1e-9) // pieces + 4 kerfs
	assert.InDelta(t, 480.0, first.RemainingLength, 1e-9)
	assert.Equal(t, model.WasteLarge, first.WasteCategory)
	assert.True(t, first.IsReclaimable)

	second := cuts[1]
	assert.Equal(t, "bar-002", second.ID)
	assert.Equal(t, 4000.0, second.PieceLength())
	assert.Equal(t, model.WasteExcessive, second.WasteCategory)

	m := ScorePlan(cuts, testConstraints(), model.DefaultCostParameters(), model.DefaultQualityScoreWeights())
	assert.InDelta(t, 9500.0/12000.0, m.Efficiency, 1e-9)
}

func TestPackFFD_Deterministic(t *testing.T) {
	demands := makeDemands([2]float64{730, 7}, [2]float64{1210, 4}, [2]float64{455, 11})

	a, err := packFFD(demands, "AL-6060", 6000, testConstraints())
	require.NoError(t, err)
	b, err := packFFD(demands, "AL-6060", 6000, testConstraints())
	require.NoError(t, err)

	assert.Equal(t, a, b, "identical input must produce identical output")
}

func TestPackFFD_ConservesPieces(t *testing.T) {
	demands := makeDemands([2]float64{312.5, 9}, [2]float64{870, 6}, [2]float64{2105, 3})

	cuts, err := packFFD(demands, "AL-6060", 6500, testConstraints())
	require.NoError(t, err)

	assert.Equal(t, len(demands), totalPieces(cuts))
	for _, cut := range cuts {
		assert.InDelta(t, cut.StockLength, cut.UsedLength+cut.RemainingLength, 1e-9)
	}
}

func TestPackFFD_RespectsMaxCutsPerStock(t *testing.T) {
	c := testConstraints()
	c.MaxCutsPerStock = 2
	demands := makeDemands([2]float64{100, 5})

	cuts, err := packFFD(demands, "AL-6060", 6000, c)
	require.NoError(t, err)

	// Five pieces at two per bar need three bars even though one would fit.
	assert.Len(t, cuts, 3)
	for _, cut := range cuts {
		assert.LessOrEqual(t, cut.SegmentCount(), 2)
	}
}

func TestPackFFD_SafetyMarginPositions(t *testing.T) {
	c := testConstraints()
	c.SafetyMargin = 10

	cuts, err := packFFD(makeDemands([2]float64{500, 1}), "AL-6060", 6000, c)
	require.NoError(t, err)
	require.Len(t, cuts, 1)
	require.Len(t, cuts[0].Segments, 1)

	// First piece starts after the leading trim.
	assert.Equal(t, 10.0, cuts[0].Segments[0].Position)
}

func TestPackFFD_BatchesAdjacentSegments(t *testing.T) {
	cuts, err := packFFD(makeDemands([2]float64{1000, 3}), "AL-6060", 6000, testConstraints())
	require.NoError(t, err)
	require.Len(t, cuts, 1)

	// Three identical pieces from one demand line collapse into one segment.
	require.Len(t, cuts[0].Segments, 1)
	assert.Equal(t, 3, cuts[0].Segments[0].Quantity)
}

func TestPackFFD_OversizedPieceFails(t *testing.T) {
	_, err := packFFD(makeDemands([2]float64{7000, 1}), "AL-6060", 6000, testConstraints())
	require.Error(t, err)

	appErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeInvalidCuttingParameters, appErr.Code)
	assert.Equal(t, errs.ClassBusiness, appErr.Class)
}

func TestPackFFD_SafetyMarginShrinksUsable(t *testing.T) {
	c := testConstraints()
	c.SafetyMargin = 10 // usable = 1000 - 20 = 980

	_, err := packFFD(makeDemands([2]float64{980, 1}), "AL-6060", 1000, c)
	assert.Error(t, err, "piece plus kerf exceeds the usable length")

	cuts, err := packFFD(makeDemands([2]float64{975, 1}), "AL-6060", 1000, c)
	require.NoError(t, err)
	assert.Len(t, cuts, 1)
}

func TestPackBFD_MatchesFFDOnSimpleInput(t *testing.T) {
	demands := makeDemands([2]float64{1000, 5}, [2]float64{1500, 3})

	cuts, err := packBFD(demands, "AL-6060", 6000, testConstraints())
	require.NoError(t, err)
	assert.Len(t, cuts, 2)
	assert.Equal(t, 8, totalPieces(cuts))
}

func TestBestFitIndex_PicksTightestBar(t *testing.T) {
	c := testConstraints()
	loose := newBarBuilder(6000, c)
	loose.place(demand{length: 1000}, c.KerfWidth) // 4995 remaining
	tight := newBarBuilder(6000, c)
	tight.place(demand{length: 5000}, c.KerfWidth) // 995 remaining

	bars := []*barBuilder{loose, tight}
	assert.Equal(t, 1, bestFitIndex(bars, 900, c.MaxCutsPerStock))
}

func TestBestFitIndex_TieKeepsEarliestBar(t *testing.T) {
	c := testConstraints()
	a := newBarBuilder(6000, c)
	a.place(demand{length: 1000}, c.KerfWidth)
	b := newBarBuilder(6000, c)
	b.place(demand{length: 1000}, c.KerfWidth)

	assert.Equal(t, 0, bestFitIndex([]*barBuilder{a, b}, 500, c.MaxCutsPerStock))
}

func TestBestFitIndex_NoBarFits(t *testing.T) {
	c := testConstraints()
	full := newBarBuilder(6000, c)
	full.place(demand{length: 5900}, c.KerfWidth)

	assert.Equal(t, -1, bestFitIndex([]*barBuilder{full}, 500, c.MaxCutsPerStock))
}

func TestFinalize_WorkOrderBreakdown(t *testing.T) {
	c := testConstraints()
	b := newBarBuilder(6000, c)
	b.place(demand{length: 1000, originalIndex: 0, workOrderID: "WO-1"}, c.KerfWidth)
	b.place(demand{length: 1000, originalIndex: 0, workOrderID: "WO-1"}, c.KerfWidth)
	b.place(demand{length: 800, originalIndex: 1, workOrderID: "WO-2"}, c.KerfWidth)

	cut := b.finalize("AL-6060", 0, c)
	assert.Equal(t, map[string]int{"WO-1": 2, "WO-2": 1}, cut.WorkOrderBreakdown)
}
