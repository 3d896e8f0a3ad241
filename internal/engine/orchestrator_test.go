package engine

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/barcut/internal/audit"
	"github.com/piwi3910/barcut/internal/errs"
	"github.com/piwi3910/barcut/internal/model"
)

func testOrchestrator() *Orchestrator {
	o := NewOrchestrator(slog.Default())
	o.Audit = audit.NopSink{}
	return o
}

func exampleRequest() model.OptimizeRequest {
	kerf := 5.0
	margin := 0.0
	return model.OptimizeRequest{
		WorkOrderID: "WO-100",
		Algorithm:   model.AlgorithmFFD,
		StockLength: 6000,
		Constraints: &model.ConstraintsInput{KerfWidth: &kerf, SafetyMargin: &margin},
		Items: []model.ItemInput{
			{Profile: "AL-6060", Length: 1000, Quantity: 5, WorkOrderID: "WO-100"},
			{Profile: "AL-6060", Length: 1500, Quantity: 3, WorkOrderID: "WO-100"},
		},
	}
}

func TestOptimize_EndToEnd(t *testing.T) {
	resp := testOrchestrator().Optimize(context.Background(), exampleRequest())

	require.True(t, resp.Success, "unexpected failure: %+v", resp.Error)
	require.NotNil(t, resp.Metrics)
	assert.Len(t, resp.CuttingPlan, 2)
	assert.InDelta(t, 9500.0/12000.0, resp.Metrics.Efficiency, 1e-9)
	assert.GreaterOrEqual(t, resp.ExecutionTimeMs, int64(0))
	assert.Nil(t, resp.Error)
}

func TestOptimize_EmptyItemList(t *testing.T) {
	resp := testOrchestrator().Optimize(context.Background(), model.OptimizeRequest{
		Algorithm:   model.AlgorithmFFD,
		StockLength: 6000,
	})

	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, errs.CodeEmptyItemList, resp.Error.Code)
}

func TestOptimize_UnknownAlgorithm(t *testing.T) {
	req := exampleRequest()
	req.Algorithm = "simulated-annealing"

	resp := testOrchestrator().Optimize(context.Background(), req)
	require.False(t, resp.Success)
	assert.Equal(t, errs.CodeInvalidRequest, resp.Error.Code)
}

func TestOptimize_DefaultsToFFD(t *testing.T) {
	req := exampleRequest()
	req.Algorithm = ""

	resp := testOrchestrator().Optimize(context.Background(), req)
	assert.True(t, resp.Success)
}

func TestOptimize_InvalidItemSurfacesRowDetails(t *testing.T) {
	req := exampleRequest()
	req.Items[1].Length = 3

	resp := testOrchestrator().Optimize(context.Background(), req)
	require.False(t, resp.Success)
	assert.Equal(t, errs.CodeInvalidItem, resp.Error.Code)
	assert.Equal(t, "1", resp.Error.Details["index"])
}

func TestOptimize_CollectItemErrorsKeepsGoing(t *testing.T) {
	req := exampleRequest()
	req.Items[1].Length = 3
	req.CollectItemErrors = true

	resp := testOrchestrator().Optimize(context.Background(), req)
	require.True(t, resp.Success)
	assert.NotEmpty(t, resp.Warnings, "dropped rows are reported as warnings")
}

func TestOptimize_ProfilesNeverShareBars(t *testing.T) {
	req := exampleRequest()
	req.Items = []model.ItemInput{
		{Profile: "AL-6060", Length: 800, Quantity: 2},
		{Profile: "AL-4040", Length: 800, Quantity: 2},
	}

	resp := testOrchestrator().Optimize(context.Background(), req)
	require.True(t, resp.Success)
	require.Len(t, resp.CuttingPlan, 2)

	profiles := map[string]bool{}
	for _, cut := range resp.CuttingPlan {
		profiles[cut.Profile] = true
	}
	assert.Len(t, profiles, 2)

	// Bar IDs stay sequential across profile groups.
	assert.Equal(t, "bar-001", resp.CuttingPlan[0].ID)
	assert.Equal(t, "bar-002", resp.CuttingPlan[1].ID)
}

func TestOptimize_PicksCheapestStockLength(t *testing.T) {
	req := exampleRequest()
	req.StockLength = 0
	req.Items = []model.ItemInput{{Profile: "AL-6060", Length: 2990, Quantity: 2}}
	req.StockLengths = []model.StockLengthOption{
		{Length: 12000},
		{Length: 6000},
	}

	resp := testOrchestrator().Optimize(context.Background(), req)
	require.True(t, resp.Success)
	require.Len(t, resp.CuttingPlan, 1)
	assert.Equal(t, 6000.0, resp.CuttingPlan[0].StockLength, "the shorter bar wastes less")
}

func TestOptimize_StockLengthListFiltersByProfile(t *testing.T) {
	req := exampleRequest()
	req.StockLength = 0
	req.Items = []model.ItemInput{{Profile: "AL-6060", Length: 1000, Quantity: 1}}
	req.StockLengths = []model.StockLengthOption{
		{Profile: "AL-9999", Length: 3000},
		{Length: 6000}, // empty profile applies everywhere
	}

	resp := testOrchestrator().Optimize(context.Background(), req)
	require.True(t, resp.Success)
	assert.Equal(t, 6000.0, resp.CuttingPlan[0].StockLength)
}

func TestOptimize_FallsBackToCatalog(t *testing.T) {
	req := exampleRequest()
	req.StockLength = 0
	req.StockLengths = nil

	resp := testOrchestrator().Optimize(context.Background(), req)
	require.True(t, resp.Success, "the default catalog provides stock lengths")
}

func TestOptimize_NoStockLengthAnywhere(t *testing.T) {
	o := testOrchestrator()
	o.Catalog = nil

	req := exampleRequest()
	req.StockLength = 0

	resp := o.Optimize(context.Background(), req)
	require.False(t, resp.Success)
	assert.Equal(t, errs.CodeInvalidRequest, resp.Error.Code)
}

func TestOptimize_NegativeStockLengthRejected(t *testing.T) {
	req := exampleRequest()
	req.StockLength = 0
	req.StockLengths = []model.StockLengthOption{{Length: -5}}

	resp := testOrchestrator().Optimize(context.Background(), req)
	require.False(t, resp.Success)
	assert.Equal(t, errs.CodeInvalidRequest, resp.Error.Code)
}

func TestOptimize_GeneratesAlternatives(t *testing.T) {
	req := exampleRequest()
	req.GenerateAlternatives = true
	req.MaxAlternatives = 2

	resp := testOrchestrator().Optimize(context.Background(), req)
	require.True(t, resp.Success)
	assert.NotEmpty(t, resp.Alternatives)
	assert.LessOrEqual(t, len(resp.Alternatives), 2)
	for _, alt := range resp.Alternatives {
		assert.NotEqual(t, model.AlgorithmFFD, alt.Algorithm, "the chosen algorithm is not an alternative")
	}
}

func TestOptimize_WasteWarningRecommendation(t *testing.T) {
	req := exampleRequest()
	// A single short piece on a long bar produces massive waste.
	req.Items = []model.ItemInput{{Profile: "AL-6060", Length: 500, Quantity: 1}}

	resp := testOrchestrator().Optimize(context.Background(), req)
	require.True(t, resp.Success)

	var sawWarning bool
	for _, rec := range resp.Recommendations {
		if rec.Severity == model.SeverityWarning || rec.Severity == model.SeverityCritical {
			sawWarning = true
		}
	}
	assert.True(t, sawWarning, "expected a waste recommendation, got %+v", resp.Recommendations)
}

func TestCompare_RanksAllAlgorithms(t *testing.T) {
	cmp := testOrchestrator().Compare(context.Background(), exampleRequest())

	require.NotNil(t, cmp.Best)
	require.Len(t, cmp.Attempts, len(model.Algorithms))
	for _, a := range cmp.Attempts {
		assert.NotNil(t, a.Result, "algorithm %s failed: %s", a.Algorithm, a.Error)
	}

	// The winner must score at least as high as every other attempt.
	s := WeightedScorer{}
	for _, a := range cmp.Attempts {
		if a.Result != nil {
			assert.GreaterOrEqual(t, s.Score(cmp.Best.Metrics), s.Score(a.Result.Metrics))
		}
	}
}

func TestCompare_IsolatesFailures(t *testing.T) {
	req := exampleRequest()
	req.Items = nil

	cmp := testOrchestrator().Compare(context.Background(), req)
	assert.Nil(t, cmp.Best)
	for _, a := range cmp.Attempts {
		assert.Equal(t, errs.CodeEmptyItemList, a.ErrorCode)
	}
}

func TestGroupByProfile_CaseInsensitive(t *testing.T) {
	items := []model.Item{
		{Profile: "AL-6060", Length: 100, Quantity: 1},
		{Profile: "al-6060", Length: 200, Quantity: 1},
		{Profile: "AL-4040", Length: 300, Quantity: 1},
	}

	groups := groupByProfile(items)
	require.Len(t, groups, 2)
	assert.Len(t, groups["AL-6060"], 2, "spelling variants share the first-seen key")
}
