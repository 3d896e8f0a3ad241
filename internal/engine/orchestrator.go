package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/barcut/internal/audit"
	"github.com/piwi3910/barcut/internal/catalog"
	"github.com/piwi3910/barcut/internal/errs"
	"github.com/piwi3910/barcut/internal/model"
)

// Orchestrator runs optimization requests end to end: validation, constraint
// resolution, profile grouping, stock length candidate selection, packing,
// scoring and recommendations. It is safe for concurrent use.
type Orchestrator struct {
	Defaults model.Constraints
	Costs    model.CostParameters
	Weights  model.QualityScoreWeights
	Genetic  *GeneticConfig // nil selects an adaptive configuration per run
	Scorer   Scorer
	Catalog  catalog.Catalog // fallback stock length source, may be nil
	Audit    audit.Sink
	Log      *slog.Logger
}

// NewOrchestrator returns an orchestrator with documented defaults.
func NewOrchestrator(log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		Defaults: model.DefaultConstraints(),
		Costs:    model.DefaultCostParameters(),
		Weights:  model.DefaultQualityScoreWeights(),
		Scorer:   WeightedScorer{},
		Catalog:  catalog.Default(),
		Audit:    audit.NewLogSink(log),
		Log:      log,
	}
}

func (o *Orchestrator) scorer() Scorer {
	if o.Scorer != nil {
		return o.Scorer
	}
	return WeightedScorer{}
}

// Optimize runs one request and always returns a well-formed response: on
// failure Success is false and Error carries the stable code, on success the
// plan and its metrics are populated. Errors never surface as panics.
func (o *Orchestrator) Optimize(ctx context.Context, req model.OptimizeRequest) model.OptimizeResponse {
	start := time.Now()

	audit.Emit(ctx, o.Audit, audit.EventOptimizationStarted, map[string]any{
		"work_order_id": req.WorkOrderID,
		"algorithm":     string(req.Algorithm),
		"item_count":    len(req.Items),
	})

	result, err := o.run(ctx, req)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		appErr := errs.From(err)
		if appErr.Class == errs.ClassSystem {
			o.Log.ErrorContext(ctx, "optimization failed", "code", appErr.Code, "error", err)
		} else {
			o.Log.WarnContext(ctx, "optimization rejected", "code", appErr.Code, "reason", appErr.Message)
		}
		audit.Emit(ctx, o.Audit, audit.EventOptimizationFailed, map[string]any{
			"work_order_id": req.WorkOrderID,
			"code":          appErr.Code,
		})
		return model.OptimizeResponse{
			Success:         false,
			ExecutionTimeMs: elapsed,
			Error: &model.ErrorBody{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			},
		}
	}

	result.ExecutionTimeMs = elapsed
	resp := model.OptimizeResponse{
		Success:         true,
		CuttingPlan:     result.Cuts,
		Metrics:         &result.Metrics,
		Recommendations: result.Recommendations,
		ExecutionTimeMs: elapsed,
		Warnings:        result.Warnings,
	}

	if req.GenerateAlternatives {
		resp.Alternatives = o.alternatives(ctx, req, result.Algorithm)
	}

	audit.Emit(ctx, o.Audit, audit.EventOptimizationCompleted, map[string]any{
		"work_order_id": req.WorkOrderID,
		"algorithm":     string(result.Algorithm),
		"stock_count":   result.Metrics.StockCount,
		"efficiency":    result.Metrics.Efficiency,
		"duration_ms":   elapsed,
	})
	return resp
}

// run executes the request with a single algorithm and returns the merged,
// scored result.
func (o *Orchestrator) run(ctx context.Context, req model.OptimizeRequest) (*model.Result, error) {
	if len(req.Items) == 0 {
		return nil, errs.Business(errs.CodeEmptyItemList, "item list is empty")
	}

	algo := req.Algorithm
	if algo == "" {
		algo = model.AlgorithmFFD
	}
	if !algo.Valid() {
		return nil, errs.Client(errs.CodeInvalidRequest, fmt.Sprintf("unknown algorithm %q", string(req.Algorithm))).
			WithDetail("algorithm", string(req.Algorithm))
	}

	items, rowErrs, err := Normalize(req.Items, NormalizeOptions{CollectErrors: req.CollectItemErrors})
	if err != nil {
		return nil, err
	}
	var warnings []string
	for _, re := range rowErrs {
		warnings = append(warnings, re.Message+" (row "+re.Details["index"]+")")
	}

	c := ResolveConstraints(req.Constraints, o.Defaults)

	cuts, err := o.pack(ctx, algo, items, c, req)
	if err != nil {
		return nil, err
	}

	metrics := ScorePlan(cuts, c, o.Costs, o.Weights)
	result := &model.Result{
		Algorithm:       algo,
		Cuts:            cuts,
		Metrics:         metrics,
		Recommendations: buildRecommendations(items, metrics, c, algo),
		Warnings:        warnings,
	}
	return result, nil
}

// pack groups items by profile type, selects the best stock length per
// group and returns the merged plan with sequentially renumbered bars.
// Items of different profiles never share a bar.
func (o *Orchestrator) pack(ctx context.Context, algo model.Algorithm, items []model.Item, c model.Constraints, req model.OptimizeRequest) ([]model.Cut, error) {
	groups := groupByProfile(items)

	profiles := make([]string, 0, len(groups))
	for p := range groups {
		profiles = append(profiles, p)
	}
	sort.Strings(profiles)

	var all []model.Cut
	for _, profile := range profiles {
		candidates, err := o.stockCandidates(req, profile)
		if err != nil {
			return nil, err
		}

		demands := expandDemands(groups[profile])
		best, err := o.packBestCandidate(ctx, algo, demands, profile, candidates, c)
		if err != nil {
			return nil, err
		}
		all = append(all, best...)
	}

	// Renumber across profile groups so bar IDs stay unique and sequential.
	for i := range all {
		all[i].ID = fmt.Sprintf("bar-%03d", i+1)
	}
	return all, nil
}

// packBestCandidate runs the algorithm once per candidate stock length and
// keeps the cheapest plan. A candidate that cannot hold some piece is
// skipped; the error surfaces only when every candidate fails.
func (o *Orchestrator) packBestCandidate(ctx context.Context, algo model.Algorithm, demands []demand, profile string, candidates []model.StockLengthOption, c model.Constraints) ([]model.Cut, error) {
	var (
		bestCuts    []model.Cut
		bestMetrics model.Metrics
		lastErr     error
	)

	for _, cand := range candidates {
		cuts, err := o.runAlgorithm(ctx, algo, demands, profile, cand.Length, c)
		if err != nil {
			lastErr = err
			continue
		}

		costs := o.Costs
		if cand.CostPerMm > 0 {
			costs.CostPerMm = cand.CostPerMm
		}
		metrics := ScorePlan(cuts, c, costs, o.Weights)

		if bestCuts == nil || betterPlan(metrics, bestMetrics) {
			bestCuts = cuts
			bestMetrics = metrics
		}
	}

	if bestCuts == nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, errs.Client(errs.CodeInvalidRequest, "no stock length available for profile "+profile).
			WithDetail("profile_type", profile)
	}
	return bestCuts, nil
}

func (o *Orchestrator) runAlgorithm(ctx context.Context, algo model.Algorithm, demands []demand, profile string, stockLength float64, c model.Constraints) ([]model.Cut, error) {
	switch algo {
	case model.AlgorithmFFD:
		return packFFD(demands, profile, stockLength, c)
	case model.AlgorithmBFD:
		return packBFD(demands, profile, stockLength, c)
	case model.AlgorithmPooling:
		return packPooling(demands, profile, stockLength, c)
	case model.AlgorithmGenetic:
		cfg := AdaptiveGeneticConfig(len(demands))
		if o.Genetic != nil {
			cfg = *o.Genetic
		}
		warn := func(msg string) { o.Log.WarnContext(ctx, msg) }
		g := newGeneticOptimizer(cfg, demands, profile, stockLength, c, o.Costs, o.Weights, o.scorer(), warn)
		return g.optimize(ctx)
	default:
		return nil, errs.Client(errs.CodeInvalidRequest, fmt.Sprintf("unknown algorithm %q", string(algo)))
	}
}

// stockCandidates resolves the candidate stock lengths for a profile, in
// order of precedence: request stock length list, request single stock
// length, catalog.
func (o *Orchestrator) stockCandidates(req model.OptimizeRequest, profile string) ([]model.StockLengthOption, error) {
	if len(req.StockLengths) > 0 {
		var out []model.StockLengthOption
		for _, opt := range req.StockLengths {
			if opt.Length <= 0 {
				return nil, errs.Client(errs.CodeInvalidRequest, "stock length must be positive").
					WithDetail("length", fmt.Sprintf("%.1f", opt.Length))
			}
			if opt.Profile == "" || strings.EqualFold(opt.Profile, profile) {
				out = append(out, opt)
			}
		}
		if len(out) > 0 {
			return out, nil
		}
	}

	if req.StockLength > 0 {
		return []model.StockLengthOption{{Length: req.StockLength}}, nil
	}

	if o.Catalog != nil {
		if out := o.Catalog.StockLengths(profile); len(out) > 0 {
			return out, nil
		}
	}

	return nil, errs.Client(errs.CodeInvalidRequest, "no stock length given for profile "+profile).
		WithDetail("profile_type", profile)
}

// groupByProfile splits items into per-profile groups. Profile comparison is
// case-insensitive; the canonical key is the first spelling seen.
func groupByProfile(items []model.Item) map[string][]model.Item {
	groups := make(map[string][]model.Item)
	canonical := make(map[string]string)
	for _, it := range items {
		lower := strings.ToLower(it.Profile)
		key, ok := canonical[lower]
		if !ok {
			key = it.Profile
			canonical[lower] = key
		}
		groups[key] = append(groups[key], it)
	}
	return groups
}

// Compare runs every algorithm on the same request concurrently and ranks
// the outcomes. A failing algorithm is recorded as a failed attempt and
// never aborts its siblings.
func (o *Orchestrator) Compare(ctx context.Context, req model.OptimizeRequest) model.Comparison {
	attempts := make([]model.Attempt, len(model.Algorithms))

	var eg errgroup.Group
	var mu sync.Mutex
	for i, algo := range model.Algorithms {
		r := req
		r.Algorithm = algo
		r.GenerateAlternatives = false
		eg.Go(func() error {
			result, err := o.run(ctx, r)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				appErr := errs.From(err)
				attempts[i] = model.Attempt{Algorithm: algo, Error: appErr.Message, ErrorCode: appErr.Code}
				return nil
			}
			attempts[i] = model.Attempt{Algorithm: algo, Result: result}
			return nil
		})
	}
	_ = eg.Wait()

	cmp := model.Comparison{Attempts: attempts}
	s := o.scorer()
	bestScore := 0.0
	for i := range attempts {
		if attempts[i].Result == nil {
			continue
		}
		score := s.Score(attempts[i].Result.Metrics)
		if cmp.Best == nil || score > bestScore {
			cmp.Best = attempts[i].Result
			bestScore = score
		}
	}

	audit.Emit(ctx, o.Audit, audit.EventComparisonCompleted, map[string]any{
		"work_order_id": req.WorkOrderID,
		"attempts":      len(attempts),
	})
	return cmp
}

// alternatives runs the remaining algorithms and returns their results
// ranked best first, capped at MaxAlternatives (default 3).
func (o *Orchestrator) alternatives(ctx context.Context, req model.OptimizeRequest, chosen model.Algorithm) []model.Result {
	cmp := o.Compare(ctx, req)

	var out []model.Result
	for _, a := range cmp.Attempts {
		if a.Result == nil || a.Algorithm == chosen {
			continue
		}
		out = append(out, *a.Result)
	}

	s := o.scorer()
	sort.SliceStable(out, func(i, j int) bool {
		return s.Score(out[i].Metrics) > s.Score(out[j].Metrics)
	})

	limit := req.MaxAlternatives
	if limit <= 0 {
		limit = 3
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
