package engine

import (
	"context"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/barcut/internal/errs"
	"github.com/piwi3910/barcut/internal/model"
)

// GeneticConfig holds parameters for the genetic algorithm optimizer.
type GeneticConfig struct {
	PopulationSize   int
	Generations      int
	MutationRate     float64
	CrossoverRate    float64
	TournamentSize   int
	EliteCount       int
	StallGenerations int           // stop early when the best fitness has not improved for this many generations
	MaxExecutionTime time.Duration // soft wall-clock budget, checked at generation boundaries
	Seed             int64
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize:   50,
		Generations:      100,
		MutationRate:     0.15,
		CrossoverRate:    0.8,
		TournamentSize:   3,
		EliteCount:       1,
		StallGenerations: 15,
		MaxExecutionTime: 60 * time.Second,
		Seed:             42,
	}
}

// AdaptiveGeneticConfig scales population size and generation count with the
// number of unit demands, so small jobs stay fast and large jobs get a
// deeper search.
func AdaptiveGeneticConfig(n int) GeneticConfig {
	cfg := DefaultGeneticConfig()
	switch {
	case n < 10:
		cfg.PopulationSize, cfg.Generations = 10, 20
	case n < 30:
		cfg.PopulationSize, cfg.Generations = 20, 50
	case n < 100:
		cfg.PopulationSize, cfg.Generations = 30, 75
	default:
		cfg.PopulationSize, cfg.Generations = 50, 100
	}
	return cfg
}

// chromosome is one candidate solution: a permutation of demand indices.
// The packing order is the gene. Decoding runs first-fit placement in that
// order, so different permutations yield different plans.
type chromosome struct {
	order   []int
	fitness float64
	valid   bool
}

// geneticOptimizer implements the genetic algorithm for cut optimization.
type geneticOptimizer struct {
	cfg         GeneticConfig
	demands     []demand
	profile     string
	stockLength float64
	constraints model.Constraints
	costs       model.CostParameters
	weights     model.QualityScoreWeights
	scorer      Scorer
	rng         *rand.Rand
	warn        func(msg string)
}

func newGeneticOptimizer(cfg GeneticConfig, demands []demand, profile string, stockLength float64,
	c model.Constraints, costs model.CostParameters, weights model.QualityScoreWeights,
	scorer Scorer, warn func(string)) *geneticOptimizer {
	if scorer == nil {
		scorer = WeightedScorer{}
	}
	if warn == nil {
		warn = func(string) {}
	}
	return &geneticOptimizer{
		cfg:         cfg,
		demands:     demands,
		profile:     profile,
		stockLength: stockLength,
		constraints: c,
		costs:       costs,
		weights:     weights,
		scorer:      scorer,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		warn:        warn,
	}
}

// optimize runs the generational loop and returns the best plan seen. It
// terminates at the first of: max generations, wall-clock budget,
// convergence, or caller cancellation. It never returns a mid-generation
// partial state.
func (g *geneticOptimizer) optimize(ctx context.Context) ([]model.Cut, error) {
	if err := checkDemandsFit(g.demands, g.stockLength, g.constraints); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(g.cfg.MaxExecutionTime)

	population := g.initPopulation()
	g.evaluatePopulation(population, nil)

	best, ok := bestOf(population)
	if !ok {
		return nil, errs.Business(errs.CodeOptimizationFailed, "no feasible individual in initial population")
	}
	bestEver := g.copyChromosome(best)
	stall := 0

	for gen := 0; gen < g.cfg.Generations; gen++ {
		if ctx.Err() != nil {
			break
		}
		if g.cfg.MaxExecutionTime > 0 && time.Now().After(deadline) {
			break
		}
		if g.cfg.StallGenerations > 0 && stall >= g.cfg.StallGenerations {
			break
		}

		sort.SliceStable(population, func(i, j int) bool {
			return population[i].fitness > population[j].fitness
		})

		newPop := make([]chromosome, 0, g.cfg.PopulationSize)

		// Elitism: the best individuals survive unchanged.
		elite := g.cfg.EliteCount
		if elite > len(population) {
			elite = len(population)
		}
		for i := 0; i < elite; i++ {
			newPop = append(newPop, g.copyChromosome(population[i]))
		}

		var fresh []int
		for len(newPop) < g.cfg.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			var child chromosome
			if g.rng.Float64() < g.cfg.CrossoverRate {
				child = g.orderCrossover(parent1, parent2)
			} else {
				child = g.copyChromosome(parent1)
			}
			g.mutate(&child)

			fresh = append(fresh, len(newPop))
			newPop = append(newPop, child)
		}

		g.evaluatePopulation(newPop, fresh)
		population = newPop

		if cand, ok := bestOf(population); ok && cand.fitness > bestEver.fitness {
			bestEver = g.copyChromosome(cand)
			stall = 0
		} else {
			stall++
		}
	}

	cuts, err := g.decode(bestEver)
	if err != nil {
		return nil, errs.Business(errs.CodeOptimizationFailed, "best individual failed to decode").Wrap(err)
	}
	return cuts, nil
}

// initPopulation creates the initial population. The first individual is the
// FFD packing order, which guarantees the GA never returns a plan worse than
// the deterministic heuristic baseline.
func (g *geneticOptimizer) initPopulation() []chromosome {
	n := len(g.demands)
	population := make([]chromosome, g.cfg.PopulationSize)

	for i := range population {
		population[i] = chromosome{order: g.rng.Perm(n)}
	}
	if len(population) > 0 {
		population[0] = chromosome{order: ffdOrder(g.demands)}
	}
	return population
}

// ffdOrder returns demand indices in FFD packing order: length descending,
// original index ascending.
func ffdOrder(demands []demand) []int {
	order := make([]int, len(demands))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		di, dj := demands[order[i]], demands[order[j]]
		if di.length != dj.length {
			return di.length > dj.length
		}
		return di.originalIndex < dj.originalIndex
	})
	return order
}

// parallelThreshold is the population size above which fitness evaluation is
// spread across CPU cores. Below it the goroutine overhead outweighs the
// per-individual work.
const parallelThreshold = 16

// evaluatePopulation scores individuals. indices selects which ones to
// evaluate; nil means all. Within one generation the evaluations are
// independent, so large populations are scored concurrently.
func (g *geneticOptimizer) evaluatePopulation(population []chromosome, indices []int) {
	if indices == nil {
		indices = make([]int, len(population))
		for i := range population {
			indices[i] = i
		}
	}

	if len(indices) < parallelThreshold {
		for _, i := range indices {
			g.evaluate(&population[i])
		}
		return
	}

	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	for _, i := range indices {
		eg.Go(func() error {
			g.evaluate(&population[i])
			return nil
		})
	}
	_ = eg.Wait() // evaluate never returns an error; failures mark the individual invalid
}

// evaluate decodes and scores one individual. A panic during scoring
// discards that individual only; the run continues with the rest of the
// population.
func (g *geneticOptimizer) evaluate(c *chromosome) {
	defer func() {
		if r := recover(); r != nil {
			c.fitness = -1
			c.valid = false
			g.warn("discarding individual after evaluation panic")
		}
	}()

	cuts, err := g.decode(*c)
	if err != nil {
		c.fitness = -1
		c.valid = false
		return
	}
	metrics := ScorePlan(cuts, g.constraints, g.costs, g.weights)
	c.fitness = g.scorer.Score(metrics)
	c.valid = true
}

// decode converts a chromosome into a concrete plan by first-fit placement
// in gene order.
func (g *geneticOptimizer) decode(c chromosome) ([]model.Cut, error) {
	ordered := make([]demand, len(c.order))
	for i, idx := range c.order {
		ordered[i] = g.demands[idx]
	}
	return packInOrder(ordered, g.profile, g.stockLength, g.constraints)
}

// tournamentSelect picks the fittest individual from a random tournament.
func (g *geneticOptimizer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.cfg.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return best
}

// orderCrossover implements Order Crossover (OX1) for permutation
// chromosomes: a random segment from parent1 is kept in place and the
// remaining positions are filled with parent2's genes in their relative
// order.
func (g *geneticOptimizer) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.order)
	if n <= 2 {
		return g.copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{order: make([]int, n)}
	inSegment := make(map[int]bool, point2-point1+1)
	for i := point1; i <= point2; i++ {
		child.order[i] = parent1.order[i]
		inSegment[parent1.order[i]] = true
	}

	childIdx := (point2 + 1) % n
	for _, gene := range parent2.order {
		if !inSegment[gene] {
			child.order[childIdx] = gene
			childIdx = (childIdx + 1) % n
		}
	}
	return child
}

// mutate applies swap and inversion mutations in place.
func (g *geneticOptimizer) mutate(c *chromosome) {
	n := len(c.order)
	if n < 2 {
		return
	}

	// Swap mutation: exchange two random positions.
	if g.rng.Float64() < g.cfg.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.order[i], c.order[j] = c.order[j], c.order[i]
	}

	// Inversion mutation: reverse a random segment (less frequent).
	if g.rng.Float64() < g.cfg.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.order[i], c.order[j] = c.order[j], c.order[i]
			i++
			j--
		}
	}
}

func (g *geneticOptimizer) copyChromosome(c chromosome) chromosome {
	order := make([]int, len(c.order))
	copy(order, c.order)
	return chromosome{order: order, fitness: c.fitness, valid: c.valid}
}

// bestOf returns the fittest valid individual.
func bestOf(population []chromosome) (chromosome, bool) {
	best := chromosome{fitness: -1}
	found := false
	for _, c := range population {
		if c.valid && (!found || c.fitness > best.fitness) {
			best = c
			found = true
		}
	}
	return best, found
}
