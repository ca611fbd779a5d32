package study

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gmab/internal/bandit"
	"gmab/internal/ga"
)

// ErrNotOptimized is returned by BestTrial before Optimize has completed.
var ErrNotOptimized = errors.New("study has not been optimized yet")

// Options overrides the genetic-algorithm defaults for one study. Zero
// values keep the defaults; anything set is validated by the core config.
type Options struct {
	PopulationSize int
	MutationRate   float64
	CrossoverRate  float64
	MutationSpan   float64
	Seed           int64
}

const (
	defaultPopulationSize = 20
	defaultMutationRate   = 0.25
	defaultCrossoverRate  = 0.9
	defaultMutationSpan   = 2.0
)

// Trial is the winning point of an optimized study, decoded back into the
// named parameters the caller suggested.
type Trial struct {
	Params          []ParamValue `json:"params"`
	ActionVector    []int        `json:"action_vector"`
	Reward          float64      `json:"reward"`
	SimulationsUsed int          `json:"simulations_used"`
}

// Study runs one optimization over a suggested search space and keeps the
// outcome. Rewards are minimized; callers maximizing an objective negate it.
// A Study is single-use state for a single goroutine.
type Study struct {
	bounds *Bounds
	result *bandit.Result
}

func NewStudy() *Study {
	return &Study{}
}

// Optimize evolves candidates against objective until nSimulations
// evaluations are spent. The bounds must span at least two dimensions so
// crossover has an interior splice point.
func (s *Study) Optimize(ctx context.Context, objective bandit.ObjectiveFn, bounds *Bounds, nSimulations int, opts Options) error {
	if objective == nil {
		return errors.New("objective function is required")
	}
	if bounds == nil || bounds.Dimension() == 0 {
		return errors.New("at least one parameter must be suggested")
	}
	if bounds.Dimension() < 2 {
		return errors.New("search space needs at least two dimensions for crossover")
	}
	if nSimulations <= 0 {
		return fmt.Errorf("simulation budget must be > 0, got %d", nSimulations)
	}

	if opts.PopulationSize == 0 {
		opts.PopulationSize = defaultPopulationSize
	}
	if opts.MutationRate == 0 {
		opts.MutationRate = defaultMutationRate
	}
	if opts.CrossoverRate == 0 {
		opts.CrossoverRate = defaultCrossoverRate
	}
	if opts.MutationSpan == 0 {
		opts.MutationSpan = defaultMutationSpan
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	lower, upper := bounds.IntBounds()
	alg, err := ga.New(ga.Config{
		PopulationSize: opts.PopulationSize,
		MutationRate:   opts.MutationRate,
		CrossoverRate:  opts.CrossoverRate,
		MutationSpan:   opts.MutationSpan,
		MaxSimulations: nSimulations,
		Dimension:      bounds.Dimension(),
		LowerBound:     lower,
		UpperBound:     upper,
	}, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return err
	}

	driver, err := bandit.NewDriver(objective, alg)
	if err != nil {
		return err
	}
	result, err := driver.Run(ctx)
	if err != nil {
		return err
	}

	s.bounds = bounds
	s.result = &result
	return nil
}

// BestTrial returns the best arm found by the last Optimize call, decoded
// into the suggested parameter names.
func (s *Study) BestTrial() (Trial, error) {
	if s.result == nil {
		return Trial{}, ErrNotOptimized
	}
	params, err := s.bounds.Decode(s.result.BestArm.ActionVector)
	if err != nil {
		return Trial{}, err
	}
	return Trial{
		Params:          params,
		ActionVector:    append([]int(nil), s.result.BestArm.ActionVector...),
		Reward:          s.result.BestReward,
		SimulationsUsed: s.result.SimulationsUsed,
	}, nil
}
