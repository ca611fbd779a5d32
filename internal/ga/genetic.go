// Package ga implements the genetic-algorithm core used for candidate
// generation over discrete, bounded, integer-vector search spaces: uniform
// population initialization with uniqueness, single-point crossover over
// consecutive pairs, Gaussian per-gene mutation with clamping, and
// simulation-budget accounting. The objective function is never called from
// this package; evaluating candidates and reporting the spent budget belong
// to the caller.
package ga

import (
	"errors"
	"fmt"
	"math/rand"

	"gmab/internal/model"
)

var (
	ErrEmptyPopulation  = errors.New("population is empty")
	ErrOddPopulation    = errors.New("population size is odd")
	ErrNoCrossoverPoint = errors.New("crossover requires at least two genes per arm")
)

// Config carries the hyperparameters and search-space bounds for one run.
// Rates are per-gene (mutation) and per-pair (crossover) probabilities in
// [0, 1]; MutationSpan scales the Gaussian perturbation relative to each
// dimension's range.
type Config struct {
	PopulationSize int
	MutationRate   float64
	CrossoverRate  float64
	MutationSpan   float64
	MaxSimulations int
	Dimension      int
	LowerBound     []int
	UpperBound     []int
}

// Algorithm owns a validated config, an injected random source, and the
// simulation counter. It is not safe for concurrent use; concurrent callers
// need one Algorithm each.
type Algorithm struct {
	cfg             Config
	rng             *rand.Rand
	simulationsUsed int
}

func New(cfg Config, rng *rand.Rand) (*Algorithm, error) {
	if rng == nil {
		return nil, errors.New("random source is required")
	}
	if cfg.PopulationSize <= 0 {
		return nil, fmt.Errorf("population size must be > 0")
	}
	if cfg.PopulationSize%2 != 0 {
		return nil, fmt.Errorf("population size must be even for pairwise crossover")
	}
	if cfg.MutationRate < 0 || cfg.MutationRate > 1 {
		return nil, fmt.Errorf("mutation rate must be in [0, 1]")
	}
	if cfg.CrossoverRate < 0 || cfg.CrossoverRate > 1 {
		return nil, fmt.Errorf("crossover rate must be in [0, 1]")
	}
	if cfg.MutationSpan <= 0 {
		return nil, fmt.Errorf("mutation span must be > 0")
	}
	if cfg.MaxSimulations <= 0 {
		return nil, fmt.Errorf("max simulations must be > 0")
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("dimension must be > 0")
	}
	if len(cfg.LowerBound) != cfg.Dimension {
		return nil, fmt.Errorf("lower bound length mismatch: got=%d want=%d", len(cfg.LowerBound), cfg.Dimension)
	}
	if len(cfg.UpperBound) != cfg.Dimension {
		return nil, fmt.Errorf("upper bound length mismatch: got=%d want=%d", len(cfg.UpperBound), cfg.Dimension)
	}
	for i := range cfg.LowerBound {
		if cfg.LowerBound[i] > cfg.UpperBound[i] {
			return nil, fmt.Errorf("lower bound exceeds upper bound at dimension %d", i)
		}
	}

	cfg.LowerBound = append([]int(nil), cfg.LowerBound...)
	cfg.UpperBound = append([]int(nil), cfg.UpperBound...)

	return &Algorithm{cfg: cfg, rng: rng}, nil
}

func (a *Algorithm) PopulationSize() int {
	return a.cfg.PopulationSize
}

func (a *Algorithm) SimulationsUsed() int {
	return a.simulationsUsed
}

// ReportEvaluations adds count objective evaluations, performed externally,
// to the spent budget. The counter is never clamped; exceeding the budget is
// the exhaustion signal, not an error.
func (a *Algorithm) ReportEvaluations(count int) error {
	if count < 0 {
		return fmt.Errorf("evaluation count must be >= 0, got %d", count)
	}
	a.simulationsUsed += count
	return nil
}

func (a *Algorithm) BudgetExhausted() bool {
	return a.simulationsUsed >= a.cfg.MaxSimulations
}

func (a *Algorithm) checkArmLengths(population []model.Arm) error {
	for i, arm := range population {
		if len(arm.ActionVector) != a.cfg.Dimension {
			return fmt.Errorf("arm %d has %d genes, want %d", i, len(arm.ActionVector), a.cfg.Dimension)
		}
	}
	return nil
}
