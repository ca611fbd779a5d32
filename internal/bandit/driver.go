package bandit

import (
	"context"
	"errors"

	"gmab/internal/ga"
	"gmab/internal/model"
)

// ObjectiveFn scores one action vector. Implementations must be pure: no
// side effects, same score for the same vector.
type ObjectiveFn func(action []int) float64

// Result is the outcome of one optimization run.
type Result struct {
	BestArm          model.Arm
	BestReward       float64
	BestByGeneration []float64
	Generations      []model.GenerationRecord
	SimulationsUsed  int
}

// Driver owns one optimization run: it asks the genetic core for
// candidates, evaluates them sequentially against the objective, charges
// the budget, and keeps per-arm reward statistics. The next generation is
// always drawn from the best arms the memory knows; candidates never come
// from anywhere but the genetic operators.
type Driver struct {
	objective ObjectiveFn
	alg       *ga.Algorithm
	memory    *Memory
}

func NewDriver(objective ObjectiveFn, alg *ga.Algorithm) (*Driver, error) {
	if objective == nil {
		return nil, errors.New("objective function is required")
	}
	if alg == nil {
		return nil, errors.New("genetic algorithm is required")
	}
	return &Driver{objective: objective, alg: alg, memory: NewMemory()}, nil
}

// Memory exposes the arm statistics accumulated by Run, for persistence
// and reporting.
func (d *Driver) Memory() *Memory {
	return d.memory
}

func (d *Driver) Run(ctx context.Context) (Result, error) {
	population := d.alg.GenerateInitialPopulation()
	d.evaluate(population)

	bestByGeneration := make([]float64, 0, 16)
	generations := make([]model.GenerationRecord, 0, 16)
	bestByGeneration = append(bestByGeneration, d.bestReward())
	generations = append(generations, d.generationRecord(0, len(population)))

	for gen := 1; !d.alg.BudgetExhausted(); gen++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		crossed, err := d.alg.Crossover(population)
		if err != nil {
			return Result{}, err
		}
		offspring, err := d.alg.Mutate(crossed)
		if err != nil {
			return Result{}, err
		}
		d.evaluate(offspring)

		population = d.memory.TopArms(d.alg.PopulationSize())
		bestByGeneration = append(bestByGeneration, d.bestReward())
		generations = append(generations, d.generationRecord(gen, len(offspring)))
	}

	best, ok := d.memory.Best()
	if !ok {
		return Result{}, errors.New("no evaluations recorded")
	}
	return Result{
		BestArm:          best.Arm.Clone(),
		BestReward:       best.AvgReward,
		BestByGeneration: bestByGeneration,
		Generations:      generations,
		SimulationsUsed:  d.alg.SimulationsUsed(),
	}, nil
}

// evaluate plays each arm once, stopping the moment the budget runs out so
// a partial generation never overdraws it.
func (d *Driver) evaluate(arms []model.Arm) {
	for _, arm := range arms {
		if d.alg.BudgetExhausted() {
			return
		}
		reward := d.objective(arm.ActionVector)
		d.memory.Observe(arm, reward)
		// ReportEvaluations only fails on negative counts.
		_ = d.alg.ReportEvaluations(1)
	}
}

func (d *Driver) bestReward() float64 {
	best, ok := d.memory.Best()
	if !ok {
		return 0
	}
	return best.AvgReward
}

func (d *Driver) generationRecord(generation, populationSize int) model.GenerationRecord {
	record := model.GenerationRecord{
		Generation:      generation,
		PopulationSize:  populationSize,
		SimulationsUsed: d.alg.SimulationsUsed(),
	}
	ranked := d.memory.Ranked()
	if len(ranked) == 0 {
		return record
	}
	record.BestReward = ranked[0].AvgReward
	sum := 0.0
	for _, entry := range ranked {
		sum += entry.AvgReward
	}
	record.MeanReward = sum / float64(len(ranked))
	return record
}
