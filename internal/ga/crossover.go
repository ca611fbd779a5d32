package ga

import "gmab/internal/model"

// Crossover recombines disjoint consecutive pairs (0,1), (2,3), … with a
// single uniformly drawn splice point per pair, gated per pair by
// CrossoverRate. Pairs failing the gate are copied unchanged, so the output
// always has the input's length and order. Duplicates are not filtered here.
func (a *Algorithm) Crossover(population []model.Arm) ([]model.Arm, error) {
	if len(population) == 0 {
		return nil, ErrEmptyPopulation
	}
	if len(population)%2 != 0 {
		return nil, ErrOddPopulation
	}
	if a.cfg.Dimension < 2 {
		return nil, ErrNoCrossoverPoint
	}
	if err := a.checkArmLengths(population); err != nil {
		return nil, err
	}

	next := make([]model.Arm, 0, len(population))
	for i := 0; i < len(population); i += 2 {
		parentA := population[i]
		parentB := population[i+1]
		if a.rng.Float64() >= a.cfg.CrossoverRate {
			next = append(next, parentA.Clone(), parentB.Clone())
			continue
		}

		// The splice point is interior: both parents contribute at least
		// one gene to each child.
		point := 1 + a.rng.Intn(a.cfg.Dimension-1)
		childA := make([]int, a.cfg.Dimension)
		childB := make([]int, a.cfg.Dimension)
		copy(childA, parentA.ActionVector[:point])
		copy(childA[point:], parentB.ActionVector[point:])
		copy(childB, parentB.ActionVector[:point])
		copy(childB[point:], parentA.ActionVector[point:])
		next = append(next, model.Arm{ActionVector: childA}, model.Arm{ActionVector: childB})
	}
	return next, nil
}
