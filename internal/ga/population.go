package ga

import "gmab/internal/model"

// GenerateInitialPopulation draws exactly PopulationSize distinct arms, each
// gene uniform over its inclusive bound range. Vectors already accepted are
// rejected and resampled, so the bounded space must contain at least
// PopulationSize distinct points; with fewer the loop does not terminate.
// No budget is consumed here.
func (a *Algorithm) GenerateInitialPopulation() []model.Arm {
	population := make([]model.Arm, 0, a.cfg.PopulationSize)
	seen := make(map[string]struct{}, a.cfg.PopulationSize)
	for len(population) < a.cfg.PopulationSize {
		arm := a.randomArm()
		key := arm.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		population = append(population, arm)
	}
	return population
}

func (a *Algorithm) randomArm() model.Arm {
	vector := make([]int, a.cfg.Dimension)
	for i := range vector {
		lo, hi := a.cfg.LowerBound[i], a.cfg.UpperBound[i]
		vector[i] = lo + a.rng.Intn(hi-lo+1)
	}
	return model.Arm{ActionVector: vector}
}
