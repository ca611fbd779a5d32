package ga

import "gmab/internal/model"

// Mutate perturbs each arm gene-by-gene: genes passing the MutationRate gate
// receive zero-mean Gaussian noise with standard deviation
// MutationSpan * (upper - lower), are clamped to their bound range in
// floating point, and only then truncated back to an integer. The output is
// deduplicated by vector equality, first occurrence kept, so it may be
// shorter than the input; callers must tolerate a shrinking population.
func (a *Algorithm) Mutate(population []model.Arm) ([]model.Arm, error) {
	if err := a.checkArmLengths(population); err != nil {
		return nil, err
	}

	mutated := make([]model.Arm, 0, len(population))
	seen := make(map[string]struct{}, len(population))
	for _, arm := range population {
		candidate := a.mutateArm(arm)
		key := candidate.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		mutated = append(mutated, candidate)
	}
	return mutated, nil
}

func (a *Algorithm) mutateArm(arm model.Arm) model.Arm {
	vector := make([]int, len(arm.ActionVector))
	for i, value := range arm.ActionVector {
		if a.rng.Float64() >= a.cfg.MutationRate {
			vector[i] = value
			continue
		}

		lo := float64(a.cfg.LowerBound[i])
		hi := float64(a.cfg.UpperBound[i])
		perturbed := float64(value) + a.rng.NormFloat64()*a.cfg.MutationSpan*(hi-lo)
		if perturbed < lo {
			perturbed = lo
		}
		if perturbed > hi {
			perturbed = hi
		}
		vector[i] = int(perturbed)
	}
	return model.Arm{ActionVector: vector}
}
