package gmab

import (
	"math"
	"sort"

	"gmab/internal/bandit"
)

// Builtin objectives let the CLI and examples drive real runs without
// writing code. All of them are minimized at the all-zero vector (within
// bounds that include it).
var objectives = map[string]bandit.ObjectiveFn{
	"sphere":  sphereObjective,
	"abs-sum": absSumObjective,
	"step":    stepObjective,
}

// LookupObjective resolves a builtin objective by name.
func LookupObjective(name string) (bandit.ObjectiveFn, bool) {
	fn, ok := objectives[name]
	return fn, ok
}

// ObjectiveNames lists the builtin objectives in stable order.
func ObjectiveNames() []string {
	names := make([]string, 0, len(objectives))
	for name := range objectives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sphereObjective(action []int) float64 {
	total := 0.0
	for _, v := range action {
		total += float64(v) * float64(v)
	}
	return total
}

func absSumObjective(action []int) float64 {
	total := 0.0
	for _, v := range action {
		total += math.Abs(float64(v))
	}
	return total
}

// stepObjective is a plateaued variant of abs-sum: flat regions of width 3
// give the optimizer no gradient inside a plateau.
func stepObjective(action []int) float64 {
	total := 0.0
	for _, v := range action {
		total += math.Floor(math.Abs(float64(v)) / 3)
	}
	return total
}
