package ga

import (
	"math/rand"
	"testing"
)

func validConfig() Config {
	return Config{
		PopulationSize: 4,
		MutationRate:   0.25,
		CrossoverRate:  0.9,
		MutationSpan:   1.0,
		MaxSimulations: 100,
		Dimension:      2,
		LowerBound:     []int{0, 0},
		UpperBound:     []int{10, 10},
	}
}

func newTestAlgorithm(t *testing.T, cfg Config, seed int64) *Algorithm {
	t.Helper()
	alg, err := New(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("new algorithm: %v", err)
	}
	return alg
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "zero population", mutate: func(c *Config) { c.PopulationSize = 0 }},
		{name: "negative population", mutate: func(c *Config) { c.PopulationSize = -2 }},
		{name: "odd population", mutate: func(c *Config) { c.PopulationSize = 5 }},
		{name: "mutation rate below range", mutate: func(c *Config) { c.MutationRate = -0.1 }},
		{name: "mutation rate above range", mutate: func(c *Config) { c.MutationRate = 1.1 }},
		{name: "crossover rate below range", mutate: func(c *Config) { c.CrossoverRate = -0.1 }},
		{name: "crossover rate above range", mutate: func(c *Config) { c.CrossoverRate = 1.5 }},
		{name: "zero mutation span", mutate: func(c *Config) { c.MutationSpan = 0 }},
		{name: "negative mutation span", mutate: func(c *Config) { c.MutationSpan = -1 }},
		{name: "zero budget", mutate: func(c *Config) { c.MaxSimulations = 0 }},
		{name: "zero dimension", mutate: func(c *Config) { c.Dimension = 0 }},
		{name: "lower bound length mismatch", mutate: func(c *Config) { c.LowerBound = []int{0} }},
		{name: "upper bound length mismatch", mutate: func(c *Config) { c.UpperBound = []int{10, 10, 10} }},
		{name: "inverted bounds", mutate: func(c *Config) { c.LowerBound = []int{0, 11} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			if _, err := New(cfg, rand.New(rand.NewSource(1))); err == nil {
				t.Fatal("expected config error")
			}
		})
	}
}

func TestNewRequiresRandomSource(t *testing.T) {
	if _, err := New(validConfig(), nil); err == nil {
		t.Fatal("expected error for nil random source")
	}
}

func TestNewCopiesBounds(t *testing.T) {
	cfg := validConfig()
	lower := []int{0, 0}
	upper := []int{3, 3}
	cfg.LowerBound = lower
	cfg.UpperBound = upper

	alg := newTestAlgorithm(t, cfg, 3)
	lower[0] = 99
	upper[1] = -99

	for i := 0; i < 50; i++ {
		for _, arm := range alg.GenerateInitialPopulation() {
			for j, v := range arm.ActionVector {
				if v < 0 || v > 3 {
					t.Fatalf("gene %d escaped original bounds after caller mutation: %d", j, v)
				}
			}
		}
	}
}

func TestBudgetAccounting(t *testing.T) {
	alg := newTestAlgorithm(t, validConfig(), 1)

	if alg.SimulationsUsed() != 0 {
		t.Fatalf("fresh counter: got %d want 0", alg.SimulationsUsed())
	}
	if alg.BudgetExhausted() {
		t.Fatal("budget must not start exhausted")
	}

	if err := alg.ReportEvaluations(5); err != nil {
		t.Fatalf("report: %v", err)
	}
	if alg.SimulationsUsed() != 5 {
		t.Fatalf("after first report: got %d want 5", alg.SimulationsUsed())
	}
	if alg.BudgetExhausted() {
		t.Fatal("budget exhausted too early")
	}

	if err := alg.ReportEvaluations(95); err != nil {
		t.Fatalf("report: %v", err)
	}
	if !alg.BudgetExhausted() {
		t.Fatal("budget must be exhausted at exactly max simulations")
	}

	if err := alg.ReportEvaluations(50); err != nil {
		t.Fatalf("report past budget: %v", err)
	}
	if alg.SimulationsUsed() != 150 {
		t.Fatalf("counter must not clamp: got %d want 150", alg.SimulationsUsed())
	}
	if !alg.BudgetExhausted() {
		t.Fatal("budget must stay exhausted")
	}
}

func TestReportEvaluationsRejectsNegativeCount(t *testing.T) {
	alg := newTestAlgorithm(t, validConfig(), 1)
	if err := alg.ReportEvaluations(-1); err == nil {
		t.Fatal("expected error for negative count")
	}
	if alg.SimulationsUsed() != 0 {
		t.Fatalf("rejected report must not change counter: got %d", alg.SimulationsUsed())
	}
}

func TestPopulationSizeAccessor(t *testing.T) {
	alg := newTestAlgorithm(t, validConfig(), 1)
	if alg.PopulationSize() != 4 {
		t.Fatalf("population size accessor: got %d want 4", alg.PopulationSize())
	}
}
