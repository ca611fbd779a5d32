package study

import (
	"context"
	"errors"
	"testing"
)

func sphere(action []int) float64 {
	total := 0.0
	for _, v := range action {
		total += float64(v) * float64(v)
	}
	return total
}

func testBounds(t *testing.T) *Bounds {
	t.Helper()
	b := NewBounds()
	if err := b.SuggestInts("x", -5, 5, 2); err != nil {
		t.Fatalf("suggest: %v", err)
	}
	return b
}

func TestBestTrialBeforeOptimize(t *testing.T) {
	s := NewStudy()
	if _, err := s.BestTrial(); !errors.Is(err, ErrNotOptimized) {
		t.Fatalf("expected ErrNotOptimized, got %v", err)
	}
}

func TestOptimizeValidation(t *testing.T) {
	ctx := context.Background()
	bounds := testBounds(t)

	cases := []struct {
		name string
		call func(s *Study) error
	}{
		{name: "nil objective", call: func(s *Study) error {
			return s.Optimize(ctx, nil, bounds, 100, Options{Seed: 1})
		}},
		{name: "nil bounds", call: func(s *Study) error {
			return s.Optimize(ctx, sphere, nil, 100, Options{Seed: 1})
		}},
		{name: "empty bounds", call: func(s *Study) error {
			return s.Optimize(ctx, sphere, NewBounds(), 100, Options{Seed: 1})
		}},
		{name: "zero budget", call: func(s *Study) error {
			return s.Optimize(ctx, sphere, bounds, 0, Options{Seed: 1})
		}},
		{name: "odd population override", call: func(s *Study) error {
			return s.Optimize(ctx, sphere, bounds, 100, Options{Seed: 1, PopulationSize: 7})
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(NewStudy()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestOptimizeRejectsSingleDimension(t *testing.T) {
	b := NewBounds()
	if err := b.SuggestInt("x", 0, 9); err != nil {
		t.Fatalf("suggest: %v", err)
	}
	s := NewStudy()
	if err := s.Optimize(context.Background(), sphere, b, 100, Options{Seed: 1}); err == nil {
		t.Fatal("expected error for one-dimensional search space")
	}
}

func TestOptimizeFindsSphereMinimum(t *testing.T) {
	s := NewStudy()
	if err := s.Optimize(context.Background(), sphere, testBounds(t), 400, Options{Seed: 7}); err != nil {
		t.Fatalf("optimize: %v", err)
	}

	trial, err := s.BestTrial()
	if err != nil {
		t.Fatalf("best trial: %v", err)
	}
	if trial.Reward > 4 {
		t.Fatalf("sphere minimum not approached: best reward %f", trial.Reward)
	}
	if trial.SimulationsUsed < 400 {
		t.Fatalf("budget underspent: %d of 400", trial.SimulationsUsed)
	}
	if len(trial.Params) != 1 || trial.Params[0].Name != "x" || len(trial.Params[0].Values) != 2 {
		t.Fatalf("unexpected decoded trial params: %+v", trial.Params)
	}
	for i, v := range trial.ActionVector {
		if v < -5 || v > 5 {
			t.Fatalf("gene %d out of bounds: %d", i, v)
		}
	}
}

func TestOptimizeHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewStudy()
	err := s.Optimize(ctx, sphere, testBounds(t), 100000, Options{Seed: 3})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
