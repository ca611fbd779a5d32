package gmab

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(Options{
		StoreKind:    "memory",
		ArtifactsDir: filepath.Join(t.TempDir(), "artifacts"),
		ExportsDir:   filepath.Join(t.TempDir(), "exports"),
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func testRunRequest() RunRequest {
	return RunRequest{
		RunID:          "run-1",
		Objective:      "sphere",
		Dimension:      3,
		Low:            -5,
		High:           5,
		MaxSimulations: 300,
		Seed:           7,
	}
}

func TestRunSphereEndToEnd(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	summary, err := client.Run(ctx, testRunRequest())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.RunID != "run-1" {
		t.Fatalf("unexpected run id: %s", summary.RunID)
	}
	if summary.SimulationsUsed < 300 {
		t.Fatalf("budget underspent: %d of 300", summary.SimulationsUsed)
	}
	if len(summary.BestArm) != 3 {
		t.Fatalf("unexpected best arm: %v", summary.BestArm)
	}
	for i, v := range summary.BestArm {
		if v < -5 || v > 5 {
			t.Fatalf("best arm gene %d out of bounds: %d", i, v)
		}
	}
	if summary.BestReward > 8 {
		t.Fatalf("sphere minimum not approached: %f", summary.BestReward)
	}
	if len(summary.BestByGeneration) != summary.Generations {
		t.Fatalf("history length %d does not match %d generations", len(summary.BestByGeneration), summary.Generations)
	}
	if summary.RewardSummary.Count != len(summary.BestByGeneration) {
		t.Fatalf("reward summary count mismatch: %+v", summary.RewardSummary)
	}

	for _, file := range []string{"config.json", "reward_history.json", "top_arms.json", "generations.json", "reward_series.csv"} {
		if _, err := os.Stat(filepath.Join(summary.ArtifactsDir, file)); err != nil {
			t.Fatalf("artifact missing: %v", err)
		}
	}
}

func TestRunRejectsUnknownObjective(t *testing.T) {
	client := newTestClient(t)
	req := testRunRequest()
	req.Objective = "himmelblau"
	if _, err := client.Run(context.Background(), req); err == nil {
		t.Fatal("expected error for unknown objective")
	}
}

func TestRunAcceptsCustomObjectiveFn(t *testing.T) {
	client := newTestClient(t)
	req := testRunRequest()
	req.Objective = ""
	req.ObjectiveFn = func(action []int) float64 {
		total := 0.0
		for _, v := range action {
			total += float64(v-2) * float64(v-2)
		}
		return total
	}

	summary, err := client.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.BestReward > 8 {
		t.Fatalf("shifted minimum not approached: %f", summary.BestReward)
	}
}

func TestRunBoundsValidation(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(r *RunRequest)
	}{
		{name: "bound length mismatch", mutate: func(r *RunRequest) {
			r.LowerBound = []int{0, 0}
			r.UpperBound = []int{5}
		}},
		{name: "dimension contradicts bounds", mutate: func(r *RunRequest) {
			r.Dimension = 4
			r.LowerBound = []int{0, 0}
			r.UpperBound = []int{5, 5}
		}},
		{name: "scalar bounds without dimension", mutate: func(r *RunRequest) {
			r.Dimension = 0
		}},
		{name: "scalar low above high", mutate: func(r *RunRequest) {
			r.Low = 5
			r.High = -5
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testRunRequest()
			tc.mutate(&req)
			if _, err := client.Run(ctx, req); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRunsBestAndExport(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	first := testRunRequest()
	if _, err := client.Run(ctx, first); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second := testRunRequest()
	second.RunID = "run-2"
	second.Objective = "abs-sum"
	second.Seed = 11
	if _, err := client.Run(ctx, second); err != nil {
		t.Fatalf("second run: %v", err)
	}

	runs, err := client.Runs(ctx, RunsRequest{})
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-2" {
		t.Fatalf("expected newest run first: %+v", runs)
	}

	best, err := client.Best(ctx, BestRequest{Latest: true})
	if err != nil {
		t.Fatalf("best latest: %v", err)
	}
	if best.RunID != "run-2" || best.Objective != "abs-sum" {
		t.Fatalf("unexpected best item: %+v", best)
	}

	byID, err := client.Best(ctx, BestRequest{RunID: "run-1"})
	if err != nil {
		t.Fatalf("best by id: %v", err)
	}
	if byID.RunID != "run-1" {
		t.Fatalf("unexpected best item: %+v", byID)
	}

	exported, err := client.Export(ctx, ExportRequest{RunID: "run-1", OutDir: t.TempDir()})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := os.Stat(filepath.Join(exported.Directory, "config.json")); err != nil {
		t.Fatalf("exported config missing: %v", err)
	}
}

func TestBestRequestValidation(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	if _, err := client.Best(ctx, BestRequest{RunID: "run-1", Latest: true}); err == nil {
		t.Fatal("expected error for run id plus latest")
	}
	if _, err := client.Best(ctx, BestRequest{}); err == nil {
		t.Fatal("expected error for neither run id nor latest")
	}
	if _, err := client.Best(ctx, BestRequest{Latest: true}); err == nil {
		t.Fatal("expected error when no runs exist")
	}
}

func TestRunGeneratesRunID(t *testing.T) {
	client := newTestClient(t)
	req := testRunRequest()
	req.RunID = ""

	summary, err := client.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("expected generated run id")
	}
}
