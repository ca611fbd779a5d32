package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"gmab/internal/storage"
	gmabapi "gmab/pkg/gmab"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "optimize":
		return runOptimize(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "best":
		return runBest(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runOptimize(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("optimize", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config JSON path")
	runID := fs.String("run-id", "", "explicit run id (optional, defaults to a generated id)")
	objective := fs.String("objective", "sphere", fmt.Sprintf("builtin objective: %s", strings.Join(gmabapi.ObjectiveNames(), "|")))
	dimension := fs.Int("dim", 2, "search-space dimension when using scalar bounds")
	low := fs.Int("low", -10, "scalar lower bound, replicated across all dimensions")
	high := fs.Int("high", 10, "scalar upper bound, replicated across all dimensions")
	lowerList := fs.String("lower", "", "comma-separated per-dimension lower bounds (overrides -low/-dim)")
	upperList := fs.String("upper", "", "comma-separated per-dimension upper bounds (overrides -high/-dim)")
	budget := fs.Int("budget", 1000, "objective evaluation budget")
	population := fs.Int("pop", 20, "population size (even)")
	mutationRate := fs.Float64("mutation-rate", 0.25, "per-gene mutation probability")
	crossoverRate := fs.Float64("crossover-rate", 0.9, "per-pair crossover probability")
	mutationSpan := fs.Float64("mutation-span", 2.0, "mutation perturbation scale")
	seed := fs.Int64("seed", 1, "rng seed")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|badger|sqlite")
	storePath := fs.String("store-path", "gmab.db", "store path (badger directory or sqlite file)")
	artifactsDir := fs.String("artifacts-dir", "artifacts", "run artifacts directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	req, err := loadOrDefaultRunRequest(*configPath)
	if err != nil {
		return err
	}
	if *configPath == "" {
		req = gmabapi.RunRequest{
			RunID:          *runID,
			Objective:      *objective,
			Dimension:      *dimension,
			Low:            *low,
			High:           *high,
			MaxSimulations: *budget,
			PopulationSize: *population,
			MutationRate:   *mutationRate,
			CrossoverRate:  *crossoverRate,
			MutationSpan:   *mutationSpan,
			Seed:           *seed,
		}
	} else {
		overrideFromFlags(&req, setFlags, map[string]any{
			"run-id":         *runID,
			"objective":      *objective,
			"dim":            *dimension,
			"low":            *low,
			"high":           *high,
			"budget":         *budget,
			"pop":            *population,
			"mutation-rate":  *mutationRate,
			"crossover-rate": *crossoverRate,
			"mutation-span":  *mutationSpan,
			"seed":           *seed,
		})
	}
	if *lowerList != "" || *upperList != "" {
		lower, err := parseIntList(*lowerList)
		if err != nil {
			return fmt.Errorf("parse -lower: %w", err)
		}
		upper, err := parseIntList(*upperList)
		if err != nil {
			return fmt.Errorf("parse -upper: %w", err)
		}
		req.LowerBound = lower
		req.UpperBound = upper
	}

	client, err := gmabapi.New(gmabapi.Options{
		StoreKind:    *storeKind,
		StorePath:    *storePath,
		ArtifactsDir: *artifactsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("run_id=%s best_arm=%v best_reward=%.6f simulations=%d generations=%d artifacts=%s\n",
		summary.RunID, summary.BestArm, summary.BestReward, summary.SimulationsUsed, summary.Generations, summary.ArtifactsDir)
	fmt.Printf("reward_summary mean=%.6f std=%.6f min=%.6f median=%.6f max=%.6f\n",
		summary.RewardSummary.Mean, summary.RewardSummary.Std, summary.RewardSummary.Min, summary.RewardSummary.Median, summary.RewardSummary.Max)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	artifactsDir := fs.String("artifacts-dir", "artifacts", "run artifacts directory")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return fmt.Errorf("limit must be > 0")
	}

	client, err := gmabapi.New(gmabapi.Options{ArtifactsDir: *artifactsDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx, gmabapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	if *jsonOut {
		type runsItem struct {
			RunID           string  `json:"run_id"`
			CreatedAtUTC    string  `json:"created_at_utc"`
			Objective       string  `json:"objective"`
			Dimension       int     `json:"dimension"`
			PopulationSize  int     `json:"population_size"`
			MaxSimulations  int     `json:"max_simulations"`
			Seed            int64   `json:"seed"`
			FinalBestReward float64 `json:"final_best_reward"`
		}
		items := make([]runsItem, 0, len(runs))
		for _, r := range runs {
			items = append(items, runsItem{
				RunID:           r.RunID,
				CreatedAtUTC:    r.CreatedAtUTC,
				Objective:       r.Objective,
				Dimension:       r.Dimension,
				PopulationSize:  r.PopulationSize,
				MaxSimulations:  r.MaxSimulations,
				Seed:            r.Seed,
				FinalBestReward: r.FinalBestReward,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	for _, r := range runs {
		fmt.Printf("run_id=%s created_at=%s objective=%s dim=%d pop=%d budget=%d seed=%d final_best_reward=%.6f\n",
			r.RunID, r.CreatedAtUTC, r.Objective, r.Dimension, r.PopulationSize, r.MaxSimulations, r.Seed, r.FinalBestReward)
	}
	return nil
}

func runBest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("best", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id to inspect")
	latest := fs.Bool("latest", false, "inspect the most recent run")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|badger|sqlite")
	storePath := fs.String("store-path", "gmab.db", "store path (badger directory or sqlite file)")
	artifactsDir := fs.String("artifacts-dir", "artifacts", "run artifacts directory")
	jsonOut := fs.Bool("json", false, "emit best arm as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := gmabapi.New(gmabapi.Options{
		StoreKind:    *storeKind,
		StorePath:    *storePath,
		ArtifactsDir: *artifactsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	best, err := client.Best(ctx, gmabapi.BestRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"run_id":           best.RunID,
			"objective":        best.Objective,
			"action_vector":    best.ActionVector,
			"reward":           best.Reward,
			"simulations_used": best.SimulationsUsed,
		})
	}

	fmt.Printf("run_id=%s objective=%s best_arm=%v reward=%.6f simulations=%d\n",
		best.RunID, best.Objective, best.ActionVector, best.Reward, best.SimulationsUsed)
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id to export")
	latest := fs.Bool("latest", false, "export the most recent run")
	outDir := fs.String("out", "", "destination directory (default exports/)")
	artifactsDir := fs.String("artifacts-dir", "artifacts", "run artifacts directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := gmabapi.New(gmabapi.Options{ArtifactsDir: *artifactsDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Export(ctx, gmabapi.ExportRequest{RunID: *runID, Latest: *latest, OutDir: *outDir})
	if err != nil {
		return err
	}

	fmt.Printf("exported run_id=%s dir=%s\n", summary.RunID, summary.Directory)
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: gmabctl <optimize|runs|best|export> [flags]", msg)
}
