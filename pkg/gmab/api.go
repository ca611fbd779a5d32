// Package gmab is the client surface of the optimizer: it runs GA-driven
// bandit optimizations over bounded integer search spaces, archives the
// results, and reads them back. Objectives are minimized; callers maximizing
// negate their objective.
package gmab

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"gmab/internal/bandit"
	"gmab/internal/ga"
	"gmab/internal/model"
	"gmab/internal/stats"
	"gmab/internal/storage"
)

const (
	defaultArtifactsDir   = "artifacts"
	defaultExportsDir     = "exports"
	defaultStorePath      = "gmab.db"
	defaultPopulationSize = 20
	defaultMutationRate   = 0.25
	defaultCrossoverRate  = 0.9
	defaultMutationSpan   = 2.0
	defaultMaxSimulations = 1000
)

type Options struct {
	StoreKind    string
	StorePath    string
	ArtifactsDir string
	ExportsDir   string
}

type Client struct {
	store       storage.Store
	initialized bool

	artifactsDir string
	exportsDir   string
}

// RunRequest describes one optimization run. Either Objective names a
// builtin or ObjectiveFn supplies the function directly; bounds come as
// per-dimension slices, or as the scalar Low/High pair replicated across
// Dimension dimensions.
type RunRequest struct {
	RunID       string
	Objective   string
	ObjectiveFn bandit.ObjectiveFn

	Dimension  int
	LowerBound []int
	UpperBound []int
	Low, High  int

	MaxSimulations int
	PopulationSize int
	MutationRate   float64
	CrossoverRate  float64
	MutationSpan   float64
	Seed           int64
}

type RunSummary struct {
	RunID            string
	ArtifactsDir     string
	BestArm          []int
	BestReward       float64
	BestByGeneration []float64
	RewardSummary    stats.Summary
	SimulationsUsed  int
	Generations      int
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID           string
	CreatedAtUTC    string
	Objective       string
	Dimension       int
	PopulationSize  int
	MaxSimulations  int
	Seed            int64
	FinalBestReward float64
}

type BestRequest struct {
	RunID  string
	Latest bool
}

type BestItem struct {
	RunID           string
	Objective       string
	ActionVector    []int
	Reward          float64
	SimulationsUsed int
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	storePath := opts.StorePath
	if storePath == "" {
		storePath = defaultStorePath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}

	store, err := storage.NewStore(storeKind, storePath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:        store,
		artifactsDir: artifactsDir,
		exportsDir:   exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	if req.PopulationSize <= 0 {
		req.PopulationSize = defaultPopulationSize
	}
	if req.MaxSimulations <= 0 {
		req.MaxSimulations = defaultMaxSimulations
	}
	if req.MutationRate == 0 {
		req.MutationRate = defaultMutationRate
	}
	if req.CrossoverRate == 0 {
		req.CrossoverRate = defaultCrossoverRate
	}
	if req.MutationSpan == 0 {
		req.MutationSpan = defaultMutationSpan
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}

	objective := req.ObjectiveFn
	if objective == nil {
		if req.Objective == "" {
			req.Objective = "sphere"
		}
		fn, ok := LookupObjective(req.Objective)
		if !ok {
			return RunSummary{}, fmt.Errorf("unknown objective: %s (builtins: %v)", req.Objective, ObjectiveNames())
		}
		objective = fn
	}

	lower, upper, err := resolveBounds(req)
	if err != nil {
		return RunSummary{}, err
	}

	alg, err := ga.New(ga.Config{
		PopulationSize: req.PopulationSize,
		MutationRate:   req.MutationRate,
		CrossoverRate:  req.CrossoverRate,
		MutationSpan:   req.MutationSpan,
		MaxSimulations: req.MaxSimulations,
		Dimension:      len(lower),
		LowerBound:     lower,
		UpperBound:     upper,
	}, rand.New(rand.NewSource(req.Seed+1000)))
	if err != nil {
		return RunSummary{}, err
	}

	driver, err := bandit.NewDriver(objective, alg)
	if err != nil {
		return RunSummary{}, err
	}
	result, err := driver.Run(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	now := time.Now().UTC()
	armRecords := driver.Memory().Snapshot(storage.CurrentSchemaVersion, storage.CurrentCodecVersion)

	topArms := make([]stats.TopArm, 0, len(armRecords))
	for i, record := range armRecords {
		if i == 10 {
			break
		}
		topArms = append(topArms, stats.TopArm{
			Rank:         i + 1,
			ActionVector: record.ActionVector,
			Count:        record.Count,
			MeanReward:   record.MeanReward,
		})
	}

	runDir, err := stats.WriteRunArtifacts(c.artifactsDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:          req.RunID,
			Objective:      req.Objective,
			Dimension:      len(lower),
			LowerBound:     lower,
			UpperBound:     upper,
			PopulationSize: req.PopulationSize,
			MaxSimulations: req.MaxSimulations,
			MutationRate:   req.MutationRate,
			CrossoverRate:  req.CrossoverRate,
			MutationSpan:   req.MutationSpan,
			Seed:           req.Seed,
		},
		BestByGeneration: result.BestByGeneration,
		Generations:      result.Generations,
		FinalBestReward:  result.BestReward,
		TopArms:          topArms,
	})
	if err != nil {
		return RunSummary{}, err
	}

	if err := stats.AppendRunIndex(c.artifactsDir, stats.RunIndexEntry{
		RunID:           req.RunID,
		Objective:       req.Objective,
		Dimension:       len(lower),
		PopulationSize:  req.PopulationSize,
		MaxSimulations:  req.MaxSimulations,
		Seed:            req.Seed,
		FinalBestReward: result.BestReward,
		CreatedAtUTC:    now.Format(time.RFC3339Nano),
	}); err != nil {
		return RunSummary{}, err
	}

	if err := c.ensureInit(ctx); err != nil {
		return RunSummary{}, err
	}
	study := model.StudyRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: storage.CurrentSchemaVersion, CodecVersion: storage.CurrentCodecVersion},
		ID:              req.RunID,
		Objective:       req.Objective,
		Dimension:       len(lower),
		LowerBound:      lower,
		UpperBound:      upper,
		PopulationSize:  req.PopulationSize,
		MaxSimulations:  req.MaxSimulations,
		MutationRate:    req.MutationRate,
		CrossoverRate:   req.CrossoverRate,
		MutationSpan:    req.MutationSpan,
		Seed:            req.Seed,
		BestArm:         result.BestArm,
		BestReward:      result.BestReward,
		SimulationsUsed: result.SimulationsUsed,
		Generations:     len(result.Generations),
		CreatedAtUTC:    now.Format(time.RFC3339Nano),
	}
	if err := c.store.SaveStudy(ctx, study); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveArmStats(ctx, req.RunID, armRecords); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveRewardHistory(ctx, req.RunID, result.BestByGeneration); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveGenerations(ctx, req.RunID, result.Generations); err != nil {
		return RunSummary{}, err
	}

	rewardSummary, err := stats.Summarize(result.BestByGeneration)
	if err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:            req.RunID,
		ArtifactsDir:     filepath.Clean(runDir),
		BestArm:          append([]int(nil), result.BestArm.ActionVector...),
		BestReward:       result.BestReward,
		BestByGeneration: append([]float64(nil), result.BestByGeneration...),
		RewardSummary:    rewardSummary,
		SimulationsUsed:  result.SimulationsUsed,
		Generations:      len(result.Generations),
	}, nil
}

func (c *Client) Runs(_ context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	entries, err := stats.ListRunIndex(c.artifactsDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	out := make([]RunItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, RunItem{
			RunID:           e.RunID,
			CreatedAtUTC:    e.CreatedAtUTC,
			Objective:       e.Objective,
			Dimension:       e.Dimension,
			PopulationSize:  e.PopulationSize,
			MaxSimulations:  e.MaxSimulations,
			Seed:            e.Seed,
			FinalBestReward: e.FinalBestReward,
		})
	}
	return out, nil
}

func (c *Client) Best(ctx context.Context, req BestRequest) (BestItem, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, "best")
	if err != nil {
		return BestItem{}, err
	}

	if err := c.ensureInit(ctx); err != nil {
		return BestItem{}, err
	}
	study, ok, err := c.store.GetStudy(ctx, runID)
	if err != nil {
		return BestItem{}, err
	}
	if !ok {
		return BestItem{}, fmt.Errorf("study not found for run id: %s", runID)
	}

	return BestItem{
		RunID:           study.ID,
		Objective:       study.Objective,
		ActionVector:    append([]int(nil), study.BestArm.ActionVector...),
		Reward:          study.BestReward,
		SimulationsUsed: study.SimulationsUsed,
	}, nil
}

func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, "export")
	if err != nil {
		return ExportSummary{}, err
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}

	exportedDir, err := stats.ExportRunArtifacts(c.artifactsDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) resolveRunID(runID string, latest bool, operation string) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if runID != "" {
		return runID, nil
	}
	if !latest {
		return "", fmt.Errorf("%s requires run id or latest", operation)
	}

	entries, err := stats.ListRunIndex(c.artifactsDir)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.New("no runs available")
	}
	return entries[0].RunID, nil
}

func (c *Client) ensureInit(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func resolveBounds(req RunRequest) (lower, upper []int, err error) {
	if len(req.LowerBound) > 0 || len(req.UpperBound) > 0 {
		if len(req.LowerBound) != len(req.UpperBound) {
			return nil, nil, fmt.Errorf("bound length mismatch: lower=%d upper=%d", len(req.LowerBound), len(req.UpperBound))
		}
		if req.Dimension > 0 && req.Dimension != len(req.LowerBound) {
			return nil, nil, fmt.Errorf("dimension %d does not match bound length %d", req.Dimension, len(req.LowerBound))
		}
		return append([]int(nil), req.LowerBound...), append([]int(nil), req.UpperBound...), nil
	}

	if req.Dimension <= 0 {
		return nil, nil, errors.New("dimension is required when bounds are scalar")
	}
	if req.Low >= req.High {
		return nil, nil, fmt.Errorf("scalar bounds need low < high, got [%d, %d]", req.Low, req.High)
	}
	lower = make([]int, req.Dimension)
	upper = make([]int, req.Dimension)
	for i := range lower {
		lower[i] = req.Low
		upper[i] = req.High
	}
	return lower, upper, nil
}
