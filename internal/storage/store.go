// Package storage archives finished optimization runs: the study
// configuration with its best arm, the per-arm reward statistics, the
// best-reward history, and per-generation records. The archive is
// write-once inspection data; nothing in the optimizer ever resumes from it.
package storage

import (
	"context"

	"gmab/internal/model"
)

// Store defines persistence operations for study results.
type Store interface {
	Init(ctx context.Context) error
	SaveStudy(ctx context.Context, study model.StudyRecord) error
	GetStudy(ctx context.Context, id string) (model.StudyRecord, bool, error)
	DeleteStudy(ctx context.Context, id string) error
	ListStudyIDs(ctx context.Context) ([]string, error)
	SaveArmStats(ctx context.Context, studyID string, arms []model.ArmRecord) error
	GetArmStats(ctx context.Context, studyID string) ([]model.ArmRecord, bool, error)
	SaveRewardHistory(ctx context.Context, studyID string, history []float64) error
	GetRewardHistory(ctx context.Context, studyID string) ([]float64, bool, error)
	SaveGenerations(ctx context.Context, studyID string, generations []model.GenerationRecord) error
	GetGenerations(ctx context.Context, studyID string) ([]model.GenerationRecord, bool, error)
}
