package storage

import (
	"context"
	"sort"
	"sync"

	"gmab/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	studies     map[string]model.StudyRecord
	armStats    map[string][]model.ArmRecord
	history     map[string][]float64
	generations map[string][]model.GenerationRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.studies = make(map[string]model.StudyRecord)
	s.armStats = make(map[string][]model.ArmRecord)
	s.history = make(map[string][]float64)
	s.generations = make(map[string][]model.GenerationRecord)
	return nil
}

func (s *MemoryStore) SaveStudy(_ context.Context, study model.StudyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.studies[study.ID] = study
	return nil
}

func (s *MemoryStore) GetStudy(_ context.Context, id string) (model.StudyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	study, ok := s.studies[id]
	return study, ok, nil
}

func (s *MemoryStore) DeleteStudy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.studies, id)
	delete(s.armStats, id)
	delete(s.history, id)
	delete(s.generations, id)
	return nil
}

func (s *MemoryStore) ListStudyIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.studies))
	for id := range s.studies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) SaveArmStats(_ context.Context, studyID string, arms []model.ArmRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]model.ArmRecord, len(arms))
	copy(copied, arms)
	s.armStats[studyID] = copied
	return nil
}

func (s *MemoryStore) GetArmStats(_ context.Context, studyID string) ([]model.ArmRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	arms, ok := s.armStats[studyID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.ArmRecord, len(arms))
	copy(copied, arms)
	return copied, true, nil
}

func (s *MemoryStore) SaveRewardHistory(_ context.Context, studyID string, history []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[studyID] = append([]float64(nil), history...)
	return nil
}

func (s *MemoryStore) GetRewardHistory(_ context.Context, studyID string) ([]float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.history[studyID]
	if !ok {
		return nil, false, nil
	}
	return append([]float64(nil), history...), true, nil
}

func (s *MemoryStore) SaveGenerations(_ context.Context, studyID string, generations []model.GenerationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]model.GenerationRecord, len(generations))
	copy(copied, generations)
	s.generations[studyID] = copied
	return nil
}

func (s *MemoryStore) GetGenerations(_ context.Context, studyID string) ([]model.GenerationRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	generations, ok := s.generations[studyID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.GenerationRecord, len(generations))
	copy(copied, generations)
	return copied, true, nil
}
