package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"gmab/internal/model"
)

const (
	studyKeyPrefix       = "study/"
	armStatsKeyPrefix    = "arms/"
	historyKeyPrefix     = "history/"
	generationsKeyPrefix = "generations/"
)

// BadgerStore archives studies in an embedded badger database at path. An
// empty path opens an in-memory database, useful for tests.
type BadgerStore struct {
	path string

	mu sync.RWMutex
	db *badger.DB
}

func NewBadgerStore(path string) *BadgerStore {
	return &BadgerStore{path: path}
}

func (s *BadgerStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	var opts badger.Options
	if s.path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(s.path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("open badger database: %w", err)
	}
	s.db = db
	return nil
}

func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *BadgerStore) SaveStudy(_ context.Context, study model.StudyRecord) error {
	payload, err := EncodeStudy(study)
	if err != nil {
		return err
	}
	return s.set(studyKeyPrefix+study.ID, payload)
}

func (s *BadgerStore) GetStudy(_ context.Context, id string) (model.StudyRecord, bool, error) {
	payload, ok, err := s.get(studyKeyPrefix + id)
	if err != nil || !ok {
		return model.StudyRecord{}, false, err
	}
	study, err := DecodeStudy(payload)
	if err != nil {
		return model.StudyRecord{}, false, fmt.Errorf("decode study %s: %w", id, err)
	}
	return study, true, nil
}

func (s *BadgerStore) DeleteStudy(_ context.Context, id string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	return db.Update(func(txn *badger.Txn) error {
		for _, prefix := range []string{studyKeyPrefix, armStatsKeyPrefix, historyKeyPrefix, generationsKeyPrefix} {
			if err := txn.Delete([]byte(prefix + id)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BadgerStore) ListStudyIDs(_ context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, 16)
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(studyKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, strings.TrimPrefix(key, studyKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *BadgerStore) SaveArmStats(_ context.Context, studyID string, arms []model.ArmRecord) error {
	payload, err := EncodeArmStats(arms)
	if err != nil {
		return err
	}
	return s.set(armStatsKeyPrefix+studyID, payload)
}

func (s *BadgerStore) GetArmStats(_ context.Context, studyID string) ([]model.ArmRecord, bool, error) {
	payload, ok, err := s.get(armStatsKeyPrefix + studyID)
	if err != nil || !ok {
		return nil, false, err
	}
	arms, err := DecodeArmStats(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode arm stats %s: %w", studyID, err)
	}
	return arms, true, nil
}

func (s *BadgerStore) SaveRewardHistory(_ context.Context, studyID string, history []float64) error {
	payload, err := EncodeRewardHistory(history)
	if err != nil {
		return err
	}
	return s.set(historyKeyPrefix+studyID, payload)
}

func (s *BadgerStore) GetRewardHistory(_ context.Context, studyID string) ([]float64, bool, error) {
	payload, ok, err := s.get(historyKeyPrefix + studyID)
	if err != nil || !ok {
		return nil, false, err
	}
	history, err := DecodeRewardHistory(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode reward history %s: %w", studyID, err)
	}
	return history, true, nil
}

func (s *BadgerStore) SaveGenerations(_ context.Context, studyID string, generations []model.GenerationRecord) error {
	payload, err := EncodeGenerations(generations)
	if err != nil {
		return err
	}
	return s.set(generationsKeyPrefix+studyID, payload)
}

func (s *BadgerStore) GetGenerations(_ context.Context, studyID string) ([]model.GenerationRecord, bool, error) {
	payload, ok, err := s.get(generationsKeyPrefix + studyID)
	if err != nil || !ok {
		return nil, false, err
	}
	generations, err := DecodeGenerations(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode generations %s: %w", studyID, err)
	}
	return generations, true, nil
}

func (s *BadgerStore) set(key string, payload []byte) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	return db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), payload)
	})
}

func (s *BadgerStore) get(key string) ([]byte, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			payload = append([]byte(nil), val...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (s *BadgerStore) getDB() (*badger.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}
