//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"gmab/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveStudy(ctx context.Context, study model.StudyRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeStudy(study)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO studies (id, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, study.ID, study.SchemaVersion, study.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetStudy(ctx context.Context, id string) (model.StudyRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.StudyRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM studies WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.StudyRecord{}, false, nil
		}
		return model.StudyRecord{}, false, err
	}

	study, err := DecodeStudy(payload)
	if err != nil {
		return model.StudyRecord{}, false, fmt.Errorf("decode study %s: %w", id, err)
	}
	return study, true, nil
}

func (s *SQLiteStore) DeleteStudy(ctx context.Context, id string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	for _, table := range []string{"studies", "arm_stats", "reward_history", "generations"} {
		if _, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) ListStudyIDs(ctx context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id FROM studies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0, 16)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) SaveArmStats(ctx context.Context, studyID string, arms []model.ArmRecord) error {
	payload, err := EncodeArmStats(arms)
	if err != nil {
		return err
	}
	return s.upsertPayload(ctx, "arm_stats", studyID, payload)
}

func (s *SQLiteStore) GetArmStats(ctx context.Context, studyID string) ([]model.ArmRecord, bool, error) {
	payload, ok, err := s.getPayload(ctx, "arm_stats", studyID)
	if err != nil || !ok {
		return nil, false, err
	}
	arms, err := DecodeArmStats(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode arm stats %s: %w", studyID, err)
	}
	return arms, true, nil
}

func (s *SQLiteStore) SaveRewardHistory(ctx context.Context, studyID string, history []float64) error {
	payload, err := EncodeRewardHistory(history)
	if err != nil {
		return err
	}
	return s.upsertPayload(ctx, "reward_history", studyID, payload)
}

func (s *SQLiteStore) GetRewardHistory(ctx context.Context, studyID string) ([]float64, bool, error) {
	payload, ok, err := s.getPayload(ctx, "reward_history", studyID)
	if err != nil || !ok {
		return nil, false, err
	}
	history, err := DecodeRewardHistory(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode reward history %s: %w", studyID, err)
	}
	return history, true, nil
}

func (s *SQLiteStore) SaveGenerations(ctx context.Context, studyID string, generations []model.GenerationRecord) error {
	payload, err := EncodeGenerations(generations)
	if err != nil {
		return err
	}
	return s.upsertPayload(ctx, "generations", studyID, payload)
}

func (s *SQLiteStore) GetGenerations(ctx context.Context, studyID string) ([]model.GenerationRecord, bool, error) {
	payload, ok, err := s.getPayload(ctx, "generations", studyID)
	if err != nil || !ok {
		return nil, false, err
	}
	generations, err := DecodeGenerations(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode generations %s: %w", studyID, err)
	}
	return generations, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) upsertPayload(ctx context.Context, table, studyID string, payload []byte) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO `+table+` (id, payload)
		VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload = excluded.payload
	`, studyID, payload)
	return err
}

func (s *SQLiteStore) getPayload(ctx context.Context, table, studyID string) ([]byte, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM `+table+` WHERE id = ?`, studyID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return payload, true, nil
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS studies (
			id TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS arm_stats (
			id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS reward_history (
			id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS generations (
			id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
	`)
	return err
}
