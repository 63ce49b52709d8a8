package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/AngelCh415/outreach-report/internal/models"
)

// SQLiteStore keeps one JSON payload row per date. The payload uses the same
// layout as FileStore, so records can be moved between the two drivers.
type SQLiteStore struct {
	rules models.ChannelRules
	locks dateLocks
	db    *sql.DB
}

func NewSQLiteStore(path string, rules models.ChannelRules) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS manual_counts (
		day TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create manual_counts table: %w", err)
	}
	return &SQLiteStore{rules: rules, db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Get(date string) (models.ManualRecord, error) {
	date, err := models.ParseDate(date)
	if err != nil {
		return models.ManualRecord{}, err
	}
	return s.read(date)
}

func (s *SQLiteStore) Set(date, channel string, value int) (models.ManualRecord, error) {
	return s.update(date, func(rec *models.ManualRecord) error {
		return applySet(rec, s.rules, channel, value)
	})
}

func (s *SQLiteStore) Add(date, channel string, delta int) (models.ManualRecord, error) {
	return s.update(date, func(rec *models.ManualRecord) error {
		_, err := applyAdd(rec, s.rules, channel, delta)
		return err
	})
}

func (s *SQLiteStore) update(date string, fn func(*models.ManualRecord) error) (models.ManualRecord, error) {
	date, err := models.ParseDate(date)
	if err != nil {
		return models.ManualRecord{}, err
	}
	l := s.locks.get(date)
	l.Lock()
	defer l.Unlock()

	rec, err := s.read(date)
	if err != nil {
		return models.ManualRecord{}, err
	}
	if err := fn(&rec); err != nil {
		return models.ManualRecord{}, err
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return models.ManualRecord{}, err
	}
	if _, err := s.db.Exec(`INSERT INTO manual_counts (day, payload) VALUES (?, ?)
		ON CONFLICT(day) DO UPDATE SET payload = excluded.payload`, date, payload); err != nil {
		return models.ManualRecord{}, fmt.Errorf("upsert %s: %w", date, err)
	}
	return rec, nil
}

func (s *SQLiteStore) read(date string) (models.ManualRecord, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM manual_counts WHERE day = ?`, date).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewManualRecord(date, s.rules), nil
	}
	if err != nil {
		return models.ManualRecord{}, fmt.Errorf("select %s: %w", date, err)
	}
	var rec models.ManualRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return models.ManualRecord{}, fmt.Errorf("decode %s: %w", date, err)
	}
	rec.Date = date
	return rec, nil
}
