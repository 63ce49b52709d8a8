package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/AngelCh415/outreach-report/internal/models"
)

// FileStore persists every date's record in one JSON file:
//
//	{"2026-02-25": {"telegram": 3, "signal": 1, "supplement": {"linkedin": 5}}, ...}
//
// The whole file is rewritten on change, so a single lock covers the store;
// contention is a couple of slash commands per day.
type FileStore struct {
	rules models.ChannelRules
	path  string
	mu    sync.Mutex
}

func NewFileStore(path string, rules models.ChannelRules) *FileStore {
	return &FileStore{rules: rules, path: path}
}

func (s *FileStore) Get(date string) (models.ManualRecord, error) {
	date, err := models.ParseDate(date)
	if err != nil {
		return models.ManualRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return models.ManualRecord{}, err
	}
	rec, ok := data[date]
	if !ok {
		return models.NewManualRecord(date, s.rules), nil
	}
	rec.Date = date
	return rec, nil
}

func (s *FileStore) Set(date, channel string, value int) (models.ManualRecord, error) {
	return s.update(date, func(rec *models.ManualRecord) error {
		return applySet(rec, s.rules, channel, value)
	})
}

func (s *FileStore) Add(date, channel string, delta int) (models.ManualRecord, error) {
	return s.update(date, func(rec *models.ManualRecord) error {
		_, err := applyAdd(rec, s.rules, channel, delta)
		return err
	})
}

func (s *FileStore) update(date string, fn func(*models.ManualRecord) error) (models.ManualRecord, error) {
	date, err := models.ParseDate(date)
	if err != nil {
		return models.ManualRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return models.ManualRecord{}, err
	}
	rec, ok := data[date]
	if !ok {
		rec = models.NewManualRecord(date, s.rules)
	}
	rec.Date = date
	if err := fn(&rec); err != nil {
		return models.ManualRecord{}, err
	}
	data[date] = rec
	if err := s.save(data); err != nil {
		return models.ManualRecord{}, err
	}
	return rec, nil
}

func (s *FileStore) load() (map[string]models.ManualRecord, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]models.ManualRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	out := map[string]models.ManualRecord{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return out, nil
}

// save writes to a temp file and renames so readers never see a torn write.
func (s *FileStore) save(data map[string]models.ManualRecord) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o640); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
