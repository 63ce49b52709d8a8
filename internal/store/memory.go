package store

import (
	"sync"

	"github.com/AngelCh415/outreach-report/internal/models"
)

// MemoryStore keeps records in-process. Used by tests and dry runs.
type MemoryStore struct {
	rules models.ChannelRules
	locks dateLocks

	mu   sync.RWMutex
	recs map[string]models.ManualRecord
}

func NewMemoryStore(rules models.ChannelRules) *MemoryStore {
	return &MemoryStore{rules: rules, recs: map[string]models.ManualRecord{}}
}

func (s *MemoryStore) Get(date string) (models.ManualRecord, error) {
	date, err := models.ParseDate(date)
	if err != nil {
		return models.ManualRecord{}, err
	}
	s.mu.RLock()
	rec, ok := s.recs[date]
	s.mu.RUnlock()
	if !ok {
		return models.NewManualRecord(date, s.rules), nil
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) Set(date, channel string, value int) (models.ManualRecord, error) {
	return s.update(date, func(rec *models.ManualRecord) error {
		return applySet(rec, s.rules, channel, value)
	})
}

func (s *MemoryStore) Add(date, channel string, delta int) (models.ManualRecord, error) {
	return s.update(date, func(rec *models.ManualRecord) error {
		_, err := applyAdd(rec, s.rules, channel, delta)
		return err
	})
}

func (s *MemoryStore) update(date string, fn func(*models.ManualRecord) error) (models.ManualRecord, error) {
	date, err := models.ParseDate(date)
	if err != nil {
		return models.ManualRecord{}, err
	}
	l := s.locks.get(date)
	l.Lock()
	defer l.Unlock()

	s.mu.RLock()
	rec, ok := s.recs[date]
	s.mu.RUnlock()
	if !ok {
		rec = models.NewManualRecord(date, s.rules)
	} else {
		rec = rec.Clone()
	}
	if err := fn(&rec); err != nil {
		return models.ManualRecord{}, err
	}
	s.mu.Lock()
	s.recs[date] = rec
	s.mu.Unlock()
	return rec.Clone(), nil
}
