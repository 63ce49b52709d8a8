// Package store owns ManualRecord persistence. It is the only writer of
// manual counts; everything else borrows read-only snapshots.
package store

import (
	"fmt"
	"sync"

	"github.com/AngelCh415/outreach-report/internal/models"
)

// ManualStore is the durable keyed store of human-entered counts. Get never
// fails for a well-formed date: a missing record materializes as all-zero.
// Writes are durable before returning. Read-modify-write of one date is
// serialized; writers to different dates do not block each other.
type ManualStore interface {
	Get(date string) (models.ManualRecord, error)
	Set(date, channel string, value int) (models.ManualRecord, error)
	Add(date, channel string, delta int) (models.ManualRecord, error)
}

// applySet overwrites the manual value for channel, routing supplement
// channels to the supplement map.
func applySet(rec *models.ManualRecord, rules models.ChannelRules, channel string, value int) error {
	if !rules.ManualWritable(channel) {
		return fmt.Errorf("%w: %q", models.ErrUnknownChannel, channel)
	}
	if value < 0 {
		return fmt.Errorf("%w: %d for %s", models.ErrInvalidValue, value, channel)
	}
	if rules.Supplement(channel) {
		rec.Supplement[channel] = value
	} else {
		rec.Channels[channel] = value
	}
	return nil
}

// applyAdd increments and returns the new cumulative value. The delta may be
// negative but the result must stay >= 0, else the record is left untouched.
func applyAdd(rec *models.ManualRecord, rules models.ChannelRules, channel string, delta int) (int, error) {
	if !rules.ManualWritable(channel) {
		return 0, fmt.Errorf("%w: %q", models.ErrUnknownChannel, channel)
	}
	m := rec.Channels
	if rules.Supplement(channel) {
		m = rec.Supplement
	}
	next := m[channel] + delta
	if next < 0 {
		return 0, fmt.Errorf("%w: %s would go to %d", models.ErrInvalidValue, channel, next)
	}
	m[channel] = next
	return next, nil
}

// dateLocks hands out one mutex per date key so that racing writers to the
// same day serialize while other days stay unblocked.
type dateLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (d *dateLocks) get(date string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.m == nil {
		d.m = map[string]*sync.Mutex{}
	}
	l, ok := d.m[date]
	if !ok {
		l = &sync.Mutex{}
		d.m[date] = l
	}
	return l
}
