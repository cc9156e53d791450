package kv

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// ErrNotFound is returned by drivers when a key has no value.
var ErrNotFound = errors.New("key not found")

// Driver is the raw byte-oriented store underneath the fail-soft Store.
// Keep this small so tests can fake it easily.
type Driver interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

type Metrics interface {
	ObserveStorageOp(op string, start time.Time, failed bool)
}

// Store is a fail-soft JSON wrapper over a Driver. Reads that fail for any
// reason leave the destination as the caller's fallback and report false;
// writes that fail are logged and dropped, leaving prior state intact.
// Callers never see a storage error.
type Store struct {
	driver  Driver
	log     *slog.Logger
	metrics Metrics
}

func NewStore(driver Driver, log *slog.Logger, metrics Metrics) *Store {
	if log == nil {
		log = slog.Default()
	}

	return &Store{driver: driver, log: log, metrics: metrics}
}

func (s *Store) Read(ctx context.Context, key string, dest any) bool {
	start := time.Now()

	raw, err := s.driver.Get(ctx, key)

	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.observe("read", start, false)
			return false
		}

		s.log.WarnContext(ctx, "storage read failed", "key", key, "err", err)
		s.observe("read", start, true)
		return false
	}

	err = json.Unmarshal(raw, dest)

	if err != nil {
		s.log.WarnContext(ctx, "storage payload corrupt", "key", key, "err", err)
		s.observe("read", start, true)
		return false
	}

	s.observe("read", start, false)
	return true
}

func (s *Store) Write(ctx context.Context, key string, value any) {
	start := time.Now()

	raw, err := json.Marshal(value)

	if err != nil {
		s.log.WarnContext(ctx, "storage marshal failed", "key", key, "err", err)
		s.observe("write", start, true)
		return
	}

	err = s.driver.Set(ctx, key, raw)

	if err != nil {
		s.log.WarnContext(ctx, "storage write failed", "key", key, "err", err)
		s.observe("write", start, true)
		return
	}

	s.observe("write", start, false)
}

func (s *Store) Remove(ctx context.Context, key string) {
	start := time.Now()

	err := s.driver.Del(ctx, key)

	if err != nil {
		s.log.WarnContext(ctx, "storage remove failed", "key", key, "err", err)
		s.observe("remove", start, true)
		return
	}

	s.observe("remove", start, false)
}

func (s *Store) observe(op string, start time.Time, failed bool) {
	if s.metrics != nil {
		s.metrics.ObserveStorageOp(op, start, failed)
	}
}
