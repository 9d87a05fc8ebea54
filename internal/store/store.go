// internal/store/store.go
package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"prosperity-bank/internal/util"
)

// ioAttempts bounds transient file failures: one try plus two retries,
// no backoff. The backing medium is a local file, so errors are either
// transient or fatal, never congestion.
const ioAttempts = 3

// Store owns one flat record file and is the sole sanctioned path to it.
// All access runs inside a scope: at most one scope executes at a time,
// and a scope that fails leaves the on-disk snapshot exactly as it was.
type Store[T any] struct {
	path     string
	lockWait time.Duration
	slot     chan struct{} // capacity 1; holding the token is holding the scope
	logger   *slog.Logger
}

// New creates a Store over the file at path. lockWait bounds how long a
// caller blocks waiting for the scope before failing with ErrBusy.
func New[T any](path string, lockWait time.Duration, logger *slog.Logger) *Store[T] {
	return &Store[T]{
		path:     path,
		lockWait: lockWait,
		slot:     make(chan struct{}, 1),
		logger:   logger,
	}
}

// Update runs fn inside a read-modify-write scope: the current snapshot is
// loaded, fn mutates it in memory, and the result is persisted atomically
// after fn returns nil. If fn returns an error nothing is written and the
// error is returned as-is. This is the only way any component mutates the
// backing file.
func (s *Store[T]) Update(ctx context.Context, fn func(*Snapshot[T]) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	snap, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(&snap); err != nil {
		return err
	}
	return s.save(snap)
}

// View runs fn against the current snapshot under the same scope lock but
// never writes back. Used for listing and lookup.
func (s *Store[T]) View(ctx context.Context, fn func(Snapshot[T]) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	snap, err := s.load()
	if err != nil {
		return err
	}
	return fn(snap)
}

// acquire takes the scope token, waiting at most lockWait. The context
// only bounds the wait; once a scope starts it runs to completion.
func (s *Store[T]) acquire(ctx context.Context) error {
	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()

	select {
	case s.slot <- struct{}{}:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: waited %s for %s", util.ErrBusy, s.lockWait, s.path)
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", util.ErrBusy, ctx.Err())
	}
}

func (s *Store[T]) release() {
	<-s.slot
}

// load reads and decodes the current snapshot. A missing file is the
// first-run bootstrap and yields an empty snapshot.
func (s *Store[T]) load() (Snapshot[T], error) {
	var raw []byte
	var err error
	for attempt := 1; attempt <= ioAttempts; attempt++ {
		raw, err = os.ReadFile(s.path)
		if err == nil || os.IsNotExist(err) {
			break
		}
		if attempt < ioAttempts {
			s.logger.Warn("snapshot read failed, retrying", "path", s.path, "attempt", attempt, "error", err)
		}
	}
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot[T]{}, nil
		}
		return Snapshot[T]{}, fmt.Errorf("%w: reading %s: %v", util.ErrIOFailure, s.path, err)
	}
	return decodeSnapshot[T](raw)
}

// save persists the snapshot atomically: the encoded bytes go to a
// temporary file which then replaces the real one via rename, so a crash
// mid-write never corrupts the previous snapshot.
func (s *Store[T]) save(snap Snapshot[T]) error {
	raw, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	for attempt := 1; attempt <= ioAttempts; attempt++ {
		if err = s.writeAndSwap(tmp, raw); err == nil {
			return nil
		}
		if attempt < ioAttempts {
			s.logger.Warn("snapshot write failed, retrying", "path", s.path, "attempt", attempt, "error", err)
		}
	}
	return fmt.Errorf("%w: writing %s: %v", util.ErrIOFailure, s.path, err)
}

func (s *Store[T]) writeAndSwap(tmp string, raw []byte) error {
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
