// internal/store/store_test.go
package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prosperity-bank/internal/util"
)

type testRecord struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) (*Store[testRecord], string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	return New[testRecord](path, time.Second, testLogger()), path
}

func TestSnapshotCodec(t *testing.T) {
	t.Run("RoundTripFidelity", func(t *testing.T) {
		original := Snapshot[testRecord]{
			NextID: 7,
			Records: []testRecord{
				{ID: 1, Name: "alice", Count: 3},
				{ID: 2, Name: "bob"},
			},
		}

		raw, err := encodeSnapshot(original)
		require.NoError(t, err)

		decoded, err := decodeSnapshot[testRecord](raw)
		require.NoError(t, err)

		assert.Equal(t, original.NextID, decoded.NextID)
		assert.Equal(t, original.Records, decoded.Records)
	})

	t.Run("EmptyInputBootstraps", func(t *testing.T) {
		snap, err := decodeSnapshot[testRecord](nil)
		require.NoError(t, err)
		assert.Empty(t, snap.Records)
		assert.Zero(t, snap.NextID)

		snap, err = decodeSnapshot[testRecord]([]byte("  \n"))
		require.NoError(t, err)
		assert.Empty(t, snap.Records)
	})

	t.Run("MalformedInputIsCorrupt", func(t *testing.T) {
		_, err := decodeSnapshot[testRecord]([]byte("{not json"))
		assert.ErrorIs(t, err, util.ErrCorruptStore)
	})

	t.Run("IssueIDIsMonotonic", func(t *testing.T) {
		var snap Snapshot[testRecord]
		first := snap.IssueID()
		second := snap.IssueID()
		assert.Equal(t, int64(1), first)
		assert.Equal(t, int64(2), second)
	})
}

func TestStoreUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingFileBootstrapsEmpty", func(t *testing.T) {
		s, _ := newTestStore(t)
		err := s.Update(ctx, func(snap *Snapshot[testRecord]) error {
			assert.Empty(t, snap.Records)
			snap.Records = append(snap.Records, testRecord{ID: snap.IssueID(), Name: "first"})
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("MutationPersistsAcrossInstances", func(t *testing.T) {
		s, path := newTestStore(t)
		err := s.Update(ctx, func(snap *Snapshot[testRecord]) error {
			snap.Records = append(snap.Records, testRecord{ID: snap.IssueID(), Name: "alice"})
			return nil
		})
		require.NoError(t, err)

		reopened := New[testRecord](path, time.Second, testLogger())
		err = reopened.View(ctx, func(snap Snapshot[testRecord]) error {
			require.Len(t, snap.Records, 1)
			assert.Equal(t, "alice", snap.Records[0].Name)
			assert.Equal(t, int64(1), snap.NextID)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("FailedScopeLeavesFileUntouched", func(t *testing.T) {
		s, path := newTestStore(t)
		require.NoError(t, s.Update(ctx, func(snap *Snapshot[testRecord]) error {
			snap.Records = append(snap.Records, testRecord{ID: 1, Name: "keep"})
			return nil
		}))

		before, err := os.ReadFile(path)
		require.NoError(t, err)

		scopeErr := errors.New("validation failed")
		err = s.Update(ctx, func(snap *Snapshot[testRecord]) error {
			snap.Records = append(snap.Records, testRecord{ID: 2, Name: "discard"})
			return scopeErr
		})
		assert.ErrorIs(t, err, scopeErr)

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, before, after, "failed scope must not change the on-disk snapshot")
	})

	t.Run("CorruptFileAbortsScope", func(t *testing.T) {
		s, path := newTestStore(t)
		require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

		err := s.Update(ctx, func(snap *Snapshot[testRecord]) error {
			t.Fatal("scope body must not run on a corrupt store")
			return nil
		})
		assert.ErrorIs(t, err, util.ErrCorruptStore)
	})

	t.Run("UnreadablePathIsIOFailure", func(t *testing.T) {
		// A directory where the snapshot file should be makes every read
		// attempt fail with something other than not-exist.
		s := New[testRecord](t.TempDir(), time.Second, testLogger())

		err := s.Update(ctx, func(snap *Snapshot[testRecord]) error {
			t.Fatal("scope body must not run when the snapshot cannot be read")
			return nil
		})
		assert.ErrorIs(t, err, util.ErrIOFailure)

		err = s.View(ctx, func(snap Snapshot[testRecord]) error {
			t.Fatal("read scope must not run when the snapshot cannot be read")
			return nil
		})
		assert.ErrorIs(t, err, util.ErrIOFailure)
	})

	t.Run("UnwritablePathIsIOFailure", func(t *testing.T) {
		// Missing parent directory: the first read bootstraps an empty
		// snapshot, so the scope runs, but persisting it cannot succeed.
		path := filepath.Join(t.TempDir(), "missing", "records.json")
		s := New[testRecord](path, time.Second, testLogger())

		ran := false
		err := s.Update(ctx, func(snap *Snapshot[testRecord]) error {
			ran = true
			snap.Records = append(snap.Records, testRecord{ID: snap.IssueID(), Name: "doomed"})
			return nil
		})
		assert.True(t, ran, "scope body runs before the failing write")
		assert.ErrorIs(t, err, util.ErrIOFailure)

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "failed write must not leave a snapshot behind")
	})

	t.Run("BusyWhenScopeHeldTooLong", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "records.json")
		s := New[testRecord](path, 50*time.Millisecond, testLogger())

		entered := make(chan struct{})
		proceed := make(chan struct{})
		done := make(chan error, 1)
		go func() {
			done <- s.Update(ctx, func(snap *Snapshot[testRecord]) error {
				close(entered)
				<-proceed
				return nil
			})
		}()

		<-entered
		err := s.View(ctx, func(snap Snapshot[testRecord]) error { return nil })
		assert.ErrorIs(t, err, util.ErrBusy)

		close(proceed)
		require.NoError(t, <-done)
	})

	t.Run("ConcurrentScopesSerialize", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "records.json")
		s := New[testRecord](path, 10*time.Second, testLogger())
		require.NoError(t, s.Update(ctx, func(snap *Snapshot[testRecord]) error {
			snap.Records = []testRecord{{ID: 1, Name: "counter"}}
			return nil
		}))

		const workers = 20
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.Update(ctx, func(snap *Snapshot[testRecord]) error {
					snap.Records[0].Count++
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		err := s.View(ctx, func(snap Snapshot[testRecord]) error {
			assert.Equal(t, workers, snap.Records[0].Count, "lost update under concurrent scopes")
			return nil
		})
		require.NoError(t, err)
	})
}
