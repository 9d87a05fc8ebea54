// internal/store/codec.go
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"prosperity-bank/internal/util"
)

// Meta is the metadata carried by every persisted snapshot.
// It records the storage kind, format version and save time, so the
// format can be upgraded later and snapshots stay traceable.
type Meta struct {
	Storage   string    `json:"storage"`
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

const (
	storageKind   = "json_snapshot"
	formatVersion = 1
)

// Snapshot is the full decoded state of one record collection at a point
// in time. NextID is the counter from which the store issues record ids.
type Snapshot[T any] struct {
	Meta    Meta  `json:"_meta"`
	NextID  int64 `json:"next_id"`
	Records []T   `json:"records"`
}

// IssueID returns a fresh id, distinct from every id issued before.
func (s *Snapshot[T]) IssueID() int64 {
	s.NextID++
	return s.NextID
}

// decodeSnapshot parses raw snapshot bytes. Empty input is the first-run
// bootstrap and yields an empty snapshot, not an error. Malformed input
// fails with ErrCorruptStore.
func decodeSnapshot[T any](raw []byte) (Snapshot[T], error) {
	var snap Snapshot[T]
	if len(bytes.TrimSpace(raw)) == 0 {
		return snap, nil
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return snap, fmt.Errorf("%w: %v", util.ErrCorruptStore, err)
	}
	return snap, nil
}

// encodeSnapshot serializes a snapshot, stamping its metadata. Output is
// indented so the file stays human-readable. Byte-stable formatting across
// saves is not guaranteed, only value fidelity.
func encodeSnapshot[T any](snap Snapshot[T]) ([]byte, error) {
	snap.Meta.Storage = storageKind
	snap.Meta.Version = formatVersion
	snap.Meta.Timestamp = time.Now().UTC()

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return raw, nil
}
