// Package store defines the storage boundaries of the pipeline and a
// thread-safe in-memory implementation with JSON file persistence.
//
// The pipeline is storage-agnostic beyond these interfaces: a durable
// engine can replace MemoryStore without touching the processing code.
// Note that the incremental deduplication performed during ingestion is
// a non-atomic check-then-insert across these calls; running two
// ingestion batches concurrently can admit duplicate signals. Hardening
// that race (transactional upsert or a unique constraint) belongs to a
// durable implementation, not to MemoryStore.
package store

import (
	"time"

	"github.com/netpulse-io/netpulse/internal/model"
)

// SignalQuery filters stored signals. Zero times are unbounded; empty
// strings disable the area/topic filters.
type SignalQuery struct {
	From        time.Time
	To          time.Time
	ProductArea string
	Topic       string
}

// SignalStore is the read/write boundary for scored signals
type SignalStore interface {
	InsertSignal(s model.Signal) (model.Signal, error)
	UpdateSignal(id string, patch model.SignalPatch) (model.Signal, error)
	QuerySignals(q SignalQuery) ([]model.Signal, error)
}

// SnapshotStore is the append/prune boundary for intensity snapshots
type SnapshotStore interface {
	InsertSnapshots(rows []model.IntensitySnapshot) error
	QuerySnapshots(topic, productArea string, from, to time.Time) ([]model.IntensitySnapshot, error)
	DeleteSnapshotsOlderThan(cutoff time.Time) (int, error)
}

// EventStore is the raw-event boundary shared with producers
type EventStore interface {
	InsertEvent(e model.RawEvent) (model.RawEvent, error)
	PendingEvents(limit int) ([]model.RawEvent, error)
	// MarkProcessed flips the processed flag for all given IDs in one
	// bulk write, matching the pipeline's end-of-batch semantics.
	MarkProcessed(ids []string) error
}

// AreaStore is the read-only reference data boundary
type AreaStore interface {
	ListAreas() ([]model.ProductArea, error)
	AreaByName(name string) (*model.ProductArea, error)
}

// Store combines every boundary the pipeline needs
type Store interface {
	SignalStore
	SnapshotStore
	EventStore
	AreaStore
}
