package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/netpulse-io/netpulse/internal/model"
)

// MemoryStore is a thread-safe in-memory Store with optional JSON file
// persistence. Writes are atomic at the file level (temp file + rename).
type MemoryStore struct {
	mu        sync.RWMutex
	signals   map[string]model.Signal
	events    map[string]model.RawEvent
	snapshots []model.IntensitySnapshot
	areas     []model.ProductArea

	filePath string
}

// persistenceFile is the on-disk layout of a saved store
type persistenceFile struct {
	Version   string                    `json:"version"`
	SavedAt   time.Time                 `json:"saved_at"`
	Signals   map[string]model.Signal   `json:"signals"`
	Events    map[string]model.RawEvent `json:"events"`
	Snapshots []model.IntensitySnapshot `json:"snapshots"`
}

// NewMemoryStore creates a store seeded with the given reference areas.
// filePath may be empty to disable persistence.
func NewMemoryStore(areas []model.ProductArea, filePath string) *MemoryStore {
	return &MemoryStore{
		signals:  make(map[string]model.Signal),
		events:   make(map[string]model.RawEvent),
		areas:    areas,
		filePath: filePath,
	}
}

// InsertSignal stores a new signal, assigning an ID when missing
func (m *MemoryStore) InsertSignal(s model.Signal) (model.Signal, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Intensity < 1 {
		s.Intensity = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.signals[s.ID]; exists {
		return model.Signal{}, fmt.Errorf("signal already exists: %s", s.ID)
	}
	m.signals[s.ID] = s
	return s, nil
}

// UpdateSignal applies a partial update to a stored signal
func (m *MemoryStore) UpdateSignal(id string, patch model.SignalPatch) (model.Signal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, exists := m.signals[id]
	if !exists {
		return model.Signal{}, fmt.Errorf("signal not found: %s", id)
	}

	if patch.Sentiment != nil {
		s.Sentiment = *patch.Sentiment
	}
	if patch.Intensity != nil {
		s.Intensity = *patch.Intensity
		if s.Intensity < 1 {
			s.Intensity = 1
		}
	}
	if patch.DetectedAt != nil {
		s.DetectedAt = *patch.DetectedAt
	}
	if patch.Meta != nil {
		s.Meta = *patch.Meta
	}

	m.signals[id] = s
	return s, nil
}

// QuerySignals returns signals matching the query, oldest first
func (m *MemoryStore) QuerySignals(q SignalQuery) ([]model.Signal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.Signal
	for _, s := range m.signals {
		if !q.From.IsZero() && s.DetectedAt.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && !s.DetectedAt.Before(q.To) {
			continue
		}
		if q.ProductArea != "" && !strings.EqualFold(s.ProductArea, q.ProductArea) {
			continue
		}
		if q.Topic != "" && !strings.EqualFold(s.Topic, q.Topic) {
			continue
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DetectedAt.Before(out[j].DetectedAt)
	})
	return out, nil
}

// InsertSnapshots appends intensity snapshot rows
func (m *MemoryStore) InsertSnapshots(rows []model.IntensitySnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range rows {
		if row.ID == "" {
			row.ID = uuid.New().String()
		}
		m.snapshots = append(m.snapshots, row)
	}
	return nil
}

// QuerySnapshots returns snapshots for one topic/area key in [from, to], oldest first
func (m *MemoryStore) QuerySnapshots(topic, productArea string, from, to time.Time) ([]model.IntensitySnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.IntensitySnapshot
	for _, row := range m.snapshots {
		if !strings.EqualFold(row.Topic, topic) || !strings.EqualFold(row.ProductArea, productArea) {
			continue
		}
		if !from.IsZero() && row.SnapshotAt.Before(from) {
			continue
		}
		if !to.IsZero() && row.SnapshotAt.After(to) {
			continue
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SnapshotAt.Before(out[j].SnapshotAt)
	})
	return out, nil
}

// DeleteSnapshotsOlderThan prunes snapshot rows past the retention window
func (m *MemoryStore) DeleteSnapshotsOlderThan(cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.snapshots[:0]
	removed := 0
	for _, row := range m.snapshots {
		if row.SnapshotAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	m.snapshots = kept
	return removed, nil
}

// InsertEvent stores a raw event, assigning an ID when missing
func (m *MemoryStore) InsertEvent(e model.RawEvent) (model.RawEvent, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.events[e.ID]; exists {
		return model.RawEvent{}, fmt.Errorf("event already exists: %s", e.ID)
	}
	m.events[e.ID] = e
	return e, nil
}

// PendingEvents returns up to limit unprocessed events, oldest fetched first
func (m *MemoryStore) PendingEvents(limit int) ([]model.RawEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.RawEvent
	for _, e := range m.events {
		if !e.Processed {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].FetchedAt.Before(out[j].FetchedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MarkProcessed flips the processed flag for all given event IDs
func (m *MemoryStore) MarkProcessed(ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		e, exists := m.events[id]
		if !exists {
			return fmt.Errorf("event not found: %s", id)
		}
		e.Processed = true
		m.events[id] = e
	}
	return nil
}

// ListAreas returns the reference product areas
func (m *MemoryStore) ListAreas() ([]model.ProductArea, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.ProductArea, len(m.areas))
	copy(out, m.areas)
	return out, nil
}

// AreaByName looks up one product area by name, case-insensitive
func (m *MemoryStore) AreaByName(name string) (*model.ProductArea, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.areas {
		if strings.EqualFold(a.Name, name) {
			area := a
			return &area, nil
		}
	}
	return nil, fmt.Errorf("product area not found: %s", name)
}

// Save persists the store state to disk with an atomic write
func (m *MemoryStore) Save() error {
	if m.filePath == "" {
		return nil
	}

	m.mu.RLock()
	data := persistenceFile{
		Version:   "1.0",
		SavedAt:   time.Now().UTC(),
		Signals:   m.signals,
		Events:    m.events,
		Snapshots: m.snapshots,
	}
	jsonData, err := json.MarshalIndent(data, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	dir := filepath.Dir(m.filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tempPath := m.filePath + ".tmp"
	if err := os.WriteFile(tempPath, jsonData, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tempPath, m.filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("rename store file: %w", err)
	}
	return nil
}

// Load restores the store state from disk. A missing file is not an
// error; the store simply starts fresh.
func (m *MemoryStore) Load() error {
	if m.filePath == "" {
		return nil
	}

	// Clean up a stale temp file from a previous crash
	tempPath := m.filePath + ".tmp"
	if _, err := os.Stat(tempPath); err == nil {
		_ = os.Remove(tempPath)
	}

	jsonData, err := os.ReadFile(m.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read store file: %w", err)
	}

	var data persistenceFile
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return fmt.Errorf("unmarshal store: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.signals = data.Signals
	if m.signals == nil {
		m.signals = make(map[string]model.Signal)
	}
	m.events = data.Events
	if m.events == nil {
		m.events = make(map[string]model.RawEvent)
	}
	m.snapshots = data.Snapshots
	return nil
}
