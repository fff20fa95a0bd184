package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/netpulse-io/netpulse/internal/model"
	"github.com/netpulse-io/netpulse/internal/store"
)

// producerRecord is the wire shape accepted at the ingestion boundary:
// a source tag, an opaque payload, and an ISO-8601 fetch timestamp.
type producerRecord struct {
	Source    string          `json:"source"`
	Payload   json.RawMessage `json:"payload"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// IntakeFile reads a JSON array of producer records and inserts them as
// pending raw events. Payload shape is never validated here; that is the
// per-source extraction rule's concern. Returns the number inserted.
func IntakeFile(events store.EventStore, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read events file: %w", err)
	}

	var records []producerRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("parse events file: %w", err)
	}

	inserted := 0
	for i, rec := range records {
		if rec.Source == "" {
			return inserted, fmt.Errorf("record %d: missing source", i)
		}
		fetchedAt := rec.FetchedAt
		if fetchedAt.IsZero() {
			fetchedAt = time.Now().UTC()
		}

		_, err := events.InsertEvent(model.RawEvent{
			Source:    model.Source(rec.Source),
			Payload:   rec.Payload,
			FetchedAt: fetchedAt,
		})
		if err != nil {
			return inserted, fmt.Errorf("record %d: %w", i, err)
		}
		inserted++
	}
	return inserted, nil
}
