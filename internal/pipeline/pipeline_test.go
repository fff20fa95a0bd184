package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/netpulse-io/netpulse/internal/model"
	"github.com/netpulse-io/netpulse/internal/store"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

var pipeNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestPipeline(t *testing.T, st store.Store) *Pipeline {
	t.Helper()
	p, err := New(st, &fakeClock{now: pipeNow}, model.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func socialEvent(t *testing.T, st store.EventStore, text string, at time.Time) model.RawEvent {
	t.Helper()
	payload, _ := json.Marshal(map[string]interface{}{
		"posts": []map[string]string{{"text": text}},
	})
	e, err := st.InsertEvent(model.RawEvent{
		Source:    model.SourceSocialPost,
		Payload:   payload,
		FetchedAt: at,
	})
	if err != nil {
		t.Fatalf("InsertEvent: %v", err)
	}
	return e
}

func TestRunIngestionCreatesSignals(t *testing.T) {
	st := store.NewMemoryStore(model.DefaultProductAreas(), "")
	p := newTestPipeline(t, st)

	socialEvent(t, st, "Massive network outage in Dallas, nothing works", pipeNow.Add(-10*time.Minute))
	socialEvent(t, st, "My monthly bill doubled with a hidden fee, unacceptable", pipeNow.Add(-8*time.Minute))

	report, err := p.RunIngestion(context.Background(), 0)
	if err != nil {
		t.Fatalf("RunIngestion: %v", err)
	}

	if report.EventsProcessed != 2 {
		t.Errorf("events processed = %d, want 2", report.EventsProcessed)
	}
	if report.SignalsCreated != 2 {
		t.Errorf("signals created = %d, want 2", report.SignalsCreated)
	}
	if report.ItemsFailed != 0 {
		t.Errorf("items failed = %d, want 0", report.ItemsFailed)
	}

	signals, err := st.QuerySignals(store.SignalQuery{})
	if err != nil {
		t.Fatalf("QuerySignals: %v", err)
	}
	if len(signals) != 2 {
		t.Fatalf("stored signals = %d, want 2", len(signals))
	}
	for _, s := range signals {
		if s.Topic == "" {
			t.Error("signal missing topic")
		}
		if s.Intensity != 1 {
			t.Errorf("fresh signal intensity = %d, want 1", s.Intensity)
		}
		if s.Sentiment < -1 || s.Sentiment > 1 {
			t.Errorf("sentiment %f out of range", s.Sentiment)
		}
		if s.Source != string(model.SourceSocialPost) {
			t.Errorf("signal source = %q", s.Source)
		}
	}

	pending, err := st.PendingEvents(0)
	if err != nil {
		t.Fatalf("PendingEvents: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after run = %d, want 0", len(pending))
	}
}

func TestRunIngestionMergesDuplicates(t *testing.T) {
	st := store.NewMemoryStore(model.DefaultProductAreas(), "")
	p := newTestPipeline(t, st)

	socialEvent(t, st, "Network outage in Dallas no signal", pipeNow.Add(-20*time.Minute))
	socialEvent(t, st, "Network down in Dallas no signal", pipeNow.Add(-10*time.Minute))

	report, err := p.RunIngestion(context.Background(), 0)
	if err != nil {
		t.Fatalf("RunIngestion: %v", err)
	}
	if report.SignalsCreated != 1 || report.SignalsMerged != 1 {
		t.Errorf("created/merged = %d/%d, want 1/1", report.SignalsCreated, report.SignalsMerged)
	}

	signals, err := st.QuerySignals(store.SignalQuery{})
	if err != nil {
		t.Fatalf("QuerySignals: %v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("stored signals = %d, want 1 merged", len(signals))
	}

	merged := signals[0]
	if merged.Intensity != 2 {
		t.Errorf("merged intensity = %d, want 2", merged.Intensity)
	}
	if merged.Meta.DuplicateCount != 1 {
		t.Errorf("duplicate count = %d, want 1", merged.Meta.DuplicateCount)
	}
	if !merged.DetectedAt.Equal(pipeNow.Add(-20 * time.Minute)) {
		t.Errorf("merged detected_at = %v, want the earlier event time", merged.DetectedAt)
	}
}

func TestRunIngestionUnknownSource(t *testing.T) {
	st := store.NewMemoryStore(model.DefaultProductAreas(), "")
	p := newTestPipeline(t, st)

	if _, err := st.InsertEvent(model.RawEvent{
		Source:    model.Source("carrier_pigeon"),
		Payload:   json.RawMessage(`{}`),
		FetchedAt: pipeNow.Add(-5 * time.Minute),
	}); err != nil {
		t.Fatalf("InsertEvent: %v", err)
	}

	report, err := p.RunIngestion(context.Background(), 0)
	if err != nil {
		t.Fatalf("RunIngestion: %v", err)
	}
	if report.UnknownSources != 1 {
		t.Errorf("unknown sources = %d, want 1", report.UnknownSources)
	}
	if report.ItemsAttempted != 0 {
		t.Errorf("items attempted = %d, want 0", report.ItemsAttempted)
	}

	// The event must still be flagged so it is not retried forever.
	pending, err := st.PendingEvents(0)
	if err != nil {
		t.Fatalf("PendingEvents: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("unknown-source event still pending")
	}
}

func TestRunIngestionMalformedPayload(t *testing.T) {
	st := store.NewMemoryStore(model.DefaultProductAreas(), "")
	p := newTestPipeline(t, st)

	if _, err := st.InsertEvent(model.RawEvent{
		Source:    model.SourceSocialPost,
		Payload:   json.RawMessage(`{broken`),
		FetchedAt: pipeNow.Add(-5 * time.Minute),
	}); err != nil {
		t.Fatalf("InsertEvent: %v", err)
	}

	report, err := p.RunIngestion(context.Background(), 0)
	if err != nil {
		t.Fatalf("RunIngestion: %v", err)
	}
	if report.EventsProcessed != 1 {
		t.Errorf("events processed = %d, want 1", report.EventsProcessed)
	}
	if report.SignalsCreated != 0 {
		t.Errorf("signals created = %d, want 0", report.SignalsCreated)
	}

	pending, err := st.PendingEvents(0)
	if err != nil {
		t.Fatalf("PendingEvents: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("malformed event still pending")
	}
}

func TestRunIngestionBatchLimit(t *testing.T) {
	st := store.NewMemoryStore(model.DefaultProductAreas(), "")
	p := newTestPipeline(t, st)

	for i := 0; i < 5; i++ {
		socialEvent(t, st, fmt.Sprintf("Unique complaint number %d about roaming charges abroad", i),
			pipeNow.Add(time.Duration(-i)*time.Minute))
	}

	report, err := p.RunIngestion(context.Background(), 2)
	if err != nil {
		t.Fatalf("RunIngestion: %v", err)
	}
	if report.EventsFetched != 2 || report.EventsProcessed != 2 {
		t.Errorf("fetched/processed = %d/%d, want 2/2", report.EventsFetched, report.EventsProcessed)
	}

	pending, err := st.PendingEvents(0)
	if err != nil {
		t.Fatalf("PendingEvents: %v", err)
	}
	if len(pending) != 3 {
		t.Errorf("pending after limited batch = %d, want 3", len(pending))
	}
}

// failingSignals wraps a store and fails every signal insert
type failingSignals struct {
	*store.MemoryStore
}

func (f *failingSignals) InsertSignal(s model.Signal) (model.Signal, error) {
	return model.Signal{}, fmt.Errorf("disk full")
}

func TestRunIngestionItemFailureIsolated(t *testing.T) {
	base := store.NewMemoryStore(model.DefaultProductAreas(), "")
	st := &failingSignals{MemoryStore: base}
	p := newTestPipeline(t, st)

	socialEvent(t, base, "Network outage in Dallas right now", pipeNow.Add(-10*time.Minute))
	socialEvent(t, base, "Billing portal rejects my payment card", pipeNow.Add(-5*time.Minute))

	report, err := p.RunIngestion(context.Background(), 0)
	if err != nil {
		t.Fatalf("RunIngestion: %v", err)
	}

	// Both items fail to persist; the batch itself still completes.
	if report.ItemsFailed != 2 {
		t.Errorf("items failed = %d, want 2", report.ItemsFailed)
	}
	if report.EventsProcessed != 2 {
		t.Errorf("events processed = %d, want 2", report.EventsProcessed)
	}

	pending, err := base.PendingEvents(0)
	if err != nil {
		t.Fatalf("PendingEvents: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("events left pending after failed items: %d", len(pending))
	}
}
