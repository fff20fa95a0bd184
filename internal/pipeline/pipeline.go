// Package pipeline orchestrates the ingestion batch: pending raw events
// are extracted into text items, each item is scored and classified into
// a candidate signal, and each candidate is merged into a recent
// duplicate or inserted as a new signal.
//
// Events and items are processed sequentially. A failure on one item is
// counted and logged, never fatal to the batch. The processed flag is
// flipped in one bulk write after the loop, giving at-least-once
// semantics if a run crashes midway.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/netpulse-io/netpulse/internal/cache"
	"github.com/netpulse-io/netpulse/internal/classify"
	"github.com/netpulse-io/netpulse/internal/dedup"
	"github.com/netpulse-io/netpulse/internal/extract"
	"github.com/netpulse-io/netpulse/internal/logger"
	"github.com/netpulse-io/netpulse/internal/model"
	"github.com/netpulse-io/netpulse/internal/sentiment"
	"github.com/netpulse-io/netpulse/internal/store"
	"github.com/netpulse-io/netpulse/internal/worker"
)

// Pipeline wires the processing stages over the storage boundaries
type Pipeline struct {
	store      store.Store
	registry   *extract.Registry
	scorer     *sentiment.Scorer
	classifier *classify.Classifier
	dedup      *dedup.Deduplicator
	clock      cache.Clock
	gate       *worker.Gate
	cfg        *model.Config
}

// New builds a pipeline from configuration and reference data. Missing
// reference areas are a fatal configuration error: no meaningful
// classification can be produced without them.
func New(st store.Store, clock cache.Clock, cfg *model.Config) (*Pipeline, error) {
	areas, err := st.ListAreas()
	if err != nil {
		return nil, fmt.Errorf("load product areas: %w", err)
	}
	if len(areas) == 0 {
		return nil, fmt.Errorf("no product areas configured")
	}
	if clock == nil {
		clock = cache.SystemClock{}
	}

	return &Pipeline{
		store:      st,
		registry:   extract.NewRegistry(),
		scorer:     sentiment.NewScorer(),
		classifier: classify.NewClassifier(areas),
		dedup:      dedup.New(cfg.Dedup.Window(), cfg.Dedup.SimilarityThreshold),
		clock:      clock,
		gate:       worker.NewGate(cfg.Ingest.EventsPerSecond, cfg.Ingest.Burst),
		cfg:        cfg,
	}, nil
}

// RunIngestion processes up to batchLimit pending raw events and returns
// per-batch counts. Safe to retry: re-derived items fold back into their
// earlier signals as long as they land inside the dedup window.
func (p *Pipeline) RunIngestion(ctx context.Context, batchLimit int) (*model.IngestReport, error) {
	if batchLimit <= 0 {
		batchLimit = p.cfg.Ingest.BatchLimit
	}

	report := &model.IngestReport{StartedAt: p.clock.Now()}

	events, err := p.store.PendingEvents(batchLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch pending events: %w", err)
	}
	report.EventsFetched = len(events)

	var attempted []string
	for _, event := range events {
		if err := p.gate.Wait(ctx); err != nil {
			// Context ended; flag what was attempted so far.
			break
		}

		items, known := p.registry.Extract(event)
		if !known {
			report.UnknownSources++
		}

		for _, item := range items {
			report.ItemsAttempted++
			outcome, err := p.processItem(event, item)
			if err != nil {
				report.ItemsFailed++
				logger.Warn("ingest: event %s item failed: %v", event.ID, err)
				continue
			}
			report.ItemsSucceeded++
			if outcome == outcomeMerged {
				report.SignalsMerged++
			} else {
				report.SignalsCreated++
			}
		}

		attempted = append(attempted, event.ID)
		report.EventsProcessed++
	}

	if len(attempted) > 0 {
		if err := p.store.MarkProcessed(attempted); err != nil {
			return report, fmt.Errorf("mark events processed: %w", err)
		}
	}

	report.FinishedAt = p.clock.Now()
	logger.Info("ingest: events=%d items=%d created=%d merged=%d failed=%d unknown=%d",
		report.EventsProcessed, report.ItemsAttempted, report.SignalsCreated,
		report.SignalsMerged, report.ItemsFailed, report.UnknownSources)
	return report, nil
}

type itemOutcome int

const (
	outcomeCreated itemOutcome = iota
	outcomeMerged
)

// processItem scores, classifies, and merges-or-inserts one text item
func (p *Pipeline) processItem(event model.RawEvent, item extract.Item) (itemOutcome, error) {
	scored := p.scorer.Score(item.Text)
	classified := p.classifier.Classify(item.Text)

	candidate := model.Signal{
		ID:          uuid.New().String(),
		Topic:       classified.Topic,
		Keywords:    classified.Keywords,
		Sentiment:   scored.Score,
		Intensity:   1,
		DetectedAt:  event.FetchedAt,
		Source:      string(event.Source),
		ProductArea: classified.ProductArea,
		Geo:         item.Geo,
		Meta: model.SignalMeta{
			Confidence:          classified.Confidence,
			SentimentConfidence: scored.Confidence,
			SourceEventID:       event.ID,
		},
	}

	// Incremental dedup: check stored signals inside the window for the
	// same area. Check-then-insert is not atomic across concurrent batch
	// runs; see the store package note.
	windowStart := candidate.DetectedAt.Add(-p.cfg.Dedup.Window())
	recent, err := p.store.QuerySignals(store.SignalQuery{
		From:        windowStart,
		ProductArea: candidate.ProductArea,
	})
	if err != nil {
		return outcomeCreated, fmt.Errorf("query dedup window: %w", err)
	}

	if existing := p.dedup.FindDuplicate(candidate, recent); existing != nil {
		patch := p.dedup.Merge(*existing, candidate, p.clock.Now())
		if _, err := p.store.UpdateSignal(existing.ID, patch); err != nil {
			return outcomeMerged, fmt.Errorf("merge into %s: %w", existing.ID, err)
		}
		return outcomeMerged, nil
	}

	if _, err := p.store.InsertSignal(candidate); err != nil {
		return outcomeCreated, fmt.Errorf("insert signal: %w", err)
	}
	return outcomeCreated, nil
}
