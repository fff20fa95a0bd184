package model

import "time"

// CHIResult is a computed happiness index over one window.
// A nil *CHIResult means "no data", which is distinct from a zero score.
type CHIResult struct {
	Score         int       `json:"score"` // [0, 100]
	SignalCount   int       `json:"signal_count"`
	TotalWeight   int       `json:"total_weight"` // sum of effective intensities
	WindowMinutes int       `json:"window_minutes"`
	ProductArea   string    `json:"product_area,omitempty"`
	ComputedAt    time.Time `json:"computed_at"`
}

// IngestReport summarizes one ingestion batch. Batches report counts
// rather than all-or-nothing success: a per-item failure increments
// ItemsFailed and the batch continues.
type IngestReport struct {
	EventsFetched   int       `json:"events_fetched"`
	EventsProcessed int       `json:"events_processed"`
	UnknownSources  int       `json:"unknown_sources"`
	ItemsAttempted  int       `json:"items_attempted"`
	ItemsSucceeded  int       `json:"items_succeeded"`
	ItemsFailed     int       `json:"items_failed"`
	SignalsCreated  int       `json:"signals_created"`
	SignalsMerged   int       `json:"signals_merged"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
}
