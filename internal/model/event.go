package model

import (
	"encoding/json"
	"time"
)

// Source identifies the producer that emitted a raw event.
// The extractor keeps a closed adapter set keyed by these tags; anything
// else is treated as SourceUnknown and yields no items.
type Source string

const (
	SourceSocialPost     Source = "social_post"
	SourceOutageReport   Source = "outage_report"
	SourceForumThread    Source = "forum_thread"
	SourceSupportComment Source = "support_comment"
	SourceUnknown        Source = "unknown"
)

// RawEvent is an unprocessed, source-tagged payload awaiting extraction.
// Producers create events; the pipeline only ever flips Processed after
// all derivable items have been attempted.
type RawEvent struct {
	ID        string          `json:"id"`
	Source    Source          `json:"source"`
	Payload   json.RawMessage `json:"payload"`
	FetchedAt time.Time       `json:"fetched_at"`
	Processed bool            `json:"processed"`
}
