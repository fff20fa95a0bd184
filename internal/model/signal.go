package model

import "time"

// Signal is a deduplicated, scored unit of customer feedback about one
// topic and product area at one point in time.
type Signal struct {
	ID          string     `json:"id"`
	Topic       string     `json:"topic"`
	Keywords    []string   `json:"keywords"`
	Sentiment   float64    `json:"sentiment"`    // always clamped to [-1, 1]
	Intensity   int        `json:"intensity"`    // count of raw reports folded in, minimum 1
	DetectedAt  time.Time  `json:"detected_at"`
	Source      string     `json:"source"`
	ProductArea string     `json:"product_area,omitempty"`
	Geo         *GeoPoint  `json:"geo,omitempty"`
	Meta        SignalMeta `json:"meta"`
}

// GeoPoint is an optional location attached to a signal
type GeoPoint struct {
	Lat  float64 `json:"lat,omitempty"`
	Lng  float64 `json:"lng,omitempty"`
	City string  `json:"city,omitempty"`
}

// SignalMeta carries scoring diagnostics and deduplication bookkeeping
type SignalMeta struct {
	Confidence          float64    `json:"confidence"`           // classification confidence [0,1]
	SentimentConfidence float64    `json:"sentiment_confidence"` // scorer confidence [0,1]
	DuplicateCount      int        `json:"duplicate_count"`      // merges applied after creation
	SourceEventID       string     `json:"source_event_id,omitempty"`
	LastSource          string     `json:"last_source,omitempty"` // latest contributing source after a merge
	LastMergedAt        *time.Time `json:"last_merged_at,omitempty"`
}

// EffectiveIntensity returns the intensity with the minimum-1 invariant
// applied, so legacy rows with a zero intensity still weigh as one report.
func (s *Signal) EffectiveIntensity() int {
	if s.Intensity < 1 {
		return 1
	}
	return s.Intensity
}

// SignalPatch is a partial update applied to a stored signal.
// Nil fields are left untouched.
type SignalPatch struct {
	Sentiment  *float64
	Intensity  *int
	DetectedAt *time.Time
	Meta       *SignalMeta
}
