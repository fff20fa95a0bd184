// Package dedup folds near-identical reports about the same underlying
// issue into one signal whose intensity counts the supporting reports.
//
// Two signals are duplicates iff they share a product area, their
// detection times fall within the configured window, and the Jaccard
// similarity of their keyword sets clears the configured threshold.
package dedup

import (
	"math"
	"strings"
	"time"

	"github.com/netpulse-io/netpulse/internal/model"
)

// Deduplicator applies the duplicate rule with configured heuristics
type Deduplicator struct {
	window    time.Duration
	threshold float64
}

// New creates a deduplicator. Defaults: 30-minute window, 0.5 threshold.
func New(window time.Duration, threshold float64) *Deduplicator {
	if window <= 0 {
		window = 30 * time.Minute
	}
	if threshold <= 0 {
		threshold = 0.5
	}
	return &Deduplicator{window: window, threshold: threshold}
}

// Jaccard computes case-insensitive Jaccard similarity of two keyword
// sets: |intersection| / |union|. Two empty sets yield 0.
func Jaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for k := range setA {
		if setB[k] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func toSet(keywords []string) map[string]bool {
	set := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			set[k] = true
		}
	}
	return set
}

// IsDuplicate applies the three-part duplicate rule
func (d *Deduplicator) IsDuplicate(a, b model.Signal) bool {
	if !strings.EqualFold(a.ProductArea, b.ProductArea) {
		return false
	}

	delta := a.DetectedAt.Sub(b.DetectedAt)
	if delta < 0 {
		delta = -delta
	}
	if delta > d.window {
		return false
	}

	return Jaccard(a.Keywords, b.Keywords) >= d.threshold
}

// Group is one duplicate group produced by a bulk grouping pass.
// Ephemeral: never persisted.
type Group struct {
	Representative model.Signal
	Members        []model.Signal
	Intensity      int     // member count
	AvgSentiment   float64 // arithmetic mean of member sentiments
}

// GroupSignals partitions signals into duplicate groups by greedy seed
// scanning over an index arena: the first ungrouped signal seeds a group
// and absorbs every remaining ungrouped duplicate of that seed.
// Grouping an already-grouped representative set again is idempotent.
func (d *Deduplicator) GroupSignals(signals []model.Signal) []Group {
	grouped := make([]bool, len(signals))
	var groups []Group

	for i := range signals {
		if grouped[i] {
			continue
		}
		grouped[i] = true
		members := []model.Signal{signals[i]}

		for j := i + 1; j < len(signals); j++ {
			if grouped[j] {
				continue
			}
			if d.IsDuplicate(signals[i], signals[j]) {
				grouped[j] = true
				members = append(members, signals[j])
			}
		}

		groups = append(groups, buildGroup(members))
	}
	return groups
}

// buildGroup selects the representative (largest |sentiment|, ties
// broken by earliest timestamp) and computes group aggregates.
func buildGroup(members []model.Signal) Group {
	rep := members[0]
	var sum float64
	for _, m := range members {
		sum += m.Sentiment

		repMag := math.Abs(rep.Sentiment)
		mag := math.Abs(m.Sentiment)
		if mag > repMag || (mag == repMag && m.DetectedAt.Before(rep.DetectedAt)) {
			rep = m
		}
	}

	return Group{
		Representative: rep,
		Members:        members,
		Intensity:      len(members),
		AvgSentiment:   sum / float64(len(members)),
	}
}

// FindDuplicate returns the first existing signal that duplicates the
// candidate, or nil. Used during ingestion against stored signals inside
// the dedup window.
func (d *Deduplicator) FindDuplicate(candidate model.Signal, existing []model.Signal) *model.Signal {
	for i := range existing {
		if d.IsDuplicate(candidate, existing[i]) {
			return &existing[i]
		}
	}
	return nil
}

// Merge folds a candidate into an existing stored signal: sentiment is
// the average of the two, the earlier timestamp is kept, intensity grows
// by one, and the metadata records the latest contributing source and
// duplicate count. Returns the patch to apply to the stored signal.
func (d *Deduplicator) Merge(existing model.Signal, candidate model.Signal, now time.Time) model.SignalPatch {
	sentiment := clampSentiment((existing.Sentiment + candidate.Sentiment) / 2)

	detectedAt := existing.DetectedAt
	if candidate.DetectedAt.Before(detectedAt) {
		detectedAt = candidate.DetectedAt
	}

	intensity := existing.EffectiveIntensity() + 1

	meta := existing.Meta
	meta.DuplicateCount++
	meta.LastSource = candidate.Source
	meta.LastMergedAt = &now

	return model.SignalPatch{
		Sentiment:  &sentiment,
		Intensity:  &intensity,
		DetectedAt: &detectedAt,
		Meta:       &meta,
	}
}

func clampSentiment(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
