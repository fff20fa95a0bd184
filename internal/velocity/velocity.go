// Package velocity ranks rapidly worsening issues. Per (topic, product
// area) group it measures intensity growth per hour from historical
// snapshots, projects near-future intensity, estimates time until the
// critical threshold, and returns the top rising issues by velocity.
//
// A separate scheduled capture appends one intensity snapshot row per
// group and prunes rows past the retention window.
package velocity

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/netpulse-io/netpulse/internal/cache"
	"github.com/netpulse-io/netpulse/internal/logger"
	"github.com/netpulse-io/netpulse/internal/model"
	"github.com/netpulse-io/netpulse/internal/store"
	"github.com/netpulse-io/netpulse/internal/worker"
)

// minFallbackSpan is the minimum observed span before the single-window
// fallback estimates a velocity (6 minutes, 0.1 hour).
const minFallbackSpan = 6 * time.Minute

// fallbackConfidence applies when velocity is estimated from current
// signals alone, without snapshot history.
const fallbackConfidence = 0.3

// Engine computes rising-issue rankings and captures snapshots
type Engine struct {
	signals   store.SignalStore
	snapshots store.SnapshotStore
	clock     cache.Clock
	cfg       model.VelocityConfig
}

// NewEngine creates a velocity engine
func NewEngine(signals store.SignalStore, snapshots store.SnapshotStore, clock cache.Clock, cfg model.VelocityConfig) *Engine {
	if clock == nil {
		clock = cache.SystemClock{}
	}
	return &Engine{signals: signals, snapshots: snapshots, clock: clock, cfg: cfg}
}

// group is the per-key working set during a ranking pass
type group struct {
	topic     string
	area      string
	intensity int
	count     int
	earliest  time.Time
}

// RisingIssues ranks issues whose intensity is growing faster than the
// configured threshold, sorted by velocity descending and truncated to
// the configured top N. Groups that cannot be measured contribute
// nothing; historical gaps degrade confidence, not the whole call.
func (e *Engine) RisingIssues(ctx context.Context, lookbackMinutes int) ([]model.RisingIssue, error) {
	if lookbackMinutes <= 0 {
		lookbackMinutes = e.cfg.LookbackMinutes
	}

	now := e.clock.Now()
	recent, err := e.signals.QuerySignals(store.SignalQuery{
		From: now.Add(-time.Duration(lookbackMinutes) * time.Minute),
		To:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("query recent signals: %w", err)
	}

	groups := groupSignals(recent)
	historyFrom := now.Add(-time.Duration(e.cfg.SnapshotHistoryHours) * time.Hour)

	// Per-group history lookups are independent and read-only.
	issues := worker.Map(ctx, e.cfg.Workers, groups, func(ctx context.Context, g group) *model.RisingIssue {
		return e.assess(g, historyFrom, now)
	})

	var rising []model.RisingIssue
	for _, issue := range issues {
		if issue == nil {
			continue
		}
		if issue.Velocity <= e.cfg.RisingThresholdPerHour {
			continue
		}
		rising = append(rising, *issue)
	}

	sort.Slice(rising, func(i, j int) bool {
		if rising[i].Velocity != rising[j].Velocity {
			return rising[i].Velocity > rising[j].Velocity
		}
		// Deterministic order for equal velocities
		return rising[i].Topic < rising[j].Topic
	})

	if e.cfg.TopN > 0 && len(rising) > e.cfg.TopN {
		rising = rising[:e.cfg.TopN]
	}
	return rising, nil
}

// assess computes one group's velocity, projection, and time-to-critical
func (e *Engine) assess(g group, historyFrom, now time.Time) *model.RisingIssue {
	history, err := e.snapshots.QuerySnapshots(g.topic, g.area, historyFrom, now)
	if err != nil {
		logger.Warn("velocity: snapshot history for %s/%s: %v", g.topic, g.area, err)
		history = nil
	}

	current := float64(g.intensity)
	velocity := 0.0
	confidence := 0.0

	switch {
	case len(history) >= 2:
		first := history[0]
		last := history[len(history)-1]
		elapsed := last.SnapshotAt.Sub(first.SnapshotAt).Hours()
		if elapsed > 0 {
			velocity = float64(last.Intensity-first.Intensity) / elapsed
		}
		confidence = math.Min(0.9, 0.5+float64(len(history))/20.0)

	case g.count > 1:
		span := now.Sub(g.earliest)
		if span >= minFallbackSpan {
			velocity = current / span.Hours()
			confidence = fallbackConfidence
		}
	}

	projected := math.Max(current, current+velocity*e.cfg.ProjectionHours)

	timeToCritical := 0.0
	if velocity > 0 && current < e.cfg.CriticalThreshold {
		timeToCritical = (e.cfg.CriticalThreshold - current) / velocity
	}

	return &model.RisingIssue{
		Topic:              g.topic,
		ProductArea:        g.area,
		CurrentIntensity:   g.intensity,
		ProjectedIntensity: projected,
		Velocity:           velocity,
		TimeToCritical:     timeToCritical,
		Confidence:         confidence,
		EstimatedUsers:     int(math.Round(current * float64(e.cfg.UsersPerIntensity))),
		SignalCount:        g.count,
		ComputedAt:         now,
	}
}

// CaptureSnapshot groups all signals from the history window by
// (topic, area), appends one snapshot row per group for "now", and
// prunes rows older than the retention window. Returns rows written and
// rows pruned.
func (e *Engine) CaptureSnapshot(ctx context.Context) (written int, pruned int, err error) {
	now := e.clock.Now()
	signals, err := e.signals.QuerySignals(store.SignalQuery{
		From: now.Add(-time.Duration(e.cfg.SnapshotHistoryHours) * time.Hour),
		To:   now,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("query signals: %w", err)
	}

	var rows []model.IntensitySnapshot
	for _, g := range groupSignals(signals) {
		rows = append(rows, model.IntensitySnapshot{
			ID:          uuid.New().String(),
			Topic:       g.topic,
			ProductArea: g.area,
			Intensity:   g.intensity,
			SignalCount: g.count,
			SnapshotAt:  now,
		})
	}

	if len(rows) > 0 {
		if err := e.snapshots.InsertSnapshots(rows); err != nil {
			return 0, 0, fmt.Errorf("insert snapshots: %w", err)
		}
	}

	cutoff := now.Add(-time.Duration(e.cfg.SnapshotRetentionDays) * 24 * time.Hour)
	pruned, err = e.snapshots.DeleteSnapshotsOlderThan(cutoff)
	if err != nil {
		// Capture succeeded; report the prune failure without undoing it.
		logger.Warn("velocity: prune snapshots: %v", err)
		err = nil
	}

	logger.Info("velocity: captured %d snapshot rows, pruned %d", len(rows), pruned)
	return len(rows), pruned, nil
}

// groupSignals buckets signals by case-insensitive (topic, area) key,
// summing effective intensities and tracking the earliest detection.
func groupSignals(signals []model.Signal) []group {
	byKey := make(map[string]*group)
	var order []string

	for _, s := range signals {
		key := strings.ToLower(s.Topic) + "|" + strings.ToLower(s.ProductArea)
		g, exists := byKey[key]
		if !exists {
			g = &group{topic: s.Topic, area: s.ProductArea, earliest: s.DetectedAt}
			byKey[key] = g
			order = append(order, key)
		}
		g.intensity += s.EffectiveIntensity()
		g.count++
		if s.DetectedAt.Before(g.earliest) {
			g.earliest = s.DetectedAt
		}
	}

	out := make([]group, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}
