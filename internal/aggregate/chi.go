// Package aggregate computes the Customer Happiness Index (CHI): an
// intensity-weighted average sentiment over a time window, rescaled to
// 0–100. Results are cached per (window, area) with a fixed TTL; "no
// data" is an explicit nil result, never a default zero score.
package aggregate

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/netpulse-io/netpulse/internal/cache"
	"github.com/netpulse-io/netpulse/internal/logger"
	"github.com/netpulse-io/netpulse/internal/model"
	"github.com/netpulse-io/netpulse/internal/store"
)

// Engine computes CHI over stored signals
type Engine struct {
	signals store.SignalStore
	cache   cache.Cache
	clock   cache.Clock
	ttl     time.Duration
}

// NewEngine creates an aggregation engine. The clock is injected so TTL
// and window arithmetic are deterministic under test.
func NewEngine(signals store.SignalStore, c cache.Cache, clock cache.Clock, ttl time.Duration) *Engine {
	if clock == nil {
		clock = cache.SystemClock{}
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Engine{signals: signals, cache: c, clock: clock, ttl: ttl}
}

// CalculateCHI computes the happiness index for the trailing window,
// optionally filtered by product area. Returns nil when no signals fall
// inside the window. Cached per (window, area) for the engine TTL.
func (e *Engine) CalculateCHI(windowMinutes int, productArea string) (*model.CHIResult, error) {
	key := cache.CHIKey{WindowMinutes: windowMinutes, ProductArea: productArea}.String()

	if e.cache != nil {
		if data, found := e.cache.Get(key); found {
			var cached model.CHIResult
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
			// Corrupt entry: drop it and recompute.
			_ = e.cache.Delete(key)
		}
	}

	now := e.clock.Now()
	result, err := e.compute(now.Add(-time.Duration(windowMinutes)*time.Minute), now, windowMinutes, productArea)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	if e.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			_ = e.cache.Set(key, data, e.ttl)
		}
	}
	return result, nil
}

// Trend returns the current score minus the score of the immediately
// preceding window of equal length. The baseline is always computed
// fresh (cache bypass); a prior window with no data yields trend 0.
func (e *Engine) Trend(windowMinutes int, productArea string) (int, error) {
	current, err := e.CalculateCHI(windowMinutes, productArea)
	if err != nil {
		return 0, err
	}
	if current == nil {
		return 0, nil
	}

	now := e.clock.Now()
	window := time.Duration(windowMinutes) * time.Minute
	previous, err := e.compute(now.Add(-2*window), now.Add(-window), windowMinutes, productArea)
	if err != nil {
		return 0, fmt.Errorf("trend baseline: %w", err)
	}
	if previous == nil {
		return 0, nil
	}
	return current.Score - previous.Score, nil
}

// compute runs the weighted aggregation over [from, to)
func (e *Engine) compute(from, to time.Time, windowMinutes int, productArea string) (*model.CHIResult, error) {
	signals, err := e.signals.QuerySignals(store.SignalQuery{
		From:        from,
		To:          to,
		ProductArea: productArea,
	})
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	if len(signals) == 0 {
		return nil, nil
	}

	var weightedSum float64
	totalWeight := 0
	for _, s := range signals {
		w := s.EffectiveIntensity()
		weightedSum += s.Sentiment * float64(w)
		totalWeight += w
	}

	avg := weightedSum / float64(totalWeight)
	score := int(math.Round(((avg + 1) / 2) * 100))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	logger.Debug("chi: window=%dm area=%q signals=%d weight=%d avg=%.4f score=%d",
		windowMinutes, productArea, len(signals), totalWeight, avg, score)

	return &model.CHIResult{
		Score:         score,
		SignalCount:   len(signals),
		TotalWeight:   totalWeight,
		WindowMinutes: windowMinutes,
		ProductArea:   productArea,
		ComputedAt:    e.clock.Now(),
	}, nil
}
