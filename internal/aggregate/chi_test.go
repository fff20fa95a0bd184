package aggregate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/netpulse-io/netpulse/internal/cache"
	"github.com/netpulse-io/netpulse/internal/model"
	"github.com/netpulse-io/netpulse/internal/store"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

var chiNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func seedSignal(t *testing.T, st *store.MemoryStore, sentiment float64, intensity int, area string, at time.Time) {
	t.Helper()
	_, err := st.InsertSignal(model.Signal{
		Topic:       "test topic",
		Keywords:    []string{"test"},
		Sentiment:   sentiment,
		Intensity:   intensity,
		DetectedAt:  at,
		ProductArea: area,
	})
	if err != nil {
		t.Fatalf("insert signal: %v", err)
	}
}

func TestCalculateCHIWeightedAverage(t *testing.T) {
	st := store.NewMemoryStore(model.DefaultProductAreas(), "")
	clock := &fakeClock{now: chiNow}
	engine := NewEngine(st, nil, clock, time.Minute)

	seedSignal(t, st, -0.8, 10, "Network", chiNow.Add(-30*time.Minute))
	seedSignal(t, st, 0.2, 5, "Network", chiNow.Add(-20*time.Minute))

	result, err := engine.CalculateCHI(60, "")
	if err != nil {
		t.Fatalf("CalculateCHI: %v", err)
	}
	if result == nil {
		t.Fatal("CalculateCHI returned nil, want a result")
	}

	// weighted avg = (-8 + 1) / 15 = -0.4667, score = round(26.67) = 27
	if result.Score != 27 {
		t.Errorf("score = %d, want 27", result.Score)
	}
	if result.SignalCount != 2 {
		t.Errorf("signal count = %d, want 2", result.SignalCount)
	}
	if result.TotalWeight != 15 {
		t.Errorf("total weight = %d, want 15", result.TotalWeight)
	}
}

func TestCalculateCHINoData(t *testing.T) {
	st := store.NewMemoryStore(model.DefaultProductAreas(), "")
	engine := NewEngine(st, nil, &fakeClock{now: chiNow}, time.Minute)

	result, err := engine.CalculateCHI(60, "")
	if err != nil {
		t.Fatalf("CalculateCHI: %v", err)
	}
	if result != nil {
		t.Errorf("empty window result = %+v, want nil (no data is not a zero score)", result)
	}
}

func TestCalculateCHIScoreBounds(t *testing.T) {
	tests := []struct {
		name      string
		sentiment float64
		want      int
	}{
		{"uniformly negative", -1, 0},
		{"uniformly positive", 1, 100},
		{"neutral", 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore(model.DefaultProductAreas(), "")
			engine := NewEngine(st, nil, &fakeClock{now: chiNow}, time.Minute)
			seedSignal(t, st, tt.sentiment, 4, "Network", chiNow.Add(-10*time.Minute))

			result, err := engine.CalculateCHI(60, "")
			if err != nil {
				t.Fatalf("CalculateCHI: %v", err)
			}
			if result.Score != tt.want {
				t.Errorf("score = %d, want %d", result.Score, tt.want)
			}
		})
	}
}

func TestCalculateCHIAreaFilter(t *testing.T) {
	st := store.NewMemoryStore(model.DefaultProductAreas(), "")
	engine := NewEngine(st, nil, &fakeClock{now: chiNow}, time.Minute)

	seedSignal(t, st, -1, 1, "Network", chiNow.Add(-10*time.Minute))
	seedSignal(t, st, 1, 1, "Billing", chiNow.Add(-10*time.Minute))

	network, err := engine.CalculateCHI(60, "Network")
	if err != nil {
		t.Fatalf("CalculateCHI: %v", err)
	}
	if network.Score != 0 || network.SignalCount != 1 {
		t.Errorf("network score/count = %d/%d, want 0/1", network.Score, network.SignalCount)
	}

	all, err := engine.CalculateCHI(60, "")
	if err != nil {
		t.Fatalf("CalculateCHI: %v", err)
	}
	if all.Score != 50 || all.SignalCount != 2 {
		t.Errorf("unfiltered score/count = %d/%d, want 50/2", all.Score, all.SignalCount)
	}
}

func TestCalculateCHICachesResult(t *testing.T) {
	st := store.NewMemoryStore(model.DefaultProductAreas(), "")
	c := cache.NewMemoryCache(time.Hour, time.Hour)
	engine := NewEngine(st, c, &fakeClock{now: chiNow}, time.Hour)

	seedSignal(t, st, 0, 1, "Network", chiNow.Add(-10*time.Minute))

	first, err := engine.CalculateCHI(60, "")
	if err != nil {
		t.Fatalf("CalculateCHI: %v", err)
	}

	// New data inside the TTL must not change the cached answer.
	seedSignal(t, st, -1, 10, "Network", chiNow.Add(-5*time.Minute))

	second, err := engine.CalculateCHI(60, "")
	if err != nil {
		t.Fatalf("CalculateCHI: %v", err)
	}
	if second.Score != first.Score || second.SignalCount != first.SignalCount {
		t.Errorf("cached result changed: %+v vs %+v", second, first)
	}

	// A separate key (different window) sees the new data.
	fresh, err := engine.CalculateCHI(30, "")
	if err != nil {
		t.Fatalf("CalculateCHI: %v", err)
	}
	if fresh.SignalCount != 2 {
		t.Errorf("uncached window signal count = %d, want 2", fresh.SignalCount)
	}
}

func TestCalculateCHICorruptCacheRecomputes(t *testing.T) {
	st := store.NewMemoryStore(model.DefaultProductAreas(), "")
	c := cache.NewMemoryCache(time.Hour, time.Hour)
	engine := NewEngine(st, c, &fakeClock{now: chiNow}, time.Hour)

	seedSignal(t, st, 0, 1, "Network", chiNow.Add(-10*time.Minute))

	key := cache.CHIKey{WindowMinutes: 60}.String()
	if err := c.Set(key, []byte("{not json"), time.Hour); err != nil {
		t.Fatalf("seed corrupt entry: %v", err)
	}

	result, err := engine.CalculateCHI(60, "")
	if err != nil {
		t.Fatalf("CalculateCHI: %v", err)
	}
	if result == nil || result.Score != 50 {
		t.Errorf("corrupt cache result = %+v, want recomputed score 50", result)
	}
}

// stubSignals returns a fixed signal list regardless of query
type stubSignals struct {
	signals []model.Signal
}

func (s *stubSignals) InsertSignal(sig model.Signal) (model.Signal, error) { return sig, nil }
func (s *stubSignals) UpdateSignal(id string, patch model.SignalPatch) (model.Signal, error) {
	return model.Signal{}, nil
}
func (s *stubSignals) QuerySignals(q store.SignalQuery) ([]model.Signal, error) {
	return s.signals, nil
}

func TestCalculateCHIZeroIntensityWeighsAsOne(t *testing.T) {
	st := &stubSignals{signals: []model.Signal{
		{Sentiment: -1, Intensity: 0, DetectedAt: chiNow.Add(-10 * time.Minute)},
		{Sentiment: 1, Intensity: 1, DetectedAt: chiNow.Add(-10 * time.Minute)},
	}}
	engine := NewEngine(st, nil, &fakeClock{now: chiNow}, time.Minute)

	result, err := engine.CalculateCHI(60, "")
	if err != nil {
		t.Fatalf("CalculateCHI: %v", err)
	}
	// Both weigh 1: avg 0, score 50. A zero weight would give score 100.
	if result.Score != 50 {
		t.Errorf("score = %d, want 50", result.Score)
	}
	if result.TotalWeight != 2 {
		t.Errorf("total weight = %d, want 2", result.TotalWeight)
	}
}

func TestTrend(t *testing.T) {
	st := store.NewMemoryStore(model.DefaultProductAreas(), "")
	engine := NewEngine(st, nil, &fakeClock{now: chiNow}, time.Minute)

	// Previous window [now-120m, now-60m): uniformly negative, score 0.
	seedSignal(t, st, -1, 2, "Network", chiNow.Add(-90*time.Minute))
	// Current window [now-60m, now): neutral, score 50.
	seedSignal(t, st, 0, 2, "Network", chiNow.Add(-30*time.Minute))

	trend, err := engine.Trend(60, "")
	if err != nil {
		t.Fatalf("Trend: %v", err)
	}
	if trend != 50 {
		t.Errorf("trend = %d, want +50", trend)
	}
}

func TestTrendBaselineBypassesCache(t *testing.T) {
	st := store.NewMemoryStore(model.DefaultProductAreas(), "")
	c := cache.NewMemoryCache(time.Hour, time.Hour)
	engine := NewEngine(st, c, &fakeClock{now: chiNow}, time.Hour)

	// Previous window [now-120m, now-60m): uniformly negative, score 0.
	seedSignal(t, st, -1, 1, "Network", chiNow.Add(-90*time.Minute))
	// Current window [now-60m, now): neutral, score 50.
	seedSignal(t, st, 0, 1, "Network", chiNow.Add(-30*time.Minute))

	// A live cached entry under the same (window, area) key. The current
	// score must come from it; the baseline must not.
	stale, err := json.Marshal(model.CHIResult{Score: 80, SignalCount: 9, WindowMinutes: 60})
	if err != nil {
		t.Fatalf("marshal cached result: %v", err)
	}
	key := cache.CHIKey{WindowMinutes: 60}.String()
	if err := c.Set(key, stale, time.Hour); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	trend, err := engine.Trend(60, "")
	if err != nil {
		t.Fatalf("Trend: %v", err)
	}
	// cached current 80 minus freshly computed baseline 0. A baseline
	// read from the cache would yield 0 instead.
	if trend != 80 {
		t.Errorf("trend = %d, want 80 (baseline recomputed from the store)", trend)
	}
}

func TestTrendEmptyWindows(t *testing.T) {
	st := store.NewMemoryStore(model.DefaultProductAreas(), "")
	engine := NewEngine(st, nil, &fakeClock{now: chiNow}, time.Minute)

	// No data at all: trend 0.
	trend, err := engine.Trend(60, "")
	if err != nil {
		t.Fatalf("Trend: %v", err)
	}
	if trend != 0 {
		t.Errorf("trend with no data = %d, want 0", trend)
	}

	// Current window has data, previous does not: still 0.
	seedSignal(t, st, 1, 1, "Network", chiNow.Add(-10*time.Minute))
	trend, err = engine.Trend(60, "")
	if err != nil {
		t.Fatalf("Trend: %v", err)
	}
	if trend != 0 {
		t.Errorf("trend with empty baseline = %d, want 0", trend)
	}
}
