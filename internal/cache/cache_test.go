package cache

import (
	"testing"
	"time"
)

func TestCHIKeyString(t *testing.T) {
	tests := []struct {
		key  CHIKey
		want string
	}{
		{CHIKey{WindowMinutes: 60}, "netpulse:v1:chi:w60:all"},
		{CHIKey{WindowMinutes: 30, ProductArea: "Network"}, "netpulse:v1:chi:w30:Network"},
	}
	for _, tt := range tests {
		if got := tt.key.String(); got != tt.want {
			t.Errorf("CHIKey%+v = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestMemoryCacheBasics(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("Get on empty cache reported a hit")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, found := c.Get("k")
	if !found || string(data) != "v" {
		t.Errorf("Get = %q/%v, want v/true", data, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Get after Delete reported a hit")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("entry survived past its TTL")
	}
}

func TestMemoryCacheDefaults(t *testing.T) {
	c := NewMemoryCache(0, 0)

	// Zero TTL on Set falls back to the cache default, which is long
	// enough that the entry is still live here.
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, found := c.Get("k")
	if !found || string(data) != "v" {
		t.Errorf("Get = %q/%v, want v/true", data, found)
	}
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_ = c.Set("a", []byte("1"), time.Minute)
	_ = c.Set("b", []byte("2"), time.Minute)
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("entry survived Clear")
	}
}
