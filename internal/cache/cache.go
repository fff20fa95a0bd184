package cache

import (
	"fmt"
	"time"
)

// Cache defines the interface for caching computed aggregates.
// The CHI cache is process-local by design; a shared implementation can
// be swapped in behind this interface for multi-instance deployments.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Clock abstracts time so TTL behavior is testable deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock
type SystemClock struct{}

// Now returns the current wall-clock time
func (SystemClock) Now() time.Time { return time.Now() }

// CHIKey identifies one cached happiness-index computation.
type CHIKey struct {
	WindowMinutes int
	ProductArea   string
}

// String renders the versioned cache key
func (k CHIKey) String() string {
	area := k.ProductArea
	if area == "" {
		area = "all"
	}
	return fmt.Sprintf("netpulse:v1:chi:w%d:%s", k.WindowMinutes, area)
}
