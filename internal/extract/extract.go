// Package extract turns source-tagged raw event payloads into text items.
// Each source tag has its own adapter with a strongly-typed payload shape
// and a pure extraction function; the set of adapters is closed. An
// unrecognized source yields an empty sequence, never an error for the
// batch. Malformed payloads degrade to an empty or partial sequence.
package extract

import (
	"encoding/json"
	"fmt"

	"github.com/netpulse-io/netpulse/internal/logger"
	"github.com/netpulse-io/netpulse/internal/model"
)

// Item is one extractable text unit inside a raw event payload
type Item struct {
	Text string
	Geo  *model.GeoPoint
}

// Adapter defines a per-source extraction rule
type Adapter interface {
	// Source returns the source tag this adapter handles
	Source() model.Source

	// Extract produces zero or more items from the payload. No side effects.
	Extract(payload json.RawMessage) ([]Item, error)
}

// Registry maps source tags to adapters
type Registry struct {
	adapters map[model.Source]Adapter
}

// NewRegistry creates a registry with the built-in adapters
func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[model.Source]Adapter)}
	r.Register(&SocialPostAdapter{})
	r.Register(&OutageReportAdapter{})
	r.Register(&ForumThreadAdapter{})
	r.Register(&SupportCommentAdapter{})
	return r
}

// Register adds an adapter to the registry
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Source()] = a
}

// Extract runs the adapter for the event's source tag.
// Unknown sources and malformed payloads are logged and degrade to an
// empty item slice; the returned bool reports whether the source was known.
func (r *Registry) Extract(event model.RawEvent) ([]Item, bool) {
	adapter, known := r.adapters[event.Source]
	if !known {
		logger.Warn("extract: unrecognized source %q for event %s, skipping", event.Source, event.ID)
		return nil, false
	}

	items, err := adapter.Extract(event.Payload)
	if err != nil {
		logger.Warn("extract: %s payload for event %s: %v", event.Source, event.ID, err)
	}
	return items, true
}

func decode(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return fmt.Errorf("empty payload")
	}
	return json.Unmarshal(payload, v)
}
