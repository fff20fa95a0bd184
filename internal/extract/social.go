package extract

import (
	"encoding/json"
	"strings"

	"github.com/netpulse-io/netpulse/internal/model"
)

// socialPayload is the shape produced by social media scrapers:
// a batch of posts, each with text and an optional coarse location.
type socialPayload struct {
	Posts []socialPost `json:"posts"`
}

type socialPost struct {
	Text     string          `json:"text"`
	Author   string          `json:"author"`
	PostedAt string          `json:"posted_at"`
	Location *model.GeoPoint `json:"location"`
}

// SocialPostAdapter extracts one item per post
type SocialPostAdapter struct{}

// Source returns the social post source tag
func (a *SocialPostAdapter) Source() model.Source { return model.SourceSocialPost }

// Extract returns one item per non-empty post. Posts missing text are
// skipped rather than failing the event.
func (a *SocialPostAdapter) Extract(payload json.RawMessage) ([]Item, error) {
	var p socialPayload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}

	var items []Item
	for _, post := range p.Posts {
		text := strings.TrimSpace(post.Text)
		if text == "" {
			continue
		}
		items = append(items, Item{Text: text, Geo: post.Location})
	}
	return items, nil
}
