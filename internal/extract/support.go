package extract

import (
	"encoding/json"
	"strings"

	"github.com/netpulse-io/netpulse/internal/model"
)

// supportPayload is the shape produced by the support-desk exporter.
// Only customer-authored comments carry sentiment worth scoring; agent
// replies are dropped.
type supportPayload struct {
	TicketID string           `json:"ticket_id"`
	Comments []supportComment `json:"comments"`
}

type supportComment struct {
	Message    string `json:"message"`
	AuthorRole string `json:"author_role"`
}

// SupportCommentAdapter extracts customer comments from a ticket
type SupportCommentAdapter struct{}

// Source returns the support comment source tag
func (a *SupportCommentAdapter) Source() model.Source { return model.SourceSupportComment }

// Extract returns one item per customer-authored comment. Comments with
// a missing role are assumed to be from the customer.
func (a *SupportCommentAdapter) Extract(payload json.RawMessage) ([]Item, error) {
	var p supportPayload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}

	var items []Item
	for _, c := range p.Comments {
		role := strings.ToLower(strings.TrimSpace(c.AuthorRole))
		if role != "" && role != "customer" {
			continue
		}
		text := strings.TrimSpace(c.Message)
		if text == "" {
			continue
		}
		items = append(items, Item{Text: text})
	}
	return items, nil
}
