package extract

import (
	"encoding/json"
	"strings"

	"github.com/netpulse-io/netpulse/internal/model"
)

// outagePayload is the shape produced by outage-tracker feeds
type outagePayload struct {
	Reports []outageReport `json:"reports"`
}

type outageReport struct {
	Description string  `json:"description"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Severity    string  `json:"severity"`
}

// OutageReportAdapter extracts one item per outage report
type OutageReportAdapter struct{}

// Source returns the outage report source tag
func (a *OutageReportAdapter) Source() model.Source { return model.SourceOutageReport }

// Extract returns one item per report with a non-empty description.
// The severity tag is folded into the text so the scorer sees it.
func (a *OutageReportAdapter) Extract(payload json.RawMessage) ([]Item, error) {
	var p outagePayload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}

	var items []Item
	for _, r := range p.Reports {
		text := strings.TrimSpace(r.Description)
		if text == "" {
			continue
		}
		if sev := strings.TrimSpace(r.Severity); sev != "" {
			text = text + " (severity: " + sev + ")"
		}

		var geo *model.GeoPoint
		if r.City != "" || r.Lat != 0 || r.Lng != 0 {
			geo = &model.GeoPoint{Lat: r.Lat, Lng: r.Lng, City: r.City}
		}
		items = append(items, Item{Text: text, Geo: geo})
	}
	return items, nil
}
