package model

// ProductArea is a categorical bucket that feedback is classified into.
// Read-only reference data; rule order is significant for tie-breaking.
type ProductArea struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Color        string   `json:"color,omitempty"`
	KeywordRules []string `json:"keyword_rules"`
}

// GeneralAreaName is the fallback bucket for feedback that matches no
// area rules with enough confidence.
const GeneralAreaName = "General"

// DefaultProductAreas returns the built-in telecom reference areas.
func DefaultProductAreas() []ProductArea {
	return []ProductArea{
		{
			ID:    "network",
			Name:  "Network",
			Color: "#e74c3c",
			KeywordRules: []string{
				"network", "signal", "coverage", "outage", "down", "tower",
				"4g", "5g", "lte", "reception", "dead zone", "dropped",
				"no service", "connection",
			},
		},
		{
			ID:    "billing",
			Name:  "Billing",
			Color: "#f39c12",
			KeywordRules: []string{
				"bill", "billing", "charge", "charged", "overcharged",
				"payment", "invoice", "refund", "fee", "price", "plan",
				"contract", "autopay",
			},
		},
		{
			ID:    "customer-service",
			Name:  "Customer Service",
			Color: "#3498db",
			KeywordRules: []string{
				"support", "agent", "representative", "hold", "wait",
				"callback", "chat", "rude", "helpful", "service", "store",
				"ticket",
			},
		},
		{
			ID:    "mobile-app",
			Name:  "Mobile App",
			Color: "#9b59b6",
			KeywordRules: []string{
				"app", "login", "crash", "update", "password", "account",
				"notification", "error", "loading",
			},
		},
		{
			ID:    "home-internet",
			Name:  "Home Internet",
			Color: "#1abc9c",
			KeywordRules: []string{
				"internet", "wifi", "router", "modem", "broadband", "fiber",
				"speed", "slow", "buffering", "latency", "ping",
			},
		},
		{
			ID:    "tv-streaming",
			Name:  "TV & Streaming",
			Color: "#e67e22",
			KeywordRules: []string{
				"tv", "channel", "streaming", "stream", "video", "cable",
				"box", "remote", "guide", "recording",
			},
		},
		{
			ID:           "general",
			Name:         GeneralAreaName,
			Color:        "#95a5a6",
			KeywordRules: []string{},
		},
	}
}
