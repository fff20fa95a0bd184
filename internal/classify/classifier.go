// Package classify assigns a topic label and product area to free text
// by matching extracted keywords against per-area rule lists.
package classify

import (
	"strings"

	"github.com/netpulse-io/netpulse/internal/model"
)

// minConfidence is the floor below which classification falls back to
// the General area with zero confidence.
const minConfidence = 0.2

// Result is the classifier output for one text item
type Result struct {
	Topic       string   `json:"topic"`
	Keywords    []string `json:"keywords"`
	ProductArea string   `json:"product_area"`
	Confidence  float64  `json:"confidence"` // [0, 1]
}

// Classifier matches keywords against product-area rules
type Classifier struct {
	areas []model.ProductArea
}

// NewClassifier creates a classifier over the given reference areas.
// Area order is significant: earlier areas win match-count ties.
func NewClassifier(areas []model.ProductArea) *Classifier {
	return &Classifier{areas: areas}
}

// Classify extracts keywords and picks the best-matching product area.
// Empty text yields an empty topic and the General fallback.
func (c *Classifier) Classify(text string) Result {
	keywords := ExtractKeywords(text)
	if len(keywords) == 0 {
		return Result{
			Topic:       topicFromText(text),
			Keywords:    []string{},
			ProductArea: model.GeneralAreaName,
			Confidence:  0,
		}
	}

	bestArea := ""
	bestMatches := 0
	for _, area := range c.areas {
		matches := countMatches(keywords, area.KeywordRules)
		if matches > bestMatches {
			bestMatches = matches
			bestArea = area.Name
		}
	}

	confidence := float64(bestMatches) / float64(len(keywords))
	if confidence > 1 {
		confidence = 1
	}

	if confidence < minConfidence {
		bestArea = model.GeneralAreaName
		confidence = 0
	}

	return Result{
		Topic:       topicFromKeywords(keywords, text),
		Keywords:    keywords,
		ProductArea: bestArea,
		Confidence:  confidence,
	}
}

// countMatches counts keywords that hit any rule of one area. A keyword
// matches a rule on equality or substring containment in either
// direction; each keyword counts at most once per area.
func countMatches(keywords []string, rules []string) int {
	matches := 0
	for _, kw := range keywords {
		for _, rule := range rules {
			rule = strings.ToLower(rule)
			if kw == rule || strings.Contains(kw, rule) || strings.Contains(rule, kw) {
				matches++
				break
			}
		}
	}
	return matches
}

// topicFromKeywords builds a short label from the top extracted keywords
func topicFromKeywords(keywords []string, raw string) string {
	n := 3
	if len(keywords) < n {
		n = len(keywords)
	}
	if n == 0 {
		return topicFromText(raw)
	}
	return strings.Join(keywords[:n], " ")
}

// topicFromText falls back to the first few words of the raw text
func topicFromText(text string) string {
	words := strings.Fields(strings.TrimSpace(text))
	if len(words) == 0 {
		return ""
	}
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.ToLower(strings.Join(words, " "))
}
