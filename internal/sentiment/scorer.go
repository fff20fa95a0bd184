// Package sentiment scores free text to a bounded sentiment value with a
// confidence and transparent diagnostic detail. The lexical base score
// comes from VADER; a fixed telecom lexicon nudges domain vocabulary the
// general-purpose lexicon underweights. Contracts: score ∈ [-1,1],
// confidence ∈ [0,1] for any input, and internal scorer failures degrade
// to a neutral result instead of propagating.
package sentiment

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/jonreiter/govader"
)

// Result is the scorer output for one text item
type Result struct {
	Score           float64                `json:"score"`      // final blended score [-1, 1]
	Confidence      float64                `json:"confidence"` // [0, 1]
	RawScore        float64                `json:"raw_score"`  // lexical positive minus negative mass
	NormalizedScore float64                `json:"normalized_score"`
	Details         map[string]interface{} `json:"details,omitempty"`
}

// Scorer scores text items. Safe for concurrent use.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewScorer creates a scorer with the default VADER lexicon
func NewScorer() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

var repeatedPunct = regexp.MustCompile(`!{3,}|\?{3,}|\.{3,}|,{3,}`)

// Score scores one text item. Empty or whitespace-only input yields a
// neutral result with zero confidence.
func (s *Scorer) Score(text string) Result {
	cleaned := Preprocess(text)
	if cleaned == "" {
		return Result{Details: map[string]interface{}{"quality": "empty"}}
	}

	compound, raw, ok := s.lexicalScore(cleaned)
	if !ok {
		// Scorer failure: neutral with token confidence, never propagate.
		return Result{Confidence: 0.1, Details: map[string]interface{}{"quality": "error"}}
	}

	normalized := clamp(compound)

	// Domain boost: average matched phrase weights, blend at a fixed share.
	boostAvg, boostMatches := s.boost(cleaned)
	final := normalized
	if boostMatches > 0 {
		final = clamp((1-boostBlendWeight)*normalized + boostBlendWeight*boostAvg)
	}

	quality, wordCount, uniqueness, punctDensity := classifyQuality(cleaned)
	contributing := s.contributingTokens(cleaned) + boostMatches
	confidence := confidenceFor(quality, contributing, len(strings.TrimSpace(text)))

	return Result{
		Score:           final,
		Confidence:      confidence,
		RawScore:        raw,
		NormalizedScore: normalized,
		Details: map[string]interface{}{
			"quality":             quality,
			"word_count":          wordCount,
			"uniqueness":          uniqueness,
			"punctuation_density": punctDensity,
			"contributing_tokens": contributing,
			"boost_matches":       boostMatches,
			"boost_avg":           boostAvg,
			"negation":            containsNegation(cleaned),
		},
	}
}

// lexicalScore runs VADER, recovering from any internal panic
func (s *Scorer) lexicalScore(text string) (compound, raw float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			compound, raw, ok = 0, 0, false
		}
	}()

	scores := s.analyzer.PolarityScores(text)
	return scores.Compound, scores.Positive - scores.Negative, true
}

// boost scans for domain phrases and averages their weights
func (s *Scorer) boost(text string) (avg float64, matches int) {
	lower := strings.ToLower(text)
	var sum float64
	for _, entry := range boostLexicon {
		if strings.Contains(lower, entry.phrase) {
			sum += entry.weight
			matches++
		}
	}
	if matches == 0 {
		return 0, 0
	}
	return sum / float64(matches), matches
}

// contributingTokens counts distinct tokens the lexical scorer weights
func (s *Scorer) contributingTokens(text string) int {
	seen := make(map[string]bool)
	count := 0
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,!?;:\"'()")
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		if s.tokenWeighted(token) {
			count++
		}
	}
	return count
}

func (s *Scorer) tokenWeighted(token string) (weighted bool) {
	defer func() {
		if r := recover(); r != nil {
			weighted = false
		}
	}()
	return s.analyzer.PolarityScores(token).Compound != 0
}

// Preprocess collapses whitespace, caps repeated punctuation at three,
// and de-shouts ALL-CAPS tokens longer than three characters.
func Preprocess(text string) string {
	text = repeatedPunct.ReplaceAllStringFunc(text, func(run string) string {
		return run[:3]
	})

	fields := strings.Fields(text)
	for i, f := range fields {
		if len(f) > 3 && isAllCaps(f) {
			fields[i] = strings.ToLower(f)
		}
	}
	return strings.Join(fields, " ")
}

func isAllCaps(token string) bool {
	hasLetter := false
	for _, r := range token {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// classifyQuality bands text into low/medium/high per word count,
// vocabulary uniqueness, and punctuation density.
func classifyQuality(text string) (quality string, wordCount int, uniqueness, punctDensity float64) {
	words := strings.Fields(text)
	wordCount = len(words)

	unique := make(map[string]bool)
	for _, w := range words {
		unique[strings.ToLower(w)] = true
	}
	if wordCount > 0 {
		uniqueness = float64(len(unique)) / float64(wordCount)
	}

	punct := 0
	for _, r := range text {
		if unicode.IsPunct(r) {
			punct++
		}
	}
	if len(text) > 0 {
		punctDensity = float64(punct) / float64(len(text))
	}

	switch {
	case wordCount < 3 || punctDensity > 0.3 || (wordCount >= 5 && uniqueness < 0.3):
		quality = "low"
	case wordCount >= 10 && len(text) >= 50 && uniqueness > 0.6:
		quality = "high"
	default:
		quality = "medium"
	}
	return quality, wordCount, uniqueness, punctDensity
}

// confidenceFor combines the quality band with the count of weighted
// tokens, then penalizes very short text.
func confidenceFor(quality string, contributing int, textLen int) float64 {
	var base float64
	switch quality {
	case "high":
		base = 0.9
	case "medium":
		base = 0.6
	default:
		base = 0.3
	}

	tokenFactor := 0.7 + 0.3*math.Min(1, float64(contributing)/5.0)
	confidence := base * tokenFactor

	if textLen < 10 {
		confidence *= 0.5
	} else if textLen < 20 {
		confidence *= 0.8
	}

	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

// containsNegation reports whether any token is a negation marker
func containsNegation(text string) bool {
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,!?;:\"'()")
		if negationTokens[token] || strings.HasSuffix(token, "n't") {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
