package classify

import "strings"

// stopwords excluded from keyword extraction. Telecom feedback is short;
// a compact list keeps recall high without dragging in filler words.
var stopwords = map[string]bool{
	"is": true, "to": true, "of": true, "in": true, "on": true, "at": true,
	"it": true, "my": true, "me": true, "we": true, "be": true, "so": true,
	"up": true, "do": true, "go": true, "an": true, "as": true, "or": true,
	"if": true, "by": true, "us": true, "am": true, "no": true,
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"with": true, "was": true, "this": true, "that": true, "have": true,
	"has": true, "had": true, "not": true, "you": true, "your": true,
	"all": true, "can": true, "her": true, "his": true, "our": true,
	"out": true, "they": true, "them": true, "then": true, "than": true,
	"will": true, "would": true, "there": true, "their": true, "what": true,
	"when": true, "which": true, "been": true, "being": true, "just": true,
	"from": true, "into": true, "about": true, "after": true, "before": true,
	"because": true, "very": true, "really": true, "still": true,
	"again": true, "also": true, "only": true, "some": true, "such": true,
	"here": true, "more": true, "most": true, "over": true, "under": true,
	"why": true, "how": true, "who": true, "whom": true, "its": true,
	"it's": true, "i'm": true, "ive": true, "i've": true, "dont": true,
	"don't": true, "cant": true, "can't": true, "get": true, "got": true,
	"like": true, "one": true, "two": true, "now": true, "today": true,
	"day": true, "days": true, "week": true, "time": true, "every": true,
	"since": true, "back": true, "even": true, "any": true, "anyone": true,
	"else": true, "going": true, "getting": true,
}

// ExtractKeywords returns the deduplicated keyword list of a text in
// first-seen order: lowercase tokens, punctuation trimmed, stopwords and
// single-character tokens dropped. Two-character tokens survive so that
// terms like "5g" and "tv" remain classifiable.
func ExtractKeywords(text string) []string {
	seen := make(map[string]bool)
	var keywords []string

	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,!?;:\"'()[]{}#@&*")
		if len(token) < 2 || stopwords[token] || seen[token] {
			continue
		}
		seen[token] = true
		keywords = append(keywords, token)
	}
	return keywords
}
