package sentiment

// boostEntry is one domain phrase with a signed sentiment weight
type boostEntry struct {
	phrase string
	weight float64
}

// boostLexicon covers telecom outage/quality/resolution vocabulary that a
// general-purpose lexical scorer underweights. Matched weights are
// averaged and blended into the normalized score at boostBlendWeight.
var boostLexicon = []boostEntry{
	// Outage vocabulary
	{"outage", -0.8},
	{"no service", -0.9},
	{"no signal", -0.8},
	{"completely down", -0.9},
	{"down again", -0.8},
	{"dead zone", -0.7},
	{"can't connect", -0.7},
	{"cannot connect", -0.7},
	{"dropped call", -0.7},
	{"dropped calls", -0.7},
	{"disconnected", -0.6},

	// Quality vocabulary
	{"slow", -0.4},
	{"buffering", -0.5},
	{"laggy", -0.5},
	{"spotty", -0.5},
	{"unreliable", -0.6},
	{"overcharged", -0.7},
	{"billing error", -0.7},
	{"hidden fee", -0.7},
	{"on hold", -0.4},
	{"no response", -0.6},

	// Resolution vocabulary
	{"resolved", 0.6},
	{"fixed", 0.6},
	{"restored", 0.7},
	{"back online", 0.7},
	{"back up", 0.5},
	{"working again", 0.6},
	{"helpful", 0.5},
	{"quick response", 0.6},
	{"great coverage", 0.7},
	{"fast speeds", 0.6},
	{"upgraded", 0.4},
}

// boostBlendWeight is the fixed share of the final score contributed by
// the domain lexicon when at least one phrase matches.
const boostBlendWeight = 0.2

// negationTokens flag text whose polarity is likely inverted; surfaced in
// the diagnostic details, not used to rewrite the lexical score (the
// lexical scorer handles negation internally).
var negationTokens = map[string]bool{
	"not": true, "no": true, "never": true, "none": true, "nothing": true,
	"cannot": true, "can't": true, "won't": true, "don't": true,
	"didn't": true, "doesn't": true, "isn't": true, "wasn't": true,
	"aren't": true, "weren't": true, "couldn't": true, "shouldn't": true,
	"wouldn't": true, "ain't": true,
}
