package stat

import (
	"github.com/revelaction/lemrule/match"
	sent "github.com/revelaction/lemrule/sentence"
)

type Handler struct {
	stats     Stats
	predicate match.Predicate
}

type Stats struct {
	NumDocs               int
	NumSentences          int
	NumTokens             int
	TokensPerSentenceMean float64
	TokensPerSentenceDis  map[int]int

	// counts per fine grained tag and per dependency label
	Tags map[string]int
	Deps map[string]int

	// lemmas extracted by the predicate
	NumExtracted int
	Extracted    map[string]int
}

func (h *Handler) Get() Stats {
	return h.stats
}

// NewHandler returns a Handler counting the lemmas extracted by p.
func NewHandler(p match.Predicate) *Handler {
	stats := Stats{
		TokensPerSentenceDis: map[int]int{},
		Tags:                 map[string]int{},
		Deps:                 map[string]int{},
		Extracted:            map[string]int{},
	}
	return &Handler{
		stats:     stats,
		predicate: p,
	}
}

// Aggregate adds the counts of doc.
func (h *Handler) Aggregate(doc sent.Doc) {
	h.stats.NumDocs++
	h.stats.NumSentences += len(doc.Sentences)

	for _, sentence := range doc.Sentences {
		h.stats.NumTokens += len(sentence.Tokens)
		h.stats.TokensPerSentenceDis[len(sentence.Tokens)]++

		for _, t := range sentence.Tokens {
			h.stats.Tags[t.Tag]++
			h.stats.Deps[t.Dep]++
		}

		for _, lemma := range match.Extract(sentence, h.predicate) {
			h.stats.NumExtracted++
			h.stats.Extracted[lemma]++
		}
	}

	if h.stats.NumSentences > 0 {
		h.stats.TokensPerSentenceMean = float64(h.stats.NumTokens) / float64(h.stats.NumSentences)
	}
}
