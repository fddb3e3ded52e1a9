package pipeline

import (
	"strings"
	"unicode/utf8"

	"github.com/revelaction/lemrule/model"
	sent "github.com/revelaction/lemrule/sentence"
)

// Lemmatizer assigns the base form of every token that has no lemma yet.
// Lemmas set by the attribute ruler are kept.
type Lemmatizer struct {
	model *model.Model
}

func NewLemmatizer(m *model.Model) *Lemmatizer {
	return &Lemmatizer{model: m}
}

func (l *Lemmatizer) Name() string {
	return LemmatizerName
}

func (l *Lemmatizer) Process(a *Annotation) error {
	for _, s := range a.Sentences {
		for i := range s {
			if s[i].Lemma != "" {
				continue
			}
			s[i].Lemma = l.Lemma(s[i])
		}
	}
	return nil
}

// Lemma returns the lemma of t from its text and tags.
func (l *Lemmatizer) Lemma(t sent.Token) string {
	switch t.Pos {
	case "PROPN", "PUNCT", "SYM", "NUM":
		return t.Text
	}

	key := model.Key(t.Text)
	group := lemmaGroup(t.Pos)

	if e, ok := l.model.Lookup(t.Text); ok && e.Lemma != "" {
		if group == "" || lemmaGroup(l.model.Coarse(e.Tag)) == group {
			return e.Lemma
		}
	}

	if group == "" {
		return key
	}

	if lemma, ok := l.model.Exceptions[group][key]; ok {
		return lemma
	}

	if !isInflected(t.Tag) {
		return key
	}

	candidates := l.candidates(group, key)
	for _, c := range candidates {
		if l.model.InIndex(group, c) {
			return c
		}
	}

	if l.model.InIndex(group, key) {
		return key
	}

	if len(candidates) > 0 {
		return candidates[0]
	}

	return key
}

// candidates applies the suffix rules of group to word, in rule order.
func (l *Lemmatizer) candidates(group, word string) []string {
	var out []string
	for _, s := range l.model.Suffixes[group] {
		if !strings.HasSuffix(word, s.From) || len(word) == len(s.From) {
			continue
		}

		c := word[:len(word)-len(s.From)] + s.To
		if utf8.RuneCountInString(c) < 2 {
			continue
		}
		out = append(out, c)
	}
	return out
}

// lemmaGroup maps a coarse tag to the key of the exceptions, suffixes and
// index tables.
func lemmaGroup(pos string) string {
	switch pos {
	case "VERB", "AUX":
		return "verb"
	case "NOUN":
		return "noun"
	case "ADJ":
		return "adj"
	}
	return ""
}

func isInflected(tag string) bool {
	switch tag {
	case "NNS", "VBZ", "VBD", "VBN", "VBG", "JJR", "JJS":
		return true
	}
	return false
}
