package pipeline

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/revelaction/lemrule/model"
	sent "github.com/revelaction/lemrule/sentence"
)

// Tagger assigns Penn Treebank tags from the model lexicon, falling back to
// capitalization and suffix heuristics, then corrects the tags with the
// context of the auxiliaries.
type Tagger struct {
	model *model.Model
}

func NewTagger(m *model.Model) *Tagger {
	return &Tagger{model: m}
}

func (t *Tagger) Name() string {
	return TaggerName
}

func (t *Tagger) Process(a *Annotation) error {
	for _, s := range a.Sentences {
		t.tag(s)
	}
	return nil
}

func (t *Tagger) tag(s []sent.Token) {
	for i := range s {
		s[i].Tag = t.lexical(s, i)
	}

	for i := range s {
		t.context(s, i)
	}

	for i := range s {
		s[i].Pos = t.model.Coarse(s[i].Tag)
	}
}

func (t *Tagger) lexical(s []sent.Token, i int) string {
	text := s[i].Text

	if tag := punctTag(text); tag != "" {
		return tag
	}

	if isNumber(text) {
		return "CD"
	}

	if model.Key(text) == "'s" {
		if i > 0 && (s[i-1].Tag == "PRP" || s[i-1].Tag == "EX" || s[i-1].Tag == "WP") {
			return "VBZ"
		}
		return "POS"
	}

	if e, ok := t.model.Lookup(text); ok {
		return e.Tag
	}

	first, _ := firstRune(text)
	if unicode.IsUpper(first) {
		// a capitalized first word may still be an inflected form
		if isFirstWord(s, i) {
			if tag := suffixTag(strings.ToLower(text)); tag == "VBG" || tag == "VBD" || tag == "RB" {
				return tag
			}
		}
		return "NNP"
	}

	return suffixTag(strings.ToLower(text))
}

// context corrects the tag of s[i] with the tags of its neighbours.
func (t *Tagger) context(s []sent.Token, i int) {
	tag := s[i].Tag
	prev := t.previousVerbal(s, i)

	switch {
	case prev >= 0 && t.lemmaOf(s[prev]) == "have" && tag == "VBD":
		s[i].Tag = "VBN"
	case prev >= 0 && t.lemmaOf(s[prev]) == "be" && tag == "VBD":
		s[i].Tag = "VBN"
	case prev >= 0 && s[prev].Tag == "MD" && (tag == "VBP" || tag == "VBZ"):
		s[i].Tag = "VB"
	case tag == "VBP" && i > 0 && (s[i-1].Tag == "DT" || s[i-1].Tag == "PRP$"):
		// a fly, my work
		s[i].Tag = "NN"
	case tag == "NNS" && i > 0 && isThirdPerson(s[i-1].Text):
		s[i].Tag = "VBZ"
	}

	// to + base verb
	if model.Key(s[i].Text) == "to" && i+1 < len(s) && t.isBaseVerb(s[i+1]) {
		s[i].Tag = "TO"
		s[i+1].Tag = "VB"
	}
}

// previousVerbal returns the index of the nearest verb or modal before i,
// skipping adverbs. -1 if the previous word is not verbal.
func (t *Tagger) previousVerbal(s []sent.Token, i int) int {
	for k := i - 1; k >= 0; k-- {
		switch {
		case strings.HasPrefix(s[k].Tag, "RB"):
			continue
		case strings.HasPrefix(s[k].Tag, "VB"), s[k].Tag == "MD":
			return k
		}
		return -1
	}
	return -1
}

func (t *Tagger) lemmaOf(tok sent.Token) string {
	if e, ok := t.model.Lookup(tok.Text); ok {
		return e.Lemma
	}
	return ""
}

func (t *Tagger) isBaseVerb(tok sent.Token) bool {
	if tok.Tag == "VB" || tok.Tag == "VBP" {
		return true
	}
	return tok.Tag == "NN" && t.model.InIndex("verb", model.Key(tok.Text))
}

func isThirdPerson(text string) bool {
	switch model.Key(text) {
	case "he", "she", "it":
		return true
	}
	return false
}

func isFirstWord(s []sent.Token, i int) bool {
	for k := 0; k < i; k++ {
		if punctTag(s[k].Text) == "" {
			return false
		}
	}
	return true
}

// suffixTag guesses the tag of an unknown lowercase word.
func suffixTag(w string) string {
	n := len([]rune(w))
	switch {
	case n > 4 && strings.HasSuffix(w, "ing"):
		return "VBG"
	case n > 3 && strings.HasSuffix(w, "ed"):
		return "VBD"
	case n > 3 && strings.HasSuffix(w, "ly"):
		return "RB"
	case n > 4 && hasAnySuffix(w, "ous", "ful", "ive", "able", "ible", "less", "ic", "al"):
		return "JJ"
	case n > 4 && hasAnySuffix(w, "est"):
		return "JJS"
	case n > 3 && strings.HasSuffix(w, "s") && !hasAnySuffix(w, "ss", "us", "is"):
		return "NNS"
	}
	return "NN"
}

func hasAnySuffix(w string, suffixes ...string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(w, s) {
			return true
		}
	}
	return false
}

func punctTag(text string) string {
	switch text {
	case ".", "!", "?", "…":
		return "."
	case ",":
		return ","
	case ":", ";", "--", "—", "–":
		return ":"
	case "\"", "“", "``":
		return "``"
	case "”", "''":
		return "''"
	case "(", "[", "{":
		return "-LRB-"
	case ")", "]", "}":
		return "-RRB-"
	case "-":
		return "HYPH"
	case "$", "€", "£":
		return "$"
	}

	r, size := firstRune(text)
	if size == len(text) && (unicode.IsPunct(r) || unicode.IsSymbol(r)) {
		return "SYM"
	}
	return ""
}

func isNumber(text string) bool {
	hasDigit := false
	for _, r := range text {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case r == '.' || r == ',' || r == ':':
		default:
			return false
		}
	}
	return hasDigit
}

func firstRune(s string) (rune, int) {
	if s == "" {
		return 0, 0
	}
	return utf8.DecodeRuneInString(s)
}
