package sentence

import (
	"strings"
)

type Doc struct {
	Id int `json:"id"`

	Title string `json:"title"`

	Labels    []string   `json:"labels,omitempty"`
	Sentences []Sentence `json:"sentences"`
}

// Library is a collection of Doc
type Library []Doc

// Tokens returns all tokens of the doc in order.
func (d Doc) Tokens() []Token {
	var tokens []Token
	for _, s := range d.Sentences {
		tokens = append(tokens, s.Tokens...)
	}
	return tokens
}

// Sentence is an ordered slice of tokens produced by the segmenter.
type Sentence struct {
	Id     int     `json:"id"`
	DocId  int     `json:"doc_id"`
	Tokens []Token `json:"tokens"`
}

// Text rebuilds the surface text of the sentence using the token offsets.
func (s Sentence) Text() string {
	var str strings.Builder
	var lastIdx, lastLen int
	for i, token := range s.Tokens {
		l := len([]rune(token.Text))
		if i > 0 {
			if gap := token.Idx - lastIdx - lastLen; gap > 0 {
				str.WriteString(strings.Repeat(" ", gap))
			}
		}

		str.WriteString(token.Text)
		lastIdx = token.Idx
		lastLen = l
	}

	return str.String()
}

// Token represents a word of the sentence, with POS and metadata.
type Token struct {
	Id         int    `json:"id"`
	Head       int    `json:"head"`
	SentenceId int    `json:"sent"`
	Pos        string `json:"pos"`
	Dep        string `json:"dep"`

	// Penn Treebank tag (VBG, NNP, ...)
	Tag string `json:"tag"`

	// the index of the start character (rune) of the token in the original text
	Idx int `json:"idx"`

	// The unmodified word
	Text string `json:"text"`

	// The lemma of the word
	Lemma string `json:"lemma"`

	// The index of the word in the sentence, starting at 0.
	Index int `json:"index"`
}

// Get returns the value of the annotation field a.
func (t Token) Get(a Attr) string {
	switch a {
	case TEXT:
		return t.Text
	case LOWER:
		return strings.ToLower(t.Text)
	case NORM:
		return Norm(t.Text)
	case LEMMA:
		return t.Lemma
	case POS:
		return t.Pos
	case TAG:
		return t.Tag
	case DEP:
		return t.Dep
	}

	return ""
}

// With returns a copy of t with the field a set to value. NORM and LOWER are
// derived from TEXT and can not be set.
func (t Token) With(a Attr, value string) (Token, bool) {
	switch a {
	case TEXT:
		t.Text = value
	case LEMMA:
		t.Lemma = value
	case POS:
		t.Pos = value
	case TAG:
		t.Tag = value
	case DEP:
		t.Dep = value
	default:
		return t, false
	}

	return t, true
}
