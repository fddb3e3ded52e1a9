package pipeline

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/revelaction/lemrule/model"
	sent "github.com/revelaction/lemrule/sentence"
)

// reToken splits text into standalone clitics ('s), dotted abbreviations
// (U.S.), numbers, words with internal hyphens or apostrophes, and single
// punctuation runes.
var reToken = regexp.MustCompile(`(?i:n['’]t|['’](?:s|m|re|ve|ll|d))\b|(?:\pL\.){2,}|\pN+(?:[.,:]\pN+)*|[\pL\pN]+(?:[-'’][\pL\pN]+)*|\S`)

// contraction suffixes split from the word they are attached to
var clitics = []string{"n't", "'s", "'m", "'re", "'ve", "'ll", "'d"}

type Tokenizer struct {
	model *model.Model
}

func NewTokenizer(m *model.Model) *Tokenizer {
	return &Tokenizer{model: m}
}

func (t *Tokenizer) Name() string {
	return TokenizerName
}

// Process normalizes the text to NFC and splits it into tokens. Token Idx is
// the rune offset in the normalized text.
func (t *Tokenizer) Process(a *Annotation) error {
	a.Text = norm.NFC.String(a.Text)
	a.Sentences = nil

	var tokens []sent.Token
	lastByte, lastRune := 0, 0

	matches := reToken.FindAllStringIndex(a.Text, -1)
	for i := 0; i < len(matches); i++ {
		start, end := matches[i][0], matches[i][1]
		lastRune += utf8.RuneCountInString(a.Text[lastByte:start])
		lastByte = start
		word := a.Text[start:end]

		// keep the period of known abbreviations (Mr.)
		if i+1 < len(matches) && matches[i+1][0] == end && a.Text[end:matches[i+1][1]] == "." {
			if t.model.IsAbbrev(word + ".") {
				word += "."
				i++
			}
		}

		for _, part := range splitClitics(word) {
			tokens = append(tokens, sent.Token{
				Id:   len(tokens),
				Text: part,
				Idx:  lastRune,
			})
			n := len(part)
			lastRune += utf8.RuneCountInString(a.Text[lastByte : lastByte+n])
			lastByte += n
		}
	}

	if len(tokens) > 0 {
		a.Sentences = [][]sent.Token{tokens}
	}

	return nil
}

// splitClitics splits "don't" in "do", "n't" and "I'm" in "I", "'m".
func splitClitics(word string) []string {
	w := strings.ReplaceAll(word, "’", "'")
	lower := strings.ToLower(w)
	for _, c := range clitics {
		if len(lower) > len(c) && strings.HasSuffix(lower, c) {
			cut := len(w) - len(c)
			// w and word differ in byte length when ’ was replaced
			if len(w) != len(word) {
				cut = len(word) - (len(c) + 2)
			}
			return []string{word[:cut], word[cut:]}
		}
	}
	return []string{word}
}
