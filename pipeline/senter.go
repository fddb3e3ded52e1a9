package pipeline

import (
	sent "github.com/revelaction/lemrule/sentence"
)

// Senter splits the token stream in sentences after terminal punctuation.
// Closing quotes and brackets following the terminal punctuation stay in the
// sentence. Abbreviations are kept whole by the tokenizer, so their period
// never reaches the senter as a separate token.
type Senter struct{}

func NewSenter() *Senter {
	return &Senter{}
}

func (s *Senter) Name() string {
	return SenterName
}

func (s *Senter) Process(a *Annotation) error {
	var tokens []sent.Token
	for _, sentence := range a.Sentences {
		tokens = append(tokens, sentence...)
	}

	var sentences [][]sent.Token
	var current []sent.Token
	ended := false

	for _, t := range tokens {
		if ended && !isCloser(t.Text) {
			sentences = append(sentences, current)
			current = nil
			ended = false
		}

		current = append(current, t)
		if isTerminal(t.Text) {
			ended = true
		}
	}

	if len(current) > 0 {
		sentences = append(sentences, current)
	}

	for i := range sentences {
		for j := range sentences[i] {
			sentences[i][j].SentenceId = i
			sentences[i][j].Index = j
		}
	}

	a.Sentences = sentences
	return nil
}

func isTerminal(text string) bool {
	switch text {
	case ".", "!", "?", "…":
		return true
	}
	return false
}

func isCloser(text string) bool {
	switch text {
	case "\"", "'", "”", "’", ")", "]", "»", ".", "!", "?":
		return true
	}
	return false
}
