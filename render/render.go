package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-runewidth"

	"github.com/revelaction/lemrule/match"
	sent "github.com/revelaction/lemrule/sentence"
)

const (
	Defaultformat = "list"
	titleWidth    = 20
)

var (
	Black   = "\033[1;30m"
	Red     = "\033[1;31m"
	Green   = "\033[1;32m"
	Yellow  = "\033[0;33m"
	Purple  = "\033[1;34m"
	Magenta = "\033[1;35m"
	Teal    = "\033[1;36m"
	Gray    = "\033[0;37m"
	White   = "\033[1;37m"
	Off     = "\033[0m"
	//Yellow256  = "\033[1;38;5;202m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
	ClearLine = "\033[K"
)

// SupportedFormats returns the formats of the Renderer. The json format is
// served by the JSONRenderer.
func SupportedFormats() []string {
	return []string{"list", "text", "table"}
}

type Renderer struct {
	Out io.Writer

	HasColor bool

	HasPrefix bool

	PrefixFunc func(sent.Sentence) string

	// Format determines the format of the sentence
	//
	// list: the extracted lemmas as a list literal
	// text: the sentence text, extracted tokens highlighted
	// table: one row per token with all its attributes
	Format string

	DocNames map[int]string
}

func NewRenderer() *Renderer {
	return &Renderer{Out: os.Stdout, Format: Defaultformat, DocNames: map[int]string{}}
}

func (r *Renderer) AddDocName(docId int, name string) {
	r.DocNames[docId] = name
}

// Sentences writes every sentence of sentences in the current format.
func (r *Renderer) Sentences(sentences []sent.Sentence, p match.Predicate) {
	for _, s := range sentences {
		r.Sentence(s, p)
	}
}

// Doc writes the sentences of doc in the current format.
func (r *Renderer) Doc(doc sent.Doc, p match.Predicate) {
	r.Sentences(doc.Sentences, p)
}

// Sentence writes s in the current format. Tokens satisfying p are the
// extracted ones.
func (r *Renderer) Sentence(s sent.Sentence, p match.Predicate) {
	prefix := r.buildPrefix(s)
	matches := match.Tokens(s, p)

	switch r.Format {
	case "table":
		if prefix != "" {
			fmt.Fprintln(r.Out, prefix)
		}
		r.Table(s.Tokens)
	case "text":
		fmt.Fprintf(r.Out, "%s%s\n", prefix, r.SentenceString(s.Tokens, matches))
	default:
		fmt.Fprintf(r.Out, "%s%s\n", prefix, List(lemmas(matches)))
	}
}

// SentenceString returns the text of the sentence, the matches highlighted
// when HasColor is set.
func (r *Renderer) SentenceString(s []sent.Token, matches []sent.Token) string {
	text := r.sentence(s, matches)
	return strings.ReplaceAll(text, "\n", " ")
}

func (r *Renderer) sentence(sentence, matches []sent.Token) string {
	var str strings.Builder
	for i, token := range sentence {
		if i > 0 {
			prev := sentence[i-1]
			// Idx is a rune offset: the gap to the previous token end is the
			// whitespace of the source text
			if gap := token.Idx - (prev.Idx + len([]rune(prev.Text))); gap > 0 {
				str.WriteString(strings.Repeat(" ", gap))
			}
		}

		str.WriteString(colorToken(token, matches, r.HasColor))
	}

	return str.String()
}

// Table writes one row per token: Text Lemma Pos Tag Dep Head Id.
func (r *Renderer) Table(tokens []sent.Token) {
	w := tabwriter.NewWriter(r.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Id\tText\tLemma\tPos\tTag\tDep\tHead")
	for _, t := range tokens {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n", t.Id, t.Text, t.Lemma, t.Pos, t.Tag, t.Dep, t.Head)
	}
	w.Flush()
}

func lemmas(tokens []sent.Token) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Lemma)
	}
	return out
}

func colorToken(token sent.Token, matches []sent.Token, hasColor bool) string {
	if !hasColor {
		return token.Text
	}

	for _, mt := range matches {
		if mt.Id == token.Id {
			return Green256 + token.Text + Off
		}
	}

	return token.Text
}

func (r *Renderer) buildPrefix(s sent.Sentence) string {
	if !r.HasPrefix {
		return PrefixFuncEmpty(s)
	}

	if r.PrefixFunc != nil {
		return r.PrefixFunc(s)
	}

	// Default
	return fmt.Sprintf("[%s %2d %5d] ✍  ", r.title(s.DocId), s.DocId, s.Id)
}

func PrefixFuncEmpty(s sent.Sentence) string {
	return ""
}

func PrefixFuncIconHand(s sent.Sentence) string {
	return fmt.Sprintf("%2d ✍  ", s.Id)
}

func (r *Renderer) title(docId int) string {
	title := runewidth.Truncate(r.DocNames[docId], titleWidth, "")
	part := runewidth.FillRight(title, titleWidth)

	if !r.HasColor {
		return part
	}
	return Grey256 + part + Off
}

// NextFormat sets the Renderer Format option to a different one, following
// the SupportedFormats() order.
func (r *Renderer) NextFormat() {

	supported := SupportedFormats()
	for i, format := range supported {
		if format == r.Format {
			switch i {
			case len(supported) - 1:
				r.Format = supported[0]
			default:
				r.Format = supported[i+1]
			}

			break
		}
	}
}

func (r *Renderer) NextPrefix() {

	// toggle
	r.HasPrefix = !r.HasPrefix
}
