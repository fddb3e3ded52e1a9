package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/lemrule/match"
	sent "github.com/revelaction/lemrule/sentence"
)

// Record is the JSON form of the extraction of one sentence.
type Record struct {
	Doc      int      `json:"doc"`
	Sentence int      `json:"sentence"`
	Text     string   `json:"text"`
	Lemmas   []string `json:"lemmas"`
}

// JSONRenderer writes extraction records as JSON to a writer.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Render serializes the extraction of every sentence as a JSON array.
func (r *JSONRenderer) Render(sentences []sent.Sentence, p match.Predicate) error {
	records := make([]Record, 0, len(sentences))
	for _, s := range sentences {
		records = append(records, Record{
			Doc:      s.DocId,
			Sentence: s.Id,
			Text:     s.Text(),
			Lemmas:   match.Extract(s, p),
		})
	}

	return json.NewEncoder(r.W).Encode(records)
}
