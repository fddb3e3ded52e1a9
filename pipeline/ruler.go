package pipeline

import (
	"github.com/revelaction/lemrule/model"
	"github.com/revelaction/lemrule/rule"
)

// AttributeRuler overrides token attributes with the rules of its table. It
// runs after the tagger, so a rule can fix a tag, and before the lemmatizer,
// which keeps the lemmas set by a rule.
type AttributeRuler struct {
	model *model.Model
	table *rule.Table
}

func NewAttributeRuler(m *model.Model, t *rule.Table) *AttributeRuler {
	if t == nil {
		t = rule.NewTable()
	}
	return &AttributeRuler{model: m, table: t}
}

func (r *AttributeRuler) Name() string {
	return AttributeRulerName
}

// AddRule adds a rule setting lemma on the tokens whose exact text is text.
func (r *AttributeRuler) AddRule(text, lemma string) error {
	return r.table.AddRule(text, lemma)
}

func (r *AttributeRuler) Add(ru rule.Rule) error {
	return r.table.Add(ru)
}

func (r *AttributeRuler) Table() *rule.Table {
	return r.table
}

func (r *AttributeRuler) Process(a *Annotation) error {
	if r.table.Len() == 0 {
		return nil
	}

	for i, s := range a.Sentences {
		out := r.table.Apply(s)
		for j := range out {
			// a rule that changed the tag but not the pos keeps them consistent
			if out[j].Tag != s[j].Tag && out[j].Pos == s[j].Pos {
				out[j].Pos = r.model.Coarse(out[j].Tag)
			}
		}
		a.Sentences[i] = out
	}

	return nil
}
