package rule

import (
	sent "github.com/revelaction/lemrule/sentence"
)

// Table is an ordered set of rules. Rules are applied in registration
// order, so for the same token and attribute the last registered rule wins.
//
// A Table is not safe for concurrent Add and Apply.
type Table struct {
	rules []Rule
}

func NewTable() *Table {
	return &Table{}
}

// AddRule registers a rule assigning lemma to every token whose text is
// exactly pattern.
func (t *Table) AddRule(pattern, lemma string) error {
	return t.Add(Rule{
		Pattern: []PatternItem{{sent.TEXT: pattern}},
		Attrs:   map[sent.Attr]string{sent.LEMMA: lemma},
	})
}

// Add validates and appends r.
func (t *Table) Add(r Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}

	t.rules = append(t.rules, clone(r))
	return nil
}

// Rules returns a copy of the registered rules.
func (t *Table) Rules() []Rule {
	rules := make([]Rule, 0, len(t.rules))
	for _, r := range t.rules {
		rules = append(rules, clone(r))
	}
	return rules
}

func (t *Table) Len() int {
	return len(t.rules)
}

// Apply returns a copy of tokens with the rule attributes assigned. Patterns
// are matched against the input tokens, not against the output of previous
// rules.
func (t *Table) Apply(tokens []sent.Token) []sent.Token {
	out := make([]sent.Token, len(tokens))
	copy(out, tokens)

	for _, r := range t.rules {
		n := len(r.Pattern)
	START:
		for start := 0; start+n <= len(tokens); start++ {
			for j, item := range r.Pattern {
				if !item.Match(tokens[start+j]) {
					continue START
				}
			}

			idx := start + r.target()
			for a, v := range r.Attrs {
				out[idx], _ = out[idx].With(a, v)
			}
		}
	}

	return out
}

func clone(r Rule) Rule {
	c := Rule{Index: r.Index, Attrs: make(map[sent.Attr]string, len(r.Attrs))}
	for a, v := range r.Attrs {
		c.Attrs[a] = v
	}

	for _, item := range r.Pattern {
		ci := make(PatternItem, len(item))
		for a, v := range item {
			ci[a] = v
		}
		c.Pattern = append(c.Pattern, ci)
	}

	return c
}
