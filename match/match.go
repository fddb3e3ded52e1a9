package match

import (
	"errors"
	"fmt"
	"strings"

	sent "github.com/revelaction/lemrule/sentence"
)

var ErrSyntax = errors.New("predicate syntax error")

// Cond compares one annotation field of a token with Value.
//
// Value supports the operators of the topic expressions:
//
//	VBG|VBN   the field is one of the values
//	!ROOT     the field is not the value
type Cond struct {
	Attr  sent.Attr
	Value string
}

func (c Cond) Match(t sent.Token) bool {
	v := t.Get(c.Attr)

	if strings.HasPrefix(c.Value, "!") {
		return strings.TrimPrefix(c.Value, "!") != v
	}

	// optimistically try to split possible OR values
	// If no "|" just one value
	for _, orValue := range strings.Split(c.Value, "|") {
		if orValue == v {
			return true
		}
	}

	return false
}

func (c Cond) String() string {
	return strings.ToLower(c.Attr.String()) + "=" + c.Value
}

// Clause is a conjunction: a token matches when all conds match.
type Clause []Cond

func (cl Clause) Match(t sent.Token) bool {
	for _, c := range cl {
		if !c.Match(t) {
			return false
		}
	}
	return true
}

func (cl Clause) String() string {
	sl := []string{}
	for _, c := range cl {
		sl = append(sl, c.String())
	}
	return strings.Join(sl, ",")
}

// Predicate is a disjunction of clauses. An empty Predicate matches no
// token.
type Predicate []Clause

func (p Predicate) Match(t sent.Token) bool {
	for _, cl := range p {
		if cl.Match(t) {
			return true
		}
	}
	return false
}

func (p Predicate) String() string {
	sl := []string{}
	for _, cl := range p {
		sl = append(sl, "("+cl.String()+")")
	}
	return strings.Join(sl, " | ")
}

// Default selects the main gerund verb of a sentence and the proper nouns
// that are objects of a preposition:
//
//	(dep=ROOT, tag=VBG) | (dep=pobj, tag=NNP)
func Default() Predicate {
	return Predicate{
		{{Attr: sent.DEP, Value: "ROOT"}, {Attr: sent.TAG, Value: "VBG"}},
		{{Attr: sent.DEP, Value: "pobj"}, {Attr: sent.TAG, Value: "NNP"}},
	}
}

// ParseClause parses "dep=ROOT,tag=VBG|VBN".
func ParseClause(s string) (Clause, error) {
	var cl Clause
	for _, f := range strings.Split(s, ",") {
		if strings.TrimSpace(f) == "" {
			continue
		}

		name, value, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("%w: want attr=value, got %q", ErrSyntax, strings.TrimSpace(f))
		}

		a, err := sent.ParseAttr(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}

		value = strings.TrimSpace(value)
		if value == "" || value == "!" {
			return nil, fmt.Errorf("%w: empty value for %s", ErrSyntax, a)
		}

		cl = append(cl, Cond{Attr: a, Value: value})
	}

	if len(cl) == 0 {
		return nil, fmt.Errorf("%w: empty clause", ErrSyntax)
	}

	return cl, nil
}

// SplitClauses splits a predicate typed on one line into its clauses. Clauses
// are separated by ";" or by " | " as printed by Predicate.String, so values
// may contain spaces (lemma=San Francisco).
func SplitClauses(s string) []string {
	s = strings.ReplaceAll(s, " | ", ";")

	clauses := []string{}
	for _, cl := range strings.Split(s, ";") {
		cl = strings.TrimSpace(cl)
		cl = strings.TrimSuffix(strings.TrimPrefix(cl, "("), ")")
		if cl = strings.TrimSpace(cl); cl != "" {
			clauses = append(clauses, cl)
		}
	}
	return clauses
}

// ParsePredicate parses one clause per element.
func ParsePredicate(clauses []string) (Predicate, error) {
	var p Predicate
	for _, s := range clauses {
		cl, err := ParseClause(s)
		if err != nil {
			return nil, err
		}
		p = append(p, cl)
	}
	return p, nil
}

// Extract returns the lemmas of the tokens of s matching p, in sentence
// order. The result is never nil.
func Extract(s sent.Sentence, p Predicate) []string {
	lemmas := []string{}
	for _, t := range s.Tokens {
		if p.Match(t) {
			lemmas = append(lemmas, t.Lemma)
		}
	}
	return lemmas
}

// ExtractDoc returns one lemma list per sentence of doc.
func ExtractDoc(doc sent.Doc, p Predicate) [][]string {
	res := make([][]string, 0, len(doc.Sentences))
	for _, s := range doc.Sentences {
		res = append(res, Extract(s, p))
	}
	return res
}

// Tokens returns the matching tokens of s, used by renderers that need more
// than the lemma.
func Tokens(s sent.Sentence, p Predicate) []sent.Token {
	tokens := []sent.Token{}
	for _, t := range s.Tokens {
		if p.Match(t) {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
