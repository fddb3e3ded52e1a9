package rule

import (
	"fmt"
	"strconv"
	"strings"

	sent "github.com/revelaction/lemrule/sentence"
)

// Parse parses the user input and converts it to a Rule.
//
// The short form assigns a lemma to an exact text:
//
//	Frisco=San Francisco
//
// The long form matches a token sequence and assigns attributes to one of its
// tokens (the first by default):
//
//	LOWER:new + LOWER:york => LEMMA:New York,TAG:NNP @-1
func Parse(s string) (Rule, error) {
	if strings.Contains(s, "=>") {
		return parseLong(s)
	}

	text, lemma, ok := strings.Cut(s, "=")
	text = strings.TrimSpace(text)
	lemma = strings.TrimSpace(lemma)
	if !ok || text == "" || lemma == "" {
		return Rule{}, fmt.Errorf("%w: want TEXT=LEMMA, got %q", ErrSyntax, s)
	}

	r := Rule{
		Pattern: []PatternItem{{sent.TEXT: text}},
		Attrs:   map[sent.Attr]string{sent.LEMMA: lemma},
	}
	return r, r.Validate()
}

func parseLong(s string) (Rule, error) {
	lhs, rhs, _ := strings.Cut(s, "=>")

	var r Rule
	if body, idx, ok := strings.Cut(rhs, "@"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(idx))
		if err != nil {
			return Rule{}, fmt.Errorf("%w: bad index %q", ErrSyntax, idx)
		}
		r.Index = n
		rhs = body
	}

	for _, part := range strings.Split(lhs, "+") {
		item, err := parseFields(part)
		if err != nil {
			return Rule{}, err
		}
		r.Pattern = append(r.Pattern, item)
	}

	attrs, err := parseFields(rhs)
	if err != nil {
		return Rule{}, err
	}
	r.Attrs = attrs

	return r, r.Validate()
}

// parseFields parses "ATTR:value,ATTR:value".
func parseFields(s string) (map[sent.Attr]string, error) {
	fields := map[sent.Attr]string{}
	for _, f := range strings.Split(s, ",") {
		if strings.TrimSpace(f) == "" {
			continue
		}

		name, value, ok := strings.Cut(f, ":")
		if !ok {
			return nil, fmt.Errorf("%w: want ATTR:value, got %q", ErrSyntax, strings.TrimSpace(f))
		}

		a, err := sent.ParseAttr(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}

		value = strings.TrimSpace(value)
		if value == "" {
			return nil, fmt.Errorf("%w: empty value for %s", ErrSyntax, a)
		}
		fields[a] = value
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields in %q", ErrSyntax, strings.TrimSpace(s))
	}

	return fields, nil
}
