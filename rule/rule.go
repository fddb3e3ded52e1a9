package rule

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	sent "github.com/revelaction/lemrule/sentence"
)

var (
	ErrEmptyPattern = errors.New("rule pattern is empty")
	ErrEmptyAttrs   = errors.New("rule assigns no attributes")
	ErrEmptyValue   = errors.New("rule attribute value is empty")
	ErrBadAttr      = errors.New("attribute can not be assigned by a rule")
	ErrBadIndex     = errors.New("rule index out of pattern range")
	ErrSyntax       = errors.New("rule syntax error")
)

// PatternItem matches one token. All fields must be equal to the token
// values.
type PatternItem map[sent.Attr]string

// Match reports whether the token satisfies every field of the item.
func (p PatternItem) Match(t sent.Token) bool {
	for a, v := range p {
		if t.Get(a) != v {
			return false
		}
	}
	return true
}

// Rule assigns Attrs to the token at Index of every token sequence matching
// Pattern.
type Rule struct {
	Pattern []PatternItem        `yaml:"pattern" json:"pattern"`
	Attrs   map[sent.Attr]string `yaml:"attrs" json:"attrs"`

	// Index of the pattern token that receives the Attrs. Negative values
	// count from the end.
	Index int `yaml:"index,omitempty" json:"index,omitempty"`
}

// Validate checks the rule can be added to a Table.
func (r Rule) Validate() error {
	if len(r.Pattern) == 0 {
		return ErrEmptyPattern
	}

	for _, item := range r.Pattern {
		if len(item) == 0 {
			return ErrEmptyPattern
		}
		for a, v := range item {
			if v == "" {
				return fmt.Errorf("%w: %s", ErrEmptyPattern, a)
			}
		}
	}

	if len(r.Attrs) == 0 {
		return ErrEmptyAttrs
	}

	for a, v := range r.Attrs {
		if !a.Settable() {
			return fmt.Errorf("%w: %s", ErrBadAttr, a)
		}
		if v == "" {
			return fmt.Errorf("%w: %s", ErrEmptyValue, a)
		}
	}

	if r.Index >= len(r.Pattern) || r.Index < -len(r.Pattern) {
		return fmt.Errorf("%w: %d (pattern has %d tokens)", ErrBadIndex, r.Index, len(r.Pattern))
	}

	return nil
}

func (r Rule) target() int {
	if r.Index < 0 {
		return len(r.Pattern) + r.Index
	}
	return r.Index
}

// String renders the rule in the form accepted by Parse.
func (r Rule) String() string {
	items := []string{}
	for _, item := range r.Pattern {
		items = append(items, fieldsString(item))
	}

	s := strings.Join(items, " + ") + " => " + fieldsString(r.Attrs)
	if r.Index != 0 {
		s += " @" + strconv.Itoa(r.Index)
	}

	return s
}

func fieldsString(m map[sent.Attr]string) string {
	attrs := make([]sent.Attr, 0, len(m))
	for a := range m {
		attrs = append(attrs, a)
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i] < attrs[j] })

	fields := []string{}
	for _, a := range attrs {
		fields = append(fields, a.String()+":"+m[a])
	}

	return strings.Join(fields, ",")
}

// Equal determines if two rules have the same pattern, attrs and index.
func Equal(a, b Rule) bool {
	if a.Index != b.Index || len(a.Pattern) != len(b.Pattern) {
		return false
	}

	for i := range a.Pattern {
		if !equalFields(a.Pattern[i], b.Pattern[i]) {
			return false
		}
	}

	return equalFields(a.Attrs, b.Attrs)
}

func equalFields(a, b map[sent.Attr]string) bool {
	if len(a) != len(b) {
		return false
	}

	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
