package sentence

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Attr names an annotation field of a Token.
type Attr int

const (
	TEXT Attr = iota
	LOWER
	NORM
	LEMMA
	POS
	TAG
	DEP
)

var attrNames = [...]string{
	TEXT:  "TEXT",
	LOWER: "LOWER",
	NORM:  "NORM",
	LEMMA: "LEMMA",
	POS:   "POS",
	TAG:   "TAG",
	DEP:   "DEP",
}

func (a Attr) String() string {
	if a < 0 || int(a) >= len(attrNames) {
		return fmt.Sprintf("Attr(%d)", int(a))
	}
	return attrNames[a]
}

// Settable reports whether rules may assign the field.
func (a Attr) Settable() bool {
	switch a {
	case LEMMA, POS, TAG:
		return true
	}
	return false
}

// MarshalText and UnmarshalText let Attr be used as a yaml/json map key.
func (a Attr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Attr) UnmarshalText(b []byte) error {
	v, err := ParseAttr(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Attrs returns all attributes in declaration order.
func Attrs() []Attr {
	return []Attr{TEXT, LOWER, NORM, LEMMA, POS, TAG, DEP}
}

// ParseAttr is case insensitive: "lemma", "LEMMA" and "Lemma" are the same.
func ParseAttr(s string) (Attr, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range attrNames {
		if n == up {
			return Attr(i), nil
		}
	}
	return 0, fmt.Errorf("unknown attribute %q", s)
}

// Norm lowercases s and strips diacritics (Frísco -> frisco).
func Norm(s string) string {
	// a chained transformer keeps state, build one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}
