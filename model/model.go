package model

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrModelNotFound = errors.New("model not found")
	ErrInvalidModel  = errors.New("invalid model")
)

// Entry is the annotation of a known word form.
type Entry struct {
	Tag   string `yaml:"tag"`
	Lemma string `yaml:"lemma,omitempty"`
}

// Suffix rewrites a word ending From into To to build a lemma candidate.
type Suffix struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Model is a lexicon-driven language model. All map keys are lowercase.
type Model struct {
	Name    string `yaml:"name"`
	Lang    string `yaml:"lang"`
	Version string `yaml:"version"`

	// TagMap maps fine grained tags (VBG) to coarse ones (VERB).
	TagMap map[string]string `yaml:"tag_map"`

	// Lexicon holds the known word forms with their tag and lemma.
	Lexicon map[string]Entry `yaml:"lexicon"`

	// Exceptions holds irregular forms per coarse tag (verb -> flew -> fly).
	Exceptions map[string]map[string]string `yaml:"exceptions"`

	// Suffixes holds lemma suffix rules per coarse tag, in priority order.
	Suffixes map[string][]Suffix `yaml:"suffixes"`

	// Index lists known base forms per coarse tag. A rule candidate found in
	// the index is preferred over the others.
	Index map[string][]string `yaml:"index"`

	// Auxiliaries are the lemmas that can act as auxiliary verbs.
	Auxiliaries []string `yaml:"auxiliaries"`

	// Abbrevs are tokens that keep their trailing period and do not end a
	// sentence (mr., e.g.).
	Abbrevs []string `yaml:"abbrevs"`

	index map[string]map[string]bool
	aux   map[string]bool
	abbr  map[string]bool
}

// Parse decodes and validates a YAML model.
func Parse(data []byte) (*Model, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}

	if err := m.init(); err != nil {
		return nil, err
	}

	return &m, nil
}

func (m *Model) init() error {
	if m.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidModel)
	}

	if len(m.TagMap) == 0 {
		return fmt.Errorf("%w: %s: missing tag_map", ErrInvalidModel, m.Name)
	}

	for form, e := range m.Lexicon {
		if _, ok := m.TagMap[e.Tag]; !ok {
			return fmt.Errorf("%w: %s: lexicon entry %q has unknown tag %q", ErrInvalidModel, m.Name, form, e.Tag)
		}
	}

	m.index = map[string]map[string]bool{}
	for pos, lemmas := range m.Index {
		set := make(map[string]bool, len(lemmas))
		for _, l := range lemmas {
			set[l] = true
		}
		m.index[pos] = set
	}

	m.aux = toSet(m.Auxiliaries)
	m.abbr = toSet(m.Abbrevs)
	return nil
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return set
}

// Lookup returns the lexicon entry of the lowercase form of word. Typographic
// apostrophes match the ASCII ones of the lexicon.
func (m *Model) Lookup(word string) (Entry, bool) {
	e, ok := m.Lexicon[Key(word)]
	return e, ok
}

// Key is the lexicon key of word.
func Key(word string) string {
	return strings.ReplaceAll(strings.ToLower(word), "’", "'")
}

// Coarse returns the coarse tag of a fine grained tag, "X" if unknown.
func (m *Model) Coarse(tag string) string {
	if pos, ok := m.TagMap[tag]; ok {
		return pos
	}
	return "X"
}

// InIndex reports whether lemma is a known base form for the coarse tag pos.
func (m *Model) InIndex(pos, lemma string) bool {
	return m.index[strings.ToLower(pos)][lemma]
}

func (m *Model) IsAuxiliary(lemma string) bool {
	return m.aux[strings.ToLower(lemma)]
}

func (m *Model) IsAbbrev(token string) bool {
	return m.abbr[strings.ToLower(token)]
}
