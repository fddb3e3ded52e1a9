package pipeline

import (
	"strings"

	"github.com/revelaction/lemrule/model"
	sent "github.com/revelaction/lemrule/sentence"
)

// Parser assigns dependency labels and heads with a rule based labeller: it
// finds the auxiliaries and the main verb, chunks the noun phrases and labels
// them by their position relative to the main verb. Heads are doc wide token
// ids. The root token is its own head.
type Parser struct {
	model *model.Model
}

func NewParser(m *model.Model) *Parser {
	return &Parser{model: m}
}

func (p *Parser) Name() string {
	return ParserName
}

func (p *Parser) Process(a *Annotation) error {
	for _, s := range a.Sentences {
		p.parse(s)
	}
	return nil
}

// parseState holds the labels of one sentence. Heads are indexes local to the
// sentence until they are converted to token ids.
type parseState struct {
	s    []sent.Token
	dep  []string
	head []int
	root int
}

func (p *Parser) parse(s []sent.Token) {
	n := len(s)
	if n == 0 {
		return
	}

	ps := &parseState{s: s, dep: make([]string, n), head: make([]int, n)}
	for i := range ps.head {
		ps.head[i] = -1
	}

	auxOf := p.auxiliaries(s)
	ps.root = p.findRoot(s, auxOf)
	ps.set(ps.root, "ROOT", ps.root)

	for i, v := range auxOf {
		if v < 0 {
			continue
		}
		main := resolve(auxOf, v)
		label := "aux"
		if p.lemma(s[i]) == "be" && s[main].Tag == "VBN" {
			label = "auxpass"
		}
		ps.set(i, label, main)
	}

	for i := 0; i < n; {
		if ps.dep[i] != "" {
			i++
			continue
		}
		i = p.label(ps, i)
	}

	for i := range s {
		s[i].Dep = ps.dep[i]
		s[i].Head = s[ps.head[i]].Id
		if ps.dep[i] == "aux" || ps.dep[i] == "auxpass" {
			if s[i].Tag != "TO" {
				s[i].Pos = "AUX"
			}
		}
	}
}

// label labels the token at i and the phrase it starts. It returns the index
// of the next unlabelled candidate.
func (p *Parser) label(ps *parseState, i int) int {
	s := ps.s
	t := s[i]

	switch {
	case t.Pos == "PUNCT":
		ps.set(i, "punct", ps.root)

	case t.Tag == "IN":
		ps.set(i, "prep", p.attach(ps, i))
		if st, end, h := chunk(s, i+1); h >= 0 {
			ps.phrase(st, end, h, "pobj", i)
			return end
		}

	case startsNP(t.Tag):
		st, end, h := chunk(s, i)
		if h < 0 {
			return p.adjectives(ps, st, end)
		}
		ps.phrase(st, end, h, p.nounRole(ps, h), ps.root)
		return end

	case t.Tag == "MD" || isVerb(t.Tag):
		label := "ccomp"
		switch {
		case i > 0 && s[i-1].Tag == "TO":
			label = "xcomp"
		case ps.coordinated(i):
			label = "conj"
		case i < ps.root:
			label = "advcl"
		}
		ps.set(i, label, ps.root)

	case strings.HasPrefix(t.Tag, "RB") || t.Tag == "WRB":
		label := "advmod"
		if k := model.Key(t.Text); k == "not" || k == "n't" {
			label = "neg"
		}
		ps.set(i, label, p.verbNear(ps, i))

	case t.Tag == "CC":
		ps.set(i, "cc", ps.root)

	case t.Tag == "RP":
		ps.set(i, "prt", p.verbNear(ps, i))

	case t.Tag == "UH":
		ps.set(i, "intj", ps.root)

	case t.Tag == "TO":
		ps.set(i, "aux", p.nextVerb(s, i))

	default:
		ps.set(i, "dep", ps.root)
	}

	return i + 1
}

// auxiliaries returns, for every token, the index of the verb it is an
// auxiliary of, or -1.
func (p *Parser) auxiliaries(s []sent.Token) []int {
	auxOf := make([]int, len(s))
	for i := range s {
		auxOf[i] = -1
		t := s[i]

		if t.Tag == "TO" {
			continue
		}

		if t.Tag != "MD" && !(isVerb(t.Tag) && p.model.IsAuxiliary(p.lemma(t))) {
			continue
		}

		if j := p.nextVerb(s, i); j >= 0 && j != i {
			auxOf[i] = j
		}
	}
	return auxOf
}

// nextVerb returns the verb following i, skipping adverbs and negations, or
// -1.
func (p *Parser) nextVerb(s []sent.Token, i int) int {
	for k := i + 1; k < len(s); k++ {
		switch {
		case strings.HasPrefix(s[k].Tag, "RB"):
			continue
		case isVerb(s[k].Tag):
			return k
		}
		return -1
	}
	return -1
}

func (p *Parser) findRoot(s []sent.Token, auxOf []int) int {
	for i, t := range s {
		if isVerb(t.Tag) && auxOf[i] < 0 {
			return i
		}
	}

	for i, t := range s {
		if isVerb(t.Tag) || t.Tag == "MD" {
			return i
		}
	}

	// verbless sentence: the head of the first noun phrase
	for i := 0; i < len(s); i++ {
		if !startsNP(s[i].Tag) {
			continue
		}
		_, end, h := chunk(s, i)
		if h >= 0 {
			return h
		}
		i = end - 1
	}

	for i, t := range s {
		if t.Pos != "PUNCT" {
			return i
		}
	}

	return 0
}

// nounRole labels a noun phrase headed at h by its position relative to the
// root.
func (p *Parser) nounRole(ps *parseState, h int) string {
	if ps.root == h {
		return "ROOT"
	}

	if h < ps.root {
		for k := h + 1; k < ps.root; k++ {
			if ps.dep[k] == "auxpass" {
				return "nsubjpass"
			}
		}
		return "nsubj"
	}

	if p.lemma(ps.s[ps.root]) == "be" {
		return "attr"
	}

	for k := ps.root + 1; k < h; k++ {
		if ps.dep[k] == "dobj" {
			return "npadvmod"
		}
	}
	return "dobj"
}

// adjectives labels a phrase of adjectives without a noun.
func (p *Parser) adjectives(ps *parseState, st, end int) int {
	label := "amod"
	if st > ps.root && p.lemma(ps.s[ps.root]) == "be" {
		label = "acomp"
	}

	last := end - 1
	for k := st; k < end; k++ {
		if k == last {
			ps.set(k, label, ps.root)
			continue
		}
		ps.set(k, "advmod", last)
	}

	if end == st {
		ps.set(st, "dep", ps.root)
		return st + 1
	}
	return end
}

// attach returns the head of a preposition: the nearest verb or noun before
// it, or the root.
func (p *Parser) attach(ps *parseState, i int) int {
	for k := i - 1; k >= 0; k-- {
		t := ps.s[k]
		if ps.dep[k] == "aux" || ps.dep[k] == "auxpass" {
			continue
		}
		if isVerb(t.Tag) || strings.HasPrefix(t.Tag, "NN") {
			return k
		}
	}
	return ps.root
}

func (p *Parser) verbNear(ps *parseState, i int) int {
	if j := p.nextVerb(ps.s, i); j >= 0 {
		return resolveDep(ps, j)
	}
	for k := i - 1; k >= 0; k-- {
		if isVerb(ps.s[k].Tag) {
			return resolveDep(ps, k)
		}
	}
	return ps.root
}

func (p *Parser) lemma(t sent.Token) string {
	if t.Lemma != "" {
		return strings.ToLower(t.Lemma)
	}
	if e, ok := p.model.Lookup(t.Text); ok {
		return e.Lemma
	}
	return model.Key(t.Text)
}

// set labels the token at i. The root keeps its label.
func (ps *parseState) set(i int, dep string, head int) {
	if i == ps.root && ps.dep[i] == "ROOT" {
		return
	}
	if head < 0 {
		head = ps.root
	}
	ps.dep[i] = dep
	ps.head[i] = head
}

// phrase labels the noun phrase s[st:end] headed at h.
func (ps *parseState) phrase(st, end, h int, role string, governor int) {
	if role == "ROOT" {
		ps.set(h, role, h)
	} else {
		ps.set(h, role, governor)
	}

	for k := st; k < end; k++ {
		if k == h {
			continue
		}

		tag := ps.s[k].Tag
		switch {
		case tag == "DT" || tag == "PDT":
			ps.set(k, "det", h)
		case tag == "PRP$" || tag == "WP$":
			ps.set(k, "poss", h)
		case strings.HasPrefix(tag, "JJ"):
			ps.set(k, "amod", h)
		case tag == "CD":
			ps.set(k, "nummod", h)
		case tag == "POS":
			ps.set(k, "case", k-1)
		case strings.HasPrefix(tag, "NN") && k+1 < end && ps.s[k+1].Tag == "POS":
			ps.set(k, "poss", h)
		case tag == "HYPH":
			ps.set(k, "punct", h)
		default:
			ps.set(k, "compound", h)
		}
	}
}

// coordinated reports whether a coordinating conjunction sits between the
// root and i.
func (ps *parseState) coordinated(i int) bool {
	for k := ps.root + 1; k < i; k++ {
		if ps.s[k].Tag == "CC" {
			return true
		}
	}
	return false
}

// chunk returns the noun phrase starting at start and its head, the last noun
// (or number, if there is no noun). h is -1 if the phrase has no head.
func chunk(s []sent.Token, start int) (st, end, h int) {
	if start >= len(s) {
		return start, start, -1
	}

	switch s[start].Tag {
	case "PRP", "EX", "WP", "WDT":
		return start, start + 1, start
	}

	lastNoun, lastNum := -1, -1
	k := start
LOOP:
	for ; k < len(s); k++ {
		tag := s[k].Tag
		switch {
		case tag == "DT" || tag == "PDT" || tag == "PRP$" || tag == "WP$":
			if k != start {
				break LOOP
			}
		case strings.HasPrefix(tag, "JJ"), tag == "POS", tag == "HYPH":
		case tag == "CD":
			lastNum = k
		case strings.HasPrefix(tag, "NN"):
			lastNoun = k
		default:
			break LOOP
		}
	}

	h = lastNoun
	if h < 0 {
		h = lastNum
	}

	// a lone determiner is a pronoun (I like this)
	if h < 0 && k == start+1 && (s[start].Tag == "DT" || s[start].Tag == "PDT") {
		h = start
	}

	// trailing modifiers after the head belong to the next phrase
	if h >= 0 && lastNoun >= 0 {
		for k > h+1 && s[k-1].Tag != "CD" {
			k--
		}
	}

	return start, k, h
}

func startsNP(tag string) bool {
	switch tag {
	case "DT", "PDT", "PRP", "PRP$", "WP", "WP$", "WDT", "EX", "CD":
		return true
	}
	return strings.HasPrefix(tag, "NN") || strings.HasPrefix(tag, "JJ")
}

func isVerb(tag string) bool {
	return strings.HasPrefix(tag, "VB")
}

// resolve follows an auxiliary chain (will -> have -> flown) to its main verb.
func resolve(auxOf []int, i int) int {
	for seen := 0; auxOf[i] >= 0 && seen < len(auxOf); seen++ {
		i = auxOf[i]
	}
	return i
}

func resolveDep(ps *parseState, i int) int {
	if (ps.dep[i] == "aux" || ps.dep[i] == "auxpass") && ps.head[i] >= 0 {
		return ps.head[i]
	}
	return i
}
