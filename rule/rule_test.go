package rule

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sent "github.com/revelaction/lemrule/sentence"
)

func TestParseShort(t *testing.T) {
	r, err := Parse(" Frisco = San Francisco ")
	require.NoError(t, err)

	assert.Equal(t, []PatternItem{{sent.TEXT: "Frisco"}}, r.Pattern)
	assert.Equal(t, map[sent.Attr]string{sent.LEMMA: "San Francisco"}, r.Attrs)
	assert.Equal(t, "TEXT:Frisco => LEMMA:San Francisco", r.String())
}

func TestParseLong(t *testing.T) {
	r, err := Parse("LOWER:new + LOWER:york => TAG:NNP,LEMMA:New York @-1")
	require.NoError(t, err)

	assert.Len(t, r.Pattern, 2)
	assert.Equal(t, -1, r.Index)
	assert.Equal(t, "LOWER:new + LOWER:york => LEMMA:New York,TAG:NNP @-1", r.String())

	again, err := Parse(r.String())
	require.NoError(t, err)
	assert.True(t, Equal(r, again))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"Frisco", ErrSyntax},
		{"=San Francisco", ErrSyntax},
		{"Frisco=", ErrSyntax},
		{"TEXT:a => ", ErrSyntax},
		{"TEXT:a => DEP:nsubj", ErrBadAttr},
		{"TEXT:a => LEMMA:b @1", ErrBadIndex},
		{"TEXT:a => LEMMA:b @x", ErrSyntax},
		{"SHAPE:Xx => LEMMA:b", ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Parse(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Rule{}.Validate(), ErrEmptyPattern)
	assert.ErrorIs(t, Rule{Pattern: []PatternItem{{}}}.Validate(), ErrEmptyPattern)
	assert.ErrorIs(t, Rule{Pattern: []PatternItem{{sent.TEXT: "a"}}}.Validate(), ErrEmptyAttrs)
	assert.ErrorIs(t, Rule{
		Pattern: []PatternItem{{sent.TEXT: ""}},
		Attrs:   map[sent.Attr]string{sent.LEMMA: "x"},
	}.Validate(), ErrEmptyPattern)
	assert.ErrorIs(t, Rule{
		Pattern: []PatternItem{{sent.TEXT: "Frisco"}},
		Attrs:   map[sent.Attr]string{sent.LEMMA: ""},
	}.Validate(), ErrEmptyValue)
}

func tokens(texts ...string) []sent.Token {
	var out []sent.Token
	for i, s := range texts {
		out = append(out, sent.Token{Text: s, Lemma: s, Index: i})
	}
	return out
}

func TestTableApply(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.AddRule("Frisco", "San Francisco"))

	in := tokens("to", "Frisco", "and", "frisco")
	out := tbl.Apply(in)

	assert.Equal(t, "San Francisco", out[1].Lemma)
	assert.Equal(t, "frisco", out[3].Lemma, "TEXT patterns are case sensitive")
	assert.Equal(t, "Frisco", in[1].Lemma, "Apply must not modify its input")
}

func TestTableApplyLastWins(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.AddRule("Frisco", "San Francisco"))
	require.NoError(t, tbl.AddRule("Frisco", "SF"))

	out := tbl.Apply(tokens("Frisco"))
	assert.Equal(t, "SF", out[0].Lemma)
	assert.Equal(t, 2, tbl.Len())
}

func TestTableApplyIndex(t *testing.T) {
	r, err := Parse("LOWER:new + LOWER:york => LEMMA:New York,TAG:NNP @-1")
	require.NoError(t, err)

	tbl := NewTable()
	require.NoError(t, tbl.Add(r))

	out := tbl.Apply(tokens("in", "New", "York", "and", "new"))
	assert.Equal(t, "New", out[1].Lemma)
	assert.Equal(t, "New York", out[2].Lemma)
	assert.Equal(t, "NNP", out[2].Tag)
	assert.Equal(t, "new", out[4].Lemma)
}

func TestTableAddInvalid(t *testing.T) {
	tbl := NewTable()
	assert.ErrorIs(t, tbl.AddRule("", "x"), ErrEmptyPattern)
	assert.ErrorIs(t, tbl.AddRule("Frisco", ""), ErrEmptyValue)
	assert.Equal(t, 0, tbl.Len())
}

func TestTableRulesIsCopy(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.AddRule("Frisco", "San Francisco"))

	rules := tbl.Rules()
	rules[0].Attrs[sent.LEMMA] = "changed"

	out := tbl.Apply(tokens("Frisco"))
	assert.Equal(t, "San Francisco", out[0].Lemma)
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")

	r1, err := Parse("Frisco=San Francisco")
	require.NoError(t, err)
	r2, err := Parse("LOWER:new + LOWER:york => LEMMA:New York @1")
	require.NoError(t, err)

	require.NoError(t, WriteFile(path, []Rule{r1, r2}))

	rules, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.True(t, Equal(r1, rules[0]))
	assert.True(t, Equal(r2, rules[1]))
}

func TestLoadFileHandWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	data := "rules:\n  - pattern: [{TEXT: Frisco}]\n    attrs: {lemma: San Francisco}\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	rules, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "TEXT:Frisco => LEMMA:San Francisco", rules[0].String())
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	data := "rules:\n  - pattern: [{TEXT: Frisco}]\n    attrs: {DEP: pobj}\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrBadAttr)

	data = "rules:\n  - pattern: [{TEXT: Frisco}]\n    attrs: {LEMMA: \"\"}\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	_, err = LoadFile(path)
	assert.ErrorIs(t, err, ErrEmptyValue)

	data = "rules:\n  - pattern: [{TEXT: \"\"}]\n    attrs: {LEMMA: x}\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	_, err = LoadFile(path)
	assert.ErrorIs(t, err, ErrEmptyPattern)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
