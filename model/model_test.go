package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tiny = `
name: tiny
lang: en
version: 0.0.1
tag_map: {NN: NOUN, VBG: VERB}
lexicon:
  going: {tag: VBG, lemma: go}
index:
  verb: [go]
auxiliaries: [Be]
abbrevs: [Mr.]
`

func TestRegistryBuiltin(t *testing.T) {
	m, err := NewRegistry().Load(Default)
	require.NoError(t, err)

	assert.Equal(t, Default, m.Name)
	assert.Equal(t, "en", m.Lang)
	assert.Equal(t, "VERB", m.Coarse("VBG"))
	assert.Equal(t, "PROPN", m.Coarse("NNP"))
	assert.Equal(t, "X", m.Coarse("ZZ"))

	e, ok := m.Lookup("Flown")
	require.True(t, ok)
	assert.Equal(t, Entry{Tag: "VBN", Lemma: "fly"}, e)

	assert.True(t, m.InIndex("VERB", "fly"))
	assert.True(t, m.IsAuxiliary("have"))
	assert.True(t, m.IsAbbrev("Mr."))
}

func TestRegistryDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiny.yaml"), []byte(tiny), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	reg := NewRegistry("", filepath.Join(dir, "missing"), dir)

	names, err := reg.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{Default, "tiny"}, names)

	m, err := reg.Load("tiny")
	require.NoError(t, err)
	assert.True(t, m.IsAuxiliary("be"))
	assert.True(t, m.IsAbbrev("MR."))
	assert.True(t, m.InIndex("VERB", "go"))
}

func TestRegistryNotFound(t *testing.T) {
	reg := NewRegistry(t.TempDir())

	for _, name := range []string{"", "xx_missing", "../en_rule_sm", `a\b`} {
		_, err := reg.Load(name)
		assert.ErrorIs(t, err, ErrModelNotFound, name)
	}
}

func TestRegistryNameMismatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte(tiny), 0o644))

	_, err := NewRegistry(dir).Load("other")
	assert.ErrorIs(t, err, ErrInvalidModel)
}

func TestParseInvalid(t *testing.T) {
	tests := map[string]string{
		"syntax":      "name: [",
		"no name":     "tag_map: {NN: NOUN}",
		"no tag map":  "name: x",
		"unknown tag": "name: x\ntag_map: {NN: NOUN}\nlexicon:\n  dog: {tag: NNS}\n",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.ErrorIs(t, err, ErrInvalidModel)
		})
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "don't", Key("Don’t"))
	assert.Equal(t, "la", Key("LA"))
}

func TestSplitPath(t *testing.T) {
	assert.Nil(t, SplitPath(""))
	assert.Equal(t, []string{"a", "b"}, SplitPath("a"+string(os.PathListSeparator)+"b"))
}
