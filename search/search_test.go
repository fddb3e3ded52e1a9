package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/lemrule/match"
	sent "github.com/revelaction/lemrule/sentence"
	"github.com/revelaction/lemrule/storage"
	"github.com/revelaction/lemrule/storage/filesystem"
)

func sentence(id int, lemmas ...string) sent.Sentence {
	s := sent.Sentence{Id: id}
	for i, l := range lemmas {
		tok := sent.Token{Text: l, Lemma: l, Index: i, Tag: "NN", Dep: "dobj"}
		if l == "fly" {
			tok.Tag, tok.Dep = "VBG", "ROOT"
		}
		s.Tokens = append(s.Tokens, tok)
	}
	return s
}

func newStore(t *testing.T) *filesystem.DocStore {
	t.Helper()

	store, err := filesystem.NewDocStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Write(sent.Doc{Title: "a", Sentences: []sent.Sentence{
		sentence(0, "I", "fly", "plane"),
		sentence(1, "I", "take", "plane"),
	}})
	require.NoError(t, err)

	_, err = store.Write(sent.Doc{Title: "b", Sentences: []sent.Sentence{
		sentence(0, "we", "fly", "home"),
	}})
	require.NoError(t, err)

	return store
}

func collect(t *testing.T, s *Search, lemmas ...string) []string {
	t.Helper()

	var got []string
	err := s.All(lemmas, func(sentence sent.Sentence) error {
		got = append(got, sentence.Tokens[len(sentence.Tokens)-1].Lemma)
		return nil
	})
	require.NoError(t, err)
	return got
}

func TestAllIndexed(t *testing.T) {
	store := newStore(t)

	assert.Equal(t, []string{"plane", "plane", "home"}, collect(t, New(store, match.Default())))
	assert.Equal(t, []string{"plane", "home"}, collect(t, New(store, match.Default()), "fly"))
	assert.Equal(t, []string{"plane"}, collect(t, New(store, match.Default()), "fly", "plane"))
	assert.Empty(t, collect(t, New(store, match.Default()), "boat"))
}

func TestAllMatching(t *testing.T) {
	store := newStore(t)

	got := collect(t, New(store, match.Default()).Matching(), "plane")
	assert.Equal(t, []string{"plane"}, got, "only the sentence with a VBG root")
}

func TestAllDocID(t *testing.T) {
	store := newStore(t)

	assert.Equal(t, []string{"home"}, collect(t, New(store, match.Default()).WithDocID(1)))
	assert.Equal(t, []string{"plane"}, collect(t, New(store, match.Default()).WithDocID(0), "take"))

	err := New(store, match.Default()).WithDocID(7).All(nil, func(sent.Sentence) error { return nil })
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSentencesPaging(t *testing.T) {
	store := newStore(t)
	s := New(store, match.Default())

	var got int
	cursor, err := s.Sentences(nil, 0, 2, func(sent.Sentence) error {
		got++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	next, err := s.Sentences(nil, cursor, 2, func(sent.Sentence) error {
		got++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	last, err := s.Sentences(nil, next, 2, func(sent.Sentence) error {
		got++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, next, last)
	assert.Equal(t, 3, got)
}
