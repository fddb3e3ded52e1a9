package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/lemrule/rule"
	sent "github.com/revelaction/lemrule/sentence"
	"github.com/revelaction/lemrule/storage"
)

func testDoc(title string, labels ...string) sent.Doc {
	return sent.Doc{
		Title:  title,
		Labels: labels,
		Sentences: []sent.Sentence{
			{Id: 0, Tokens: []sent.Token{
				{Id: 0, Text: "I", Lemma: "I"},
				{Id: 1, Text: "have", Lemma: "have"},
				{Id: 2, Text: "flown", Lemma: "fly"},
				{Id: 3, Text: "to", Lemma: "to"},
				{Id: 4, Text: "LA", Lemma: "LA"},
			}},
			{Id: 1, Tokens: []sent.Token{
				{Id: 5, Text: "Frisco", Lemma: "San Francisco"},
			}},
		},
	}
}

func TestDocStoreWriteRead(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDocStore(dir)
	require.NoError(t, err)

	id, err := store.Write(testDoc("Flights to LA", "travel"))
	require.NoError(t, err)
	assert.Equal(t, 0, id)

	id, err = store.Write(testDoc("Second"))
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	_, err = os.Stat(filepath.Join(dir, "00000-flights-to-la.json"))
	require.NoError(t, err)

	// a new store reads the directory
	store, err = NewDocStore(dir)
	require.NoError(t, err)

	doc, err := store.Read(0)
	require.NoError(t, err)
	assert.Equal(t, "Flights to LA", doc.Title)
	assert.Equal(t, []string{"travel"}, doc.Labels)
	require.Len(t, doc.Sentences, 2)
	assert.Equal(t, 0, doc.Sentences[1].DocId)
	assert.Equal(t, "San Francisco", doc.Sentences[1].Tokens[0].Lemma)

	_, err = store.Read(2)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocStoreList(t *testing.T) {
	store, err := NewDocStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Write(testDoc("a", "travel", "usa"))
	require.NoError(t, err)
	_, err = store.Write(testDoc("b", "news"))
	require.NoError(t, err)

	docs, err := store.List("")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Nil(t, docs[0].Sentences)

	docs, err = store.List("trav")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].Title)
}

func TestDocStoreFindCandidates(t *testing.T) {
	store, err := NewDocStore(t.TempDir())
	require.NoError(t, err)
	for _, title := range []string{"a", "b"} {
		_, err = store.Write(testDoc(title))
		require.NoError(t, err)
	}

	var found []sent.Sentence
	collect := func(s sent.Sentence) error {
		found = append(found, s)
		return nil
	}

	cursor, err := store.FindCandidates([]string{"fly", "LA"}, 0, 0, collect)
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, storage.Cursor(4), cursor)

	// paginated
	found = nil
	cursor, err = store.FindCandidates(nil, 0, 3, collect)
	require.NoError(t, err)
	assert.Len(t, found, 3)

	found = nil
	next, err := store.FindCandidates(nil, cursor, 3, collect)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found = nil
	last, err := store.FindCandidates(nil, next, 3, collect)
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Equal(t, next, last)
}

func TestDocStorePreload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDocStore(dir)
	require.NoError(t, err)
	_, err = store.Write(testDoc("a"))
	require.NoError(t, err)

	store, err = NewDocStore(dir)
	require.NoError(t, err)

	calls := 0
	err = store.Preload(func(current, total int, name string) {
		calls++
		assert.Equal(t, 1, total)
		assert.Equal(t, "00000-a", name)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRuleStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	store := NewRuleStore(path)

	rules, err := store.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, rules)

	frisco, err := rule.Parse("Frisco=San Francisco")
	require.NoError(t, err)
	newYork, err := rule.Parse("LOWER:new + LOWER:york => LEMMA:New York @-1")
	require.NoError(t, err)

	require.NoError(t, store.Write(frisco))
	require.NoError(t, store.Write(newYork))

	rules, err = store.ReadAll()
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.True(t, rule.Equal(frisco, rules[0]))
	assert.True(t, rule.Equal(newYork, rules[1]))

	assert.ErrorIs(t, store.Write(rule.Rule{}), rule.ErrEmptyPattern)

	require.NoError(t, store.Clear())
	rules, err = store.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, rules)

	// clearing twice is fine
	require.NoError(t, store.Clear())
}
