package zombiezen

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/lemrule/rule"
	sent "github.com/revelaction/lemrule/sentence"
	"github.com/revelaction/lemrule/storage"
)

func newTestPool(t *testing.T) *sqlitex.Pool {
	t.Helper()

	pool, err := NewPool(filepath.Join(t.TempDir(), "lemrule.db"))
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	require.NoError(t, CreateSchemas(context.Background(), pool, DocsSchema, RulesSchema))
	return pool
}

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

func TestCreateSchemasIsIdempotent(t *testing.T) {
	pool := newTestPool(t)
	require.NoError(t, CreateSchemas(context.Background(), pool, DocsSchema, RulesSchema))
	assert.Error(t, CreateSchemas(context.Background(), pool, "missing.sql"))
}

func TestDocStoreWriteRead(t *testing.T) {
	store := NewDocStore(context.Background(), newTestPool(t))

	id, err := store.Write(testDoc("Flights", "travel", "usa"))
	require.NoError(t, err)

	doc, err := store.Read(id)
	require.NoError(t, err)
	assert.Equal(t, "Flights", doc.Title)
	assert.Equal(t, []string{"travel", "usa"}, doc.Labels)
	require.Len(t, doc.Sentences, 2)
	assert.Equal(t, 1, doc.Sentences[1].Id)
	assert.Equal(t, id, doc.Sentences[1].DocId)
	assert.Equal(t, "San Francisco", doc.Sentences[1].Tokens[0].Lemma)

	_, err = store.Read(id + 100)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocStoreList(t *testing.T) {
	store := NewDocStore(context.Background(), newTestPool(t))

	_, err := store.Write(testDoc("a", "travel"))
	require.NoError(t, err)
	_, err = store.Write(testDoc("b", "news"))
	require.NoError(t, err)

	docs, err := store.List("")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].Title)

	docs, err = store.List("new")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b", docs[0].Title)
}

func TestDocStoreFindCandidates(t *testing.T) {
	store := NewDocStore(context.Background(), newTestPool(t))
	for _, title := range []string{"a", "b"} {
		_, err := store.Write(testDoc(title))
		require.NoError(t, err)
	}

	var found []sent.Sentence
	collect := func(s sent.Sentence) error {
		found = append(found, s)
		return nil
	}

	cursor, err := store.FindCandidates([]string{"fly", "LA"}, 0, 10, collect)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "flown", found[0].Tokens[2].Text)

	found = nil
	next, err := store.FindCandidates([]string{"fly"}, cursor, 10, collect)
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Equal(t, cursor, next)

	found = nil
	_, err = store.FindCandidates(nil, 0, 3, collect)
	require.NoError(t, err)
	assert.Len(t, found, 3)
}

func TestRuleStore(t *testing.T) {
	store := NewRuleStore(context.Background(), newTestPool(t))

	rules, err := store.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, rules)

	frisco, err := rule.Parse("Frisco=San Francisco")
	require.NoError(t, err)
	newYork, err := rule.Parse("LOWER:new + LOWER:york => LEMMA:New York,TAG:NNP @-1")
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
}

func TestStoresCanceled(t *testing.T) {
	pool := newTestPool(t)
	ctx, cancel := context.WithCancel(context.Background())

	docs := NewDocStore(ctx, pool)
	id, err := docs.Write(testDoc("Flights"))
	require.NoError(t, err)

	cancel()

	_, err = docs.Read(id)
	assert.Error(t, err)
	_, err = docs.Write(testDoc("Flights"))
	assert.Error(t, err)

	_, err = NewRuleStore(ctx, pool).ReadAll()
	assert.Error(t, err)
}
