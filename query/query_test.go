package query

import (
	"bytes"
	"context"
	"testing"

	"github.com/c-bata/go-prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/lemrule/match"
	"github.com/revelaction/lemrule/model"
	"github.com/revelaction/lemrule/pipeline"
	"github.com/revelaction/lemrule/render"
	"github.com/revelaction/lemrule/storage/filesystem"
)

const flights = "I have flown to LA. Now I am flying to Frisco."

func newHandler(t *testing.T) (*Handler, *bytes.Buffer) {
	t.Helper()

	p, err := pipeline.Load(model.NewRegistry(), model.Default)
	require.NoError(t, err)

	var buf bytes.Buffer
	r := render.NewRenderer()
	r.Out = &buf

	return NewHandler(p, nil, r, nil), &buf
}

func TestEvalText(t *testing.T) {
	h, buf := newHandler(t)

	require.NoError(t, h.Eval(context.Background(), "/rule Frisco=San Francisco"))
	buf.Reset()

	require.NoError(t, h.Eval(context.Background(), flights))
	assert.Equal(t, "['LA']\n['fly', 'San Francisco']\n", buf.String())
}

func TestEvalEmptyAndQuit(t *testing.T) {
	h, buf := newHandler(t)

	assert.NoError(t, h.Eval(context.Background(), "   "))
	assert.Empty(t, buf.String())
	assert.ErrorIs(t, h.Eval(context.Background(), " quit "), ErrQuit)
}

func TestEvalRules(t *testing.T) {
	h, buf := newHandler(t)

	require.NoError(t, h.Eval(context.Background(), "/rule Frisco=San Francisco"))
	assert.Equal(t, "rule added: TEXT:Frisco => LEMMA:San Francisco\n", buf.String())

	buf.Reset()
	require.NoError(t, h.Eval(context.Background(), "/rules"))
	assert.Equal(t, "  0 TEXT:Frisco => LEMMA:San Francisco\n", buf.String())

	assert.Error(t, h.Eval(context.Background(), "/rule Frisco"))
}

func TestEvalWhere(t *testing.T) {
	h, buf := newHandler(t)

	require.NoError(t, h.Eval(context.Background(), "/where tag=NNP"))
	assert.Equal(t, "where (tag=NNP)\n", buf.String())

	buf.Reset()
	require.NoError(t, h.Eval(context.Background(), flights))
	assert.Equal(t, "['LA']\n['Frisco']\n", buf.String())

	require.NoError(t, h.Eval(context.Background(), "/where"))
	assert.Equal(t, match.Default(), h.Predicate)

	assert.Error(t, h.Eval(context.Background(), "/where tag"))
	assert.Equal(t, match.Default(), h.Predicate)
}

func TestEvalWhereLemmaWithSpace(t *testing.T) {
	h, buf := newHandler(t)
	require.NoError(t, h.Eval(context.Background(), "/rule Frisco=San Francisco"))

	require.NoError(t, h.Eval(context.Background(), "/where lemma=San Francisco; tag=VBG"))
	assert.Equal(t, "(lemma=San Francisco) | (tag=VBG)", h.Predicate.String())

	buf.Reset()
	require.NoError(t, h.Eval(context.Background(), flights))
	assert.Equal(t, "[]\n['fly', 'San Francisco']\n", buf.String())
}

func TestEvalTable(t *testing.T) {
	h, buf := newHandler(t)

	require.NoError(t, h.Eval(context.Background(), "/table"))
	assert.Equal(t, "table", h.Renderer.Format)

	buf.Reset()
	require.NoError(t, h.Eval(context.Background(), "Now I am flying to Frisco."))
	assert.Contains(t, buf.String(), "Lemma")
	assert.Contains(t, buf.String(), "flying")

	require.NoError(t, h.Eval(context.Background(), "/table"))
	assert.Equal(t, render.Defaultformat, h.Renderer.Format)
}

func TestEvalUnknownCommand(t *testing.T) {
	h, _ := newHandler(t)
	assert.Error(t, h.Eval(context.Background(), "/nope"))
}

func TestEvalFind(t *testing.T) {
	h, buf := newHandler(t)

	assert.Error(t, h.Eval(context.Background(), "/find fly"), "no doc storage")

	store, err := filesystem.NewDocStore(t.TempDir())
	require.NoError(t, err)

	doc, err := h.Pipeline.Process(context.Background(), flights)
	require.NoError(t, err)
	doc.Title = "flights"
	_, err = store.Write(doc)
	require.NoError(t, err)

	h.DocRepo = store
	buf.Reset()

	require.NoError(t, h.Eval(context.Background(), "/find fly"))
	assert.Equal(t, "['LA']\n['fly', 'Frisco']\n", buf.String())

	buf.Reset()
	require.NoError(t, h.Eval(context.Background(), "/find fly now"))
	assert.Equal(t, "['fly', 'Frisco']\n", buf.String())

	buf.Reset()
	require.NoError(t, h.Eval(context.Background(), "/find boat"))
	assert.Empty(t, buf.String())
}

func TestCompleter(t *testing.T) {
	h, _ := newHandler(t)

	doc := func(s string) prompt.Document {
		b := prompt.NewBuffer()
		b.InsertText(s, false, true)
		return *b.Document()
	}

	got := h.completer(doc("/ru"))
	var texts []string
	for _, s := range got {
		texts = append(texts, s.Text)
	}
	assert.Equal(t, []string{"/rule", "/rules"}, texts)

	got = h.completer(doc("/where de"))
	require.Len(t, got, 1)
	assert.Equal(t, "dep=", got[0].Text)

	assert.Empty(t, h.completer(doc("")))
}
