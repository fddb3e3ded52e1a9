package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	sent "github.com/revelaction/lemrule/sentence"
	"github.com/revelaction/lemrule/storage"
)

// DocStore keeps one JSON file per doc in a directory. File names start with
// the zero padded doc id, so the directory order is the id order.
type DocStore struct {
	docDir string

	// In-memory cache, indexed by doc id
	docs   []sent.Doc
	files  []string
	loaded []bool
}

var _ storage.DocRepository = (*DocStore)(nil)
var _ storage.Preloader = (*DocStore)(nil)

// NewDocStore creates a filesystem document store. The directory is created
// if it does not exist.
func NewDocStore(docDir string) (*DocStore, error) {
	if err := os.MkdirAll(docDir, 0755); err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}

	files, err := os.ReadDir(docDir)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}

	h := &DocStore{docDir: docDir}

	names := []string{}
	for _, file := range files {
		if !file.IsDir() && filepath.Ext(file.Name()) == ".json" {
			names = append(names, file.Name())
		}
	}
	sort.Strings(names)

	for idx, name := range names {
		h.docs = append(h.docs, sent.Doc{
			Id:    idx,
			Title: strings.TrimSuffix(name, ".json"),
		})
		h.files = append(h.files, name)
		h.loaded = append(h.loaded, false)
	}

	return h, nil
}

// Preload loads all docs into memory.
func (h *DocStore) Preload(cb func(current, total int, name string)) error {
	total := len(h.docs)
	for i := range h.docs {
		if cb != nil {
			cb(i+1, total, h.docs[i].Title)
		}

		if err := h.load(i); err != nil {
			return err
		}
	}

	return nil
}

func (h *DocStore) load(id int) error {
	if h.loaded[id] {
		return nil
	}

	doc, err := ReadDoc(filepath.Join(h.docDir, h.files[id]))
	if err != nil {
		return err
	}

	// the id is the directory position
	doc.Id = id
	for i := range doc.Sentences {
		doc.Sentences[i].DocId = id
	}

	if doc.Title == "" {
		doc.Title = h.docs[id].Title
	}

	h.docs[id] = doc
	h.loaded[id] = true
	return nil
}

func (h *DocStore) List(labelMatch string) ([]sent.Doc, error) {
	docs := []sent.Doc{}
	for i := range h.docs {
		if err := h.load(i); err != nil {
			return nil, err
		}

		d := h.docs[i]
		if labelMatch != "" && !hasLabel(d.Labels, labelMatch) {
			continue
		}

		docs = append(docs, sent.Doc{Id: d.Id, Title: d.Title, Labels: d.Labels})
	}

	return docs, nil
}

func hasLabel(labels []string, match string) bool {
	for _, l := range labels {
		if strings.Contains(l, match) {
			return true
		}
	}
	return false
}

func (h *DocStore) Read(id int) (sent.Doc, error) {
	if id < 0 || id >= len(h.docs) {
		return sent.Doc{}, fmt.Errorf("doc %d: %w", id, storage.ErrNotFound)
	}

	if err := h.load(id); err != nil {
		return sent.Doc{}, err
	}

	return h.docs[id], nil
}

// FindCandidates walks all sentences in doc order. The cursor is the number
// of sentences already walked.
func (h *DocStore) FindCandidates(lemmas []string, after storage.Cursor, limit int, onCandidate func(sent.Sentence) error) (storage.Cursor, error) {
	var pos storage.Cursor
	found := 0

	for i := range h.docs {
		if err := h.load(i); err != nil {
			return after, err
		}

		for _, s := range h.docs[i].Sentences {
			pos++
			if pos <= after {
				continue
			}

			if !storage.HasLemmas(s, lemmas) {
				continue
			}

			if err := onCandidate(s); err != nil {
				return after, err
			}

			found++
			if limit > 0 && found >= limit {
				return pos, nil
			}
		}
	}

	if found == 0 {
		return after, nil
	}

	return pos, nil
}

func (h *DocStore) Write(doc sent.Doc) (int, error) {
	id := len(h.docs)
	doc.Id = id
	for i := range doc.Sentences {
		doc.Sentences[i].DocId = id
	}

	name := fmt.Sprintf("%05d-%s.json", id, slug(doc.Title))

	data, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("JSON encoding error: %w", err)
	}

	if err := os.WriteFile(filepath.Join(h.docDir, name), data, 0644); err != nil {
		return 0, fmt.Errorf("IO error: %w", err)
	}

	h.docs = append(h.docs, doc)
	h.files = append(h.files, name)
	h.loaded = append(h.loaded, true)
	return id, nil
}

// slug keeps letters and digits of the title, other runes become "-".
func slug(title string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '-'
	}, title)

	s = strings.Trim(s, "-")
	if s == "" {
		return "doc"
	}
	return s
}

// ReadDoc reads a Doc JSON from the given path and unmarshals it.
func ReadDoc(path string) (sent.Doc, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("IO error: %w", err)
	}

	var doc sent.Doc
	err = json.Unmarshal(f, &doc)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("JSON decoding error: %w", err)
	}

	return doc, nil
}
