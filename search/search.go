package search

import (
	"github.com/revelaction/lemrule/match"
	sent "github.com/revelaction/lemrule/sentence"
	"github.com/revelaction/lemrule/storage"
)

// pageSize is the number of candidates fetched per FindCandidates call by All.
const pageSize = 500

// Search selects the stored sentences containing a set of lemmas, optionally
// only those with at least one token satisfying a predicate.
type Search struct {
	repo      storage.DocReader
	predicate match.Predicate
	docID     *int
	matching  bool
}

// New creates a new Search over dr. p is used by Matching.
func New(dr storage.DocReader, p match.Predicate) *Search {
	return &Search{
		repo:      dr,
		predicate: p,
	}
}

// WithDocID restricts the search to a single document ID.
// If set, the single-document strategy (Read) will be favored over
// the indexed strategy (FindCandidates).
func (s *Search) WithDocID(id int) *Search {
	s.docID = &id
	return s
}

// Matching drops the sentences with no token satisfying the predicate.
func (s *Search) Matching() *Search {
	s.matching = true
	return s
}

// Sentences calls onMatch for every selected sentence after cursor, at most
// limit candidates per call. It returns the new cursor: a cursor equal to the
// given one means there are no more sentences. Without lemmas every sentence
// is a candidate.
func (s *Search) Sentences(lemmas []string, cursor storage.Cursor, limit int, onMatch func(sent.Sentence) error) (storage.Cursor, error) {
	// Strategy 1: Single Document (No Index)
	if s.docID != nil {
		// the whole doc is one page
		if cursor > 0 {
			return cursor, nil
		}

		doc, err := s.repo.Read(*s.docID)
		if err != nil {
			return cursor, err
		}

		for _, sentence := range doc.Sentences {
			if !storage.HasLemmas(sentence, lemmas) || !s.selects(sentence) {
				continue
			}
			if err := onMatch(sentence); err != nil {
				return cursor, err
			}
		}
		return cursor + 1, nil
	}

	// Strategy 2: Find candidates (indexed search)
	return s.repo.FindCandidates(lemmas, cursor, limit, func(sentence sent.Sentence) error {
		if !s.selects(sentence) {
			return nil
		}
		return onMatch(sentence)
	})
}

// All pages through every selected sentence.
func (s *Search) All(lemmas []string, onMatch func(sent.Sentence) error) error {
	cursor := storage.Cursor(0)
	for {
		newCursor, err := s.Sentences(lemmas, cursor, pageSize, onMatch)
		if err != nil {
			return err
		}

		if cursor == newCursor {
			return nil // No more progress
		}
		cursor = newCursor
	}
}

func (s *Search) selects(sentence sent.Sentence) bool {
	if !s.matching {
		return true
	}
	return len(match.Tokens(sentence, s.predicate)) > 0
}
