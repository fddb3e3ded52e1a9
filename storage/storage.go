package storage

import (
	"errors"

	"github.com/revelaction/lemrule/rule"
	sent "github.com/revelaction/lemrule/sentence"
)

var ErrNotFound = errors.New("not found")

// RuleReader defines read operations for rule storage
type RuleReader interface {
	// ReadAll returns all rules in registration order
	ReadAll() ([]rule.Rule, error)
}

// RuleWriter defines write operations for rule storage
type RuleWriter interface {
	// Write appends a rule
	Write(r rule.Rule) error

	// Clear removes all rules
	Clear() error
}

// RuleRepository combines read and write operations
type RuleRepository interface {
	RuleReader
	RuleWriter
}

// Cursor for paginated lemma-based queries
type Cursor int64

// DocReader defines read operations for document storage
type DocReader interface {
	// List returns the metadata (Id, Title, Labels) of documents.
	// If labelMatch is not empty, only documents with at least one label containing the string are returned.
	// Content (Sentences) is not loaded.
	List(labelMatch string) ([]sent.Doc, error)

	// Read returns a document by ID
	Read(id int) (sent.Doc, error)

	// FindCandidates returns the sentences containing ALL given lemmas,
	// resuming after the given cursor. It calls onCandidate for each result.
	// Returns the new cursor and any error. A returned cursor equal to after
	// means there are no more candidates.
	FindCandidates(lemmas []string, after Cursor, limit int, onCandidate func(sent.Sentence) error) (Cursor, error)
}

// DocWriter defines write operations for document storage
type DocWriter interface {
	// Write persists a document and its sentences/lemmas to storage and
	// returns its id
	Write(doc sent.Doc) (int, error)
}

// DocRepository combines read and write operations
type DocRepository interface {
	DocReader
	DocWriter
}

// Preloader defines an optional capability for repositories that require
// or support eager loading of data into memory.
type Preloader interface {
	Preload(cb func(current, total int, name string)) error
}

// HasLemmas reports whether the sentence contains every lemma.
func HasLemmas(s sent.Sentence, lemmas []string) bool {
LEMMAS:
	for _, l := range lemmas {
		for _, t := range s.Tokens {
			if t.Lemma == l {
				continue LEMMAS
			}
		}
		return false
	}
	return true
}
