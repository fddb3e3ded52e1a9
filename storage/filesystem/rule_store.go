package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/revelaction/lemrule/rule"
	"github.com/revelaction/lemrule/storage"
)

// RuleStore keeps the rules in a YAML rule file.
type RuleStore struct {
	path string
}

var _ storage.RuleRepository = (*RuleStore)(nil)

func NewRuleStore(path string) *RuleStore {
	return &RuleStore{path: path}
}

// ReadAll returns the rules of the file, none if the file does not exist.
func (s *RuleStore) ReadAll() ([]rule.Rule, error) {
	rules, err := rule.LoadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []rule.Rule{}, nil
	}

	if err != nil {
		return nil, err
	}

	return rules, nil
}

func (s *RuleStore) Write(r rule.Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}

	rules, err := s.ReadAll()
	if err != nil {
		return err
	}

	if err := rule.WriteFile(s.path, append(rules, r)); err != nil {
		return fmt.Errorf("IO error: %w", err)
	}
	return nil
}

func (s *RuleStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("IO error: %w", err)
	}
	return nil
}
