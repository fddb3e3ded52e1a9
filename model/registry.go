package model

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// Default is the model used when none is given.
	Default = "en_rule_sm"

	ext = ".yaml"
)

// builtin embeds the models shipped with the binary.
//
//go:embed data/*.yaml
var builtin embed.FS

// Registry resolves model names to models. Built-in models take precedence
// over the ones found in Dirs.
type Registry struct {
	Dirs []string
}

// NewRegistry returns a Registry searching dirs, in order, after the
// built-in models.
func NewRegistry(dirs ...string) *Registry {
	var clean []string
	for _, d := range dirs {
		if d != "" {
			clean = append(clean, d)
		}
	}
	return &Registry{Dirs: clean}
}

// SplitPath splits a list of directories separated by the OS path list
// separator, as in LEMRULE_MODEL_PATH.
func SplitPath(p string) []string {
	if p == "" {
		return nil
	}
	return filepath.SplitList(p)
}

// Names returns the unique names of all available models, sorted.
func (r *Registry) Names() ([]string, error) {
	seen := map[string]bool{}

	entries, err := fs.ReadDir(builtin, "data")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		seen[strings.TrimSuffix(e.Name(), ext)] = true
	}

	for _, dir := range r.Dirs {
		files, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}

		for _, f := range files {
			if f.IsDir() || filepath.Ext(f.Name()) != ext {
				continue
			}
			seen[strings.TrimSuffix(f.Name(), ext)] = true
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Load returns the model called name. It fails with ErrModelNotFound if no
// built-in model nor a <dir>/<name>.yaml file exist.
func (r *Registry) Load(name string) (*Model, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrModelNotFound, name)
	}

	data, err := builtin.ReadFile(path.Join("data", name+ext))
	if err == nil {
		return parseNamed(name, data)
	}

	for _, dir := range r.Dirs {
		data, err := os.ReadFile(filepath.Join(dir, name+ext))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("IO error: %w", err)
		}
		return parseNamed(name, data)
	}

	return nil, fmt.Errorf("%w: %q", ErrModelNotFound, name)
}

func parseNamed(name string, data []byte) (*Model, error) {
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}

	if m.Name != name {
		return nil, fmt.Errorf("%w: file %s declares name %q", ErrInvalidModel, name+ext, m.Name)
	}

	return m, nil
}
