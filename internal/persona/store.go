package persona

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileStore serves built-in personas plus user-defined ones loaded from
// YAML files in a directory. A file persona with a built-in's ID
// shadows the built-in.
type FileStore struct {
	personas map[string]*Persona
}

// NewFileStore loads every *.yaml/*.yml file in dir on top of the
// builtins. A missing or empty dir yields the builtins alone.
func NewFileStore(dir string) (*FileStore, error) {
	s := &FileStore{personas: make(map[string]*Persona, len(builtins))}
	for id, p := range builtins {
		s.personas[id] = p
	}

	if dir == "" {
		return s, nil
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("persona: read dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		p, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		s.personas[p.ID] = p
	}
	return s, nil
}

func loadFile(path string) (*Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("persona: read %s: %w", path, err)
	}
	var p Persona
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("persona: parse %s: %w", path, err)
	}
	if p.ID == "" {
		p.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if p.Name == "" {
		return nil, fmt.Errorf("persona: %s has no name", path)
	}
	return &p, nil
}

// Get returns the persona for id or a NotFoundError.
func (s *FileStore) Get(id string) (*Persona, error) {
	p, ok := s.personas[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return p, nil
}

// List returns all personas sorted by ID.
func (s *FileStore) List() []*Persona {
	out := make([]*Persona, 0, len(s.personas))
	for _, p := range s.personas {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
