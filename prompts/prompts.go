// Package prompts provides the static prompt templates used to prime an
// assistant for proof explanations and project planning.
package prompts

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/BurntSushi/toml"
)

//go:embed templates/*.toml
var templates embed.FS

// Prompt is a named template
type Prompt struct {
	Name        string `toml:"name" json:"name"`
	Description string `toml:"description" json:"description"`
	Prompt      string `toml:"prompt" json:"prompt"`
}

// Registry holds prompts keyed by name
type Registry struct {
	prompts map[string]Prompt
}

// Load parses every template in the embedded templates directory
func Load() (*Registry, error) {
	return LoadFS(templates, "templates")
}

// LoadFS parses every *.toml file in dir of fsys
func LoadFS(fsys fs.FS, dir string) (*Registry, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.toml"))
	if err != nil {
		return nil, fmt.Errorf("error listing prompt templates: %w", err)
	}

	r := &Registry{prompts: make(map[string]Prompt, len(files))}
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("error reading prompt template %s: %w", file, err)
		}

		var p Prompt
		if err := toml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("error parsing prompt template %s: %w", file, err)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("prompt template %s has no name", file)
		}
		if _, exists := r.prompts[p.Name]; exists {
			return nil, fmt.Errorf("duplicate prompt template name %q in %s", p.Name, file)
		}
		r.prompts[p.Name] = p
	}

	return r, nil
}

// All returns the prompts sorted by name
func (r *Registry) All() []Prompt {
	all := make([]Prompt, 0, len(r.prompts))
	for _, p := range r.prompts {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.prompts))
	for _, p := range r.All() {
		names = append(names, p.Name)
	}
	return names
}

func (r *Registry) Get(name string) (Prompt, bool) {
	p, ok := r.prompts[name]
	return p, ok
}
