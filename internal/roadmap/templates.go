package roadmap

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind classifies a roadmap step.
type Kind string

const (
	KindCourse  Kind = "Course"
	KindProject Kind = "Project"
)

// TemplateStep is one entry of a track's base template.
type TemplateStep struct {
	Step string `yaml:"step"`
	Type Kind   `yaml:"type"`
}

// Template is the ordered base roadmap for a track.
type Template []TemplateStep

type trackTemplate struct {
	Track string   `yaml:"track"`
	Steps Template `yaml:"steps"`
}

//go:embed templates.yaml
var templatesYAML []byte

// TemplateStore maps track names to base templates. It is read-only after
// construction and safe for concurrent use.
type TemplateStore struct {
	order  []string
	tracks map[string]Template
}

// LoadTemplates decodes a YAML template table.
func LoadTemplates(data []byte) (*TemplateStore, error) {
	var entries []trackTemplate
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding templates: %w", err)
	}

	s := &TemplateStore{tracks: make(map[string]Template, len(entries))}
	for _, e := range entries {
		if e.Track == "" {
			return nil, fmt.Errorf("template without track name")
		}
		if _, dup := s.tracks[e.Track]; dup {
			return nil, fmt.Errorf("duplicate track %q", e.Track)
		}
		for _, st := range e.Steps {
			if st.Type != KindCourse && st.Type != KindProject {
				return nil, fmt.Errorf("track %q step %q: unknown type %q", e.Track, st.Step, st.Type)
			}
		}
		s.order = append(s.order, e.Track)
		s.tracks[e.Track] = e.Steps
	}
	return s, nil
}

// DefaultTemplates returns the built-in template table.
func DefaultTemplates() *TemplateStore {
	s, err := LoadTemplates(templatesYAML)
	if err != nil {
		panic("roadmap: embedded templates: " + err.Error())
	}
	return s
}

// Lookup returns a copy of the template for track. Track names match
// exactly; ok is false for unknown tracks.
func (s *TemplateStore) Lookup(track string) (Template, bool) {
	t, ok := s.tracks[track]
	if !ok {
		return nil, false
	}
	return append(Template(nil), t...), true
}

// Tracks lists known track names in table order.
func (s *TemplateStore) Tracks() []string {
	return append([]string(nil), s.order...)
}
