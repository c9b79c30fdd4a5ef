package prompts

import (
	"fmt"
	"strings"
)

type Template struct {
	Name       PromptName
	Version    int
	Format     Format
	SchemaName string
	Schema     func() map[string]any
	System     func(Input) string
	User       func(Input) string
	Validate   Validator
}

// Prompt is a rendered template, ready for openai.GenerateJSON or
// openai.GenerateText depending on Format.
type Prompt struct {
	Name       string
	Version    int
	Format     Format
	System     string
	User       string
	SchemaName string
	Schema     map[string]any
}

type Registry struct {
	templates map[PromptName]Template
}

// NewRegistry returns a registry holding every built-in prompt.
func NewRegistry() *Registry {
	r := &Registry{templates: map[PromptName]Template{}}
	registerAll(r)
	return r
}

func (r *Registry) Register(t Template) {
	r.templates[t.Name] = t
}

// RegisterSpec compiles and registers s, panicking on a malformed spec.
func (r *Registry) RegisterSpec(s Spec) {
	t, err := MakeTemplate(s)
	if err != nil {
		panic(err)
	}
	r.Register(t)
}

func (r *Registry) Build(name PromptName, in Input) (Prompt, error) {
	t, ok := r.templates[name]
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt: %s", string(name))
	}
	if t.System == nil || t.User == nil {
		return Prompt{}, fmt.Errorf("prompt %s missing system/user renderers", string(name))
	}
	if t.Validate != nil {
		if err := t.Validate(in); err != nil {
			return Prompt{}, fmt.Errorf("%s: %w", string(name), err)
		}
	}

	p := Prompt{
		Name:       string(t.Name),
		Version:    t.Version,
		Format:     t.Format,
		SchemaName: strings.TrimSpace(t.SchemaName),
		System:     strings.TrimSpace(t.System(in)),
		User:       strings.TrimSpace(t.User(in)),
	}
	if t.Schema != nil {
		p.Schema = t.Schema()
	}
	return p, nil
}

func (r *Registry) Names() []PromptName {
	out := make([]PromptName, 0, len(r.templates))
	for name := range r.templates {
		out = append(out, name)
	}
	return out
}
