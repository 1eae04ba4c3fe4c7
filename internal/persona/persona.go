// Package persona holds the planning personas that shape how the AI
// backend structures a project plan. A small built-in set ships with
// the binary; users can extend it with a YAML catalog file.
package persona

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/planweave/internal/errors"
)

// Persona describes one planning style
type Persona struct {
	Label        string  `yaml:"label"`
	DisplayName  string  `yaml:"displayName"`
	Description  string  `yaml:"description"`
	SystemPrompt string  `yaml:"systemPrompt"`
	Temperature  float64 `yaml:"temperature"`
}

// DefaultLabel is the persona used when a project has none set
const DefaultLabel = "pragmatic-pm"

func builtins() []Persona {
	return []Persona{
		{
			Label:       "pragmatic-pm",
			DisplayName: "Pragmatic Project Manager",
			Description: "Balanced plans with realistic estimates and clear next actions.",
			SystemPrompt: "You are a pragmatic project manager. Break the project into " +
				"milestones, deliverables, and tasks with realistic time estimates. " +
				"Every task needs a concrete next action. Flag anything you are unsure about.",
			Temperature: 0.7,
		},
		{
			Label:       "cautious-architect",
			DisplayName: "Cautious Architect",
			Description: "Risk-first plans that surface dependencies and unknowns early.",
			SystemPrompt: "You are a cautious software architect. Organize the project so " +
				"risky and uncertain work comes first. Call out dependencies between " +
				"deliverables and raise an uncertainty flag for every assumption.",
			Temperature: 0.4,
		},
		{
			Label:       "scrappy-founder",
			DisplayName: "Scrappy Founder",
			Description: "Lean plans biased toward shipping the smallest useful thing.",
			SystemPrompt: "You are a scrappy startup founder. Plan the shortest path to " +
				"something shippable, cutting scope aggressively. Prefer many small " +
				"tasks over few large ones.",
			Temperature: 0.9,
		},
	}
}

// Catalog resolves persona labels to personas
type Catalog struct {
	personas map[string]Persona
}

// NewCatalog returns a catalog with the built-in personas
func NewCatalog() *Catalog {
	c := &Catalog{personas: make(map[string]Persona)}
	for _, p := range builtins() {
		c.personas[p.Label] = p
	}
	return c
}

// LoadCatalog builds a catalog from the built-ins plus an optional
// YAML file. Entries in the file override built-ins with the same
// label.
func LoadCatalog(path string) (*Catalog, error) {
	c := NewCatalog()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, errors.Wrap(errors.ErrCodePersonaCatalog, "failed to read persona catalog", err)
	}

	var file struct {
		Personas []Persona `yaml:"personas"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodePersonaCatalog, "failed to parse persona catalog", err).
			WithSuggestion("Check the YAML syntax of " + path)
	}

	for _, p := range file.Personas {
		if p.Label == "" {
			continue
		}
		if p.Temperature == 0 {
			p.Temperature = 0.7
		}
		c.personas[p.Label] = p
	}
	return c, nil
}

// Get returns the persona for a label
func (c *Catalog) Get(label string) (Persona, error) {
	p, ok := c.personas[label]
	if !ok {
		return Persona{}, errors.NewPersonaUnknownError(label)
	}
	return p, nil
}

// Resolve returns the persona for a label, falling back to the
// default persona when the label is empty or unknown.
func (c *Catalog) Resolve(label string) Persona {
	if label == "" {
		label = DefaultLabel
	}
	if p, ok := c.personas[label]; ok {
		return p
	}
	return c.personas[DefaultLabel]
}

// List returns all personas sorted by label
func (c *Catalog) List() []Persona {
	out := make([]Persona, 0, len(c.personas))
	for _, p := range c.personas {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
