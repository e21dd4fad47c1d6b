// Package taxonomy defines the accounting concepts extracted from XBRL
// instance documents and the source tags that map to each concept.
//
// Tag vocabularies differ between IFRS and Japanese GAAP filings, so each
// concept carries an ordered list of acceptable local tag names. Concept
// order is significant: when a raw tag appears in more than one synonym
// list, the first concept in registry order claims it.
package taxonomy

import (
	_ "embed"
	"fmt"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed concepts.yaml
var conceptsYAML []byte

// Concept is one financial-statement line item and its source tag synonyms.
type Concept struct {
	Key   string   `yaml:"key"`
	Label string   `yaml:"label"`
	Tags  []string `yaml:"tags"`
}

// Registry is an ordered set of concepts.
type Registry struct {
	concepts []Concept
	byTag    map[string]string // local tag name -> concept key, first claim wins
}

// Load parses the embedded concept registry.
func Load() (*Registry, error) {
	return Parse(conceptsYAML)
}

// Parse builds a Registry from YAML bytes.
func Parse(data []byte) (*Registry, error) {
	var concepts []Concept
	if err := yaml.Unmarshal(data, &concepts); err != nil {
		return nil, eris.Wrap(err, "taxonomy: parse concepts")
	}
	if len(concepts) == 0 {
		return nil, eris.New("taxonomy: empty concept registry")
	}

	byTag := make(map[string]string)
	seen := make(map[string]bool, len(concepts))
	for _, c := range concepts {
		if c.Key == "" {
			return nil, eris.New("taxonomy: concept with empty key")
		}
		if seen[c.Key] {
			return nil, eris.Errorf("taxonomy: duplicate concept key %q", c.Key)
		}
		seen[c.Key] = true
		if len(c.Tags) == 0 {
			return nil, eris.Errorf("taxonomy: concept %q has no tags", c.Key)
		}
		for _, tag := range c.Tags {
			if _, claimed := byTag[tag]; !claimed {
				byTag[tag] = c.Key
			}
		}
	}

	return &Registry{concepts: concepts, byTag: byTag}, nil
}

// Concepts returns the concepts in registry order.
func (r *Registry) Concepts() []Concept {
	return r.concepts
}

// Keys returns the concept keys in registry order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.concepts))
	for i, c := range r.concepts {
		keys[i] = c.Key
	}
	return keys
}

// ConceptForTag resolves a raw local tag name to its owning concept key.
func (r *Registry) ConceptForTag(tag string) (string, bool) {
	key, ok := r.byTag[tag]
	return key, ok
}

// Validate reports tags claimed by more than one concept. Overlaps are not
// errors: extraction keeps first-match semantics, but callers should log the
// warnings so deliberate ordering stays visible.
func (r *Registry) Validate() []string {
	owner := make(map[string]string)
	var warnings []string
	for _, c := range r.concepts {
		for _, tag := range c.Tags {
			if prev, ok := owner[tag]; ok {
				warnings = append(warnings,
					fmt.Sprintf("tag %q claimed by %q is shadowed by %q", tag, c.Key, prev))
				continue
			}
			owner[tag] = c.Key
		}
	}
	return warnings
}
