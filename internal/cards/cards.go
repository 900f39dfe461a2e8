// Package cards loads card definitions from YAML at startup. Definitions
// are identified by stable ids; display names are never used for lookup.
package cards

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ggltcg/ggltcg-server-go/internal/game/effects"
)

// Definition is one card in the definition table.
type Definition struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"` // Toy or Action
	Cost     int      `yaml:"cost"`
	Speed    int      `yaml:"speed"`
	Strength int      `yaml:"strength"`
	Stamina  int      `yaml:"stamina"`
	Effects  []string `yaml:"effects"`

	// Parsed is populated during load; bad tokens fail the whole load.
	Parsed []effects.Effect `yaml:"-"`
}

// Set is an immutable-after-load collection of definitions keyed by id.
type Set struct {
	defs []Definition
	byID map[string]*Definition
}

type setFile struct {
	Cards []Definition `yaml:"cards"`
}

// LoadSet reads and validates a card-definition file. Any malformed
// definition or effect token is a configuration error at startup, never
// a runtime surprise.
func LoadSet(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read card set %s: %w", path, err)
	}
	return ParseSet(data)
}

// ParseSet builds a Set from raw YAML.
func ParseSet(data []byte) (*Set, error) {
	var file setFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse card set: %w", err)
	}
	if len(file.Cards) == 0 {
		return nil, fmt.Errorf("card set is empty")
	}

	set := &Set{byID: make(map[string]*Definition, len(file.Cards))}
	for i := range file.Cards {
		def := &file.Cards[i]
		if err := validate(def); err != nil {
			return nil, err
		}
		parsed, err := effects.ParseAll(def.Effects)
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", def.ID, err)
		}
		def.Parsed = parsed
		if _, dup := set.byID[def.ID]; dup {
			return nil, fmt.Errorf("duplicate card id %q", def.ID)
		}
		set.defs = append(set.defs, *def)
		set.byID[def.ID] = &set.defs[len(set.defs)-1]
	}

	// Rebuild the index: appends above may have reallocated defs.
	for i := range set.defs {
		set.byID[set.defs[i].ID] = &set.defs[i]
	}
	return set, nil
}

func validate(def *Definition) error {
	if def.ID == "" {
		return fmt.Errorf("card %q has no id", def.Name)
	}
	if def.Name == "" {
		return fmt.Errorf("card %s has no name", def.ID)
	}
	switch def.Type {
	case "Toy":
		if def.Speed < 0 || def.Strength < 0 || def.Stamina <= 0 {
			return fmt.Errorf("card %s: toys need non-negative speed/strength and positive stamina", def.ID)
		}
	case "Action":
		if def.Speed != 0 || def.Strength != 0 || def.Stamina != 0 {
			return fmt.Errorf("card %s: actions carry no combat stats", def.ID)
		}
	default:
		return fmt.Errorf("card %s: unknown type %q", def.ID, def.Type)
	}
	if def.Cost < 0 {
		return fmt.Errorf("card %s: cost cannot be negative", def.ID)
	}
	return nil
}

// ByID looks up a definition by its stable id.
func (s *Set) ByID(id string) (*Definition, bool) {
	def, ok := s.byID[id]
	return def, ok
}

// All returns every definition in file order.
func (s *Set) All() []Definition {
	return s.defs
}

// Len returns the number of definitions.
func (s *Set) Len() int {
	return len(s.defs)
}
