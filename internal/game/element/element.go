// Package element defines elemental types, the seen-element bitset, and the
// type effectiveness table.
package element

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Element is an elemental type. The zero value is Fire.
type Element int

const (
	Fire Element = iota
	Water
	Grass
	Bug
	Dragon
	Electric
	Fighting
	Flying
	Ghost
	Ground
	Ice
	Normal
	Poison
	Psychic
	Rock
	Fairy
	Dark
	Steel
)

// Count is the number of defined elements.
const Count = int(Steel) + 1

var names = [Count]string{
	"fire", "water", "grass", "bug", "dragon", "electric", "fighting", "flying", "ghost",
	"ground", "ice", "normal", "poison", "psychic", "rock", "fairy", "dark", "steel",
}

// All returns every element in ordinal order.
func All() []Element {
	out := make([]Element, Count)
	for i := range out {
		out[i] = Element(i)
	}
	return out
}

// Valid reports whether e is a defined element.
func (e Element) Valid() bool { return e >= 0 && int(e) < Count }

// String returns the lower-case element name.
func (e Element) String() string {
	if !e.Valid() {
		return "unknown"
	}
	return names[e]
}

// Parse resolves a case-insensitive element name.
//
// Postcondition: Returns a valid Element or a non-nil error.
func Parse(name string) (Element, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range names {
		if candidate == n {
			return Element(i), nil
		}
	}
	return 0, fmt.Errorf("unknown element %q", name)
}

// UnmarshalYAML decodes an element from its name.
func (e *Element) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := Parse(name)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*e = parsed
	return nil
}
