package species

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownSpecies is returned when a lookup names no catalog entry.
var ErrUnknownSpecies = errors.New("unknown species")

// Catalog is the ordered, immutable set of known species.
type Catalog struct {
	species []*Descriptor
	byName  map[string]*Descriptor
}

type catalogFile struct {
	Species []*Descriptor `yaml:"species"`
}

// NewCatalog validates descs, resolves evolution targets, and returns a Catalog
// preserving the given order.
//
// Postcondition: Returns a Catalog whose every EvolvesTo is resolved and acyclic,
// or a non-nil error.
func NewCatalog(descs []*Descriptor) (*Catalog, error) {
	c := &Catalog{
		species: make([]*Descriptor, 0, len(descs)),
		byName:  make(map[string]*Descriptor, len(descs)),
	}
	for _, d := range descs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byName[d.Name]; dup {
			return nil, fmt.Errorf("species %q: duplicate name", d.Name)
		}
		c.byName[d.Name] = d
		c.species = append(c.species, d)
	}
	for _, d := range c.species {
		if d.EvolvesTo == "" {
			continue
		}
		target, ok := c.byName[d.EvolvesTo]
		if !ok {
			return nil, fmt.Errorf("species %q: evolves_to %q: %w", d.Name, d.EvolvesTo, ErrUnknownSpecies)
		}
		d.Evolution = target
	}
	for _, d := range c.species {
		seen := map[*Descriptor]bool{}
		for cur := d; cur != nil; cur = cur.Evolution {
			if seen[cur] {
				return nil, fmt.Errorf("species %q: evolution chain loops back to %q", d.Name, cur.Name)
			}
			seen[cur] = true
		}
	}
	return c, nil
}

// LoadCatalogFromBytes parses a catalog from YAML.
func LoadCatalogFromBytes(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing species YAML: %w", err)
	}
	return NewCatalog(f.Species)
}

// LoadCatalog reads the species catalog from a YAML file.
//
// Precondition: path must be a readable file.
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	c, err := LoadCatalogFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return c, nil
}

// ListSpecies returns every species in catalog order.
func (c *Catalog) ListSpecies() []*Descriptor {
	out := make([]*Descriptor, len(c.species))
	copy(out, c.species)
	return out
}

// Spawnable returns the spawnable species in catalog order.
func (c *Catalog) Spawnable() []*Descriptor {
	var out []*Descriptor
	for _, d := range c.species {
		if d.Spawnable {
			out = append(out, d)
		}
	}
	return out
}

// Lookup returns the species named name.
//
// Postcondition: Returns the Descriptor or an error wrapping ErrUnknownSpecies.
func (c *Catalog) Lookup(name string) (*Descriptor, error) {
	d, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownSpecies)
	}
	return d, nil
}

// Len returns the number of species.
func (c *Catalog) Len() int { return len(c.species) }
