package element

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Table holds attacker-versus-defender damage multipliers. Pairs not listed
// default to 1.0.
type Table struct {
	multipliers [Count][Count]float64
}

// tableFile is the on-disk shape: attacker → defender → multiplier.
type tableFile struct {
	Multipliers map[Element]map[Element]float64 `yaml:"multipliers"`
}

// NewTable returns a neutral Table where every pair is 1.0.
func NewTable() *Table {
	t := &Table{}
	for a := range t.multipliers {
		for d := range t.multipliers[a] {
			t.multipliers[a][d] = 1
		}
	}
	return t
}

// Set overrides the multiplier for attacker against defender.
//
// Precondition: multiplier >= 0.
// Postcondition: Returns an error and leaves t unchanged on a negative multiplier.
func (t *Table) Set(attacker, defender Element, multiplier float64) error {
	if multiplier < 0 {
		return fmt.Errorf("effectiveness %s→%s must be >= 0, got %g", attacker, defender, multiplier)
	}
	t.multipliers[attacker][defender] = multiplier
	return nil
}

// Effectiveness returns the multiplier for attacker against defender.
func (t *Table) Effectiveness(attacker, defender Element) float64 {
	if !attacker.Valid() || !defender.Valid() {
		return 1
	}
	return t.multipliers[attacker][defender]
}

// LoadTableFromBytes parses an effectiveness table from YAML.
//
// Postcondition: Returns a Table or an error naming the first invalid entry.
func LoadTableFromBytes(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing effectiveness YAML: %w", err)
	}
	t := NewTable()
	for attacker, row := range f.Multipliers {
		for defender, m := range row {
			if err := t.Set(attacker, defender, m); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// LoadTable reads an effectiveness table from a YAML file.
//
// Precondition: path must be a readable file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	t, err := LoadTableFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return t, nil
}
