// Package catalog holds the two immutable TRIZ reference catalogs: the
// 39 engineering parameters and the 40 inventive principles. Both are
// embedded as YAML and loaded once at startup.
package catalog

import (
	"embed"
	"fmt"

	yaml "gopkg.in/yaml.v3"

	"triz/internal/triz"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Parameter is one of the 39 standardized engineering parameters used
// to phrase a design trade-off.
type Parameter struct {
	ID          int    `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Principle is one of the 40 standardized inventive principles.
type Principle struct {
	ID              int      `yaml:"id" json:"id"`
	Name            string   `yaml:"name" json:"name"`
	Description     string   `yaml:"description" json:"description"`
	SubPrinciples   []string `yaml:"sub_principles" json:"sub_principles,omitempty"`
	Examples        []string `yaml:"examples" json:"examples,omitempty"`
	Domains         []string `yaml:"domains" json:"domains,omitempty"`
	Usage           string   `yaml:"usage" json:"usage,omitempty"`
	InnovationLevel int      `yaml:"innovation_level" json:"innovation_level"`
	Related         []int    `yaml:"related" json:"related,omitempty"`
}

// Catalog is the loaded pair of reference catalogs. Read-only after Load.
type Catalog struct {
	parameters map[int]Parameter
	principles map[int]Principle
}

// Load parses the embedded catalogs and verifies that ids are unique
// and contiguous (1..39 parameters, 1..40 principles).
func Load() (*Catalog, error) {
	var pf struct {
		Parameters []Parameter `yaml:"parameters"`
	}
	if err := unmarshalData("data/parameters.yaml", &pf); err != nil {
		return nil, err
	}
	var rf struct {
		Principles []Principle `yaml:"principles"`
	}
	if err := unmarshalData("data/principles.yaml", &rf); err != nil {
		return nil, err
	}

	c := &Catalog{
		parameters: make(map[int]Parameter, len(pf.Parameters)),
		principles: make(map[int]Principle, len(rf.Principles)),
	}
	for _, p := range pf.Parameters {
		if _, dup := c.parameters[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate parameter id %d", p.ID)
		}
		c.parameters[p.ID] = p
	}
	for _, p := range rf.Principles {
		if _, dup := c.principles[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate principle id %d", p.ID)
		}
		c.principles[p.ID] = p
	}

	for id := triz.MinParameterID; id <= triz.MaxParameterID; id++ {
		if _, ok := c.parameters[id]; !ok {
			return nil, fmt.Errorf("catalog: missing parameter id %d", id)
		}
	}
	if len(c.parameters) != triz.MaxParameterID {
		return nil, fmt.Errorf("catalog: %d parameters, want %d", len(c.parameters), triz.MaxParameterID)
	}
	for id := triz.MinPrincipleID; id <= triz.MaxPrincipleID; id++ {
		if _, ok := c.principles[id]; !ok {
			return nil, fmt.Errorf("catalog: missing principle id %d", id)
		}
	}
	if len(c.principles) != triz.MaxPrincipleID {
		return nil, fmt.Errorf("catalog: %d principles, want %d", len(c.principles), triz.MaxPrincipleID)
	}

	return c, nil
}

func unmarshalData(path string, v any) error {
	data, err := dataFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return nil
}

// Parameter returns the engineering parameter for id.
func (c *Catalog) Parameter(id int) (Parameter, error) {
	if !triz.ValidParameterID(id) {
		return Parameter{}, fmt.Errorf("%w: parameter id %d not in [%d,%d]",
			triz.ErrOutOfRange, id, triz.MinParameterID, triz.MaxParameterID)
	}
	return c.parameters[id], nil
}

// Principle returns the inventive principle for id.
func (c *Catalog) Principle(id int) (Principle, error) {
	if !triz.ValidPrincipleID(id) {
		return Principle{}, fmt.Errorf("%w: principle id %d not in [%d,%d]",
			triz.ErrOutOfRange, id, triz.MinPrincipleID, triz.MaxPrincipleID)
	}
	return c.principles[id], nil
}

// Parameters returns all parameters ordered by id.
func (c *Catalog) Parameters() []Parameter {
	out := make([]Parameter, 0, len(c.parameters))
	for id := triz.MinParameterID; id <= triz.MaxParameterID; id++ {
		out = append(out, c.parameters[id])
	}
	return out
}

// Principles returns all principles ordered by id.
func (c *Catalog) Principles() []Principle {
	out := make([]Principle, 0, len(c.principles))
	for id := triz.MinPrincipleID; id <= triz.MaxPrincipleID; id++ {
		out = append(out, c.principles[id])
	}
	return out
}
