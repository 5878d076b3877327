// Package catalog holds the static CMMC control catalog. It is reference
// metadata for reports and tools; rule evaluation never reads it.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed controls.yaml
var controlsYAML []byte

// Control represents a single catalog entry
type Control struct {
	ID          string `yaml:"id" json:"id"`
	Description string `yaml:"description" json:"description"`
}

// Domain is a CMMC capability domain such as AC (Access Control)
type Domain struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Catalog represents a compliance standard and its controls
type Catalog struct {
	Standard    string    `yaml:"standard" json:"standard"`
	Description string    `yaml:"description" json:"description"`
	Domains     []Domain  `yaml:"domains" json:"domains"`
	Controls    []Control `yaml:"controls" json:"controls"`

	byID     map[string]Control
	domainBy map[string]Domain
}

var std = mustParse(controlsYAML)

// Parse reads a catalog from YAML
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	c.byID = make(map[string]Control, len(c.Controls))
	for _, ctl := range c.Controls {
		if ctl.ID == "" {
			return nil, fmt.Errorf("control without id in %s catalog", c.Standard)
		}
		if _, dup := c.byID[ctl.ID]; dup {
			return nil, fmt.Errorf("duplicate control id: %s", ctl.ID)
		}
		c.byID[ctl.ID] = ctl
	}
	c.domainBy = make(map[string]Domain, len(c.Domains))
	for _, d := range c.Domains {
		c.domainBy[d.ID] = d
	}
	return &c, nil
}

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the catalog embedded in the binary
func Default() *Catalog {
	return std
}

// Lookup retrieves a control by id
func (c *Catalog) Lookup(id string) (Control, bool) {
	ctl, ok := c.byID[strings.TrimSpace(id)]
	return ctl, ok
}

// IDs returns the sorted control ids
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve splits a comma-joined control id list (as carried by findings)
// and returns the known controls in the order they appear.
func (c *Catalog) Resolve(controlIDs string) []Control {
	var out []Control
	for _, id := range SplitIDs(controlIDs) {
		if ctl, ok := c.Lookup(id); ok {
			out = append(out, ctl)
		}
	}
	return out
}

// DomainOf returns the domain a control id belongs to, e.g. "AU" for "AU.L2-3.3.1".
func (c *Catalog) DomainOf(controlID string) (Domain, bool) {
	prefix, _, found := strings.Cut(strings.TrimSpace(controlID), ".")
	if !found {
		return Domain{}, false
	}
	d, ok := c.domainBy[prefix]
	return d, ok
}

// SplitIDs splits "AC.L2-3.1.1, AC.L2-3.1.2" into its ids
func SplitIDs(controlIDs string) []string {
	var ids []string
	for _, part := range strings.Split(controlIDs, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
