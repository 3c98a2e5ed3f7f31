// Package remodel compares a before and after coverage form and narrates the
// differences as per-item lines, counts and rule-selected sentences.
package remodel

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var taxonomyYAML []byte

const categoricalMarker = "실손"

// Choices offered for categorical items.
var Choices = []string{"", "예", "아니오"}

type Group struct {
	Name  string   `yaml:"name" json:"name"`
	Items []string `yaml:"items" json:"items"`
}

// Taxonomy is the fixed, ordered list of coverage groups.
type Taxonomy struct {
	Groups []Group `yaml:"groups" json:"groups"`
}

var defaultTaxonomy = mustLoadTaxonomy(taxonomyYAML)

// DefaultTaxonomy returns the built-in coverage groups.
func DefaultTaxonomy() Taxonomy {
	out := Taxonomy{Groups: make([]Group, len(defaultTaxonomy.Groups))}
	for i, g := range defaultTaxonomy.Groups {
		out.Groups[i] = Group{Name: g.Name, Items: append([]string(nil), g.Items...)}
	}
	return out
}

func LoadTaxonomy(data []byte) (Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Taxonomy{}, fmt.Errorf("decode taxonomy: %w", err)
	}
	if len(t.Groups) == 0 {
		return Taxonomy{}, fmt.Errorf("decode taxonomy: no groups")
	}
	seen := map[string]string{}
	for _, g := range t.Groups {
		for _, item := range g.Items {
			if prev, ok := seen[item]; ok {
				return Taxonomy{}, fmt.Errorf("decode taxonomy: item %q listed in %q and %q", item, prev, g.Name)
			}
			seen[item] = g.Name
		}
	}
	return t, nil
}

func mustLoadTaxonomy(data []byte) Taxonomy {
	t, err := LoadTaxonomy(data)
	if err != nil {
		panic(err)
	}
	return t
}

// IsCategorical reports whether an item takes a 예/아니오 choice instead of an amount.
func IsCategorical(item string) bool {
	return strings.Contains(item, categoricalMarker)
}

// Items returns every item name in taxonomy order.
func (t Taxonomy) Items() []string {
	var out []string
	for _, g := range t.Groups {
		out = append(out, g.Items...)
	}
	return out
}

func (t Taxonomy) Contains(item string) bool {
	for _, g := range t.Groups {
		for _, it := range g.Items {
			if it == item {
				return true
			}
		}
	}
	return false
}
