// Package catalog holds the shop's static offer: the default service list
// used to seed the database and the combo bundles.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"reliquia-backend/pricing"
)

//go:embed default.yaml
var defaultCatalog []byte

var ErrInvalidCatalog = errors.New("catalog: invalid definition")

// ServiceDef is a service as listed in the catalog file.
type ServiceDef struct {
	Slug     string
	Name     string
	Category string
	Price    decimal.Decimal
	Duration int
}

// Catalog is the parsed, validated catalog.
type Catalog struct {
	Services []ServiceDef
	Combos   []pricing.Combo
}

type fileFormat struct {
	Services []struct {
		Slug     string `yaml:"slug"`
		Name     string `yaml:"name"`
		Category string `yaml:"category"`
		Price    string `yaml:"price"`
		Duration int    `yaml:"duration"`
	} `yaml:"services"`
	Combos []struct {
		ID       string   `yaml:"id"`
		Name     string   `yaml:"name"`
		Label    string   `yaml:"label"`
		Price    string   `yaml:"price"`
		Services []string `yaml:"services"`
	} `yaml:"combos"`
}

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads the catalog at path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML catalog.
func Parse(raw []byte) (*Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	c := &Catalog{}
	known := map[string]bool{}
	for _, s := range f.Services {
		slug := strings.TrimSpace(s.Slug)
		if slug == "" || s.Name == "" {
			return nil, fmt.Errorf("%w: service needs slug and name", ErrInvalidCatalog)
		}
		if known[slug] {
			return nil, fmt.Errorf("%w: duplicate service %q", ErrInvalidCatalog, slug)
		}
		price, err := parsePrice(s.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: service %q: %v", ErrInvalidCatalog, slug, err)
		}
		known[slug] = true
		c.Services = append(c.Services, ServiceDef{
			Slug:     slug,
			Name:     s.Name,
			Category: s.Category,
			Price:    price,
			Duration: s.Duration,
		})
	}

	seen := map[string]bool{}
	for _, cb := range f.Combos {
		if cb.ID == "" || seen[cb.ID] {
			return nil, fmt.Errorf("%w: combo id %q missing or duplicated", ErrInvalidCatalog, cb.ID)
		}
		if len(cb.Services) == 0 {
			return nil, fmt.Errorf("%w: combo %q has no services", ErrInvalidCatalog, cb.ID)
		}
		for _, id := range cb.Services {
			if !known[id] {
				return nil, fmt.Errorf("%w: combo %q references unknown service %q", ErrInvalidCatalog, cb.ID, id)
			}
		}
		price, err := parsePrice(cb.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: combo %q: %v", ErrInvalidCatalog, cb.ID, err)
		}
		seen[cb.ID] = true
		c.Combos = append(c.Combos, pricing.Combo{
			ID:          cb.ID,
			Name:        cb.Name,
			Label:       cb.Label,
			ServiceIDs:  pricing.NewSelection(cb.Services...).IDs(),
			BundlePrice: price,
		})
	}
	return c, nil
}

// Combo returns the combo with the given id.
func (c *Catalog) Combo(id string) (pricing.Combo, bool) {
	for _, cb := range c.Combos {
		if cb.ID == id {
			return cb, true
		}
	}
	return pricing.Combo{}, false
}

// Prices is the catalog's own price table, used before the database is seeded.
func (c *Catalog) Prices() pricing.PriceTable {
	prices := make(pricing.PriceTable, len(c.Services))
	for _, s := range c.Services {
		prices[s.Slug] = s.Price
	}
	return prices
}

func parsePrice(v string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return decimal.Zero, err
	}
	if price.IsNegative() {
		return decimal.Zero, errors.New("negative price")
	}
	return price, nil
}
