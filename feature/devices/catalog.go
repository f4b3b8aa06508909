package devices

import (
	"fmt"
	"os"
	"strings"

	"device-sync/core/model"

	"github.com/goccy/go-yaml"
)

// Catalog is the set of categories configured for a project.
type Catalog struct {
	Categories []model.CategoryConfig `yaml:"categories"`
}

// LoadCatalog reads and validates a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses and validates catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that names are unique, kinds are registered and every target
// name a sync needs is present.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("category #%d: name is required", i)
		}
		key := strings.ToLower(cat.Name)
		if seen[key] {
			return fmt.Errorf("category %s: duplicate name", cat.Name)
		}
		seen[key] = true

		if _, err := Lookup(cat.Kind); err != nil {
			return fmt.Errorf("category %s: %w", cat.Name, err)
		}

		required := map[string]string{
			"sheet":            cat.Sheet,
			"constant_table":   cat.ConstantTable,
			"sizing_table":     cat.SizingTable,
			"block":            cat.Block,
			"array":            cat.Array,
			"sizing_limit_key": cat.SizingLimitKey,
			"sizing_constant":  cat.SizingConstant,
		}
		for field, v := range required {
			if v == "" {
				return fmt.Errorf("category %s: %s is required", cat.Name, field)
			}
		}
	}
	return nil
}

// Get returns the category with the given name, compared case-insensitively.
func (c *Catalog) Get(name string) (model.CategoryConfig, bool) {
	for _, cat := range c.Categories {
		if strings.EqualFold(cat.Name, name) {
			return cat, true
		}
	}
	return model.CategoryConfig{}, false
}

// Names returns the category names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		names = append(names, cat.Name)
	}
	return names
}
