package models

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var categoriesYAML []byte

// CategoryInfo is the display data for one category
type CategoryInfo struct {
	Value Category `yaml:"value" json:"value"`
	Label string   `yaml:"label" json:"label"`
	Icon  string   `yaml:"icon" json:"icon"`
}

var catalog = mustLoadCatalog(categoriesYAML)

func mustLoadCatalog(raw []byte) []CategoryInfo {
	infos, err := loadCatalog(raw)
	if err != nil {
		panic(err)
	}
	return infos
}

func loadCatalog(raw []byte) ([]CategoryInfo, error) {
	var infos []CategoryInfo
	if err := yaml.Unmarshal(raw, &infos); err != nil {
		return nil, fmt.Errorf("parse category catalog: %w", err)
	}
	for _, info := range infos {
		if !info.Value.Valid() {
			return nil, fmt.Errorf("category catalog: %w: %q", ErrUnknownCategory, info.Value)
		}
	}
	return infos, nil
}

// Categories returns the catalog in dropdown order
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(catalog))
	copy(out, catalog)
	return out
}

// LookupCategory returns the display data for c
func LookupCategory(c Category) (CategoryInfo, bool) {
	for _, info := range catalog {
		if info.Value == c {
			return info, true
		}
	}
	return CategoryInfo{}, false
}
