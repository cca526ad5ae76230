package sku

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"blorders/internal/artwork"
)

//go:embed rules.yaml
var defaultRules []byte

// ProductType is the product marker a SKU was recognised by, e.g. KOSZ or KB_MAG.
type ProductType string

const ProductNone ProductType = ""

// Group selects which family of artwork folders a product is printed from.
type Group string

const (
	GroupShirt Group = "shirt"
	GroupCup   Group = "cup"
)

// Product describes one recognised product type.
type Product struct {
	Type   ProductType  `yaml:"type"`
	Marker string       `yaml:"marker"`
	Kind   artwork.Kind `yaml:"kind"`
	Group  Group        `yaml:"group"`
	// SizeSplit marks the apparel type printed in two formats (children and adults).
	SizeSplit bool `yaml:"size_split"`
}

// Category maps a SKU marker to an output folder label.
type Category struct {
	Marker         string `yaml:"marker"`
	Label          string `yaml:"label"`
	ChildLabel     string `yaml:"child_label"`
	HalftonePrefix string `yaml:"halftone_prefix"`
}

// Rules is the domain lookup table behind the normalizer and the classifier.
type Rules struct {
	StripTokens    []string   `yaml:"strip_tokens"`
	SizeTokens     []string   `yaml:"size_tokens"`
	ChildSizes     []string   `yaml:"child_sizes"`
	HalftoneMarker string     `yaml:"halftone_marker"`
	GoldMarkers    []string   `yaml:"gold_markers"`
	WhiteMarkers   []string   `yaml:"white_markers"`
	BlackMarkers   []string   `yaml:"black_markers"`
	Products       []Product  `yaml:"products"`
	Categories     []Category `yaml:"categories"`
}

// DefaultRules returns the embedded rule table.
func DefaultRules() (*Rules, error) {
	return ParseRules(defaultRules)
}

// LoadRules reads a rule table from path, or the embedded one when path is empty.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return ParseRules(data)
}

func ParseRules(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal rules: %w", err)
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Rules) validate() error {
	if len(r.Products) == 0 {
		return errors.New("rules: no products defined")
	}
	for i, p := range r.Products {
		if p.Type == ProductNone || p.Marker == "" {
			return fmt.Errorf("rules: product %d needs type and marker", i)
		}
		switch p.Kind {
		case artwork.KindImage, artwork.KindDocument:
		default:
			return fmt.Errorf("rules: product %s has unknown kind %q", p.Type, p.Kind)
		}
		switch p.Group {
		case GroupShirt, GroupCup:
		default:
			return fmt.Errorf("rules: product %s has unknown group %q", p.Type, p.Group)
		}
	}
	for i, c := range r.Categories {
		if c.Marker == "" || c.Label == "" {
			return fmt.Errorf("rules: category %d needs marker and label", i)
		}
	}
	return nil
}
