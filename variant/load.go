package variant

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// variantFile is the on-disk form: a base template plus overrides.
type variantFile struct {
	Base    string `yaml:"base"`
	Variant `yaml:",inline"`
}

// Load reads a YAML variant file. The file's `base` key names the built-in
// it overlays (default mcq1); every other key overrides the matching field.
// Environment variables in the file are expanded.
func Load(path string) (*Variant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading variant file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML variant document. See Load.
func Parse(data []byte) (*Variant, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var head struct {
		Base string `yaml:"base"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parsing variant file: %w", err)
	}

	base, err := Lookup(head.Base)
	if err != nil {
		return nil, err
	}

	file := variantFile{Variant: *base}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing variant file: %w", err)
	}

	v := file.Variant
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// UnmarshalYAML accepts "#RRGGBB" or "RRGGBB".
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = parsed
	return nil
}

// MarshalYAML writes the color as "#RRGGBB".
func (c Color) MarshalYAML() (interface{}, error) {
	return "#" + c.Hex(), nil
}

// ParseColor parses a hex RGB color.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	return Color{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}
