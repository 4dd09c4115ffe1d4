// Package appearance holds the folder color/icon palette shipped with
// the server. Folder requests may name a preset ("teal") instead of a
// raw hex value; the registry resolves presets and validates icons.
package appearance

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
	"linkhive/internal/domain/models"
)

//go:embed config/*.yaml
var configFiles embed.FS

type palette struct {
	Colors []struct {
		Name string `yaml:"name"`
		Hex  string `yaml:"hex"`
	} `yaml:"colors"`
	Icons []string `yaml:"icons"`
}

// Registry resolves color presets and validates icon names. It is
// loaded once at startup from the embedded palette and read-only after.
type Registry struct {
	colors map[string]string
	icons  map[string]bool
}

// NewRegistry loads the embedded palette YAML
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/palette.yaml")
	if err != nil {
		return nil, fmt.Errorf("read palette: %w", err)
	}

	var p palette
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal palette: %w", err)
	}

	r := &Registry{
		colors: make(map[string]string, len(p.Colors)),
		icons:  make(map[string]bool, len(p.Icons)),
	}
	for _, c := range p.Colors {
		if !models.ColorPattern.MatchString(c.Hex) {
			return nil, fmt.Errorf("palette color %q has invalid hex %q", c.Name, c.Hex)
		}
		r.colors[c.Name] = c.Hex
	}
	for _, icon := range p.Icons {
		r.icons[icon] = true
	}

	return r, nil
}

// ResolveColor accepts either a raw hex color or a preset name and
// returns the hex value. Empty input resolves to the default color.
func (r *Registry) ResolveColor(color string) (string, error) {
	if color == "" {
		return models.DefaultFolderColor, nil
	}
	if models.ColorPattern.MatchString(color) {
		return color, nil
	}
	if hex, ok := r.colors[color]; ok {
		return hex, nil
	}
	return "", fmt.Errorf("unknown color %q", color)
}

// KnownIcon reports whether the icon name is in the shipped set
func (r *Registry) KnownIcon(icon string) bool {
	return r.icons[icon]
}
