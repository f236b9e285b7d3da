package pack

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Manifest is the module manifest (selene.mod.yaml) describing a
// compilation unit and the packages it depends on.
type Manifest struct {
	Name    string            `yaml:"name"`
	Version string            `yaml:"version"`
	Deps    map[string]string `yaml:"deps,omitempty"`
}

// ParseManifest decodes a manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("invalid manifest: missing name")
	}
	return &m, nil
}

// Encode renders the manifest back to YAML.
func (m *Manifest) Encode() ([]byte, error) {
	return yaml.Marshal(m)
}
