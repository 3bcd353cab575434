// Package registry defines the module descriptors that drive scaffold
// generation. Descriptors are loaded once at startup (built-in defaults or a
// YAML file), validated for uniqueness and path safety, and never mutated.
package registry

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrInvalidRegistry is returned for any descriptor that fails validation.
var ErrInvalidRegistry = errors.New("invalid module registry")

// Descriptor identifies one generated module. Identity is Name.
type Descriptor struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Extensions carries loosely-typed per-module configuration for
	// extension hooks (e.g. the secrets-lifecycle Vault stub). Hooks decode
	// the value they care about with mapstructure.
	Extensions map[string]any `yaml:"extensions,omitempty"`
}

// DecodeExtension decodes the named extension config into out using
// mapstructure. It returns false when the extension is not configured.
func (d Descriptor) DecodeExtension(name string, out any) (bool, error) {
	raw, ok := d.Extensions[name]
	if !ok {
		return false, nil
	}
	if err := mapstructure.Decode(raw, out); err != nil {
		return false, fmt.Errorf("decode extension %q for module %q: %w", name, d.Name, err)
	}
	return true, nil
}

// registryFile is the on-disk shape of a modules.yaml.
type registryFile struct {
	Modules []Descriptor `yaml:"modules"`
}

// Default returns the built-in registry used when no file is supplied.
// Order is significant for log readability only.
func Default() []Descriptor {
	return []Descriptor{
		{Name: "ingress-proxy", Description: "Edge reverse proxy fronting all platform services"},
		{Name: "config-distributor", Description: "Pushes rendered configuration bundles to service hosts"},
		{Name: "log-shipper", Description: "Tails service logs and forwards them to the aggregation tier"},
		{Name: "metrics-relay", Description: "Buffers and relays service metrics to long-term storage"},
		{Name: "secrets-lifecycle", Description: "Rotates, leases, and audits service credentials"},
		{Name: "backup-agent", Description: "Schedules and verifies encrypted off-host backups"},
	}
}

// Load reads descriptors from a YAML file.
func Load(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidRegistry, path, err)
	}
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidRegistry, path, err)
	}
	if len(file.Modules) == 0 {
		return nil, fmt.Errorf("%w: %s declares no modules", ErrInvalidRegistry, path)
	}
	if err := Validate(file.Modules); err != nil {
		return nil, err
	}
	return file.Modules, nil
}

// reservedNames are path segments the pipeline claims under the base
// directory. A module with one of these names would share its root with the
// packaging output tree, so manifests and archives would silently exclude
// it.
var reservedNames = map[string]bool{
	"packaging": true,
}

// Validate checks every descriptor for a non-empty, path-safe, unique,
// non-reserved name. Path-safe means a single path segment: no separators,
// no traversal, no leading dot, only [a-z0-9-_] after lowercasing.
func Validate(modules []Descriptor) error {
	seen := make(map[string]bool, len(modules))
	for _, m := range modules {
		if m.Name == "" {
			return fmt.Errorf("%w: module with empty name", ErrInvalidRegistry)
		}
		if !pathSafe(m.Name) {
			return fmt.Errorf("%w: module name %q is not path-safe", ErrInvalidRegistry, m.Name)
		}
		if reservedNames[m.Name] {
			return fmt.Errorf("%w: module name %q is reserved for pipeline output", ErrInvalidRegistry, m.Name)
		}
		if seen[m.Name] {
			return fmt.Errorf("%w: duplicate module name %q", ErrInvalidRegistry, m.Name)
		}
		seen[m.Name] = true
	}
	return nil
}

func pathSafe(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
