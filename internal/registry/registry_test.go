package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryIsValid(t *testing.T) {
	modules := Default()
	require.NotEmpty(t, modules)
	assert.NoError(t, Validate(modules))

	// The special-cased module must be present; the scaffold builder keys
	// its extension hook on this name.
	names := make([]string, 0, len(modules))
	for _, m := range modules {
		names = append(names, m.Name)
	}
	assert.Contains(t, names, "secrets-lifecycle")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		modules []Descriptor
		wantErr bool
	}{
		{"valid", []Descriptor{{Name: "a-1"}, {Name: "b_2"}}, false},
		{"empty name", []Descriptor{{Name: ""}}, true},
		{"duplicate", []Descriptor{{Name: "a"}, {Name: "a"}}, true},
		{"path separator", []Descriptor{{Name: "a/b"}}, true},
		{"traversal", []Descriptor{{Name: ".."}}, true},
		{"hidden", []Descriptor{{Name: ".hidden"}}, true},
		{"uppercase", []Descriptor{{Name: "Ingress"}}, true},
		{"reserved output dir", []Descriptor{{Name: "packaging"}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.modules)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRegistry)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modules.yaml")
	content := `modules:
  - name: widget-api
    description: Serves widgets
  - name: secrets-lifecycle
    description: Credential rotation
    extensions:
      vault:
        addr_env: VAULT_ADDR
        guidance: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	modules, err := Load(path)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, "widget-api", modules[0].Name)

	t.Run("Extension Decoding", func(t *testing.T) {
		var cfg struct {
			AddrEnv  string `mapstructure:"addr_env"`
			Guidance bool   `mapstructure:"guidance"`
		}
		ok, err := modules[1].DecodeExtension("vault", &cfg)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "VAULT_ADDR", cfg.AddrEnv)
		assert.True(t, cfg.Guidance)

		ok, err = modules[0].DecodeExtension("vault", &cfg)
		require.NoError(t, err)
		assert.False(t, ok, "unconfigured extension must report absent")
	})
}

func TestLoadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	t.Run("Missing File", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.yaml"))
		assert.ErrorIs(t, err, ErrInvalidRegistry)
	})

	t.Run("Empty Module List", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("modules: []\n"), 0o644))
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrInvalidRegistry)
	})

	t.Run("Duplicate Names", func(t *testing.T) {
		path := filepath.Join(dir, "dup.yaml")
		require.NoError(t, os.WriteFile(path, []byte("modules:\n  - name: a\n  - name: a\n"), 0o644))
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrInvalidRegistry)
	})
}
