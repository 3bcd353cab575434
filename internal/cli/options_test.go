package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		opts := RunOptions{}
		opts.ResolveEnv()
		assert.Equal(t, DefaultBaseDir, opts.BaseDir)
		assert.False(t, opts.Force)
		assert.False(t, opts.Sign)
	})

	t.Run("Environment Fallback", func(t *testing.T) {
		t.Setenv(EnvBaseDir, "/srv/out")
		t.Setenv(EnvForce, "1")
		t.Setenv(EnvGPGSign, "1")

		opts := RunOptions{}
		opts.ResolveEnv()
		assert.Equal(t, "/srv/out", opts.BaseDir)
		assert.True(t, opts.Force)
		assert.True(t, opts.Sign)
	})

	t.Run("Flags Win Over Environment", func(t *testing.T) {
		t.Setenv(EnvBaseDir, "/srv/out")

		opts := RunOptions{BaseDir: "/flag/out"}
		opts.ResolveEnv()
		assert.Equal(t, "/flag/out", opts.BaseDir)
	})

	t.Run("Unprefixed Aliases", func(t *testing.T) {
		t.Setenv("BASE_DIR", "/srv/alias")
		t.Setenv("FORCE", "1")
		t.Setenv("GPG_SIGN", "1")

		opts := RunOptions{}
		opts.ResolveEnv()
		assert.Equal(t, "/srv/alias", opts.BaseDir)
		assert.True(t, opts.Force)
		assert.True(t, opts.Sign)
	})

	t.Run("Prefixed Wins Over Alias", func(t *testing.T) {
		t.Setenv(EnvBaseDir, "/srv/prefixed")
		t.Setenv("BASE_DIR", "/srv/alias")

		opts := RunOptions{}
		opts.ResolveEnv()
		assert.Equal(t, "/srv/prefixed", opts.BaseDir)
	})

	t.Run("Force Env Requires Exactly 1", func(t *testing.T) {
		t.Setenv(EnvForce, "true")
		opts := RunOptions{}
		opts.ResolveEnv()
		assert.False(t, opts.Force)
	})
}

func TestModules(t *testing.T) {
	t.Run("Builtin Default", func(t *testing.T) {
		opts := RunOptions{}
		modules, err := opts.Modules()
		require.NoError(t, err)
		assert.NotEmpty(t, modules)
	})

	t.Run("Missing Registry File", func(t *testing.T) {
		opts := RunOptions{RegistryPath: "/does/not/exist.yaml"}
		_, err := opts.Modules()
		assert.Error(t, err)
	})
}

func TestDoctor_ReportShape(t *testing.T) {
	var buf bytes.Buffer
	code := Doctor(context.Background(), RunOptions{BaseDir: t.TempDir()}, &buf)

	out := buf.String()
	assert.Contains(t, out, "base_dir:")
	assert.Contains(t, out, "registry_modules:")
	assert.Contains(t, out, "gpg_present:")
	assert.Contains(t, out, "go_present:")
	assert.Contains(t, out, "signing_enabled: false")
	// Without signing requested, tool absence never fails the check.
	assert.Zero(t, code)
}
