package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/bedrock/internal/manifest"
	"github.com/aretw0/bedrock/internal/registry"
	"github.com/aretw0/bedrock/internal/scaffold"
	"github.com/aretw0/bedrock/internal/testutils"
)

var testModules = []registry.Descriptor{
	{Name: "widget-api", Description: "Serves widgets"},
	{Name: "audit-log", Description: "Collects audit events"},
}

func newRun(t *testing.T, opts Options) Summary {
	t.Helper()
	if opts.BaseDir == "" {
		opts.BaseDir = t.TempDir()
	}
	if opts.Modules == nil {
		opts.Modules = testModules
	}
	o, err := New(opts)
	require.NoError(t, err)
	return o.Run(context.Background())
}

func TestRun_AllModulesDone(t *testing.T) {
	base := t.TempDir()
	summary := newRun(t, Options{BaseDir: base})

	require.Len(t, summary.Results, 2)
	for _, r := range summary.Results {
		assert.Equal(t, StateDone, r.State, "module %s", r.Module.Name)
		assert.NoError(t, r.Err)
		assert.Empty(t, r.Package.SignaturePath, "signing disabled")
	}
	assert.False(t, summary.Failed())
	assert.Equal(t, ExitOK, summary.ExitCode())

	t.Run("Packaging Outputs Exist", func(t *testing.T) {
		for _, name := range []string{
			"widget-api.tar.gz", "widget-api.SHASUMS256.txt",
			"audit-log.tar.gz", "audit-log.SHASUMS256.txt",
			TreeManifestName, TreeArchiveName,
		} {
			_, err := os.Stat(filepath.Join(base, PackagingDir, name))
			assert.NoError(t, err, "expected %s", name)
		}
	})

	t.Run("Tree Manifest Excludes Packaging Dir", func(t *testing.T) {
		data, err := os.ReadFile(summary.TreeManifestPath)
		require.NoError(t, err)
		assert.NotContains(t, string(data), PackagingDir+"/")
		assert.Contains(t, string(data), "widget-api/README.md")
	})
}

func TestRun_Idempotency(t *testing.T) {
	base := t.TempDir()
	first := newRun(t, Options{BaseDir: base})
	require.False(t, first.Failed())

	firstTree := testutils.ReadTree(t, filepath.Join(base, "widget-api"))

	second := newRun(t, Options{BaseDir: base})
	require.False(t, second.Failed())

	secondTree := testutils.ReadTree(t, filepath.Join(base, "widget-api"))
	assert.Equal(t, firstTree, secondTree, "re-run must not change the tree")

	firstManifest, err := os.ReadFile(first.TreeManifestPath)
	require.NoError(t, err)
	secondManifest, err := os.ReadFile(second.TreeManifestPath)
	require.NoError(t, err)
	assert.Equal(t, firstManifest, secondManifest)
}

func TestRun_FaultIsolation(t *testing.T) {
	base := t.TempDir()
	// Block the first module's root with a regular file so its directory
	// creation fails.
	require.NoError(t, os.MkdirAll(base, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "widget-api"), []byte("blocker"), 0o644))

	summary := newRun(t, Options{BaseDir: base})
	require.Len(t, summary.Results, 2)

	assert.Equal(t, StateFailed, summary.Results[0].State)
	assert.Error(t, summary.Results[0].Err)
	assert.Equal(t, StateDone, summary.Results[1].State, "sibling module must complete")

	assert.True(t, summary.Failed())
	assert.Equal(t, ExitDirectoryCreate, summary.ExitCode())
}

func TestRun_SecretsModuleGetsExtensionArtifacts(t *testing.T) {
	base := t.TempDir()
	summary := newRun(t, Options{
		BaseDir: base,
		Modules: []registry.Descriptor{
			{Name: scaffold.SecretsModuleName, Description: "Credential rotation"},
		},
	})
	require.False(t, summary.Failed())

	_, err := os.Stat(filepath.Join(base, scaffold.SecretsModuleName, "hooks", "vault-agent.hcl"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, scaffold.SecretsModuleName, "docs", "VAULT.md"))
	assert.NoError(t, err)
}

func TestRun_ModuleManifestMatchesTree(t *testing.T) {
	base := t.TempDir()
	summary := newRun(t, Options{BaseDir: base})
	require.False(t, summary.Failed())

	moduleRoot := filepath.Join(base, "widget-api")
	manifestPath := filepath.Join(base, PackagingDir, "widget-api.SHASUMS256.txt")
	mismatches, err := manifest.Verify(moduleRoot, manifestPath)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestNew_Validation(t *testing.T) {
	t.Run("Missing Base Dir", func(t *testing.T) {
		_, err := New(Options{})
		assert.Error(t, err)
	})

	t.Run("Invalid Registry", func(t *testing.T) {
		_, err := New(Options{
			BaseDir: t.TempDir(),
			Modules: []registry.Descriptor{{Name: "a"}, {Name: "a"}},
		})
		assert.ErrorIs(t, err, registry.ErrInvalidRegistry)
	})

	t.Run("Module Named After Output Dir", func(t *testing.T) {
		// Such a module would share its root with the packaging output
		// tree and drop out of the tree manifest and bundle.
		_, err := New(Options{
			BaseDir: t.TempDir(),
			Modules: []registry.Descriptor{{Name: PackagingDir}},
		})
		assert.ErrorIs(t, err, registry.ErrInvalidRegistry)
	})
}

func TestStateTransitions(t *testing.T) {
	t.Run("Happy Path", func(t *testing.T) {
		s := StatePending
		for _, next := range []State{
			StateScaffolding, StateManifesting, StatePackaging, StateUnsigned, StateDone,
		} {
			s = transition(s, next)
		}
		assert.Equal(t, StateDone, s)
		assert.True(t, s.Terminal())
	})

	t.Run("Failed From Any Non-Terminal", func(t *testing.T) {
		for _, from := range []State{StatePending, StateScaffolding, StateManifesting, StatePackaging} {
			assert.Equal(t, StateFailed, transition(from, StateFailed))
		}
	})

	t.Run("Illegal Transition Panics", func(t *testing.T) {
		assert.Panics(t, func() { transition(StatePending, StateDone) })
		assert.Panics(t, func() { transition(StateDone, StateFailed) })
	})
}
