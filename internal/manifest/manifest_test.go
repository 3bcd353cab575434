package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/bedrock/internal/testutils"
)

func TestGenerate_SortedAndComplete(t *testing.T) {
	root := t.TempDir()
	testutils.WriteTree(t, root, map[string]string{
		"b/two.txt":   "two",
		"a/one.txt":   "one",
		"a/three.txt": "three",
	})

	entries, err := Generate(root)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a/one.txt", entries[0].RelPath)
	assert.Equal(t, "a/three.txt", entries[1].RelPath)
	assert.Equal(t, "b/two.txt", entries[2].RelPath)
	assert.Equal(t, uint64(3), entries[0].Size)
	assert.Len(t, entries[0].Digest, 64)
}

func TestGenerate_DeterministicAcrossCreationOrder(t *testing.T) {
	// Two trees with the same file set created in opposite order must yield
	// byte-identical manifests.
	rootA := t.TempDir()
	testutils.WriteTree(t, rootA, map[string]string{"a.txt": "x"})
	testutils.WriteTree(t, rootA, map[string]string{"b.txt": "y"})

	rootB := t.TempDir()
	testutils.WriteTree(t, rootB, map[string]string{"b.txt": "y"})
	testutils.WriteTree(t, rootB, map[string]string{"a.txt": "x"})

	entriesA, err := Generate(rootA)
	require.NoError(t, err)
	entriesB, err := Generate(rootB)
	require.NoError(t, err)

	assert.Equal(t, Encode(entriesA), Encode(entriesB))
}

func TestGenerate_ExcludesSymlinksAndPrefixes(t *testing.T) {
	root := t.TempDir()
	testutils.WriteTree(t, root, map[string]string{
		"keep.txt":          "data",
		"packaging/out.tgz": "binary",
	})
	require.NoError(t, os.Symlink(filepath.Join(root, "keep.txt"), filepath.Join(root, "link.txt")))

	entries, err := Generate(root, "packaging")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep.txt", entries[0].RelPath)
}

func TestGenerate_ReadFailureAbortsWholeManifest(t *testing.T) {
	root := t.TempDir()
	testutils.WriteTree(t, root, map[string]string{
		"ok.txt":     "fine",
		"locked.txt": "secret",
	})
	require.NoError(t, os.Chmod(filepath.Join(root, "locked.txt"), 0o000))
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(root, "locked.txt"), 0o644) })

	if os.Geteuid() == 0 {
		t.Skip("permission checks are bypassed for root")
	}

	entries, err := Generate(root)
	assert.ErrorIs(t, err, ErrManifestRead)
	assert.Nil(t, entries, "no partial manifest may be produced")
}

func TestEncode_Format(t *testing.T) {
	out := Encode([]Entry{
		{RelPath: "a.txt", Digest: "00aa", Size: 1},
	})
	assert.Equal(t, "00aa  a.txt\n", string(out))
}

func TestVerify(t *testing.T) {
	root := t.TempDir()
	testutils.WriteTree(t, root, map[string]string{
		"a.txt": "alpha",
		"b.txt": "beta",
	})

	entries, err := Generate(root)
	require.NoError(t, err)
	manifestPath := filepath.Join(t.TempDir(), "SHASUMS256.txt")
	require.NoError(t, os.WriteFile(manifestPath, Encode(entries), 0o644))

	t.Run("Clean Tree", func(t *testing.T) {
		mismatches, err := Verify(root, manifestPath)
		require.NoError(t, err)
		assert.Empty(t, mismatches)
	})

	t.Run("Tampered File", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("tampered"), 0o644))
		mismatches, err := Verify(root, manifestPath)
		require.NoError(t, err)
		require.Len(t, mismatches, 1)
		assert.Equal(t, "a.txt", mismatches[0].RelPath)
		assert.Equal(t, "digest mismatch", mismatches[0].Reason)
	})

	t.Run("Missing And Extra Files", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(root, "b.txt")))
		testutils.WriteTree(t, root, map[string]string{"c.txt": "new"})
		mismatches, err := Verify(root, manifestPath)
		require.NoError(t, err)
		reasons := make(map[string]string)
		for _, m := range mismatches {
			reasons[m.RelPath] = m.Reason
		}
		assert.Equal(t, "missing", reasons["b.txt"])
		assert.Equal(t, "not in manifest", reasons["c.txt"])
	})
}
