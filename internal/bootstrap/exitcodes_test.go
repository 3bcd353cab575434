package bootstrap

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/bedrock/internal/archive"
	"github.com/aretw0/bedrock/internal/fsutil"
	"github.com/aretw0/bedrock/internal/manifest"
	"github.com/aretw0/bedrock/internal/registry"
)

func TestExitCodeFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"invalid registry", registry.ErrInvalidRegistry, ExitInvalidRegistry},
		{"missing tool", archive.ErrMissingTool, ExitMissingTool},
		{"directory create", fsutil.ErrDirectoryCreate, ExitDirectoryCreate},
		{"archive", archive.ErrArchive, ExitArchive},
		{"manifest read", manifest.ErrManifestRead, ExitManifest},
		{"wrapped sentinel", fmt.Errorf("pre-flight: %w", archive.ErrMissingTool), ExitMissingTool},
		{"unclassified", errors.New("boom"), ExitModuleFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCodeFor(tc.err))
		})
	}
}
