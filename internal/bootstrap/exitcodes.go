package bootstrap

import (
	"errors"

	"github.com/aretw0/bedrock/internal/archive"
	"github.com/aretw0/bedrock/internal/fsutil"
	"github.com/aretw0/bedrock/internal/manifest"
	"github.com/aretw0/bedrock/internal/registry"
)

// Exit codes, one per unrecoverable cause, for scriptability.
const (
	ExitOK              = 0
	ExitModuleFailed    = 1
	ExitInvalidRegistry = 2
	ExitMissingTool     = 3
	ExitDirectoryCreate = 4
	ExitArchive         = 5
	ExitManifest        = 6
)

// ExitCodeFor maps an error to its exit code via the sentinel taxonomy.
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, registry.ErrInvalidRegistry):
		return ExitInvalidRegistry
	case errors.Is(err, archive.ErrMissingTool):
		return ExitMissingTool
	case errors.Is(err, fsutil.ErrDirectoryCreate):
		return ExitDirectoryCreate
	case errors.Is(err, archive.ErrArchive):
		return ExitArchive
	case errors.Is(err, manifest.ErrManifestRead):
		return ExitManifest
	default:
		return ExitModuleFailed
	}
}
