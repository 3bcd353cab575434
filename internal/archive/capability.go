package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Capabilities are resolved once at startup. Callers branch on presence
// instead of discovering a missing external tool deep into a run.
var (
	// ErrMissingTool is returned by pre-flight checks when a required
	// external command is absent.
	ErrMissingTool = errors.New("required tool missing")
	// ErrSigning is returned when gpg itself fails; the already-produced
	// archive remains valid.
	ErrSigning = errors.New("signing failed")
)

// runCommand is the seam used for external tool invocation. Tests stub it.
type runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Signer produces detached GPG signatures over archives.
type Signer struct {
	keyRef string
	run    runCommand
}

// ResolveSigner locates gpg on PATH. Signing is a required capability only
// when the caller asks for it, so resolution failure here is ErrMissingTool
// and callers decide whether that is fatal.
func ResolveSigner(keyRef string) (*Signer, error) {
	if _, err := exec.LookPath("gpg"); err != nil {
		return nil, fmt.Errorf("%w: gpg is not on PATH", ErrMissingTool)
	}
	return &Signer{keyRef: keyRef, run: execRun}, nil
}

// Sign writes a detached signature next to archivePath and returns its
// path. Signing failure never invalidates the archive.
func (s *Signer) Sign(ctx context.Context, archivePath string) (string, error) {
	sigPath := archivePath + ".sig"
	args := []string{"--batch", "--yes", "--detach-sign", "--output", sigPath}
	if s.keyRef != "" {
		args = append(args, "--local-user", s.keyRef)
	}
	args = append(args, archivePath)

	out, err := s.run(ctx, "gpg", args...)
	if err != nil {
		return "", fmt.Errorf("%w: %v: %s", ErrSigning, err, strings.TrimSpace(string(out)))
	}
	return sigPath, nil
}

// BuildCapability compiles embedded service stubs before archiving.
// It is strictly best-effort: absence of the toolchain or a failed build
// degrades to a warning, never a packaging failure.
type BuildCapability struct {
	logger *slog.Logger
	run    runCommand
}

// ResolveBuilder returns a BuildCapability when the Go toolchain is on
// PATH, and nil (not an error) when it is absent.
func ResolveBuilder(logger *slog.Logger) *BuildCapability {
	if _, err := exec.LookPath("go"); err != nil {
		logger.Info("go toolchain not found; embedded stubs will ship unbuilt")
		return nil
	}
	return &BuildCapability{logger: logger, run: execRun}
}

// Build compiles the package rooted at srcDir in place.
func (b *BuildCapability) Build(ctx context.Context, srcDir string) error {
	out, err := b.run(ctx, "go", "build", "-C", srcDir, "./...")
	if err != nil {
		return fmt.Errorf("build %s: %v: %s", srcDir, err, strings.TrimSpace(string(out)))
	}
	return nil
}
