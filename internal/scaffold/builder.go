// Package scaffold turns a module descriptor into its on-disk file set: a
// fixed directory skeleton plus one rendered artifact per template kind,
// written through the atomic writer.
package scaffold

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/bedrock/internal/fsutil"
	"github.com/aretw0/bedrock/internal/registry"
)

// SkeletonDirs is the fixed directory set created under every module root,
// in creation order.
var SkeletonDirs = []string{
	"bin", "etc", "lib", "docs", "tests", "ci", "packaging", "hooks", "docker", "k8s",
}

// ExtensionHook contributes additional artifacts for a specific module.
// Hooks run after the fixed template set; their failures are aggregated the
// same way.
type ExtensionHook func(module registry.Descriptor) ([]Artifact, error)

// Builder materializes module scaffolds.
type Builder struct {
	writer *fsutil.Writer
	logger *slog.Logger
	hooks  map[string][]ExtensionHook
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the builder's structured logger.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithHook registers an extension hook for the named module.
func WithHook(moduleName string, hook ExtensionHook) BuilderOption {
	return func(b *Builder) {
		b.hooks[moduleName] = append(b.hooks[moduleName], hook)
	}
}

// NewBuilder creates a Builder writing through the given atomic writer.
func NewBuilder(writer *fsutil.Writer, opts ...BuilderOption) *Builder {
	b := &Builder{
		writer: writer,
		hooks:  make(map[string][]ExtensionHook),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return b
}

// Build generates the full scaffold for one module under baseDir.
//
// It is best-effort across artifacts: a failed write is recorded and
// siblings still get their chance, so a re-run can fill the gap. The module
// as a whole succeeded iff no outcome failed (see Succeeded).
func (b *Builder) Build(module registry.Descriptor, baseDir string, overwrite bool) []fsutil.WriteOutcome {
	moduleRoot := filepath.Join(baseDir, module.Name)

	var outcomes []fsutil.WriteOutcome

	// 1. Directory skeleton first, so every artifact write sees its parent.
	for _, dir := range SkeletonDirs {
		if err := fsutil.EnsureDir(filepath.Join(moduleRoot, dir)); err != nil {
			outcomes = append(outcomes, fsutil.WriteOutcome{
				Path: filepath.Join(moduleRoot, dir),
				Kind: fsutil.OutcomeFailed,
				Err:  err,
			})
		}
	}

	// 2. Fixed template set.
	for _, kind := range Kinds() {
		artifact, err := Render(module, kind)
		if err != nil {
			outcomes = append(outcomes, fsutil.WriteOutcome{
				Path: filepath.Join(moduleRoot, kind.String()),
				Kind: fsutil.OutcomeFailed,
				Err:  err,
			})
			continue
		}
		outcomes = append(outcomes, b.writeArtifact(moduleRoot, artifact, overwrite))
	}

	// 3. Extension hooks for this module, if any.
	for _, hook := range b.hooks[module.Name] {
		artifacts, err := hook(module)
		if err != nil {
			b.logger.Error("extension hook failed", "module", module.Name, "err", err)
			outcomes = append(outcomes, fsutil.WriteOutcome{
				Path: moduleRoot,
				Kind: fsutil.OutcomeFailed,
				Err:  fmt.Errorf("extension hook for %q: %w", module.Name, err),
			})
			continue
		}
		for _, artifact := range artifacts {
			outcomes = append(outcomes, b.writeArtifact(moduleRoot, artifact, overwrite))
		}
	}

	return outcomes
}

func (b *Builder) writeArtifact(moduleRoot string, artifact Artifact, overwrite bool) fsutil.WriteOutcome {
	mode := os.FileMode(0o644)
	if artifact.Executable {
		mode = 0o755
	}
	dest := filepath.Join(moduleRoot, filepath.FromSlash(artifact.RelPath))
	return b.writer.Write(dest, artifact.Content, mode, overwrite)
}

// Succeeded reports whether a module build finished without a single
// failed outcome.
func Succeeded(outcomes []fsutil.WriteOutcome) bool {
	for _, o := range outcomes {
		if !o.OK() {
			return false
		}
	}
	return true
}

// Failures extracts the failed outcomes for error reporting.
func Failures(outcomes []fsutil.WriteOutcome) []fsutil.WriteOutcome {
	var failed []fsutil.WriteOutcome
	for _, o := range outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}
