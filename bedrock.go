package bedrock

import (
	"context"
	"log/slog"

	"github.com/aretw0/bedrock/internal/bootstrap"
	"github.com/aretw0/bedrock/internal/registry"
)

// Version is the library and CLI version.
const Version = "0.3.0"

// Module describes one unit of generated scaffolding.
type Module struct {
	Name        string
	Description string
}

// ModuleStatus is the terminal outcome for one module in a run.
type ModuleStatus struct {
	Name          string
	Status        string // "done" or "failed"
	ArchivePath   string
	SignaturePath string
	Err           error
	Warnings      []string
}

// Result aggregates a full generation run.
// Err is set only when the run could not start at all (e.g. a required
// tool vanished between New and Run); per-module failures live on the
// individual ModuleStatus entries.
type Result struct {
	Modules          []ModuleStatus
	TreeManifestPath string
	TreeArchivePath  string
	Failed           bool
	ExitCode         int
	Err              error
}

// Generator is the high-level entry point for the bedrock library.
// It wraps the internal orchestrator and provides a simplified API for
// consumers embedding generation in their own tooling.
type Generator struct {
	baseDir string
	opts    bootstrap.Options
}

// Option defines a functional option for configuring the Generator.
type Option func(*Generator)

// WithLogger sets a custom structured logger for the run.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.opts.Logger = logger
	}
}

// WithForce overwrites existing generated files instead of skipping them.
func WithForce(force bool) Option {
	return func(g *Generator) {
		g.opts.Overwrite = force
	}
}

// WithSigning enables detached GPG signatures over every archive.
// keyRef may be empty to use the default secret key.
func WithSigning(keyRef string) Option {
	return func(g *Generator) {
		g.opts.Sign = true
		g.opts.KeyRef = keyRef
	}
}

// WithModules replaces the built-in module registry.
func WithModules(modules []Module) Option {
	return func(g *Generator) {
		descriptors := make([]registry.Descriptor, len(modules))
		for i, m := range modules {
			descriptors[i] = registry.Descriptor{Name: m.Name, Description: m.Description}
		}
		g.opts.Modules = descriptors
	}
}

// New initializes a Generator targeting baseDir. The registry is validated
// and external capabilities (gpg, when signing is enabled) are resolved
// here, so a missing required tool fails fast instead of mid-run.
func New(baseDir string, opts ...Option) (*Generator, error) {
	g := &Generator{baseDir: baseDir}
	g.opts.BaseDir = baseDir
	for _, opt := range opts {
		opt(g)
	}
	// Validate eagerly; Run re-creates the orchestrator with the same
	// options, so surfacing errors here keeps Run infallible-by-options.
	if _, err := bootstrap.New(g.opts); err != nil {
		return nil, err
	}
	return g, nil
}

// Run executes the full pipeline: scaffold every module, manifest it,
// package it, optionally sign it, then produce the whole-tree manifest and
// archive. Modules are fault-isolated; the Result records every outcome.
func (g *Generator) Run(ctx context.Context) Result {
	orchestrator, err := bootstrap.New(g.opts)
	if err != nil {
		// Options were validated in New; reaching this means the
		// environment changed underneath us (e.g. gpg removed).
		return Result{Failed: true, ExitCode: bootstrap.ExitCodeFor(err), Err: err}
	}
	summary := orchestrator.Run(ctx)

	result := Result{
		TreeManifestPath: summary.TreeManifestPath,
		TreeArchivePath:  summary.TreeArchivePath,
		Failed:           summary.Failed(),
		ExitCode:         summary.ExitCode(),
	}
	for _, r := range summary.Results {
		status := "done"
		if r.State == bootstrap.StateFailed {
			status = "failed"
		}
		result.Modules = append(result.Modules, ModuleStatus{
			Name:          r.Module.Name,
			Status:        status,
			ArchivePath:   r.Package.ArchivePath,
			SignaturePath: r.Package.SignaturePath,
			Err:           r.Err,
			Warnings:      r.Warnings,
		})
	}
	return result
}
