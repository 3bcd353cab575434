// Package bootstrap drives the full generation pipeline: scaffold every
// registered module, manifest it, package it, optionally sign it, then
// produce the whole-tree manifest and archive.
//
// Execution is sequential in registry order. Modules are fault-isolated: a
// failed module is recorded and its siblings still run to completion.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/bedrock/internal/archive"
	"github.com/aretw0/bedrock/internal/fsutil"
	"github.com/aretw0/bedrock/internal/logging"
	"github.com/aretw0/bedrock/internal/manifest"
	"github.com/aretw0/bedrock/internal/registry"
	"github.com/aretw0/bedrock/internal/scaffold"
)

// PackagingDir is the subdirectory of the base dir holding manifests,
// archives, and signatures. It is excluded from manifests and archives of
// the tree itself.
const PackagingDir = "packaging"

// TreeManifestName is the whole-tree checksum manifest file name.
const TreeManifestName = "SHASUMS256.txt"

// TreeArchiveName is the whole-tree archive file name.
const TreeArchiveName = "bundle.tar.gz"

// Options configures a run. Everything is explicit; there is no package
// state.
type Options struct {
	BaseDir   string
	Overwrite bool

	// Sign enables detached signatures. When set, gpg must be resolvable
	// up front or New fails with ErrMissingTool.
	Sign   bool
	KeyRef string

	// Modules defaults to registry.Default() when empty.
	Modules []registry.Descriptor

	Logger *slog.Logger
}

// ModuleResult is the terminal record for one module.
type ModuleResult struct {
	Module   registry.Descriptor
	State    State
	Package  archive.Artifact
	Err      error
	Warnings []string
}

// Summary aggregates a full run.
type Summary struct {
	Results           []ModuleResult
	TreeManifestPath  string
	TreeArchivePath   string
	TreeSignaturePath string
	TreeErr           error
}

// Failed reports whether any module or tree-level step failed.
func (s Summary) Failed() bool {
	if s.TreeErr != nil {
		return true
	}
	for _, r := range s.Results {
		if r.State == StateFailed {
			return true
		}
	}
	return false
}

// ExitCode maps the summary to the process exit code, preferring the most
// specific cause: tree-level errors first, then the first failed module.
func (s Summary) ExitCode() int {
	if s.TreeErr != nil {
		return ExitCodeFor(s.TreeErr)
	}
	for _, r := range s.Results {
		if r.State == StateFailed {
			return ExitCodeFor(r.Err)
		}
	}
	return ExitOK
}

// Orchestrator runs the bootstrap pipeline.
type Orchestrator struct {
	opts    Options
	logger  *slog.Logger
	writer  *fsutil.Writer
	builder *scaffold.Builder
	signer  *archive.Signer
	compile *archive.BuildCapability
}

// New validates the registry and resolves external capabilities up front.
// Discovering a missing tool mid-run would leave an inconsistent tree, so
// it is a pre-flight failure.
func New(opts Options) (*Orchestrator, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.BaseDir == "" {
		return nil, fmt.Errorf("%w: base directory is required", registry.ErrInvalidRegistry)
	}
	if len(opts.Modules) == 0 {
		opts.Modules = registry.Default()
	}
	if err := registry.Validate(opts.Modules); err != nil {
		return nil, err
	}

	o := &Orchestrator{
		opts:   opts,
		logger: opts.Logger,
		writer: fsutil.NewWriter(fsutil.WithLogger(opts.Logger)),
	}
	o.builder = scaffold.NewBuilder(o.writer,
		scaffold.WithLogger(opts.Logger),
		scaffold.WithHook(scaffold.SecretsModuleName, scaffold.VaultHook),
	)

	if opts.Sign {
		signer, err := archive.ResolveSigner(opts.KeyRef)
		if err != nil {
			return nil, err
		}
		o.signer = signer
	}
	o.compile = archive.ResolveBuilder(opts.Logger)

	return o, nil
}

// Run executes the pipeline for every module, then the whole-tree steps.
func (o *Orchestrator) Run(ctx context.Context) Summary {
	summary := Summary{}

	packagingRoot := filepath.Join(o.opts.BaseDir, PackagingDir)
	if err := fsutil.EnsureDir(packagingRoot); err != nil {
		summary.TreeErr = err
		return summary
	}

	for _, module := range o.opts.Modules {
		summary.Results = append(summary.Results, o.runModule(ctx, module))
	}

	// Whole-tree manifest and archive run only after every module reached a
	// terminal state; a partially-written tree never gets manifested.
	o.runTreeSteps(ctx, &summary, packagingRoot)

	for _, r := range summary.Results {
		o.logger.Info("module finished", "module", r.Module.Name, "state", r.State.String())
	}
	return summary
}

func (o *Orchestrator) runModule(ctx context.Context, module registry.Descriptor) ModuleResult {
	result := ModuleResult{Module: module, State: StatePending}
	moduleRoot := filepath.Join(o.opts.BaseDir, module.Name)
	fail := func(err error) ModuleResult {
		result.State = transition(result.State, StateFailed)
		result.Err = err
		o.logger.Error("module failed", "module", module.Name, "err", err)
		return result
	}

	// Scaffolding
	result.State = transition(result.State, StateScaffolding)
	o.logger.Info("state transition", "module", module.Name, "state", result.State.String())
	outcomes := o.builder.Build(module, o.opts.BaseDir, o.opts.Overwrite)
	if failures := scaffold.Failures(outcomes); len(failures) > 0 {
		return fail(fmt.Errorf("%d artifact(s) failed, first: %w", len(failures), failures[0].Err))
	}

	// Embedded stubs compile before manifesting so the manifest covers
	// their build outputs too.
	o.buildEmbeddedStubs(ctx, moduleRoot, &result)

	// Manifesting
	result.State = transition(result.State, StateManifesting)
	o.logger.Info("state transition", "module", module.Name, "state", result.State.String())
	entries, err := manifest.Generate(moduleRoot)
	if err != nil {
		return fail(err)
	}
	manifestPath := filepath.Join(o.opts.BaseDir, PackagingDir, module.Name+".SHASUMS256.txt")
	// Derived outputs always refresh; regeneration over an unchanged tree is
	// byte-identical, so this does not break the idempotency contract.
	if out := o.writer.Write(manifestPath, manifest.Encode(entries), 0o644, true); !out.OK() {
		return fail(out.Err)
	}

	// Packaging
	result.State = transition(result.State, StatePackaging)
	o.logger.Info("state transition", "module", module.Name, "state", result.State.String())
	archivePath := filepath.Join(o.opts.BaseDir, PackagingDir, module.Name+".tar.gz")
	pkg, err := archive.Pack(moduleRoot, archivePath)
	if err != nil {
		return fail(err)
	}
	result.Package = pkg

	// Signing (optional, non-fatal)
	if o.signer != nil {
		sigPath, err := o.signer.Sign(ctx, pkg.ArchivePath)
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
			o.logger.Warn("signing failed; archive stands unsigned",
				"module", module.Name, "err", err)
			result.State = transition(result.State, StateUnsigned)
		} else {
			result.Package.SignaturePath = sigPath
			result.State = transition(result.State, StateSigned)
		}
	} else {
		result.State = transition(result.State, StateUnsigned)
	}

	result.State = transition(result.State, StateDone)
	return result
}

// buildEmbeddedStubs best-effort compiles any embedded service sources under
// the module's src/ directory. Absence of the toolchain or a failed build is
// recorded as a warning, never a module failure.
func (o *Orchestrator) buildEmbeddedStubs(ctx context.Context, moduleRoot string, result *ModuleResult) {
	srcRoot := filepath.Join(moduleRoot, "src")
	entries, err := os.ReadDir(srcRoot)
	if err != nil {
		return // no embedded sources
	}
	if o.compile == nil {
		result.Warnings = append(result.Warnings, "embedded stubs not built: go toolchain absent")
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := o.compile.Build(ctx, filepath.Join(srcRoot, entry.Name())); err != nil {
			result.Warnings = append(result.Warnings, err.Error())
			o.logger.Warn("embedded stub build failed", "module", result.Module.Name, "err", err)
		}
	}
}

func (o *Orchestrator) runTreeSteps(ctx context.Context, summary *Summary, packagingRoot string) {
	entries, err := manifest.Generate(o.opts.BaseDir, PackagingDir)
	if err != nil {
		summary.TreeErr = err
		o.logger.Error("tree manifest failed", "err", err)
		return
	}
	manifestPath := filepath.Join(packagingRoot, TreeManifestName)
	if out := o.writer.Write(manifestPath, manifest.Encode(entries), 0o644, true); !out.OK() {
		summary.TreeErr = out.Err
		return
	}
	summary.TreeManifestPath = manifestPath

	archivePath := filepath.Join(packagingRoot, TreeArchiveName)
	pkg, err := archive.Pack(o.opts.BaseDir, archivePath, PackagingDir)
	if err != nil {
		summary.TreeErr = err
		o.logger.Error("tree archive failed", "err", err)
		return
	}
	summary.TreeArchivePath = pkg.ArchivePath

	if o.signer != nil {
		sigPath, err := o.signer.Sign(ctx, pkg.ArchivePath)
		if err != nil {
			o.logger.Warn("tree signing failed; archive stands unsigned", "err", err)
		} else {
			summary.TreeSignaturePath = sigPath
		}
	}
}
