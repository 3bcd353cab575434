package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/bedrock/internal/archive"
	"github.com/aretw0/bedrock/internal/bootstrap"
	"github.com/aretw0/bedrock/internal/manifest"
	"github.com/aretw0/bedrock/internal/presentation/tui"
)

// Run executes the full bootstrap pipeline and returns the process exit
// code.
func Run(ctx context.Context, opts RunOptions) int {
	opts.ResolveEnv()
	logger := opts.Logger()

	modules, err := opts.Modules()
	if err != nil {
		logger.Error("registry load failed", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return bootstrap.ExitInvalidRegistry
	}

	orchestrator, err := bootstrap.New(bootstrap.Options{
		BaseDir:   opts.BaseDir,
		Overwrite: opts.Force,
		Sign:      opts.Sign,
		KeyRef:    opts.KeyRef,
		Modules:   modules,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("pre-flight failed", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, archive.ErrMissingTool) {
			return bootstrap.ExitMissingTool
		}
		return bootstrap.ExitInvalidRegistry
	}

	if !opts.Quiet {
		tui.PrintBanner(os.Stdout)
	}

	summary := orchestrator.Run(ctx)

	if !opts.Quiet {
		tui.PrintSummary(os.Stdout, summary)
	}
	return summary.ExitCode()
}

// VerifyManifest re-checks a generated tree against its recorded manifest.
func VerifyManifest(opts RunOptions) int {
	opts.ResolveEnv()
	logger := opts.Logger()

	manifestPath := filepath.Join(opts.BaseDir, bootstrap.PackagingDir, bootstrap.TreeManifestName)
	mismatches, err := manifest.Verify(opts.BaseDir, manifestPath, bootstrap.PackagingDir)
	if err != nil {
		logger.Error("manifest verification failed", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return bootstrap.ExitManifest
	}
	if len(mismatches) > 0 {
		for _, m := range mismatches {
			fmt.Printf("%s: %s\n", m.RelPath, m.Reason)
		}
		return bootstrap.ExitManifest
	}
	fmt.Println("manifest ok")
	return bootstrap.ExitOK
}

// RegenerateManifest rebuilds the whole-tree manifest in place.
func RegenerateManifest(opts RunOptions) int {
	opts.ResolveEnv()
	logger := opts.Logger()

	entries, err := manifest.Generate(opts.BaseDir, bootstrap.PackagingDir)
	if err != nil {
		logger.Error("manifest generation failed", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return bootstrap.ExitManifest
	}
	manifestPath := filepath.Join(opts.BaseDir, bootstrap.PackagingDir, bootstrap.TreeManifestName)
	if err := os.MkdirAll(filepath.Dir(manifestPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return bootstrap.ExitDirectoryCreate
	}
	if err := os.WriteFile(manifestPath, manifest.Encode(entries), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return bootstrap.ExitManifest
	}
	fmt.Printf("wrote %s (%d entries)\n", manifestPath, len(entries))
	return bootstrap.ExitOK
}

// PackModule archives (and optionally signs) a single already-generated
// module tree without re-running scaffolding.
func PackModule(ctx context.Context, opts RunOptions, moduleName string) int {
	opts.ResolveEnv()
	logger := opts.Logger()

	moduleRoot := filepath.Join(opts.BaseDir, moduleName)
	if info, err := os.Stat(moduleRoot); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: module tree not found: %s\n", moduleRoot)
		return bootstrap.ExitArchive
	}

	archivePath := filepath.Join(opts.BaseDir, bootstrap.PackagingDir, moduleName+".tar.gz")
	pkg, err := archive.Pack(moduleRoot, archivePath)
	if err != nil {
		logger.Error("packaging failed", "module", moduleName, "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return bootstrap.ExitArchive
	}
	fmt.Printf("archive: %s\n", pkg.ArchivePath)

	if opts.Sign {
		signer, err := archive.ResolveSigner(opts.KeyRef)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return bootstrap.ExitMissingTool
		}
		sigPath, err := signer.Sign(ctx, pkg.ArchivePath)
		if err != nil {
			// Archive and signature succeed or fail independently.
			logger.Warn("signing failed; archive stands unsigned", "err", err)
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			return bootstrap.ExitOK
		}
		fmt.Printf("signature: %s\n", sigPath)
	}
	return bootstrap.ExitOK
}

// Preview renders a generated module's README through glamour.
func Preview(opts RunOptions, moduleName string) int {
	opts.ResolveEnv()

	readmePath := filepath.Join(opts.BaseDir, moduleName, "README.md")
	data, err := os.ReadFile(readmePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %v\n", readmePath, err)
		return bootstrap.ExitModuleFailed
	}

	render := tui.NewMarkdownRenderer()
	out, err := render(string(data))
	if err != nil {
		// Rendering is cosmetic; fall back to raw markdown.
		out = string(data)
	}
	fmt.Print(out)
	return bootstrap.ExitOK
}
