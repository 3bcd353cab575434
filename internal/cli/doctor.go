package cli

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/aretw0/bedrock/internal/bootstrap"
)

// DoctorReport holds the pre-flight findings in a stable, scriptable shape.
type DoctorReport struct {
	BaseDir       string
	RegistrySize  int
	GPGPresent    bool
	GPGVersion    string
	GoPresent     bool
	GoVersion     string
	SigningWanted bool
}

// Doctor validates the environment a run would see and prints a stable
// key: value report. It fails (non-zero) only when signing is requested
// and gpg is absent; the build toolchain is always optional.
func Doctor(ctx context.Context, opts RunOptions, w io.Writer) int {
	opts.ResolveEnv()

	report := DoctorReport{
		BaseDir:       opts.BaseDir,
		SigningWanted: opts.Sign,
	}

	modules, err := opts.Modules()
	if err != nil {
		fmt.Fprintf(w, "registry: invalid (%v)\n", err)
		return bootstrap.ExitInvalidRegistry
	}
	report.RegistrySize = len(modules)

	report.GPGPresent, report.GPGVersion = probeTool(ctx, "gpg", "--version")
	report.GoPresent, report.GoVersion = probeTool(ctx, "go", "version")

	writeDoctorReport(w, report)

	if report.SigningWanted && !report.GPGPresent {
		fmt.Fprintln(w, "status: gpg required for signing but not found")
		return bootstrap.ExitMissingTool
	}
	fmt.Fprintln(w, "status: ok")
	return bootstrap.ExitOK
}

// probeTool checks PATH presence and grabs the first version line.
func probeTool(ctx context.Context, name string, versionArg string) (bool, string) {
	if _, err := exec.LookPath(name); err != nil {
		return false, ""
	}
	out, err := exec.CommandContext(ctx, name, versionArg).Output()
	if err != nil {
		return true, "unknown"
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	return true, strings.TrimSpace(lines[0])
}

func writeDoctorReport(w io.Writer, r DoctorReport) {
	fmt.Fprintf(w, "base_dir: %s\n", r.BaseDir)
	fmt.Fprintf(w, "registry_modules: %d\n", r.RegistrySize)
	fmt.Fprintf(w, "gpg_present: %t\n", r.GPGPresent)
	if r.GPGPresent {
		fmt.Fprintf(w, "gpg_version: %s\n", r.GPGVersion)
	}
	fmt.Fprintf(w, "go_present: %t\n", r.GoPresent)
	if r.GoPresent {
		fmt.Fprintf(w, "go_version: %s\n", r.GoVersion)
	}
	fmt.Fprintf(w, "signing_enabled: %t\n", r.SigningWanted)
}
