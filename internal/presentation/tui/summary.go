// Package tui renders the human-facing side of a bootstrap run: the banner,
// the per-module summary table, and markdown previews.
package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/bedrock/internal/bootstrap"
)

// PrintBanner outputs the bedrock banner.
func PrintBanner(w io.Writer) {
	p := colorProfile(w)
	lines := []string{
		"  _             _               _    ",
		" | |__  ___  __| |_ __ ___  ___| | __",
		" | '_ \\/ _ \\/ _` | '__/ _ \\/ __| |/ /",
		" | |_) |  __/ (_| | | | (_) | (__|   < ",
		" |_.__/\\___|\\__,_|_|  \\___/ \\___|_|\\_\\",
	}
	colors := []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6"}

	fmt.Fprintln(w)
	for i, line := range lines {
		fmt.Fprintln(w, p.String(line).Foreground(p.Color(colors[i])))
	}
	fmt.Fprintln(w)
}

// PrintSummary writes the per-module status table and the tree-level
// outputs. Colors degrade to plain text when w is not a terminal.
func PrintSummary(w io.Writer, summary bootstrap.Summary) {
	p := colorProfile(w)

	fmt.Fprintln(w)
	for _, r := range summary.Results {
		status := p.String(statusLabel(r.State)).Foreground(p.Color(statusColor(r.State)))
		fmt.Fprintf(w, "  %-24s %s\n", r.Module.Name, status)
		if r.Err != nil {
			fmt.Fprintf(w, "    %s\n", p.String(r.Err.Error()).Foreground(p.Color("#f87171")))
		}
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "    warning: %s\n", p.String(warn).Foreground(p.Color("#fbbf24")))
		}
		if r.Package.ArchivePath != "" {
			fmt.Fprintf(w, "    archive: %s\n", r.Package.ArchivePath)
			if r.Package.SignaturePath != "" {
				fmt.Fprintf(w, "    signature: %s\n", r.Package.SignaturePath)
			}
		}
	}

	fmt.Fprintln(w)
	if summary.TreeErr != nil {
		fmt.Fprintf(w, "  tree: %s\n", p.String(summary.TreeErr.Error()).Foreground(p.Color("#f87171")))
		return
	}
	if summary.TreeManifestPath != "" {
		fmt.Fprintf(w, "  manifest: %s\n", summary.TreeManifestPath)
	}
	if summary.TreeArchivePath != "" {
		fmt.Fprintf(w, "  bundle: %s\n", summary.TreeArchivePath)
		if summary.TreeSignaturePath != "" {
			fmt.Fprintf(w, "  bundle signature: %s\n", summary.TreeSignaturePath)
		}
	}
}

func statusLabel(s bootstrap.State) string {
	if s == bootstrap.StateFailed {
		return "FAILED"
	}
	return "done"
}

func statusColor(s bootstrap.State) string {
	if s == bootstrap.StateFailed {
		return "#f87171"
	}
	return "#34d399"
}

// colorProfile returns the writer's color capability, forcing Ascii for
// non-terminal sinks so captured output stays free of escape codes.
func colorProfile(w io.Writer) termenv.Profile {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return termenv.ColorProfile()
	}
	return termenv.Ascii
}
