package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/bedrock/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "bedrock",
	Short: "Bedrock generates, manifests, and packages multi-module project trees",
	Long: `Bedrock turns a declarative registry of module descriptors into a full
scaffolded project tree, computes a verifiable checksum manifest over it,
and packages each module (and the whole tree) into signed-or-unsigned
archives. Re-running is always safe: existing files are never clobbered
unless --force is set.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands). Environment variables
	// BEDROCK_BASE_DIR / BEDROCK_FORCE / BEDROCK_GPG_SIGN fill in anything
	// left unset.
	rootCmd.PersistentFlags().String("dir", "", "Output root for generated trees (default "+cli.DefaultBaseDir+")")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress banner and summary output")
}

// optionsFromFlags collects the shared flag set into RunOptions.
// Env resolution happens inside the command implementations, after flags,
// so flags always win.
func optionsFromFlags(cmd *cobra.Command) cli.RunOptions {
	baseDir, _ := cmd.Flags().GetString("dir")
	debug, _ := cmd.Flags().GetBool("debug")
	quiet, _ := cmd.Flags().GetBool("quiet")
	return cli.RunOptions{
		BaseDir: baseDir,
		Debug:   debug,
		Quiet:   quiet,
	}
}
