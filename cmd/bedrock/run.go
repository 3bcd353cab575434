package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/bedrock/internal/cli"
)

// runCmd represents the run command: the full bootstrap pipeline.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate, manifest, package, and optionally sign all modules",
	Long: `Runs the full bootstrap pipeline: scaffolds every registered module,
writes per-module and whole-tree checksum manifests, builds tar.gz archives,
and produces detached GPG signatures when --sign is set.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd)
		opts.Force, _ = cmd.Flags().GetBool("force")
		opts.Sign, _ = cmd.Flags().GetBool("sign")
		opts.KeyRef, _ = cmd.Flags().GetString("key")
		opts.RegistryPath, _ = cmd.Flags().GetString("registry")

		os.Exit(cli.Run(context.Background(), opts))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("force", "f", false, "Overwrite existing generated files")
	runCmd.Flags().Bool("sign", false, "Produce detached GPG signatures over archives")
	runCmd.Flags().String("key", "", "GPG key reference for signing (--local-user)")
	runCmd.Flags().String("registry", "", "YAML registry file (default: built-in module list)")

	// Make 'run' the default when no subcommand is given.
	rootCmd.Run = runCmd.Run
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
