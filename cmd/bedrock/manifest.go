package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/bedrock/internal/cli"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Regenerate or verify the whole-tree checksum manifest",
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd)
		verify, _ := cmd.Flags().GetBool("verify")

		if verify {
			os.Exit(cli.VerifyManifest(opts))
		}
		os.Exit(cli.RegenerateManifest(opts))
	},
}

func init() {
	rootCmd.AddCommand(manifestCmd)

	manifestCmd.Flags().Bool("verify", false, "Verify the tree against the recorded manifest instead of rewriting it")
}
