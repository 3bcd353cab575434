package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/bedrock/internal/cli"
)

var packCmd = &cobra.Command{
	Use:   "pack <module>",
	Short: "Archive (and optionally sign) one already-generated module",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd)
		opts.Sign, _ = cmd.Flags().GetBool("sign")
		opts.KeyRef, _ = cmd.Flags().GetString("key")

		os.Exit(cli.PackModule(context.Background(), opts, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(packCmd)

	packCmd.Flags().Bool("sign", false, "Produce a detached GPG signature over the archive")
	packCmd.Flags().String("key", "", "GPG key reference for signing (--local-user)")
}
