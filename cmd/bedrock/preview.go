package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/bedrock/internal/cli"
)

var previewCmd = &cobra.Command{
	Use:   "preview <module>",
	Short: "Render a generated module's README in the terminal",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(cli.Preview(optionsFromFlags(cmd), args[0]))
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
