package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/bedrock/internal/cli"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check external tools and registry validity before a run",
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd)
		opts.Sign, _ = cmd.Flags().GetBool("sign")
		opts.RegistryPath, _ = cmd.Flags().GetString("registry")

		os.Exit(cli.Doctor(context.Background(), opts, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().Bool("sign", false, "Check signing prerequisites too")
	doctorCmd.Flags().String("registry", "", "YAML registry file to validate")
}
