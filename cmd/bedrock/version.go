package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/bedrock"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of bedrock",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bedrock version %s\n", strings.TrimSpace(bedrock.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
