package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the bookman version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bookman %s\n", version)
	},
}
