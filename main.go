package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/beekeeper-studio/vite-plugin/cmd"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "bks-vite",
		Short:   "Beekeeper Studio plugin dev tooling",
		Long:    `Development server and entrypoint tooling for Beekeeper Studio plugins built with Vite-style dev assets.`,
		Version: version,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("🚀 bks-vite v" + version)
			fmt.Println("Run 'bks-vite --help' for available commands")
		},
	}

	// Add commands
	rootCmd.AddCommand(cmd.NewCmd())
	rootCmd.AddCommand(cmd.DevCmd())
	rootCmd.AddCommand(cmd.ConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
