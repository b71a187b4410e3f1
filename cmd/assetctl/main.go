// assetctl is an operator tool for the asset service: inspect a random
// asset or seed a development environment with sample records.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "assetctl",
	Short: "Operator tooling for the file asset service",
	Long: "assetctl works directly against the configured metadata store and\n" +
		"blob store. Configuration comes from the same environment variables\n" +
		"as the server.",
	SilenceUsage: true,
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	rootCmd.AddCommand(randomCmd)
	rootCmd.AddCommand(seedCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
