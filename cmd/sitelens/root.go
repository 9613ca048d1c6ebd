package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitelens.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sitelens",
		Short: "Website analyzer for SEO, performance, and accessibility",
		Long: `sitelens analyzes websites across three concurrent branches:
SEO and content signals, performance metrics with a three-stage
measurement cascade, and visual review with an accessibility audit.

Inputs may be URLs, HTML files, or screenshot images; each input runs
only the branches it is eligible for.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose (debug) logging")

	rootCmd.AddCommand(NewAnalyzeCmd())
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the root command and exits with a non-zero status on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
