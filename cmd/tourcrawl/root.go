// Package main provides the entry point for the tourcrawl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for tourcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tourcrawl",
		Short: "Polite crawler for paginated tourism-attraction listings",
		Long: `tourcrawl walks a paginated attraction listing site page by page,
follows every same-origin listing to its detail page, extracts the name,
description, and transportation information, and saves the collected
records as a JSON document.

The crawl is strictly sequential with a politeness delay between detail
fetches, stops on pagination loops, and tolerates pages whose markup does
not match expectations by falling back to less specific heuristics.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
