/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "geodebug",
	Short: "Debugger and visualizer for iterative figure generation",
	Long: `geodebug loads a geometric problem definition, runs the figure
optimizer step by step on a background worker, and lets you watch the
evolving figure live: in a window, over a websocket, or recorded to disk.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
