package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "friday",
	Short: "friday — sales-assistant decision layer",
	Long: `friday is the decision layer behind the Friday conversational sales
assistant: it logs conversation turns, detects lead intent, answers product
and FAQ questions from a static knowledge catalog, and validates and
persists qualified leads. The dialogue runtime consumes it over MCP (stdio)
or the local HTTP API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(leadCmd)
	rootCmd.AddCommand(kbCmd)
	rootCmd.AddCommand(conversationCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
