package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "polymarket-mcp",
	Short: "Polymarket MCP server",
	Long: `Polymarket MCP server that exposes prediction-market data to language
model clients over the Model Context Protocol.

The server reads JSON-RPC requests line by line from stdin, answers on
stdout, and fetches market data from the Polymarket Gamma API with
retries and caching. Logs go to stderr so they never mix with the
protocol stream.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
