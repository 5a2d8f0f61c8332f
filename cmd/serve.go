package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mselser95/polymarket-mcp/internal/app"
	"github.com/mselser95/polymarket-mcp/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdin/stdout",
	Long: `Starts the Polymarket MCP server, which will:
1. Read JSON-RPC requests line by line from stdin
2. Serve tools, resources, and prompts backed by the Gamma API
3. Write one JSON response per line to stdout

Environment variables configure the API endpoint, retries, and caching.
A .env file in the working directory is loaded if present.`,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)

	// MCP launchers exec the bare binary, so the root command serves too.
	rootCmd.RunE = runServe
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load .env; the warning goes to stderr because stdout carries the protocol
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: .env file not found\n")
	}

	// Load config
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Create logger
	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	application, err := app.New(cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
