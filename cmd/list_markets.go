package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mselser95/polymarket-mcp/internal/gamma"
	"github.com/mselser95/polymarket-mcp/pkg/config"
	"github.com/mselser95/polymarket-mcp/pkg/metrics"
	"github.com/mselser95/polymarket-mcp/pkg/types"
)

//nolint:gochecknoglobals // Cobra boilerplate
var listMarketsCmd = &cobra.Command{
	Use:   "list-markets",
	Short: "List active markets from Polymarket Gamma API",
	Long:  `Fetches and displays active markets from the Polymarket Gamma API for debugging purposes.`,
	RunE:  runListMarkets,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(listMarketsCmd)
	listMarketsCmd.Flags().IntP("limit", "l", 20, "Maximum number of markets to fetch")
	listMarketsCmd.Flags().BoolP("verbose", "v", false, "Show detailed market information")
	listMarketsCmd.Flags().StringP("sort", "s", "liquidity", "Sort by: liquidity, volume")
}

func runListMarkets(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Load .env
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

	// Get flags
	limit, _ := cmd.Flags().GetInt("limit")
	verbose, _ := cmd.Flags().GetBool("verbose")
	sortBy, _ := cmd.Flags().GetString("sort")

	if sortBy != "liquidity" && sortBy != "volume" {
		return fmt.Errorf("invalid sort option: %s. Valid options: liquidity, volume", sortBy)
	}

	// Create client
	client, err := gamma.NewClient(cfg, logger, metrics.New())
	if err != nil {
		return fmt.Errorf("create gamma client: %w", err)
	}

	params := types.DefaultQueryParams()
	params.Limit = types.Ptr(limit)
	params.Order = types.Ptr(sortBy)

	// Fetch markets
	fmt.Printf("Fetching up to %d active markets from Polymarket...\n\n", limit)

	markets, err := client.GetMarkets(ctx, &params)
	if err != nil {
		return fmt.Errorf("fetch markets: %w", err)
	}

	if len(markets) == 0 {
		fmt.Println("No active markets found.")
		return nil
	}

	// Display markets
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tQUESTION\tLIQUIDITY\tVOLUME\n")
	fmt.Fprintf(w, "--\t--------\t---------\t------\n")

	for i := range markets {
		market := &markets[i]

		question := market.Question
		if len(question) > 60 {
			question = question[:57] + "..."
		}

		fmt.Fprintf(w, "%s\t%s\t%.0f\t%.0f\n", market.ID, question, market.Liquidity, market.Volume)

		if verbose {
			if market.Category != nil {
				fmt.Fprintf(w, "\tCategory: %s\n", *market.Category)
			}
			fmt.Fprintf(w, "\tActive: %v, Closed: %v\n", market.Active, market.Closed)
			for j, outcome := range market.Outcomes {
				if j < len(market.OutcomePrices) {
					fmt.Fprintf(w, "\t%s: %s\n", outcome, market.OutcomePrices[j])
				}
			}
			fmt.Fprintf(w, "\n")
		}
	}

	w.Flush()

	fmt.Printf("\nTotal: %d markets\n", len(markets))

	return nil
}
