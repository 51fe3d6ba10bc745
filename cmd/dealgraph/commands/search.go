package commands

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dealgraph/dealgraph/internal/config"
	"github.com/dealgraph/dealgraph/internal/logger"
	"github.com/dealgraph/dealgraph/internal/output"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for product deals",
	Long: `Run a one-shot deal search from the terminal.

Cached results are returned straight from the graph. Cold queries hit
the search API, scrape the top product pages and extract structured
product data with the configured LLM before persisting.

Examples:
  dealgraph search "wireless headphones"
  dealgraph search "standing desk" --format yaml
  dealgraph search "espresso machine" -o deals.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	flags := searchCmd.Flags()
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "json", "output format: json, yaml")
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	query := strings.Join(args, " ")

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return err
	}

	eng, cleanup, err := buildEngine(ctx, cfg)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		return err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		cleanup(closeCtx)
	}()

	logger.Info("searching", "query", query)
	start := time.Now()
	products := eng.Search(ctx, query)
	logger.Info("search complete", "products", len(products), "duration", time.Since(start))

	outFile := os.Stdout
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, err := os.Create(outPath) //#nosec G304 -- CLI tool writes to user-specified output file
		if err != nil {
			logger.Error("failed to create output file", "path", outPath, "error", err)
			return err
		}
		defer func() { _ = f.Close() }()
		outFile = f
	}

	formatStr, _ := cmd.Flags().GetString("format")
	return output.WriteProducts(outFile, output.Format(formatStr), products)
}
