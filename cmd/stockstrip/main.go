// stockstrip: SEC XBRL facts normalization and ratio/valuation engine.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/stockstrip/internal/analysis/fundamental"
	"github.com/seenimoa/stockstrip/internal/config"
	"github.com/seenimoa/stockstrip/internal/edgar"
	"github.com/seenimoa/stockstrip/internal/engine"
	"github.com/seenimoa/stockstrip/internal/logger"
	"github.com/seenimoa/stockstrip/internal/market"
	"github.com/seenimoa/stockstrip/internal/scratch"
	"github.com/seenimoa/stockstrip/pkg/models"
	"github.com/seenimoa/stockstrip/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger
var (
	cfg *config.Config
	log zerolog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stockstrip",
	Short: "stockstrip: financial ratios and valuation from SEC XBRL filings",
	Long: `stockstrip reads a company's XBRL facts and filing index from SEC EDGAR,
restricts them to its 10-K or 10-Q filings, and computes solvency,
liquidity, turnover, cycle, profitability, growth, and valuation figures.
Every command prints a JSON result tree on stdout.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real environment variables win.
		_ = godotenv.Load()

		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		log = logger.New(cfg.Logging)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(ratioCmd)
	rootCmd.AddCommand(ratiosCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(growthCmd)
	rootCmd.AddCommand(valuateCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(bulkCmd)
	rootCmd.AddCommand(statusCmd)
}

// newEngine wires the data sources and scratch store named by the config.
// The returned func closes the scratch store.
func newEngine(ctx context.Context) (*engine.Engine, func(), error) {
	store, err := scratch.New(ctx, cfg.Scratch)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("closing scratch store")
		}
	}

	var facts engine.FactsSource
	if cfg.EDGAR.DataDir != "" {
		facts = edgar.NewDirSource(cfg.EDGAR.DataDir)
	} else {
		facts = edgar.NewClient(cfg.EDGAR, log)
	}

	var mkt engine.MarketSource
	if cfg.Market.DataDir != "" {
		mkt = market.NewDirSource(cfg.Market.DataDir)
	} else {
		mkt = market.NewClient(cfg.Market, log)
	}

	eng := engine.New(facts, mkt, store,
		engine.WithTaxonomy(cfg.EDGAR.Taxonomy),
		engine.WithLogger(log),
	)
	return eng, closeStore, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// requestFlags reads the --report and --period flags, falling back to the
// configured defaults.
func requestFlags(cmd *cobra.Command) (models.FormType, fundamental.Horizon, error) {
	reportFlag, _ := cmd.Flags().GetString("report")
	if reportFlag == "" {
		reportFlag = cfg.Analysis.DefaultReport
	}
	report, err := models.ParseFormType(reportFlag)
	if err != nil {
		return "", fundamental.Horizon{}, err
	}

	periodFlag, _ := cmd.Flags().GetString("period")
	if periodFlag == "" {
		periodFlag = cfg.Analysis.DefaultHorizon
	}
	h, err := fundamental.ParseHorizon(periodFlag)
	if err != nil {
		return "", fundamental.Horizon{}, err
	}
	return report, h, nil
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().String("report", "", "filing type: 10-K or 10-Q (default from config)")
	cmd.Flags().String("period", "", "look-back period: 1y, 5y, 6mo (default from config)")
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stockstrip %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Ratio Command ---

var ratioCmd = &cobra.Command{
	Use:   "ratio [ticker] [ratio]",
	Short: "Compute one financial ratio",
	Long: `Compute one ratio from the catalog for a stock. Run "stockstrip ratios"
for the list of names.

Examples:
  stockstrip ratio AAPL total_debt
  stockstrip ratio MSFT operating_cycle --report 10-Q`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := fundamental.ParseRatioKind(args[1])
		if err != nil {
			return err
		}
		report, h, err := requestFlags(cmd)
		if err != nil {
			return err
		}
		eng, closeStore, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()
		return printJSON(eng.Ratio(cmd.Context(), args[0], kind, report, h))
	},
}

var ratiosCmd = &cobra.Command{
	Use:   "ratios",
	Short: "List the ratio catalog",
	Run: func(cmd *cobra.Command, args []string) {
		for _, k := range fundamental.AllRatios() {
			fmt.Println(k.String())
		}
	},
}

func init() {
	addRequestFlags(ratioCmd)
}

// --- Report Command ---

var reportCmd = &cobra.Command{
	Use:   "report [ticker]",
	Short: "Build the full stock report",
	Long:  "Company information, market data, and every profit, cyclical, and liquidity ratio from annual filings.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, h, err := requestFlags(cmd)
		if err != nil {
			return err
		}
		eng, closeStore, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		res := eng.Report(cmd.Context(), args[0], h)
		if text, _ := cmd.Flags().GetBool("text"); text {
			printMarketSummary(res)
			return nil
		}
		return printJSON(res)
	},
}

// printMarketSummary renders the report's market data for a terminal.
func printMarketSummary(res models.Result) {
	fmt.Printf("📈 %v\n", res["Symbol"])
	market, ok := res["Market data"].(map[string]any)
	if !ok {
		fmt.Printf("   %v\n", res["error"])
		return
	}
	money := func(key string, format func(float64) string) {
		if v, ok := market[key].(float64); ok {
			fmt.Printf("   %-22s %s\n", key+":", format(v))
			return
		}
		fmt.Printf("   %-22s n/a\n", key+":")
	}
	money("Price", utils.FormatUSD)
	money("Market Cap", utils.FormatCompact)
	money("Book value of equity", utils.FormatCompact)
	money("Book value per share", utils.FormatUSD)
	money("Market value added", utils.FormatCompact)
	if v, ok := market["Market to book"].(float64); ok {
		fmt.Printf("   %-22s %.2f\n", "Market to book:", v)
	}
	if changes, ok := market["Price change"].([]any); ok && len(changes) > 0 {
		parts := make([]string, 0, len(changes))
		for _, c := range changes {
			if f, ok := c.(float64); ok {
				parts = append(parts, utils.FormatPct(f))
			}
		}
		fmt.Printf("   %-22s %s\n", "Price change:", strings.Join(parts, " "))
	}
}

func init() {
	reportCmd.Flags().Bool("text", false, "print a market summary instead of JSON")
	reportCmd.Flags().String("period", "", "price history period: 1y, 5y, 6mo (default from config)")
	reportCmd.Flags().String("report", "", "ignored; reports always read annual filings")
	_ = reportCmd.Flags().MarkHidden("report")
}

// --- Growth Command ---

var growthCmd = &cobra.Command{
	Use:   "growth [ticker] [metric]",
	Short: "Compute revenue, income, earnings, dividend, or price growth",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		family, err := fundamental.ParseFamily(args[1])
		if err != nil {
			return err
		}
		report, h, err := requestFlags(cmd)
		if err != nil {
			return err
		}
		eng, closeStore, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()
		return printJSON(eng.Growth(cmd.Context(), args[0], family, report, h))
	},
}

func init() {
	addRequestFlags(growthCmd)
}

// --- Valuate Command ---

var valuateCmd = &cobra.Command{
	Use:   "valuate [ticker]",
	Short: "Compute P/E with a PEG or PEGY score",
	Long: `Compute the price to earnings ratio, a growth rate, and the PEG or PEGY
score built from them.

Examples:
  stockstrip valuate AAPL --analysis peg --metric revenue
  stockstrip valuate KO --analysis pegy --growth-type forward --metric dividend`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, h, err := requestFlags(cmd)
		if err != nil {
			return err
		}
		gtFlag, _ := cmd.Flags().GetString("growth-type")
		gt, err := fundamental.ParseGrowthType(gtFlag)
		if err != nil {
			return err
		}
		anFlag, _ := cmd.Flags().GetString("analysis")
		an, err := fundamental.ParseAnalysis(anFlag)
		if err != nil {
			return err
		}
		metricFlag, _ := cmd.Flags().GetString("metric")
		family, err := fundamental.ParseFamily(metricFlag)
		if err != nil {
			return err
		}

		eng, closeStore, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()
		return printJSON(eng.Valuate(cmd.Context(), engine.ValuationRequest{
			Stock:      args[0],
			GrowthType: gt,
			Analysis:   an,
			Family:     family,
			Report:     report,
			Horizon:    h,
		}))
	},
}

func init() {
	addRequestFlags(valuateCmd)
	valuateCmd.Flags().String("growth-type", "historical", "EPS used for P/E: historical or forward")
	valuateCmd.Flags().String("analysis", "PEG", "score: PEG or PEGY")
	valuateCmd.Flags().String("metric", "earnings", "growth metric: revenue, income, earnings, dividend, price")
}

// --- Describe Command ---

var describeCmd = &cobra.Command{
	Use:   "describe [ticker]",
	Short: "Show the company description from EDGAR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeStore, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()
		return printJSON(eng.Describe(cmd.Context(), args[0]))
	},
}

// --- Bulk Command ---

var bulkCmd = &cobra.Command{
	Use:   "bulk [ticker...]",
	Short: "Compute one ratio for many stocks concurrently",
	Long: `Compute one ratio for each ticker, at most analysis.concurrent_fetches at
a time. Output maps each ticker to its result.

Example:
  stockstrip bulk AAPL MSFT GOOGL --ratio current_ratio`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ratioFlag, _ := cmd.Flags().GetString("ratio")
		kind, err := fundamental.ParseRatioKind(ratioFlag)
		if err != nil {
			return err
		}
		report, h, err := requestFlags(cmd)
		if err != nil {
			return err
		}
		eng, closeStore, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		var (
			mu      sync.Mutex
			results = make(map[string]models.Result, len(args))
		)
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(cfg.Analysis.ConcurrentFetches)
		for _, ticker := range args {
			ticker := utils.NormalizeTicker(ticker)
			g.Go(func() error {
				res := eng.Ratio(ctx, ticker, kind, report, h)
				mu.Lock()
				results[ticker] = res
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()

		failed := 0
		for _, res := range results {
			if models.IsErrorMarker(res) {
				failed++
			}
		}
		log.Info().Int("stocks", len(results)).Int("failed", failed).Str("ratio", kind.String()).Msg("bulk run finished")
		return printJSON(results)
	},
}

func init() {
	addRequestFlags(bulkCmd)
	bulkCmd.Flags().String("ratio", "total_debt", "ratio to compute for every ticker")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and data source status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  stockstrip — Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    Facts source:  %s\n", sourceName(cfg.EDGAR.DataDir, cfg.EDGAR.BaseURL))
		fmt.Printf("    Market source: %s\n", sourceName(cfg.Market.DataDir, cfg.Market.BaseURL))
		fmt.Printf("    Taxonomy:      %s\n", cfg.EDGAR.Taxonomy)
		fmt.Printf("    Scratch store: %s\n", cfg.Scratch.Backend)
		fmt.Printf("    Defaults:      %s over %s\n", cfg.Analysis.DefaultReport, cfg.Analysis.DefaultHorizon)
		fmt.Println()

		fmt.Println("  Ratios:")
		names := make([]string, 0)
		for _, k := range fundamental.AllRatios() {
			names = append(names, k.String())
		}
		sort.Strings(names)
		fmt.Printf("    %d available (%s ... %s)\n", len(names), names[0], names[len(names)-1])
		fmt.Println()

		fmt.Println("  Secrets:")
		for _, s := range config.CheckSecrets(cfg) {
			status := "❌ not set"
			if s.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", s.Source, s.Masked)
			}
			fmt.Printf("    %-25s %s\n", s.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

func sourceName(dataDir, baseURL string) string {
	if dataDir != "" {
		return "directory " + dataDir
	}
	return baseURL
}
