package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"leapscan/internal/config"
	"leapscan/internal/export"
	"leapscan/internal/logger"
	"leapscan/internal/news"
	"leapscan/internal/provider"
	"leapscan/internal/scanner"
	"leapscan/internal/sentiment"
	"leapscan/internal/symbols"
	"leapscan/internal/trace"
	"leapscan/internal/web"
	"leapscan/pkg/model"
)

var (
	cfgFile      string
	universe     string
	symbolList   string
	workers      int
	maxDrop      float64
	minVol       float64
	noSentiment  bool
	format       string
	csvPath      string
	topN         int
	verbose      bool
	port         int
)

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()
	logger.Init()

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: tracing init failed: %v\n", err)
	}
	defer trace.Shutdown(context.Background())

	rootCmd := &cobra.Command{
		Use:   "leapscan",
		Short: "High-volatility dip screener for long-dated options candidates",
		Long: `LEAPScan screens a stock universe for beaten-down, volatile large caps
worth a closer look for long-dated call positions.

The pipeline fetches price history and fundamentals, estimates annualized
volatility, filters on drop-from-high, market cap and volatility, optionally
adjusts by news sentiment, and ranks what survives.

Examples:
  leapscan scan --universe sp500
  leapscan scan --symbols AAPL,MSFT,NVDA --no-sentiment
  leapscan scan --universe combined --format json --csv results.csv
  leapscan serve --port 8080`,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Run the screening pipeline and print the ranking",
		RunE:  runScan,
	}
	scanCmd.Flags().StringVar(&universe, "universe", "", "universe: sp500, nasdaq100, combined, test")
	scanCmd.Flags().StringVar(&symbolList, "symbols", "", "comma-separated symbols to scan instead of a universe")
	scanCmd.Flags().IntVar(&workers, "workers", 0, "number of parallel workers")
	scanCmd.Flags().Float64Var(&maxDrop, "drop", 0, "minimum drop from all-time high, as a fraction (0.4 = 40%)")
	scanCmd.Flags().Float64Var(&minVol, "volatility", 0, "minimum annualized volatility, as a fraction")
	scanCmd.Flags().BoolVar(&noSentiment, "no-sentiment", false, "skip news sentiment analysis")
	scanCmd.Flags().StringVar(&format, "format", "table", "output format: table, json")
	scanCmd.Flags().StringVar(&csvPath, "csv", "", "also write results to a CSV file")
	scanCmd.Flags().IntVar(&topN, "top", 0, "show only the top N entries")
	scanCmd.Flags().BoolVar(&verbose, "verbose", false, "show detailed output")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboard",
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&port, "port", 0, "dashboard port")

	rootCmd.AddCommand(scanCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the config file and applies CLI overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if universe != "" {
		cfg.Universe.Segment = universe
	}
	if workers > 0 {
		cfg.Scanner.Workers = workers
	}
	if cmd.Flags().Changed("drop") {
		cfg.Criteria.MaxDropFromATH = maxDrop
	}
	if cmd.Flags().Changed("volatility") {
		cfg.Criteria.MinVolatility = minVol
	}
	if noSentiment {
		cfg.Sentiment.Enabled = false
	}
	if port > 0 {
		cfg.Web.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// buildScanner wires the pipeline from the configuration.
func buildScanner(cfg *config.Config) *scanner.Scanner {
	// Yahoo is keyless and primary; Finnhub joins the chain when a key is
	// configured and serves symbols Yahoo fails on.
	p := provider.NewCachingProvider(provider.NewFallbackProvider(
		provider.NewYahooProvider(),
		provider.NewFinnhubProvider(cfg.Providers.FinnhubAPIKey),
	))

	var src news.Source
	switch cfg.News.Source {
	case "newsapi":
		src = news.NewNewsAPISource(cfg.News.APIKey, cfg.News.PageSize, cfg.Sentiment.DaysBack)
	case "scrape":
		src = news.NewScrapeSource(15*time.Second, cfg.News.PageSize)
	default:
		src = news.NoopSource{}
	}

	var classifier sentiment.Classifier
	if cfg.Sentiment.Enabled {
		switch cfg.Sentiment.Provider {
		case "keyword":
			classifier = sentiment.NewKeywordClassifier()
		default:
			classifier = sentiment.NewOpenAIClassifier(cfg.Sentiment.Model)
		}
	}

	return scanner.New(p, cfg, src, classifier)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted. Stopping scan...")
		cancel()
	}()

	// Resolve the symbol list
	symProvider := symbols.NewProvider(symbols.WithExtra(cfg.Universe.Extra))
	universeName := cfg.Universe.Segment
	var syms []string
	if symbolList != "" {
		syms = strings.Split(symbolList, ",")
		universeName = "custom"
	} else {
		syms, err = symProvider.Get(symbols.Universe(universeName))
		if err != nil {
			return err
		}
	}
	if len(syms) == 0 {
		return fmt.Errorf("no symbols to scan")
	}

	s := buildScanner(cfg)

	if verbose {
		fmt.Printf("Universe: %s (%d symbols), sentiment: %v\n",
			universeName, len(syms), cfg.Sentiment.Enabled)
	}
	fmt.Printf("Screening %d symbols...\n\n", len(syms))

	bar := progressbar.NewOptions(len(syms),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Screening"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	s.SetProgressCallback(func(scanned, total int) {
		bar.Set(scanned)
	})

	result, err := s.Scan(ctx, universeName, syms)
	if err != nil {
		return fmt.Errorf("scanning: %w", err)
	}

	bar.Finish()
	fmt.Println()

	if topN > 0 && len(result.Entries) > topN {
		result.Entries = result.Entries[:topN]
	}

	if csvPath != "" {
		if err := export.SaveCSV(csvPath, result); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
		fmt.Printf("Results written to %s\n", csvPath)
	}

	if format == "json" {
		return outputJSON(result)
	}
	return outputTable(result)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	symProvider := symbols.NewProvider(symbols.WithExtra(cfg.Universe.Extra))
	srv := web.NewServer(cfg, buildScanner, symProvider)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(cfg.Web.Port)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		fmt.Println("\nShutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

func outputTable(result *model.ScanResult) error {
	if len(result.Entries) == 0 {
		fmt.Println("No candidates matched the screening criteria.")
		fmt.Printf("Scanned %d symbols in %s\n", result.TotalScanned, result.ScanTime.Round(time.Second))
		printFailures(result)
		return nil
	}

	fmt.Printf("Found %d candidates:\n\n", len(result.Entries))

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Symbol", "Name", "Price", "Mkt Cap", "Drop", "Vol", "Sentiment", "Score"}),
	)

	for _, e := range result.Entries {
		name := e.Name
		if len(name) > 18 {
			name = name[:18] + "..."
		}

		sent := "-"
		if e.Sentiment != nil {
			sent = fmt.Sprintf("%s %.0f%%", e.Sentiment.Label, e.Sentiment.Confidence*100)
		}

		table.Append([]string{
			fmt.Sprintf("%d", e.Rank),
			e.Symbol,
			name,
			fmt.Sprintf("$%.2f", e.CurrentPrice),
			formatMarketCap(e.MarketCap),
			fmt.Sprintf("-%.1f%%", e.DropFromATH*100),
			fmt.Sprintf("%.1f%%", e.Volatility*100),
			sent,
			fmt.Sprintf("%.3f", e.FinalScore),
		})
	}

	table.Render()

	fmt.Printf("\nScanned %d symbols in %s\n", result.TotalScanned, result.ScanTime.Round(time.Second))
	printFailures(result)
	return nil
}

func printFailures(result *model.ScanResult) {
	if len(result.Failures) == 0 {
		return
	}
	fmt.Printf("Skipped %d symbols:\n", len(result.Failures))
	for _, f := range result.Failures {
		fmt.Printf("  %s: %s\n", f.Symbol, f.Reason)
	}
}

func formatMarketCap(cap float64) string {
	switch {
	case cap >= 1e12:
		return fmt.Sprintf("%.2fT", cap/1e12)
	case cap >= 1e9:
		return fmt.Sprintf("%.1fB", cap/1e9)
	case cap >= 1e6:
		return fmt.Sprintf("%.0fM", cap/1e6)
	default:
		return fmt.Sprintf("%.0f", cap)
	}
}

func outputJSON(result *model.ScanResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
