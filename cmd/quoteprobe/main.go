// quoteprobe checks the data plumbing for a single symbol: provider fetch,
// volatility estimate, headlines, and sentiment. Useful when a scan returns
// surprising results and you want to see the raw inputs.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"leapscan/internal/analyzer"
	"leapscan/internal/config"
	"leapscan/internal/news"
	"leapscan/internal/provider"
	"leapscan/internal/sentiment"
)

func main() {
	_ = godotenv.Load()

	symbol := "AAPL"
	if len(os.Args) > 1 {
		symbol = os.Args[1]
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	fmt.Printf("=== Probe for %s ===\n", symbol)

	// 1. Provider fetch
	fmt.Println("\n[1] Provider chain - Fetch")
	p := provider.NewFallbackProvider(
		provider.NewYahooProvider(),
		provider.NewFinnhubProvider(cfg.Providers.FinnhubAPIKey),
	)
	fmt.Print("    Providers: ")
	for i, prov := range p.Providers() {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Print(prov.Name())
	}
	fmt.Println()

	start := time.Now()
	rec, err := p.Fetch(ctx, symbol)
	elapsed := time.Since(start)
	if err != nil {
		log.Fatalf("    ERROR: %v (%.1fs)", err, elapsed.Seconds())
	}
	fmt.Printf("    OK: %s (%s) in %s\n", rec.Symbol, rec.Name, elapsed)
	fmt.Printf("    Price=%.2f ATH=%.2f Drop=%.1f%% MarketCap=%.0f History=%d points\n",
		rec.CurrentPrice, rec.ATH, rec.DropFromATH()*100, rec.MarketCap, len(rec.History))
	if rec.EarningsDate != nil {
		fmt.Printf("    Next earnings: %s\n", rec.EarningsDate.Format("2006-01-02"))
	}

	// 2. Volatility
	fmt.Println("\n[2] Volatility estimate")
	est := analyzer.NewVolatilityEstimator(cfg.Volatility.Window, cfg.Volatility.PeriodsPerYear)
	vol := est.Estimate(symbol, rec.History)
	fmt.Printf("    Annualized=%.1f%% window=%d low_confidence=%v\n",
		vol.Annualized*100, vol.Window, vol.LowConfidence)

	// 3. Headlines
	fmt.Println("\n[3] Headlines")
	var src news.Source
	switch cfg.News.Source {
	case "newsapi":
		src = news.NewNewsAPISource(cfg.News.APIKey, cfg.News.PageSize, cfg.Sentiment.DaysBack)
	case "scrape":
		src = news.NewScrapeSource(15*time.Second, cfg.News.PageSize)
	default:
		src = news.NoopSource{}
	}
	fmt.Printf("    Source: %s (available=%v)\n", src.Name(), src.IsAvailable())

	headlines, err := src.Headlines(ctx, symbol)
	if err != nil {
		fmt.Printf("    ERROR: %v\n", err)
	}
	for i, h := range headlines {
		if i >= cfg.Sentiment.MaxHeadlines {
			break
		}
		fmt.Printf("    - %s\n", h)
	}
	if len(headlines) == 0 {
		fmt.Println("    (no headlines)")
	}

	// 4. Sentiment
	fmt.Println("\n[4] Sentiment")
	var classifier sentiment.Classifier
	switch cfg.Sentiment.Provider {
	case "keyword":
		classifier = sentiment.NewKeywordClassifier()
	default:
		classifier = sentiment.NewOpenAIClassifier(cfg.Sentiment.Model)
	}
	fmt.Printf("    Classifier: %s (available=%v)\n", classifier.Name(), classifier.IsAvailable())

	if len(headlines) > cfg.Sentiment.MaxHeadlines {
		headlines = headlines[:cfg.Sentiment.MaxHeadlines]
	}
	result := sentiment.NewAnalyzer(classifier).Analyze(ctx, symbol, headlines)
	fmt.Printf("    %s confidence=%.2f sources=%d\n",
		result.Label, result.Confidence, result.SourceCount)

	fmt.Println("\n=== Probe complete ===")
}
