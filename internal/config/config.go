package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"leapscan/pkg/model"
)

// Config represents the application configuration
type Config struct {
	Universe   UniverseConfig       `yaml:"universe"`
	Criteria   model.FilterCriteria `yaml:"criteria"`
	Weights    model.ScoreWeights   `yaml:"weights"`
	Volatility VolatilityConfig     `yaml:"volatility"`
	Sentiment  SentimentConfig      `yaml:"sentiment"`
	News       NewsConfig           `yaml:"news"`
	Providers  ProvidersConfig      `yaml:"providers"`
	Scanner    ScannerConfig        `yaml:"scanner"`
	Web        WebConfig            `yaml:"web"`
}

// UniverseConfig selects the symbol universe for a run
type UniverseConfig struct {
	Segment string   `yaml:"segment"` // sp500, nasdaq100, combined, test
	Extra   []string `yaml:"extra"`   // additional symbols appended after the segment
}

// VolatilityConfig holds historical volatility estimation settings
type VolatilityConfig struct {
	Window         int `yaml:"window"`           // number of returns in the sample
	PeriodsPerYear int `yaml:"periods_per_year"` // annualization constant
}

// SentimentConfig holds news sentiment settings
type SentimentConfig struct {
	Enabled          bool    `yaml:"enabled"`
	Provider         string  `yaml:"provider"`          // openai or keyword
	Model            string  `yaml:"model"`             // LLM model name
	AdjustmentFactor float64 `yaml:"adjustment_factor"` // k in score * (1 +/- confidence*k)
	MaxHeadlines     int     `yaml:"max_headlines"`
	DaysBack         int     `yaml:"days_back"`
}

// NewsConfig holds headline source settings
type NewsConfig struct {
	Source   string `yaml:"source"` // newsapi, scrape, none
	APIKey   string `yaml:"api_key"`
	PageSize int    `yaml:"page_size"`
}

// ProvidersConfig holds market data provider credentials. Yahoo needs none;
// Finnhub joins the fallback chain only when a key is present.
type ProvidersConfig struct {
	FinnhubAPIKey string `yaml:"finnhub_api_key"`
}

// ScannerConfig holds pipeline settings
type ScannerConfig struct {
	Workers      int           `yaml:"workers"`
	Timeout      time.Duration `yaml:"timeout"`       // whole-run deadline
	FetchTimeout time.Duration `yaml:"fetch_timeout"` // per-symbol deadline
}

// WebConfig holds dashboard settings
type WebConfig struct {
	Port int `yaml:"port"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Universe: UniverseConfig{
			Segment: "sp500",
		},
		Criteria: model.FilterCriteria{
			MaxDropFromATH: 0.40,
			MinMarketCap:   50e9,
			MaxMarketCap:   5e12,
			MinVolatility:  0.25,
		},
		Weights: model.ScoreWeights{
			ATHDrop:      0.4,
			Volatility:   0.4,
			MarketCapFit: 0.2,
		},
		Volatility: VolatilityConfig{
			Window:         30,
			PeriodsPerYear: 252,
		},
		Sentiment: SentimentConfig{
			Enabled:          true,
			Provider:         "openai",
			Model:            "gpt-4o",
			AdjustmentFactor: 0.1,
			MaxHeadlines:     10,
			DaysBack:         14,
		},
		News: NewsConfig{
			Source:   "newsapi",
			APIKey:   os.Getenv("NEWS_API_KEY"),
			PageSize: 20,
		},
		Providers: ProvidersConfig{
			FinnhubAPIKey: os.Getenv("FINNHUB_API_KEY"),
		},
		Scanner: ScannerConfig{
			Workers:      8,
			Timeout:      10 * time.Minute,
			FetchTimeout: 30 * time.Second,
		},
		Web: WebConfig{
			Port: 8080,
		},
	}
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if file doesn't exist
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Override with environment variables if set
	if key := os.Getenv("NEWS_API_KEY"); key != "" {
		cfg.News.APIKey = key
	}
	if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		cfg.Providers.FinnhubAPIKey = key
	}

	return cfg, nil
}

// Validate checks if the configuration is valid. A validation error is fatal
// and must surface before any fetch begins.
func (c *Config) Validate() error {
	switch c.Universe.Segment {
	case "sp500", "nasdaq100", "combined", "test":
	default:
		return fmt.Errorf("invalid universe segment %q: must be sp500, nasdaq100, combined, or test", c.Universe.Segment)
	}
	if c.Criteria.MaxDropFromATH < 0 || c.Criteria.MaxDropFromATH >= 1 {
		return fmt.Errorf("criteria.max_drop_from_ath must be in [0, 1), got %.2f", c.Criteria.MaxDropFromATH)
	}
	if c.Criteria.MinMarketCap < 0 {
		return fmt.Errorf("criteria.min_market_cap must be non-negative, got %.0f", c.Criteria.MinMarketCap)
	}
	if c.Criteria.MaxMarketCap > 0 && c.Criteria.MaxMarketCap < c.Criteria.MinMarketCap {
		return fmt.Errorf("criteria.max_market_cap (%.0f) is below min_market_cap (%.0f)",
			c.Criteria.MaxMarketCap, c.Criteria.MinMarketCap)
	}
	if c.Criteria.MinVolatility < 0 {
		return fmt.Errorf("criteria.min_volatility must be non-negative, got %.2f", c.Criteria.MinVolatility)
	}
	if c.Weights.ATHDrop < 0 || c.Weights.Volatility < 0 || c.Weights.MarketCapFit < 0 {
		return fmt.Errorf("score weights must be non-negative")
	}
	if c.Weights.ATHDrop+c.Weights.Volatility+c.Weights.MarketCapFit == 0 {
		return fmt.Errorf("at least one score weight must be positive")
	}
	if c.Volatility.Window < 2 {
		return fmt.Errorf("volatility.window must be at least 2, got %d", c.Volatility.Window)
	}
	if c.Volatility.PeriodsPerYear < 1 {
		return fmt.Errorf("volatility.periods_per_year must be positive, got %d", c.Volatility.PeriodsPerYear)
	}
	if c.Sentiment.Enabled {
		switch c.Sentiment.Provider {
		case "openai", "keyword":
		default:
			return fmt.Errorf("invalid sentiment provider %q: must be openai or keyword", c.Sentiment.Provider)
		}
		if c.Sentiment.AdjustmentFactor < 0 || c.Sentiment.AdjustmentFactor > 1 {
			return fmt.Errorf("sentiment.adjustment_factor must be in [0, 1], got %.2f", c.Sentiment.AdjustmentFactor)
		}
	}
	switch c.News.Source {
	case "newsapi", "scrape", "none":
	default:
		return fmt.Errorf("invalid news source %q: must be newsapi, scrape, or none", c.News.Source)
	}
	if c.Scanner.Workers < 1 {
		return fmt.Errorf("scanner.workers must be at least 1, got %d", c.Scanner.Workers)
	}
	return nil
}
