package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestValidateRejectsBadSegment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Universe.Segment = "ftse100"

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown universe segment")
	}
}

func TestValidateRejectsBadCriteria(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"drop above 1", func(c *Config) { c.Criteria.MaxDropFromATH = 1.5 }},
		{"negative drop", func(c *Config) { c.Criteria.MaxDropFromATH = -0.1 }},
		{"negative min cap", func(c *Config) { c.Criteria.MinMarketCap = -1 }},
		{"max cap below min", func(c *Config) {
			c.Criteria.MinMarketCap = 1e12
			c.Criteria.MaxMarketCap = 1e9
		}},
		{"negative volatility", func(c *Config) { c.Criteria.MinVolatility = -0.2 }},
		{"zero weights", func(c *Config) {
			c.Weights.ATHDrop = 0
			c.Weights.Volatility = 0
			c.Weights.MarketCapFit = 0
		}},
		{"window too small", func(c *Config) { c.Volatility.Window = 1 }},
		{"bad sentiment provider", func(c *Config) { c.Sentiment.Provider = "oracle" }},
		{"bad news source", func(c *Config) { c.News.Source = "carrier-pigeon" }},
		{"zero workers", func(c *Config) { c.Scanner.Workers = 0 }},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Universe.Segment != "sp500" {
		t.Errorf("expected default segment sp500, got %q", cfg.Universe.Segment)
	}
	if cfg.Weights.ATHDrop != 0.4 {
		t.Errorf("expected default ath_drop weight 0.4, got %f", cfg.Weights.ATHDrop)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	yml := `
universe:
  segment: nasdaq100
criteria:
  max_drop_from_ath: 0.2
  min_market_cap: 1000000000
  max_market_cap: 1000000000000
  min_volatility: 0.25
sentiment:
  enabled: false
scanner:
  workers: 3
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Universe.Segment != "nasdaq100" {
		t.Errorf("expected nasdaq100, got %q", cfg.Universe.Segment)
	}
	if cfg.Criteria.MaxDropFromATH != 0.2 {
		t.Errorf("expected 0.2, got %f", cfg.Criteria.MaxDropFromATH)
	}
	if cfg.Scanner.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Scanner.Workers)
	}
	if cfg.Sentiment.Enabled {
		t.Error("expected sentiment disabled")
	}
	// Untouched sections keep defaults
	if cfg.Volatility.Window != 30 {
		t.Errorf("expected default window 30, got %d", cfg.Volatility.Window)
	}
}
