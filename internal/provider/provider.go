package provider

import (
	"context"
	"fmt"

	"leapscan/pkg/model"
)

// Provider defines the interface for market data providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Fetch returns fundamentals and daily close history for a symbol.
	// Errors are per-symbol: callers skip the symbol, never abort the run.
	Fetch(ctx context.Context, symbol string) (*model.TickerRecord, error)

	// IsAvailable checks if the provider can be used (has credentials etc.)
	IsAvailable() bool

	// RateLimit returns the rate limit per minute
	RateLimit() int
}

// FetchError is a tagged per-symbol fetch failure
type FetchError struct {
	Provider  string
	Symbol    string
	Err       error
	Retryable bool
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FallbackProvider tries multiple providers in order
type FallbackProvider struct {
	providers []Provider
}

// NewFallbackProvider creates a fallback provider from the available subset
func NewFallbackProvider(providers ...Provider) *FallbackProvider {
	available := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p.IsAvailable() {
			available = append(available, p)
		}
	}
	return &FallbackProvider{providers: available}
}

// Name returns the combined provider name
func (f *FallbackProvider) Name() string {
	return "fallback"
}

// Fetch tries each provider in order until one succeeds
func (f *FallbackProvider) Fetch(ctx context.Context, symbol string) (*model.TickerRecord, error) {
	var lastErr error
	for _, p := range f.providers {
		record, err := p.Fetch(ctx, symbol)
		if err == nil {
			return record, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = &FetchError{Provider: f.Name(), Symbol: symbol, Err: fmt.Errorf("no providers configured")}
	}
	return nil, lastErr
}

// IsAvailable returns true if any provider is available
func (f *FallbackProvider) IsAvailable() bool {
	return len(f.providers) > 0
}

// RateLimit returns the highest rate limit among providers
func (f *FallbackProvider) RateLimit() int {
	maxRate := 0
	for _, p := range f.providers {
		if p.RateLimit() > maxRate {
			maxRate = p.RateLimit()
		}
	}
	return maxRate
}

// Providers returns the list of underlying providers
func (f *FallbackProvider) Providers() []Provider {
	return f.providers
}
