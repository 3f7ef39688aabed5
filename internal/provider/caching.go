package provider

import (
	"context"
	"sync"

	"leapscan/pkg/model"
)

// CachingProvider wraps a Provider with an in-memory record cache so repeat
// runs against the same universe (CLI reruns, dashboard rescans) don't hit
// the upstream APIs again. Cache lives for the process only.
type CachingProvider struct {
	inner Provider
	mu    sync.Mutex
	cache map[string]*model.TickerRecord
}

// NewCachingProvider creates a caching wrapper around inner.
func NewCachingProvider(inner Provider) *CachingProvider {
	return &CachingProvider{
		inner: inner,
		cache: make(map[string]*model.TickerRecord),
	}
}

func (p *CachingProvider) Name() string      { return p.inner.Name() }
func (p *CachingProvider) IsAvailable() bool { return p.inner.IsAvailable() }
func (p *CachingProvider) RateLimit() int    { return p.inner.RateLimit() }

// Fetch returns the cached record when present; failures are not cached so
// transient errors can recover on the next run.
func (p *CachingProvider) Fetch(ctx context.Context, symbol string) (*model.TickerRecord, error) {
	p.mu.Lock()
	if cached, ok := p.cache[symbol]; ok {
		p.mu.Unlock()
		return cached, nil
	}
	p.mu.Unlock()

	record, err := p.inner.Fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[symbol] = record
	p.mu.Unlock()

	return record, nil
}

// Invalidate drops every cached record.
func (p *CachingProvider) Invalidate() {
	p.mu.Lock()
	p.cache = make(map[string]*model.TickerRecord)
	p.mu.Unlock()
}
