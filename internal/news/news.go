package news

import (
	"context"
)

// Source returns recent headlines for a symbol, most relevant first. An
// empty result is valid; downstream sentiment falls back to neutral.
type Source interface {
	// Name returns the source name
	Name() string

	// Headlines fetches recent headlines for a symbol
	Headlines(ctx context.Context, symbol string) ([]string, error)

	// IsAvailable checks if the source can be used (has credentials etc.)
	IsAvailable() bool
}

// NoopSource never contacts anything and returns no headlines. Used when no
// news source is configured (demo mode).
type NoopSource struct{}

func (NoopSource) Name() string      { return "none" }
func (NoopSource) IsAvailable() bool { return true }

func (NoopSource) Headlines(ctx context.Context, symbol string) ([]string, error) {
	return nil, nil
}
