package dataflows

import (
	"github.com/dyike/CoinPulse/internal/config"
)

var (
	_ Source = (*NewsAPIClient)(nil)
	_ Source = (*GoogleNewsClient)(nil)
)

// NewSource returns the news backend selected by cfg.NewsSource.
func NewSource(cfg *config.Config) Source {
	if cfg.NewsSource == config.SourceGoogleNews {
		return NewGoogleNewsClient(cfg)
	}
	return NewNewsAPIClient(cfg)
}
