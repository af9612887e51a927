package debug

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/devops"

	"github.com/dyike/CoinPulse/internal/config"
	"github.com/dyike/CoinPulse/internal/logger"
)

// devops listens on this port unless told otherwise.
const devServerPort = 52538

// EinoDebugger starts the eino-ext visual debug server when
// EINO_DEBUG_ENABLED is set.
type EinoDebugger struct {
	enabled bool
	verbose bool
	init    func(ctx context.Context) error
}

// NewEinoDebugger reads the debug settings from cfg.
func NewEinoDebugger(cfg *config.Config) *EinoDebugger {
	return &EinoDebugger{
		enabled: cfg.EinoDebugEnabled,
		verbose: cfg.Debug,
		init: func(ctx context.Context) error {
			return devops.Init(ctx)
		},
	}
}

// Initialize starts the Eino visual debug plugin. It must run before the
// analysis chain is compiled so the chain shows up in the debug UI.
func (d *EinoDebugger) Initialize(ctx context.Context) error {
	if !d.enabled {
		return nil
	}

	log := logger.Get().With("component", "eino_debug")
	if d.verbose {
		log.Infow("initializing Eino visual debug plugin", "port", devServerPort)
	}

	if err := d.init(ctx); err != nil {
		return fmt.Errorf("failed to initialize Eino debug plugin: %w", err)
	}

	log.Infow("Eino debug server ready", "url", d.GetDebugURL())
	return nil
}

// IsEnabled reports whether the debug server was requested.
func (d *EinoDebugger) IsEnabled() bool {
	return d.enabled
}

// GetDebugURL returns the address of the debug UI.
func (d *EinoDebugger) GetDebugURL() string {
	if !d.enabled {
		return ""
	}
	return fmt.Sprintf("http://localhost:%d", devServerPort)
}
