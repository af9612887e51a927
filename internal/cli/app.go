package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dyike/CoinPulse/internal/analyzer"
	"github.com/dyike/CoinPulse/internal/coins"
	"github.com/dyike/CoinPulse/internal/config"
	"github.com/dyike/CoinPulse/internal/dataflows"
	"github.com/dyike/CoinPulse/internal/display"
	"github.com/dyike/CoinPulse/internal/llm"
	"github.com/dyike/CoinPulse/internal/logger"
	"github.com/dyike/CoinPulse/internal/market"
)

// app carries what every command needs once the configuration is loaded.
type app struct {
	loadConfig func() (*config.Config, error)

	newQuotes func() quoteService

	cfg     *config.Config
	table   *coins.Table
	printer *display.Printer
	out     io.Writer
}

func newApp(out io.Writer) *app {
	return &app{
		loadConfig: config.Load,
		newQuotes:  func() quoteService { return market.NewClient() },
		table:      coins.DefaultTable(),
		printer:    display.New(out),
		out:        out,
	}
}

func (a *app) init(debug bool) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if debug {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	a.cfg = cfg
	return nil
}

func (a *app) newSource() dataflows.Source {
	return dataflows.NewSource(a.cfg)
}

func (a *app) newInvoker(ctx context.Context) (*llm.Invoker, error) {
	inv, err := llm.NewInvoker(ctx, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build model invoker: %w", err)
	}
	return inv, nil
}

func (a *app) newAnalyzer(ctx context.Context, source dataflows.Fetcher) (*analyzer.Analyzer, *llm.Invoker, error) {
	inv, err := a.newInvoker(ctx)
	if err != nil {
		return nil, nil, err
	}
	an := analyzer.New(a.table, source, inv, a.cfg.Model,
		analyzer.WithMaxArticles(a.cfg.MaxArticles),
		analyzer.WithRuntime(runtimeName(a.cfg.LLMProvider)),
	)
	return an, inv, nil
}

// runtimeName is how failure guidance refers to the configured provider.
func runtimeName(provider string) string {
	switch provider {
	case config.ProviderOpenAI:
		return "the OpenAI-compatible server"
	case config.ProviderDeepSeek:
		return "the DeepSeek API"
	default:
		return analyzer.DefaultRuntime
	}
}

// quoteService is the part of market.Client the quote command uses.
type quoteService interface {
	Quote(ctx context.Context, symbol string) (*market.Quote, error)
	History(ctx context.Context, symbol string, days int) ([]market.Bar, error)
}
