package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyike/CoinPulse/internal/config"
	"github.com/dyike/CoinPulse/internal/debug"
	"github.com/dyike/CoinPulse/internal/market"
	"github.com/dyike/CoinPulse/internal/server"
	"github.com/dyike/CoinPulse/pkg/utils"
)

// Version is overridden at build time with -ldflags.
var Version = "v0.1.0"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp(os.Stdout))
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "coinpulse",
		Short: "CoinPulse - Crypto News Sentiment Analyzer",
		Long: `CoinPulse fetches recent news for a cryptocurrency and asks a language model
for a sentiment analysis and a short-term market prediction.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debugMode, _ := cmd.Flags().GetBool("debug")
			return a.init(debugMode)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: start the web UI
			return runServe(cmd.Context(), a)
		},
	}
	rootCmd.SetOut(a.out)

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newInteractiveCmd(a))
	rootCmd.AddCommand(newNewsCmd(a))
	rootCmd.AddCommand(newSymbolsCmd(a))
	rootCmd.AddCommand(newQuoteCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	return rootCmd
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a)
		},
	}
}

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [COIN]",
		Short: "Analyze recent news for one cryptocurrency",
		Long: `Fetch recent news for a cryptocurrency symbol or name and print the
model's sentiment analysis.
Example: coinpulse analyze BTC --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			save, _ := cmd.Flags().GetBool("save")
			return runAnalyzeCommand(cmd.Context(), a, args[0], save)
		},
	}

	cmd.Flags().Bool("save", false, "Write the report as markdown into the results directory")

	return cmd
}

func newNewsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "news [COIN]",
		Short: "List recent news articles for a cryptocurrency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(args[0]) == "" {
				return errors.New("coin is required")
			}
			q := a.table.Normalize(args[0])
			source := a.newSource()

			articles, err := source.FetchFullArticles(cmd.Context(), q.SearchName)
			if err != nil {
				return fmt.Errorf("failed to fetch news from %s: %w", source.Name(), err)
			}
			a.printer.Articles(q, articles)
			return nil
		},
	}
}

func newSymbolsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "List the supported cryptocurrencies",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a.printer.Coins(a.table.Entries())
		},
	}
}

func newQuoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote [COIN]",
		Short: "Show the spot USD price of a cryptocurrency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			symbol := a.table.Normalize(args[0]).Symbol
			if symbol == "" {
				return errors.New("coin is required")
			}

			quotes := a.newQuotes()
			q, err := quotes.Quote(cmd.Context(), symbol)
			if err != nil {
				return fmt.Errorf("failed to get quote for %s: %w", symbol, err)
			}

			var history []market.Bar
			if days > 0 {
				history, err = quotes.History(cmd.Context(), symbol, days)
				if err != nil {
					a.printer.Warning(fmt.Sprintf("price history unavailable: %v", err))
				}
			}
			a.printer.Quote(q, history)
			return nil
		},
	}

	cmd.Flags().Int("days", 7, "Number of daily closes to show (0 to skip)")

	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.out, "CoinPulse %s\n", Version)
			fmt.Fprintln(a.out, "Crypto News Sentiment Analyzer")
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Show and validate CoinPulse configuration settings",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(a.out, a.cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and model availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cmd.Context(), a)
		},
	})

	return configCmd
}

func runServe(ctx context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbg := debug.NewEinoDebugger(a.cfg)
	if err := dbg.Initialize(ctx); err != nil {
		a.printer.Warning(err.Error())
	}

	source := a.newSource()
	an, inv, err := a.newAnalyzer(ctx, source)
	if err != nil {
		return err
	}

	a.printer.Banner(a.cfg.Model, a.cfg.Addr())
	if dbg.IsEnabled() {
		a.printer.Info("Eino debug UI: " + dbg.GetDebugURL())
	}

	srv := server.New(a.cfg.Addr(), server.Deps{
		Analyzer: an,
		Table:    a.table,
		News:     source,
		Quotes:   a.newQuotes(),
		Pinger:   inv,
		Model:    a.cfg.Model,
	})
	return srv.Run(ctx)
}

// runAnalyzeCommand executes one analysis and prints it.
func runAnalyzeCommand(ctx context.Context, a *app, coin string, save bool) error {
	an, _, err := a.newAnalyzer(ctx, a.newSource())
	if err != nil {
		return err
	}

	res := an.Analyze(ctx, coin)
	a.printer.Result(res)

	if !save {
		return nil
	}
	if !res.OK() {
		a.printer.Warning("nothing to save")
		return nil
	}
	path, err := utils.WriteMarkdown(a.cfg.ResultsDir, utils.ReportFileName(res.Query.Symbol, time.Now()), res.String())
	if err != nil {
		return err
	}
	a.printer.Success("Report saved to " + path)
	return nil
}

// showConfig displays the current configuration
func showConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "📋 Current CoinPulse Configuration:")
	fmt.Fprintln(out, "═══════════════════════════════════════")
	fmt.Fprintf(out, "News Source:          %s\n", cfg.NewsSource)
	fmt.Fprintf(out, "News Timeout:         %s\n", cfg.NewsTimeout)
	fmt.Fprintf(out, "Max Articles:         %d\n", cfg.MaxArticles)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "LLM Provider:         %s\n", cfg.LLMProvider)
	fmt.Fprintf(out, "Model:                %s\n", cfg.Model)
	fmt.Fprintf(out, "Backend URL:          %s\n", cfg.LLMBaseURL)
	fmt.Fprintf(out, "LLM Timeout:          %s\n", cfg.LLMTimeout)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Web UI Address:       %s\n", cfg.Addr())
	fmt.Fprintf(out, "Results Directory:    %s\n", cfg.ResultsDir)
	fmt.Fprintf(out, "Log Level:            %s (%s)\n", cfg.LogLevel, cfg.LogFormat)
	fmt.Fprintf(out, "Debug Mode:           %t\n", cfg.Debug)
	fmt.Fprintf(out, "Eino Debug:           %t\n", cfg.EinoDebugEnabled)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "🔌 API Configuration:")
	fmt.Fprintln(out, "─────────────────────")
	fmt.Fprintf(out, "NewsAPI Key:          %s\n", configured(cfg.NewsAPIKey))
	fmt.Fprintf(out, "LLM API Key:          %s\n", configured(cfg.LLMAPIKey))
	fmt.Fprintf(out, "DeepSeek API Key:     %s\n", configured(cfg.DeepSeekAPIKey))
}

func configured(secret string) string {
	if secret != "" {
		return "✅ Configured"
	}
	return "❌ Not configured"
}

// validateConfig checks the configuration and that the model can be reached.
func validateConfig(ctx context.Context, a *app) error {
	cfg := a.cfg
	out := a.out

	fmt.Fprintln(out, "🔍 Validating CoinPulse Configuration...")
	fmt.Fprintln(out, "═══════════════════════════════════════")

	fmt.Fprint(out, "⚙️  Checking configuration values... ")
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(out, "❌")
		return err
	}
	fmt.Fprintln(out, "✅")

	fmt.Fprint(out, "📁 Checking directories... ")
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Fprintln(out, "❌")
		return fmt.Errorf("directory validation failed: %w", err)
	}
	fmt.Fprintln(out, "✅")

	var warnings []string
	if cfg.NewsSource == config.SourceNewsAPI && cfg.NewsAPIKey == "" {
		warnings = append(warnings, "NEWS_API_KEY not configured, NewsAPI requests will be rejected")
	}
	if cfg.LLMProvider == config.ProviderOpenAI && cfg.LLMAPIKey == "" {
		warnings = append(warnings, "LLM_API_KEY not configured for the openai provider")
	}

	fmt.Fprintf(out, "🤖 Checking model %s... ", cfg.Model)
	inv, err := a.newInvoker(ctx)
	if err != nil {
		fmt.Fprintln(out, "❌")
		return err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := inv.Ping(pingCtx); err != nil {
		fmt.Fprintln(out, "❌")
		return fmt.Errorf("model check failed: %w", err)
	}
	fmt.Fprintln(out, "✅")

	fmt.Fprintln(out)
	for _, w := range warnings {
		fmt.Fprintf(out, "  ⚠️  %s\n", w)
	}
	if len(warnings) == 0 {
		fmt.Fprintln(out, "✅ Configuration validation completed successfully!")
	} else {
		fmt.Fprintf(out, "⚠️  Configuration validation completed with %d warnings.\n", len(warnings))
	}
	return nil
}
