// Package analyzer runs one request end to end: normalize the input, fetch
// news, build the prompt and ask the model.
package analyzer

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/dyike/CoinPulse/internal/coins"
	"github.com/dyike/CoinPulse/internal/dataflows"
	"github.com/dyike/CoinPulse/internal/logger"
	"github.com/dyike/CoinPulse/internal/metrics"
	"github.com/dyike/CoinPulse/internal/prompts"
)

// MaxArticles is the most articles ever sent to the model in one request.
const MaxArticles = 50

// DefaultRuntime names the model runtime in failure guidance.
const DefaultRuntime = "Ollama"

// Invoker sends a conversation to the model and returns its reply.
type Invoker interface {
	Invoke(ctx context.Context, messages []*schema.Message) (string, error)
}

// Analyzer turns a coin symbol or name into a sentiment report. It resolves
// the query against the coin table, fetches article descriptions and asks the
// model for an analysis. It is safe for concurrent use.
type Analyzer struct {
	table       *coins.Table
	fetcher     dataflows.Fetcher
	invoker     Invoker
	model       string
	runtime     string
	maxArticles int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRuntime sets the model runtime named in failure guidance, e.g.
// "the DeepSeek API".
func WithRuntime(name string) Option {
	return func(a *Analyzer) {
		if name != "" {
			a.runtime = name
		}
	}
}

// WithMaxArticles lowers the per-request article limit. Values outside
// 1..MaxArticles are ignored.
func WithMaxArticles(n int) Option {
	return func(a *Analyzer) {
		if n >= 1 && n <= MaxArticles {
			a.maxArticles = n
		}
	}
}

// New returns an Analyzer. model is the name shown in reports and failure
// guidance.
func New(table *coins.Table, fetcher dataflows.Fetcher, invoker Invoker, model string, opts ...Option) *Analyzer {
	if table == nil {
		table = coins.DefaultTable()
	}
	a := &Analyzer{
		table:       table,
		fetcher:     fetcher,
		invoker:     invoker,
		model:       model,
		runtime:     DefaultRuntime,
		maxArticles: MaxArticles,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Model returns the model name used in reports.
func (a *Analyzer) Model() string {
	return a.model
}

// Table returns the coin table queries are resolved against.
func (a *Analyzer) Table() *coins.Table {
	return a.table
}

// Analyze never panics and never returns an error; every failure is
// reported through Result.Kind.
func (a *Analyzer) Analyze(ctx context.Context, raw string) (res Result) {
	start := time.Now()
	res = Result{
		RequestID: uuid.NewString(),
		Input:     raw,
		Model:     a.model,
		Runtime:   a.runtime,
	}
	log := logger.Get().With("request_id", res.RequestID)

	defer func() {
		if r := recover(); r != nil {
			res.Kind = KindUnexpected
			res.Err = fmt.Errorf("%v", r)
			log.Errorw("analysis panicked", "input", raw, "panic", r, "stack", string(debug.Stack()))
		}
		res.Elapsed = time.Since(start)
		metrics.AnalysesTotal.WithLabelValues(string(res.Kind)).Inc()
		metrics.AnalysisDuration.Observe(res.Elapsed.Seconds())
		log.Infow("analysis finished", "kind", res.Kind, "symbol", res.Query.Symbol,
			"articles", res.Articles, "elapsed", res.Elapsed.Round(time.Millisecond))
	}()

	if strings.TrimSpace(raw) == "" {
		res.Kind = KindBlankInput
		return res
	}

	res.Query = a.table.Normalize(raw)
	log.Infow("fetching news", "symbol", res.Query.Symbol, "search", res.Query.SearchName)

	articles := nonBlank(a.fetcher.FetchArticles(ctx, res.Query.SearchName))
	metrics.ArticlesFetched.Observe(float64(len(articles)))
	if len(articles) == 0 {
		res.Kind = KindNoArticles
		return res
	}
	if len(articles) > a.maxArticles {
		articles = articles[:a.maxArticles]
	}
	res.Articles = len(articles)

	log.Infow("analyzing", "symbol", res.Query.Symbol, "articles", res.Articles, "model", a.model)
	analysis, err := a.invoker.Invoke(ctx, prompts.BuildMessages(res.Query.Symbol, articles))
	if err != nil {
		res.Kind = KindInvokeError
		res.Err = err
		return res
	}

	res.Kind = KindOK
	res.Analysis = analysis
	return res
}

// AnalyzeText is Analyze rendered as the user-facing report.
func (a *Analyzer) AnalyzeText(ctx context.Context, raw string) string {
	return a.Analyze(ctx, raw).String()
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
