package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/CoinPulse/internal/coins"
	"github.com/dyike/CoinPulse/internal/llm"
)

type stubFetcher struct {
	articles []string
	queries  []string
	panicMsg string
}

func (f *stubFetcher) FetchArticles(ctx context.Context, searchName string) []string {
	f.queries = append(f.queries, searchName)
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.articles
}

type stubInvoker struct {
	reply string
	err   error
	calls int
	msgs  []*schema.Message
}

func (i *stubInvoker) Invoke(ctx context.Context, messages []*schema.Message) (string, error) {
	i.calls++
	i.msgs = messages
	return i.reply, i.err
}

const model = "llama3.1:8b"

func newTestAnalyzer(f *stubFetcher, inv *stubInvoker) *Analyzer {
	return New(coins.DefaultTable(), f, inv, model)
}

func articles(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("headline %d", i+1)
	}
	return out
}

func TestAnalyzeHappyPath(t *testing.T) {
	f := &stubFetcher{articles: articles(3)}
	inv := &stubInvoker{reply: "Bullish. High."}
	a := newTestAnalyzer(f, inv)

	res := a.Analyze(context.Background(), "btc")

	assert.Equal(t, KindOK, res.Kind)
	assert.Equal(t, []string{"bitcoin"}, f.queries)
	assert.Equal(t, 1, inv.calls)
	assert.NotEmpty(t, res.RequestID)
	assert.Equal(t,
		"## 🚀 Crypto Analysis for BTC\n\n📊 **Articles Analyzed:** 3\n🤖 **AI Model:** llama3.1:8b\n\n---\n\nBullish. High.",
		res.String())

	require.Len(t, inv.msgs, 2)
	assert.Equal(t, schema.System, inv.msgs[0].Role)
	assert.Contains(t, inv.msgs[1].Content, "related to BTC.")
	assert.Contains(t, inv.msgs[1].Content, "Article 3: headline 3")
}

func TestAnalyzeByName(t *testing.T) {
	f := &stubFetcher{articles: articles(1)}
	inv := &stubInvoker{reply: "ok"}

	res := newTestAnalyzer(f, inv).Analyze(context.Background(), "  Ethereum ")

	assert.Equal(t, KindOK, res.Kind)
	assert.Equal(t, "ETH", res.Query.Symbol)
	assert.Equal(t, []string{"ethereum"}, f.queries)
	assert.True(t, strings.HasPrefix(res.String(), "## 🚀 Crypto Analysis for ETH\n\n📊 **Articles Analyzed:** 1\n"))
}

func TestAnalyzeTruncatesTo50(t *testing.T) {
	f := &stubFetcher{articles: articles(120)}
	inv := &stubInvoker{reply: "fine"}

	res := newTestAnalyzer(f, inv).Analyze(context.Background(), "SOL")

	assert.Equal(t, 50, res.Articles)
	assert.Contains(t, res.String(), "📊 **Articles Analyzed:** 50\n")
	user := inv.msgs[1].Content
	assert.Contains(t, user, "Article 50: headline 50")
	assert.NotContains(t, user, "Article 51:")
	assert.NotContains(t, user, "headline 51")
}

func TestAnalyzeMaxArticlesOption(t *testing.T) {
	f := &stubFetcher{articles: articles(20)}
	inv := &stubInvoker{reply: "fine"}

	res := New(nil, f, inv, model, WithMaxArticles(5)).Analyze(context.Background(), "SOL")
	assert.Equal(t, 5, res.Articles)

	res = New(nil, f, inv, model, WithMaxArticles(500)).Analyze(context.Background(), "SOL")
	assert.Equal(t, 20, res.Articles)
}

func TestAnalyzeBlankInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n"} {
		f := &stubFetcher{articles: articles(1)}
		inv := &stubInvoker{}

		res := newTestAnalyzer(f, inv).Analyze(context.Background(), raw)

		assert.Equal(t, KindBlankInput, res.Kind)
		assert.Equal(t, "❌ Please enter a cryptocurrency name or symbol (e.g., BTC, Bitcoin, ETH, etc.)", res.String())
		assert.Empty(t, f.queries)
		assert.Zero(t, inv.calls)
	}
}

func TestAnalyzeNoArticles(t *testing.T) {
	f := &stubFetcher{articles: []string{}}
	inv := &stubInvoker{}

	res := newTestAnalyzer(f, inv).Analyze(context.Background(), "xyz")

	assert.Equal(t, KindNoArticles, res.Kind)
	assert.Equal(t, []string{"xyz"}, f.queries)
	assert.Equal(t, "❌ No news articles found for XYZ. Try a different cryptocurrency or check the spelling.", res.String())
	assert.Zero(t, inv.calls)
}

func TestAnalyzeDropsBlankArticles(t *testing.T) {
	f := &stubFetcher{articles: []string{" ", "real news", ""}}
	inv := &stubInvoker{reply: "ok"}

	res := newTestAnalyzer(f, inv).Analyze(context.Background(), "ADA")

	assert.Equal(t, 1, res.Articles)
	assert.Contains(t, inv.msgs[1].Content, "Article 1: real news")
	assert.NotContains(t, inv.msgs[1].Content, "Article 2:")
}

func TestAnalyzeInvokeError(t *testing.T) {
	f := &stubFetcher{articles: articles(2)}
	inv := &stubInvoker{err: &llm.AnalysisError{Model: model, Err: errors.New(`model "llama3.1:8b" not found`)}}

	res := newTestAnalyzer(f, inv).Analyze(context.Background(), "DOGE")

	assert.Equal(t, KindInvokeError, res.Kind)
	assert.Equal(t,
		"❌ AI Analysis Error: model \"llama3.1:8b\" not found\n\nPlease make sure Ollama is running and the model 'llama3.1:8b' is installed.",
		res.String())
}

func TestAnalyzeInvokeErrorNamesRuntime(t *testing.T) {
	f := &stubFetcher{articles: articles(1)}
	inv := &stubInvoker{err: &llm.AnalysisError{Model: "deepseek-chat", Err: errors.New("401 unauthorized")}}

	res := New(nil, f, inv, "deepseek-chat", WithRuntime("the DeepSeek API")).Analyze(context.Background(), "BTC")

	assert.Equal(t, KindInvokeError, res.Kind)
	assert.Equal(t,
		"❌ AI Analysis Error: 401 unauthorized\n\nPlease make sure the DeepSeek API is running and the model 'deepseek-chat' is installed.",
		res.String())
	assert.NotContains(t, res.String(), "Ollama")
}

func TestAnalyzeRecoversPanics(t *testing.T) {
	f := &stubFetcher{panicMsg: "nil map write"}
	inv := &stubInvoker{}

	var res Result
	assert.NotPanics(t, func() {
		res = newTestAnalyzer(f, inv).Analyze(context.Background(), " btc ")
	})

	assert.Equal(t, KindUnexpected, res.Kind)
	assert.Equal(t, "❌ Error analyzing  btc : nil map write", res.String())
	assert.Zero(t, inv.calls)
}

func TestAnalyzeText(t *testing.T) {
	a := newTestAnalyzer(&stubFetcher{}, &stubInvoker{})
	assert.Equal(t, "❌ No news articles found for BTC. Try a different cryptocurrency or check the spelling.",
		a.AnalyzeText(context.Background(), "bitcoin"))
}

func TestResultStringUnknownError(t *testing.T) {
	res := Result{Kind: KindUnexpected, Input: "x"}
	assert.Equal(t, "❌ Error analyzing x: unknown error", res.String())
}
