package prompts

import (
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessagesShape(t *testing.T) {
	msgs := BuildMessages("ETH", []string{"first", "second"})
	require.Len(t, msgs, 2)

	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Equal(t, SystemPrompt(), msgs[0].Content)
}

func TestSystemPrompt(t *testing.T) {
	p := SystemPrompt()
	for _, want := range []string{"Positive, Negative, or Neutral", "Bullish, Bearish, or Neutral", "High / Medium / Low", "Inconclusive"} {
		assert.Contains(t, p, want)
	}
	assert.Equal(t, strings.TrimSpace(p), p)
}

func TestUserPromptArticles(t *testing.T) {
	prompt := UserPrompt("BTC", []string{"ETF approved", "Exchange hacked"})

	assert.Contains(t, prompt, "related to BTC.")
	assert.Contains(t, prompt, "**Crypto:** BTC")
	assert.True(t, strings.HasSuffix(prompt, "Article 1: ETF approved\n\nArticle 2: Exchange hacked"), prompt)
	assert.NotContains(t, prompt, "Article 0:")
}

func TestUserPromptSingleArticle(t *testing.T) {
	prompt := UserPrompt("SOL", []string{"only one"})
	assert.True(t, strings.HasSuffix(prompt, "Here are the articles:\n\nArticle 1: only one"), prompt)
}

func TestUserPromptNumbering(t *testing.T) {
	articles := make([]string, 50)
	for i := range articles {
		articles[i] = "news"
	}
	prompt := UserPrompt("DOGE", articles)
	assert.Contains(t, prompt, "Article 50: news")
	assert.NotContains(t, prompt, "Article 51:")
	assert.Equal(t, 50, strings.Count(prompt, ": news"))
}

func TestBuildMessagesDeterministic(t *testing.T) {
	articles := []string{"a", "b", "c"}
	first := BuildMessages("ADA", articles)
	second := BuildMessages("ADA", articles)

	for i := range first {
		assert.Equal(t, first[i].Content, second[i].Content)
	}
	assert.Equal(t, []string{"a", "b", "c"}, articles)
}

func TestUserPromptDoesNotInterpretArticleText(t *testing.T) {
	prompt := UserPrompt("XRP", []string{"{{.Symbol}} <b>bold</b> & more"})
	assert.Contains(t, prompt, "Article 1: {{.Symbol}} <b>bold</b> & more")
}
