package analyzer

import (
	"fmt"
	"strings"
	"time"

	"github.com/dyike/CoinPulse/internal/coins"
)

// Kind classifies how an analysis request ended.
type Kind string

const (
	KindOK          Kind = "ok"
	KindBlankInput  Kind = "blank_input"
	KindNoArticles  Kind = "no_articles"
	KindInvokeError Kind = "invoke_error"
	KindUnexpected  Kind = "unexpected"
)

// Result is the outcome of one Analyze call.
type Result struct {
	Kind      Kind
	RequestID string
	Input     string
	Query     coins.Query
	Articles  int
	Model     string
	Runtime   string
	Analysis  string
	Err       error
	Elapsed   time.Duration
}

// OK reports whether the model produced an analysis.
func (r Result) OK() bool {
	return r.Kind == KindOK
}

// String renders the markdown report shown to the user.
func (r Result) String() string {
	switch r.Kind {
	case KindOK:
		var sb strings.Builder
		fmt.Fprintf(&sb, "## 🚀 Crypto Analysis for %s\n\n", r.Query.Symbol)
		fmt.Fprintf(&sb, "📊 **Articles Analyzed:** %d\n", r.Articles)
		fmt.Fprintf(&sb, "🤖 **AI Model:** %s\n\n", r.Model)
		sb.WriteString("---\n\n")
		sb.WriteString(r.Analysis)
		return sb.String()

	case KindBlankInput:
		return "❌ Please enter a cryptocurrency name or symbol (e.g., BTC, Bitcoin, ETH, etc.)"

	case KindNoArticles:
		return fmt.Sprintf("❌ No news articles found for %s. Try a different cryptocurrency or check the spelling.", r.Query.Symbol)

	case KindInvokeError:
		runtime := r.Runtime
		if runtime == "" {
			runtime = DefaultRuntime
		}
		return fmt.Sprintf("❌ AI Analysis Error: %s\n\nPlease make sure %s is running and the model '%s' is installed.", errText(r.Err), runtime, r.Model)

	default:
		return fmt.Sprintf("❌ Error analyzing %s: %s", r.Input, errText(r.Err))
	}
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
