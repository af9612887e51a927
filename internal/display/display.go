package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/dyike/CoinPulse/internal/analyzer"
	"github.com/dyike/CoinPulse/internal/coins"
	"github.com/dyike/CoinPulse/internal/dataflows"
	"github.com/dyike/CoinPulse/internal/market"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 2)

	reportStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(1, 2)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))
)

// Printer renders CLI output.
type Printer struct {
	out io.Writer
}

// New returns a Printer writing to out.
func New(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out}
}

// Banner is printed when the web UI starts.
func (p *Printer) Banner(model, addr string) {
	fmt.Fprintln(p.out, titleStyle.Render("🚀 Starting Crypto News Analyzer..."))
	fmt.Fprintf(p.out, "📡 Make sure Ollama is running and <<< %s >>> model is installed!\n", model)
	fmt.Fprintf(p.out, "💡 To install the model: ollama pull <<< %s >>>\n", model)
	if addr != "" {
		fmt.Fprintf(p.out, "🌐 Open http://%s in your browser\n", addr)
	}
	fmt.Fprintln(p.out, strings.Repeat("-", 70))
}

// Result prints an analysis. Non-OK results print only their message.
func (p *Printer) Result(res analyzer.Result) {
	if !res.OK() {
		fmt.Fprintln(p.out, errorStyle.Render(res.String()))
		return
	}

	prediction := ExtractPrediction(res.Analysis)
	header := fmt.Sprintf("🚀 %s | 📊 %d articles | 🤖 %s | %s %s",
		res.Query.Symbol, res.Articles, res.Model, PredictionEmoji(prediction), prediction)
	fmt.Fprintln(p.out, headerStyle.Render(header))
	fmt.Fprintln(p.out, reportStyle.Render(strings.TrimSpace(res.Analysis)))
	fmt.Fprintln(p.out, mutedStyle.Render(fmt.Sprintf("request %s finished in %s", res.RequestID, res.Elapsed.Round(time.Millisecond))))
}

// Articles lists news items with their relative age.
func (p *Printer) Articles(query coins.Query, articles []dataflows.Article) {
	fmt.Fprintln(p.out, titleStyle.Render(fmt.Sprintf("📰 News for %s (%s)", query.Symbol, query.SearchName)))
	if len(articles) == 0 {
		fmt.Fprintln(p.out, mutedStyle.Render("No articles found."))
		return
	}

	for i, a := range articles {
		age := "unknown time"
		if !a.PublishedAt.IsZero() {
			age = humanize.Time(a.PublishedAt)
		}
		source := a.Source
		if source == "" {
			source = "unknown source"
		}
		fmt.Fprintf(p.out, "%2d. %s\n", i+1, a.Title)
		fmt.Fprintln(p.out, mutedStyle.Render(fmt.Sprintf("    %s · %s", source, age)))
		if a.URL != "" {
			fmt.Fprintln(p.out, mutedStyle.Render("    "+a.URL))
		}
	}
	fmt.Fprintf(p.out, "\n%s articles\n", humanize.Comma(int64(len(articles))))
}

// Coins lists the supported symbols as "BTC (Bitcoin)".
func (p *Printer) Coins(entries []coins.Entry) {
	fmt.Fprintln(p.out, titleStyle.Render("📋 Supported Cryptocurrencies"))
	for _, e := range entries {
		fmt.Fprintln(p.out, e.DisplayName())
	}
}

// Quote prints a spot price and, when present, the daily closes.
func (p *Printer) Quote(q *market.Quote, history []market.Bar) {
	fmt.Fprintln(p.out, headerStyle.Render("💰 "+q.Summary()))
	if q.Name != "" {
		fmt.Fprintf(p.out, "Name:      %s\n", q.Name)
	}
	fmt.Fprintf(p.out, "Day range: %s - %s\n", market.FormatPrice(q.DayLow), market.FormatPrice(q.DayHigh))
	fmt.Fprintf(p.out, "Volume:    %s\n", humanize.Comma(q.Volume))
	if !q.Time.IsZero() && q.Time.Unix() > 0 {
		fmt.Fprintf(p.out, "Updated:   %s\n", humanize.Time(q.Time))
	}
	if len(history) > 0 {
		fmt.Fprintln(p.out)
		for _, b := range history {
			fmt.Fprintf(p.out, "  %s  %s\n", b.Date.Format("2006-01-02"), market.FormatPrice(b.Close))
		}
	}
}

// Error prints err in red.
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.out, errorStyle.Render("❌ Error: "+err.Error()))
}

// Warning prints a yellow warning line.
func (p *Printer) Warning(message string) {
	fmt.Fprintln(p.out, warningStyle.Render("⚠️  "+message))
}

// Info prints a blue status line.
func (p *Printer) Info(message string) {
	fmt.Fprintln(p.out, infoStyle.Render("ℹ️  "+message))
}

// Success prints a green confirmation line.
func (p *Printer) Success(message string) {
	fmt.Fprintln(p.out, successStyle.Render("✅ "+message))
}

// ExtractPrediction reads the direction from the "Prediction:" line of a
// report, falling back to "Inconclusive" or "Unknown".
func ExtractPrediction(analysis string) string {
	for _, line := range strings.Split(analysis, "\n") {
		upper := strings.ToUpper(line)
		if !strings.Contains(upper, "PREDICTION") {
			continue
		}
		switch {
		case strings.Contains(upper, "BULLISH"):
			return "Bullish"
		case strings.Contains(upper, "BEARISH"):
			return "Bearish"
		case strings.Contains(upper, "NEUTRAL"):
			return "Neutral"
		}
	}
	if strings.Contains(strings.ToUpper(analysis), "INCONCLUSIVE") {
		return "Inconclusive"
	}
	return "Unknown"
}

// PredictionEmoji returns the appropriate emoji for a prediction
func PredictionEmoji(prediction string) string {
	switch prediction {
	case "Bullish":
		return "🟢"
	case "Bearish":
		return "🔴"
	case "Neutral":
		return "🟡"
	case "Inconclusive":
		return "⚪"
	default:
		return "⏳"
	}
}
