package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dyike/CoinPulse/internal/logger"
)

// ReportFileName names a saved report "{SYMBOL}_{yyyymmdd_hhmmss}.md".
func ReportFileName(symbol string, at time.Time) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	symbol = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator || r == ' ' {
			return '_'
		}
		return r
	}, symbol)
	if symbol == "" {
		symbol = "REPORT"
	}
	return fmt.Sprintf("%s_%s.md", symbol, at.Format("20060102_150405"))
}

// WriteMarkdown writes content to dir/fileName, creating dir if needed, and
// returns the full path.
func WriteMarkdown(dir, fileName, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", path, err)
	}
	logger.Get().Infow("report written", "path", path)
	return path, nil
}
