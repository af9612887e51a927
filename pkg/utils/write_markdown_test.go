package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportFileName(t *testing.T) {
	at := time.Date(2026, 10, 17, 9, 5, 3, 0, time.UTC)
	assert.Equal(t, "BTC_20261017_090503.md", ReportFileName("btc", at))
	assert.Equal(t, "ETH_EUR_20261017_090503.md", ReportFileName("eth/eur", at))
	assert.Equal(t, "REPORT_20261017_090503.md", ReportFileName("  ", at))
}

func TestWriteMarkdown(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results", "nested")

	path, err := WriteMarkdown(dir, "BTC.md", "## report")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "BTC.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "## report", string(data))
}
