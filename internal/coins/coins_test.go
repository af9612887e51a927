package coins

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSymbolAndNameAgree(t *testing.T) {
	table := DefaultTable()

	for _, e := range table.Entries() {
		bySymbol := table.Normalize(e.Symbol)
		assert.Equal(t, Query{Symbol: e.Symbol, SearchName: e.Name}, bySymbol)

		for _, variant := range []string{e.Name, strings.ToUpper(e.Name), "  " + strings.ToUpper(e.Name[:1]) + e.Name[1:] + " "} {
			assert.Equal(t, bySymbol, table.Normalize(variant), "input %q", variant)
		}
		assert.Equal(t, bySymbol, table.Normalize(strings.ToLower(e.Symbol)))
	}
}

func TestNormalizeUnknownInput(t *testing.T) {
	table := DefaultTable()

	for _, raw := range []string{"pepe", "  Shiba Inu ", "WIF", "render-token"} {
		q := table.Normalize(raw)
		trimmed := strings.TrimSpace(raw)
		assert.Equal(t, strings.ToUpper(trimmed), q.Symbol)
		assert.Equal(t, strings.ToLower(trimmed), q.SearchName)
	}
}

func TestNormalizeEthereum(t *testing.T) {
	assert.Equal(t, Query{Symbol: "ETH", SearchName: "ethereum"}, DefaultTable().Normalize("ethereum"))
}

func TestDefaultTableCoversMajorCoins(t *testing.T) {
	table := DefaultTable()
	for _, symbol := range []string{"BTC", "ETH", "BNB", "ADA", "XRP", "SOL", "DOT", "DOGE", "MATIC", "LINK", "UNI", "LTC", "AVAX", "ATOM", "XLM"} {
		_, ok := table.Lookup(symbol)
		assert.True(t, ok, symbol)
	}
	assert.Len(t, table.Entries(), 15)
}

func TestNewTableCleansEntries(t *testing.T) {
	table := NewTable([]Entry{
		{" pepe ", "PEPE"},
		{"PEPE", "other"},
		{"", "nameless"},
		{"NONAME", ""},
	})

	assert.Equal(t, []Entry{{Symbol: "PEPE", Name: "pepe"}}, table.Entries())
	assert.Equal(t, Query{Symbol: "PEPE", SearchName: "pepe"}, table.Normalize("pepe"))
}

func TestEntriesIsACopy(t *testing.T) {
	table := DefaultTable()
	entries := table.Entries()
	entries[0].Name = "changed"

	name, _ := table.Lookup(entries[0].Symbol)
	assert.Equal(t, "bitcoin", name)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "BTC (Bitcoin)", Entry{Symbol: "BTC", Name: "bitcoin"}.DisplayName())
	assert.Equal(t, "XYZ", Entry{Symbol: "XYZ"}.DisplayName())
	assert.Equal(t, "ETC (Éther classique)", Entry{Symbol: "ETC", Name: "éther classique"}.DisplayName())

	entries := NewTable([]Entry{{Symbol: "eth", Name: "Éther"}}).Entries()
	name := entries[0].DisplayName()
	assert.True(t, utf8.ValidString(name))
	assert.Equal(t, "ETH (Éther)", name)
	assert.Equal(t, []string{"BTC", "ETH", "BNB", "ADA", "XRP", "SOL", "DOGE"}, Examples())
}
