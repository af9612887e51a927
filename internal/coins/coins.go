// Package coins maps free-form user input onto a ticker symbol and the
// search term used for news lookups.
package coins

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Query is the canonical form of one user request.
type Query struct {
	Symbol     string `json:"symbol"`
	SearchName string `json:"search_name"`
}

// Entry is one row of the symbol table.
type Entry struct {
	Symbol string
	Name   string
}

// DisplayName renders the entry as "BTC (Bitcoin)".
func (e Entry) DisplayName() string {
	if e.Name == "" {
		return e.Symbol
	}
	r, size := utf8.DecodeRuneInString(e.Name)
	return fmt.Sprintf("%s (%s)", e.Symbol, string(unicode.ToUpper(r))+e.Name[size:])
}

// Table is an immutable symbol → search-name lookup.
type Table struct {
	entries  []Entry
	bySymbol map[string]string
	byName   map[string]string
}

var defaultEntries = []Entry{
	{"BTC", "bitcoin"},
	{"ETH", "ethereum"},
	{"BNB", "binance"},
	{"ADA", "cardano"},
	{"XRP", "ripple"},
	{"SOL", "solana"},
	{"DOT", "polkadot"},
	{"DOGE", "dogecoin"},
	{"MATIC", "polygon"},
	{"LINK", "chainlink"},
	{"UNI", "uniswap"},
	{"LTC", "litecoin"},
	{"AVAX", "avalanche"},
	{"ATOM", "cosmos"},
	{"XLM", "stellar"},
}

// DefaultTable returns the table of major coins.
func DefaultTable() *Table {
	return NewTable(defaultEntries)
}

// NewTable copies entries into a new table. Symbols are upper-cased and
// names lower-cased; later duplicates are ignored.
func NewTable(entries []Entry) *Table {
	t := &Table{
		entries:  make([]Entry, 0, len(entries)),
		bySymbol: make(map[string]string, len(entries)),
		byName:   make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		symbol := strings.ToUpper(strings.TrimSpace(e.Symbol))
		name := strings.ToLower(strings.TrimSpace(e.Name))
		if symbol == "" || name == "" {
			continue
		}
		if _, ok := t.bySymbol[symbol]; ok {
			continue
		}
		t.entries = append(t.entries, Entry{Symbol: symbol, Name: name})
		t.bySymbol[symbol] = name
		if _, ok := t.byName[name]; !ok {
			t.byName[name] = symbol
		}
	}
	return t
}

// Normalize never fails: unknown input is used verbatim as both symbol and
// search term. Blank input must be rejected by the caller.
func (t *Table) Normalize(raw string) Query {
	input := strings.ToUpper(strings.TrimSpace(raw))

	if name, ok := t.bySymbol[input]; ok {
		return Query{Symbol: input, SearchName: name}
	}

	lower := strings.ToLower(input)
	if symbol, ok := t.byName[lower]; ok {
		return Query{Symbol: symbol, SearchName: lower}
	}

	return Query{Symbol: input, SearchName: lower}
}

// Lookup returns the search name for a known symbol.
func (t *Table) Lookup(symbol string) (string, bool) {
	name, ok := t.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	return name, ok
}

// Entries returns the table rows in declaration order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Examples returns the one-click inputs offered by the UIs.
func Examples() []string {
	return []string{"BTC", "ETH", "BNB", "ADA", "XRP", "SOL", "DOGE"}
}
