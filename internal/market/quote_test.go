package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairSymbol(t *testing.T) {
	assert.Equal(t, "BTC-USD", PairSymbol("btc"))
	assert.Equal(t, "ETH-USD", PairSymbol(" ETH "))
	assert.Equal(t, "ETH-EUR", PairSymbol("eth-eur"))
}

func TestQuote(t *testing.T) {
	var asked string
	c := &Client{getQuote: func(symbol string) (*finance.Quote, error) {
		asked = symbol
		return &finance.Quote{
			ShortName:                  "Bitcoin USD",
			CurrencyID:                 "USD",
			RegularMarketPrice:         67012.35,
			RegularMarketChangePercent: 1.2549,
			RegularMarketVolume:        1000,
			RegularMarketTime:          1760600000,
		}, nil
	}}

	q, err := c.Quote(context.Background(), "btc")
	require.NoError(t, err)

	assert.Equal(t, "BTC-USD", asked)
	assert.Equal(t, "Bitcoin USD", q.Name)
	assert.True(t, q.Price.Equal(decimal.RequireFromString("67012.35")))
	assert.Equal(t, "BTC-USD 67,012.35 USD (+1.25%)", q.Summary())
}

func TestQuoteMissing(t *testing.T) {
	c := &Client{getQuote: func(string) (*finance.Quote, error) { return nil, nil }}
	_, err := c.Quote(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNoQuote)

	c = &Client{getQuote: func(string) (*finance.Quote, error) { return nil, errors.New("remote error") }}
	_, err = c.Quote(context.Background(), "BTC")
	assert.ErrorContains(t, err, "remote error")
}

func TestQuoteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &Client{getQuote: func(string) (*finance.Quote, error) {
		t.Fatal("should not be called")
		return nil, nil
	}}
	_, err := c.Quote(ctx, "BTC")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHistory(t *testing.T) {
	c := &Client{getChart: func(p *chart.Params) ([]finance.ChartBar, error) {
		assert.Equal(t, "SOL-USD", p.Symbol)
		return []finance.ChartBar{
			{Timestamp: 1760486400, Close: decimal.NewFromFloat(150.5)},
			{Timestamp: 1760572800, Close: decimal.NewFromFloat(152.25)},
		}, nil
	}}

	bars, err := c.History(context.Background(), "SOL", 2)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, time.Unix(1760486400, 0).UTC(), bars[0].Date)
	assert.Equal(t, "152.25", bars[1].Close.StringFixed(2))
}

func TestFormatPrice(t *testing.T) {
	tests := map[string]string{
		"67012.345": "67,012.35",
		"1234567":   "1,234,567.00",
		"999.5":     "999.50",
		"0.0000123": "0.000012",
		"-1500.1":   "-1,500.10",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatPrice(decimal.RequireFromString(in)), in)
	}
}

func TestSummaryNegative(t *testing.T) {
	q := &Quote{Pair: "DOGE-USD", Price: decimal.RequireFromString("0.1234"), ChangePercent: decimal.RequireFromString("-3.456")}
	assert.Equal(t, "DOGE-USD 0.123400 USD (-3.46%)", q.Summary())
}
