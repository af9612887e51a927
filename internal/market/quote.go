// Package market reads spot prices for crypto pairs from Yahoo Finance.
package market

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

var ErrNoQuote = errors.New("no quote available")

// Quote is a snapshot of one {SYMBOL}-USD pair.
type Quote struct {
	Pair          string          `json:"pair"`
	Name          string          `json:"name"`
	Currency      string          `json:"currency"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	DayHigh       decimal.Decimal `json:"day_high"`
	DayLow        decimal.Decimal `json:"day_low"`
	Volume        int64           `json:"volume"`
	Time          time.Time       `json:"time"`
}

// Bar is one daily close.
type Bar struct {
	Date  time.Time       `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// Client fetches quotes from Yahoo Finance.
type Client struct {
	getQuote func(symbol string) (*finance.Quote, error)
	getChart func(params *chart.Params) ([]finance.ChartBar, error)
}

func NewClient() *Client {
	return &Client{
		getQuote: quote.Get,
		getChart: fetchChart,
	}
}

// PairSymbol maps a coin symbol to its Yahoo Finance USD pair.
func PairSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if strings.Contains(symbol, "-") {
		return symbol
	}
	return symbol + "-USD"
}

// Quote returns the current USD quote for symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pair := PairSymbol(symbol)

	q, err := c.getQuote(pair)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", pair, err)
	}
	if q == nil || q.RegularMarketPrice == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoQuote, pair)
	}

	return &Quote{
		Pair:          pair,
		Name:          q.ShortName,
		Currency:      q.CurrencyID,
		Price:         decimal.NewFromFloat(q.RegularMarketPrice),
		Change:        decimal.NewFromFloat(q.RegularMarketChange),
		ChangePercent: decimal.NewFromFloat(q.RegularMarketChangePercent),
		DayHigh:       decimal.NewFromFloat(q.RegularMarketDayHigh),
		DayLow:        decimal.NewFromFloat(q.RegularMarketDayLow),
		Volume:        int64(q.RegularMarketVolume),
		Time:          time.Unix(int64(q.RegularMarketTime), 0),
	}, nil
}

// History returns the daily closes of the last days days, oldest first.
func (c *Client) History(ctx context.Context, symbol string, days int) ([]Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if days < 1 {
		days = 7
	}
	pair := PairSymbol(symbol)

	end := time.Now()
	start := end.AddDate(0, 0, -days)
	bars, err := c.getChart(&chart.Params{
		Symbol:   pair,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get historical data for %s: %w", pair, err)
	}

	out := make([]Bar, 0, len(bars))
	for _, b := range bars {
		out = append(out, Bar{
			Date:  time.Unix(int64(b.Timestamp), 0).UTC(),
			Close: b.Close,
		})
	}
	return out, nil
}

// Summary renders a one-line quote such as "BTC-USD 67,012.35 USD (+1.25%)".
func (q *Quote) Summary() string {
	sign := ""
	if q.ChangePercent.IsPositive() {
		sign = "+"
	}
	currency := q.Currency
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%s %s %s (%s%s%%)", q.Pair, FormatPrice(q.Price), currency, sign, q.ChangePercent.StringFixed(2))
}

// FormatPrice keeps two decimals for prices above one and six below,
// with thousands separators.
func FormatPrice(d decimal.Decimal) string {
	places := int32(2)
	if d.Abs().LessThan(decimal.NewFromInt(1)) {
		places = 6
	}
	s := d.StringFixed(places)

	neg := strings.HasPrefix(s, "-")
	intPart, frac, _ := strings.Cut(strings.TrimPrefix(s, "-"), ".")

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return s
	}
	out := humanize.Comma(whole)
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

func fetchChart(params *chart.Params) ([]finance.ChartBar, error) {
	iter := chart.Get(params)
	var bars []finance.ChartBar
	for iter.Next() {
		bars = append(bars, *iter.Bar())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return bars, nil
}
