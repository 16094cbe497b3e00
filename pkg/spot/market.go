// Package spot wraps the /api/v3 market data, trading and user stream
// endpoints.
package spot

import (
	"context"
	"fmt"
	"strings"

	"nakula/pkg/api"
	"nakula/pkg/client"
	"nakula/pkg/core"
)

// Market serves public market data.
type Market struct {
	client *client.Client
}

func NewMarket(c *client.Client) *Market {
	return &Market{client: c}
}

func (m *Market) Ping(ctx context.Context) error {
	return m.client.Get(ctx, api.SpotPing, nil, nil)
}

func (m *Market) ServerTime(ctx context.Context) (core.Timestamp, error) {
	var st core.ServerTime
	if err := m.client.Get(ctx, api.SpotTime, nil, &st); err != nil {
		return 0, err
	}
	return st.ServerTime, nil
}

// ExchangeInfo returns trading rules for the given symbols, or for every
// symbol when none are passed. Responses are cached for Config.CacheTTL.
func (m *Market) ExchangeInfo(ctx context.Context, symbols ...string) (*core.ExchangeInfo, error) {
	params := core.NewParams()
	switch len(symbols) {
	case 0:
	case 1:
		params.Set("symbol", symbols[0])
	default:
		params.Set("symbols", symbolList(symbols))
	}

	req := core.Get(api.SpotExchangeInfo).
		SetParams(params).
		SetWeight(20).
		SetCache(m.client.Config().CacheTTL)

	var info core.ExchangeInfo
	if err := m.client.Do(ctx, req, &info); err != nil {
		return nil, err
	}
	m.client.ApplyRateLimits(api.FamilySpot, info.RateLimits)
	return &info, nil
}

// symbolList encodes symbols as the JSON array the exchange expects.
func symbolList(symbols []string) string {
	return `["` + strings.Join(symbols, `","`) + `"]`
}

// Depth returns an order book snapshot. Valid limits are 1 to 5000.
func (m *Market) Depth(ctx context.Context, symbol string, limit int) (*core.OrderBook, error) {
	params := core.NewParams().Set("symbol", symbol)
	if limit > 0 {
		params.SetInt("limit", limit)
	}

	var book core.OrderBook
	req := core.Get(api.SpotDepth).SetParams(params).SetWeight(depthWeight(limit))
	if err := m.client.Do(ctx, req, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func depthWeight(limit int) int {
	switch {
	case limit <= 100:
		return 5
	case limit <= 500:
		return 25
	case limit <= 1000:
		return 50
	default:
		return 250
	}
}

func (m *Market) Trades(ctx context.Context, symbol string, limit int) ([]core.Trade, error) {
	params := core.ApplyOptions(core.NewParams().Set("symbol", symbol), core.WithLimit(limit))

	var trades []core.Trade
	if err := m.client.Do(ctx, core.Get(api.SpotTrades).SetParams(params).SetWeight(25), &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// HistoricalTrades needs an API key but no signature.
func (m *Market) HistoricalTrades(ctx context.Context, symbol string, opts ...core.QueryOption) ([]core.Trade, error) {
	params := core.ApplyOptions(core.NewParams().Set("symbol", symbol), opts...)

	var trades []core.Trade
	req := core.Get(api.SpotHistoricalTrades).SetParams(params).Keyed().SetWeight(25)
	if err := m.client.Do(ctx, req, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

func (m *Market) AggTrades(ctx context.Context, symbol string, opts ...core.QueryOption) ([]core.AggTrade, error) {
	params := core.ApplyOptions(core.NewParams().Set("symbol", symbol), opts...)

	var trades []core.AggTrade
	if err := m.client.Do(ctx, core.Get(api.SpotAggTrades).SetParams(params).SetWeight(2), &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

func (m *Market) Klines(ctx context.Context, symbol string, interval core.KlineInterval, opts ...core.QueryOption) ([]core.KlineSummary, error) {
	if interval == "" {
		return nil, fmt.Errorf("%w: interval is required", core.ErrInvalidParameter)
	}
	params := core.ApplyOptions(core.NewParams().Set("symbol", symbol).Set("interval", string(interval)), opts...)

	var klines []core.KlineSummary
	if err := m.client.Do(ctx, core.Get(api.SpotKlines).SetParams(params).SetWeight(2), &klines); err != nil {
		return nil, err
	}
	return klines, nil
}

func (m *Market) AveragePrice(ctx context.Context, symbol string) (*core.AveragePrice, error) {
	var avg core.AveragePrice
	req := core.Get(api.SpotAvgPrice).SetParam("symbol", symbol).SetWeight(2)
	if err := m.client.Do(ctx, req, &avg); err != nil {
		return nil, err
	}
	return &avg, nil
}

func (m *Market) Ticker24hr(ctx context.Context, symbol string) (*core.Ticker24hr, error) {
	var ticker core.Ticker24hr
	req := core.Get(api.SpotTicker24hr).SetParam("symbol", symbol).SetWeight(2)
	if err := m.client.Do(ctx, req, &ticker); err != nil {
		return nil, err
	}
	return &ticker, nil
}

// Prices returns the latest price of every symbol.
func (m *Market) Prices(ctx context.Context) ([]core.PriceTicker, error) {
	var prices []core.PriceTicker
	if err := m.client.Do(ctx, core.Get(api.SpotTickerPrice).SetWeight(4), &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

func (m *Market) Price(ctx context.Context, symbol string) (*core.PriceTicker, error) {
	var price core.PriceTicker
	req := core.Get(api.SpotTickerPrice).SetParam("symbol", symbol).SetWeight(2)
	if err := m.client.Do(ctx, req, &price); err != nil {
		return nil, err
	}
	return &price, nil
}

// BookTickers returns the best bid and ask of every symbol.
func (m *Market) BookTickers(ctx context.Context) ([]core.BookTicker, error) {
	var tickers []core.BookTicker
	if err := m.client.Do(ctx, core.Get(api.SpotBookTicker).SetWeight(4), &tickers); err != nil {
		return nil, err
	}
	return tickers, nil
}

func (m *Market) BookTicker(ctx context.Context, symbol string) (*core.BookTicker, error) {
	var ticker core.BookTicker
	req := core.Get(api.SpotBookTicker).SetParam("symbol", symbol).SetWeight(2)
	if err := m.client.Do(ctx, req, &ticker); err != nil {
		return nil, err
	}
	return &ticker, nil
}
