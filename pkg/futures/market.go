package futures

import (
	"context"
	"fmt"
	"strconv"

	"nakula/pkg/client"
	"nakula/pkg/core"
)

// Market serves public futures market data.
type Market struct {
	client    *client.Client
	endpoints Endpoints
}

// NewMarket returns the USD-M market data service.
func NewMarket(c *client.Client) *Market {
	return NewMarketWith(c, USDM)
}

// NewMarketWith returns a market data service bound to endpoints.
func NewMarketWith(c *client.Client, endpoints Endpoints) *Market {
	return &Market{client: c, endpoints: endpoints}
}

func (m *Market) Ping(ctx context.Context) error {
	return m.client.Get(ctx, m.endpoints.Ping, nil, nil)
}

func (m *Market) ServerTime(ctx context.Context) (core.Timestamp, error) {
	var st core.ServerTime
	if err := m.client.Get(ctx, m.endpoints.Time, nil, &st); err != nil {
		return 0, err
	}
	return st.ServerTime, nil
}

// ExchangeInfo returns contract rules and adopts the published request
// weight limit. Responses are cached for Config.CacheTTL.
func (m *Market) ExchangeInfo(ctx context.Context) (*core.ExchangeInfo, error) {
	req := core.Get(m.endpoints.ExchangeInfo).SetWeight(1).SetCache(m.client.Config().CacheTTL)

	var info core.ExchangeInfo
	if err := m.client.Do(ctx, req, &info); err != nil {
		return nil, err
	}
	m.client.ApplyRateLimits(m.endpoints.ExchangeInfo.Family(), info.RateLimits)
	return &info, nil
}

// Depth returns an order book snapshot. Valid limits are 5, 10, 20, 50, 100,
// 500 and 1000.
func (m *Market) Depth(ctx context.Context, symbol string, limit int) (*core.OrderBook, error) {
	params := core.NewParams().Set("symbol", symbol)
	if limit > 0 {
		params.SetInt("limit", limit)
	}

	var book core.OrderBook
	if err := m.client.Do(ctx, core.Get(m.endpoints.Depth).SetParams(params).SetWeight(DepthWeight(limit)), &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// DepthWeight is the request weight of a depth call with limit. The default
// limit is 500.
func DepthWeight(limit int) int {
	switch {
	case limit <= 0:
		return 10
	case limit <= 50:
		return 2
	case limit <= 100:
		return 5
	case limit <= 500:
		return 10
	default:
		return 20
	}
}

func (m *Market) Trades(ctx context.Context, symbol string, limit int) ([]core.Trade, error) {
	params := core.ApplyOptions(core.NewParams().Set("symbol", symbol), core.WithLimit(limit))

	var trades []core.Trade
	if err := m.client.Do(ctx, core.Get(m.endpoints.Trades).SetParams(params).SetWeight(5), &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

func (m *Market) AggTrades(ctx context.Context, symbol string, opts ...core.QueryOption) ([]core.AggTrade, error) {
	params := core.ApplyOptions(core.NewParams().Set("symbol", symbol), opts...)

	var trades []core.AggTrade
	if err := m.client.Do(ctx, core.Get(m.endpoints.AggTrades).SetParams(params).SetWeight(20), &trades); err != nil {
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
	req := core.Get(m.endpoints.Klines).SetParams(params).SetWeight(klineWeight(params))
	if err := m.client.Do(ctx, req, &klines); err != nil {
		return nil, err
	}
	return klines, nil
}

func klineWeight(params core.Params) int {
	limit, _ := strconv.Atoi(params.Get("limit"))
	switch {
	case limit > 1000:
		return 10
	case limit >= 500, limit == 0:
		return 5
	case limit >= 100:
		return 2
	default:
		return 1
	}
}

// PremiumIndex returns mark price and funding data. An empty symbol returns
// every symbol.
func (m *Market) PremiumIndex(ctx context.Context, symbol string) ([]PremiumIndex, error) {
	var out oneOrMany[PremiumIndex]
	req := core.Get(m.endpoints.PremiumIndex).SetParams(core.NewParams().SetOptional("symbol", symbol)).SetWeight(1)
	if err := m.client.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Market) FundingRate(ctx context.Context, symbol string, opts ...core.QueryOption) ([]FundingRate, error) {
	params := core.ApplyOptions(core.NewParams().SetOptional("symbol", symbol), opts...)

	var rates []FundingRate
	if err := m.client.Do(ctx, core.Get(m.endpoints.FundingRate).SetParams(params).SetWeight(1), &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

func (m *Market) Ticker24hr(ctx context.Context, symbol string) (*core.Ticker24hr, error) {
	var out oneOrMany[core.Ticker24hr]
	if err := m.client.Do(ctx, core.Get(m.endpoints.Ticker24hr).SetParam("symbol", symbol).SetWeight(1), &out); err != nil {
		return nil, err
	}
	return first(out, "ticker", symbol)
}

func (m *Market) Price(ctx context.Context, symbol string) (*core.PriceTicker, error) {
	var out oneOrMany[core.PriceTicker]
	if err := m.client.Do(ctx, core.Get(m.endpoints.TickerPrice).SetParam("symbol", symbol).SetWeight(1), &out); err != nil {
		return nil, err
	}
	return first(out, "price", symbol)
}

func (m *Market) BookTicker(ctx context.Context, symbol string) (*core.BookTicker, error) {
	var out oneOrMany[core.BookTicker]
	if err := m.client.Do(ctx, core.Get(m.endpoints.BookTicker).SetParam("symbol", symbol).SetWeight(2), &out); err != nil {
		return nil, err
	}
	return first(out, "book ticker", symbol)
}

func (m *Market) OpenInterest(ctx context.Context, symbol string) (*OpenInterest, error) {
	var oi OpenInterest
	if err := m.client.Do(ctx, core.Get(m.endpoints.OpenInterest).SetParam("symbol", symbol).SetWeight(1), &oi); err != nil {
		return nil, err
	}
	return &oi, nil
}
