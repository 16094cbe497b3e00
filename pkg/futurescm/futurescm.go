// Package futurescm wraps the COIN-M futures API under /dapi. Requests share
// their shape with USD-M futures, so the services reuse pkg/futures bound to
// the /dapi paths.
package futurescm

import (
	"context"
	"fmt"
	"time"

	"nakula/pkg/api"
	"nakula/pkg/client"
	"nakula/pkg/core"
	"nakula/pkg/futures"
)

// Endpoints is the COIN-M endpoint set. Position mode switching has no /dapi
// path here.
var Endpoints = futures.Endpoints{
	Ping:         api.FuturesCMPing,
	Time:         api.FuturesCMTime,
	ExchangeInfo: api.FuturesCMExchangeInfo,
	Depth:        api.FuturesCMDepth,
	Trades:       api.FuturesCMTrades,
	AggTrades:    api.FuturesCMAggTrades,
	Klines:       api.FuturesCMKlines,
	PremiumIndex: api.FuturesCMPremiumIndex,
	FundingRate:  api.FuturesCMFundingRate,
	Ticker24hr:   api.FuturesCMTicker24hr,
	TickerPrice:  api.FuturesCMTickerPrice,
	BookTicker:   api.FuturesCMBookTicker,
	OpenInterest: api.FuturesCMOpenInterest,

	Order:         api.FuturesCMOrder,
	OpenOrders:    api.FuturesCMOpenOrders,
	AllOpenOrders: api.FuturesCMAllOpenOrders,
	AllOrders:     api.FuturesCMAllOrders,
	PositionRisk:  api.FuturesCMPositionRisk,
	Account:       api.FuturesCMAccount,
	Balance:       api.FuturesCMBalance,
	Leverage:      api.FuturesCMChangeInitialLeverage,
	MarginType:    api.FuturesCMMarginType,
	UserTrades:    api.FuturesCMUserTrades,
	Income:        api.FuturesCMIncome,
	ListenKey:     api.FuturesCMListenKey,
}

// Market serves COIN-M market data.
type Market struct {
	*futures.Market
	client *client.Client
}

func NewMarket(c *client.Client) *Market {
	return &Market{Market: futures.NewMarketWith(c, Endpoints), client: c}
}

// Klines returns candlesticks of symbol. limit, startTime and endTime are
// sent only when set. The maximum limit is 1500.
func (m *Market) Klines(ctx context.Context, symbol string, interval core.KlineInterval, limit int, startTime, endTime time.Time) ([]core.KlineSummary, error) {
	if interval == "" {
		return nil, fmt.Errorf("%w: interval is required", core.ErrInvalidParameter)
	}
	if limit > 1500 {
		return nil, fmt.Errorf("%w: limit %d above 1500", core.ErrInvalidParameter, limit)
	}
	if !startTime.IsZero() && !endTime.IsZero() && endTime.Before(startTime) {
		return nil, fmt.Errorf("%w: endTime before startTime", core.ErrInvalidParameter)
	}

	params := core.ApplyOptions(core.NewParams().Set("symbol", symbol).Set("interval", string(interval)),
		core.WithLimit(limit), core.WithTimeRange(startTime, endTime))

	var klines []core.KlineSummary
	if err := m.client.Do(ctx, core.Get(Endpoints.Klines).SetParams(params).SetWeight(klineWeight(limit)), &klines); err != nil {
		return nil, err
	}
	return klines, nil
}

func klineWeight(limit int) int {
	switch {
	case limit <= 0, limit >= 500 && limit <= 1000:
		return 5
	case limit > 1000:
		return 10
	case limit >= 100:
		return 2
	default:
		return 1
	}
}

// Account serves signed COIN-M trading and account endpoints. Orders are
// built with futures.NewOrder; quantities are in contracts.
type Account struct {
	*futures.Account
	client *client.Client
}

func NewAccount(c *client.Client) *Account {
	return &Account{Account: futures.NewAccountWith(c, Endpoints), client: c}
}

// NewUserStream returns the listen key manager for COIN-M user data.
func NewUserStream(c *client.Client) *client.UserStream {
	return client.NewUserStream(c, Endpoints.ListenKey)
}

// PositionInformation returns positions filtered by pair (for example
// "BTCUSD"), or every position when pair is empty. COIN-M filters by pair
// rather than symbol.
func (a *Account) PositionInformation(ctx context.Context, pair string) ([]futures.PositionRisk, error) {
	req := core.Get(Endpoints.PositionRisk).
		SetParams(core.NewParams().SetOptional("pair", pair)).
		Signed().
		SetWeight(1)

	var positions []futures.PositionRisk
	if err := a.client.Do(ctx, req, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}
