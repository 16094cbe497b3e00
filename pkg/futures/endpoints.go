// Package futures wraps the USD-M futures API under /fapi.
//
// COIN-M futures share the same request shapes under /dapi; Endpoints lets
// pkg/futurescm drive this package's services with its own paths.
package futures

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"nakula/pkg/api"
)

// ErrUnsupported is returned when an operation has no path in the active
// endpoint set.
var ErrUnsupported = errors.New("operation not supported by this API family")

// Endpoints maps each futures operation onto a family's REST path. A nil
// entry marks an operation the family does not offer.
type Endpoints struct {
	Ping         api.Endpoint
	Time         api.Endpoint
	ExchangeInfo api.Endpoint
	Depth        api.Endpoint
	Trades       api.Endpoint
	AggTrades    api.Endpoint
	Klines       api.Endpoint
	PremiumIndex api.Endpoint
	FundingRate  api.Endpoint
	Ticker24hr   api.Endpoint
	TickerPrice  api.Endpoint
	BookTicker   api.Endpoint
	OpenInterest api.Endpoint

	Order         api.Endpoint
	OpenOrders    api.Endpoint
	AllOpenOrders api.Endpoint
	AllOrders     api.Endpoint
	PositionRisk  api.Endpoint
	Account       api.Endpoint
	Balance       api.Endpoint
	Leverage      api.Endpoint
	MarginType    api.Endpoint
	PositionSide  api.Endpoint
	UserTrades    api.Endpoint
	Income        api.Endpoint
	ListenKey     api.Endpoint
}

// USDM is the endpoint set of USD-M futures.
var USDM = Endpoints{
	Ping:         api.FuturesPing,
	Time:         api.FuturesTime,
	ExchangeInfo: api.FuturesExchangeInfo,
	Depth:        api.FuturesDepth,
	Trades:       api.FuturesTrades,
	AggTrades:    api.FuturesAggTrades,
	Klines:       api.FuturesKlines,
	PremiumIndex: api.FuturesPremiumIndex,
	FundingRate:  api.FuturesFundingRate,
	Ticker24hr:   api.FuturesTicker24hr,
	TickerPrice:  api.FuturesTickerPrice,
	BookTicker:   api.FuturesBookTicker,
	OpenInterest: api.FuturesOpenInterest,

	Order:         api.FuturesOrder,
	OpenOrders:    api.FuturesOpenOrders,
	AllOpenOrders: api.FuturesAllOpenOrders,
	AllOrders:     api.FuturesAllOrders,
	PositionRisk:  api.FuturesPositionRisk,
	Account:       api.FuturesAccount,
	Balance:       api.FuturesBalance,
	Leverage:      api.FuturesChangeInitialLeverage,
	MarginType:    api.FuturesMarginType,
	PositionSide:  api.FuturesPositionSide,
	UserTrades:    api.FuturesUserTrades,
	Income:        api.FuturesIncome,
	ListenKey:     api.FuturesListenKey,
}

func supported(endpoint api.Endpoint) error {
	if endpoint == nil {
		return ErrUnsupported
	}
	return nil
}

// oneOrMany decodes either a single object or an array of objects. Ticker
// endpoints answer with an object on /fapi and with an array on /dapi.
type oneOrMany[T any] []T

func (l *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var v T
		if err := sonic.Unmarshal(data, &v); err != nil {
			return err
		}
		*l = oneOrMany[T]{v}
		return nil
	}
	return sonic.Unmarshal(data, (*[]T)(l))
}

func first[T any](items []T, what, symbol string) (*T, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no %s for %s", what, symbol)
	}
	return &items[0], nil
}
