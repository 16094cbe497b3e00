package core

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
)

// KlineSummary is one candlestick. The exchange sends klines as positional
// arrays; UnmarshalJSON maps them onto named fields.
type KlineSummary struct {
	OpenTime                 Timestamp `json:"openTime"`
	Open                     Number    `json:"open"`
	High                     Number    `json:"high"`
	Low                      Number    `json:"low"`
	Close                    Number    `json:"close"`
	Volume                   Number    `json:"volume"`
	CloseTime                Timestamp `json:"closeTime"`
	QuoteAssetVolume         Number    `json:"quoteAssetVolume"`
	NumberOfTrades           int64     `json:"numberOfTrades"`
	TakerBuyBaseAssetVolume  Number    `json:"takerBuyBaseAssetVolume"`
	TakerBuyQuoteAssetVolume Number    `json:"takerBuyQuoteAssetVolume"`
}

const klineFields = 11

// UnmarshalJSON decodes a kline row:
// [openTime, open, high, low, close, volume, closeTime, quoteVolume,
// trades, takerBuyBase, takerBuyQuote, ignore].
func (k *KlineSummary) UnmarshalJSON(data []byte) error {
	var row []json.RawMessage
	if err := sonic.Unmarshal(data, &row); err != nil {
		return fmt.Errorf("kline row: %w", err)
	}
	if len(row) < klineFields {
		return fmt.Errorf("kline row: expected at least %d fields, got %d", klineFields, len(row))
	}

	var trades Timestamp
	targets := []json.Unmarshaler{
		&k.OpenTime,
		&k.Open,
		&k.High,
		&k.Low,
		&k.Close,
		&k.Volume,
		&k.CloseTime,
		&k.QuoteAssetVolume,
		&trades,
		&k.TakerBuyBaseAssetVolume,
		&k.TakerBuyQuoteAssetVolume,
	}
	for i, target := range targets {
		if err := target.UnmarshalJSON(row[i]); err != nil {
			return fmt.Errorf("kline field %d: %w", i, err)
		}
	}
	k.NumberOfTrades = int64(trades)
	return nil
}

// PriceLevel is a [price, quantity] pair of an order book side.
type PriceLevel struct {
	Price    Number `json:"price"`
	Quantity Number `json:"quantity"`
}

// UnmarshalJSON decodes a ["price", "qty"] pair.
func (l *PriceLevel) UnmarshalJSON(data []byte) error {
	var pair []Number
	if err := sonic.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("price level: %w", err)
	}
	if len(pair) < 2 {
		return fmt.Errorf("price level: expected 2 fields, got %d", len(pair))
	}
	l.Price = pair[0]
	l.Quantity = pair[1]
	return nil
}

// OrderBook is a depth snapshot.
type OrderBook struct {
	LastUpdateID int64        `json:"lastUpdateId"`
	EventTime    Timestamp    `json:"E"`
	TradeTime    Timestamp    `json:"T"`
	Bids         []PriceLevel `json:"bids"`
	Asks         []PriceLevel `json:"asks"`
}

// ServerTime is the response of the time endpoints.
type ServerTime struct {
	ServerTime Timestamp `json:"serverTime"`
}

// Ticker24hr is the rolling 24 hour statistics of a symbol.
type Ticker24hr struct {
	Symbol             string    `json:"symbol"`
	Pair               string    `json:"pair"`
	PriceChange        Number    `json:"priceChange"`
	PriceChangePercent Number    `json:"priceChangePercent"`
	WeightedAvgPrice   Number    `json:"weightedAvgPrice"`
	PrevClosePrice     Number    `json:"prevClosePrice"`
	LastPrice          Number    `json:"lastPrice"`
	LastQty            Number    `json:"lastQty"`
	BidPrice           Number    `json:"bidPrice"`
	BidQty             Number    `json:"bidQty"`
	AskPrice           Number    `json:"askPrice"`
	AskQty             Number    `json:"askQty"`
	OpenPrice          Number    `json:"openPrice"`
	HighPrice          Number    `json:"highPrice"`
	LowPrice           Number    `json:"lowPrice"`
	Volume             Number    `json:"volume"`
	QuoteVolume        Number    `json:"quoteVolume"`
	BaseVolume         Number    `json:"baseVolume"`
	OpenTime           Timestamp `json:"openTime"`
	CloseTime          Timestamp `json:"closeTime"`
	FirstID            int64     `json:"firstId"`
	LastID             int64     `json:"lastId"`
	Count              int64     `json:"count"`
}

// PriceTicker is the latest price of a symbol.
type PriceTicker struct {
	Symbol string    `json:"symbol"`
	Pair   string    `json:"ps"`
	Price  Number    `json:"price"`
	Time   Timestamp `json:"time"`
}

// BookTicker is the best bid and ask of a symbol.
type BookTicker struct {
	Symbol   string    `json:"symbol"`
	Pair     string    `json:"pair"`
	BidPrice Number    `json:"bidPrice"`
	BidQty   Number    `json:"bidQty"`
	AskPrice Number    `json:"askPrice"`
	AskQty   Number    `json:"askQty"`
	Time     Timestamp `json:"time"`
}

// AveragePrice is the spot average price over Mins minutes.
type AveragePrice struct {
	Mins      int64     `json:"mins"`
	Price     Number    `json:"price"`
	CloseTime Timestamp `json:"closeTime"`
}

// Trade is a public trade.
type Trade struct {
	ID           int64     `json:"id"`
	Price        Number    `json:"price"`
	Qty          Number    `json:"qty"`
	QuoteQty     Number    `json:"quoteQty"`
	BaseQty      Number    `json:"baseQty"`
	Time         Timestamp `json:"time"`
	IsBuyerMaker bool      `json:"isBuyerMaker"`
	IsBestMatch  bool      `json:"isBestMatch"`
}

// AggTrade is a compressed aggregate trade.
type AggTrade struct {
	AggTradeID   int64     `json:"a"`
	Price        Number    `json:"p"`
	Quantity     Number    `json:"q"`
	FirstTradeID int64     `json:"f"`
	LastTradeID  int64     `json:"l"`
	Timestamp    Timestamp `json:"T"`
	IsBuyerMaker bool      `json:"m"`
	IsBestMatch  bool      `json:"M"`
}

// RateLimit describes one of the exchange's published limits.
type RateLimit struct {
	RateLimitType string `json:"rateLimitType"`
	Interval      string `json:"interval"`
	IntervalNum   int64  `json:"intervalNum"`
	Limit         int64  `json:"limit"`
}

// SymbolInfo is the trading rule set of one symbol. Filters differ per
// filter type and are kept as raw maps.
type SymbolInfo struct {
	Symbol                 string           `json:"symbol"`
	Pair                   string           `json:"pair"`
	ContractType           string           `json:"contractType"`
	Status                 string           `json:"status"`
	ContractStatus         string           `json:"contractStatus"`
	BaseAsset              string           `json:"baseAsset"`
	QuoteAsset             string           `json:"quoteAsset"`
	MarginAsset            string           `json:"marginAsset"`
	BaseAssetPrecision     int              `json:"baseAssetPrecision"`
	QuoteAssetPrecision    int              `json:"quoteAssetPrecision"`
	PricePrecision         int              `json:"pricePrecision"`
	QuantityPrecision      int              `json:"quantityPrecision"`
	ContractSize           Number           `json:"contractSize"`
	OrderTypes             []string         `json:"orderTypes"`
	TimeInForce            []string         `json:"timeInForce"`
	IsSpotTradingAllowed   bool             `json:"isSpotTradingAllowed"`
	IsMarginTradingAllowed bool             `json:"isMarginTradingAllowed"`
	Filters                []map[string]any `json:"filters"`
}

// Filter returns the filter with the given filterType, or nil.
func (s *SymbolInfo) Filter(filterType string) map[string]any {
	for _, f := range s.Filters {
		if t, _ := f["filterType"].(string); t == filterType {
			return f
		}
	}
	return nil
}

// ExchangeInfo is the response of the exchangeInfo endpoints.
type ExchangeInfo struct {
	Timezone   string       `json:"timezone"`
	ServerTime Timestamp    `json:"serverTime"`
	RateLimits []RateLimit  `json:"rateLimits"`
	Symbols    []SymbolInfo `json:"symbols"`
}

// Symbol returns the rules for symbol, or nil when it is not listed.
func (e *ExchangeInfo) Symbol(symbol string) *SymbolInfo {
	for i := range e.Symbols {
		if e.Symbols[i].Symbol == symbol {
			return &e.Symbols[i]
		}
	}
	return nil
}

// ListenKey is returned when a user data stream is started.
type ListenKey struct {
	ListenKey string `json:"listenKey"`
}
