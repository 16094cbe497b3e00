package api

// Futures enumerates USD-M futures endpoints under /fapi.
type Futures int

const (
	FuturesPing Futures = iota
	FuturesTime
	FuturesExchangeInfo
	FuturesDepth
	FuturesTrades
	FuturesAggTrades
	FuturesKlines
	FuturesPremiumIndex
	FuturesFundingRate
	FuturesTicker24hr
	FuturesTickerPrice
	FuturesBookTicker
	FuturesOpenInterest
	FuturesOrder
	FuturesOpenOrders
	FuturesAllOpenOrders
	FuturesAllOrders
	FuturesPositionRisk
	FuturesAccount
	FuturesBalance
	FuturesChangeInitialLeverage
	FuturesMarginType
	FuturesPositionSide
	FuturesUserTrades
	FuturesIncome
	FuturesListenKey
)

var futuresPaths = [...]string{
	FuturesPing:                  "/fapi/v1/ping",
	FuturesTime:                  "/fapi/v1/time",
	FuturesExchangeInfo:          "/fapi/v1/exchangeInfo",
	FuturesDepth:                 "/fapi/v1/depth",
	FuturesTrades:                "/fapi/v1/trades",
	FuturesAggTrades:             "/fapi/v1/aggTrades",
	FuturesKlines:                "/fapi/v1/klines",
	FuturesPremiumIndex:          "/fapi/v1/premiumIndex",
	FuturesFundingRate:           "/fapi/v1/fundingRate",
	FuturesTicker24hr:            "/fapi/v1/ticker/24hr",
	FuturesTickerPrice:           "/fapi/v1/ticker/price",
	FuturesBookTicker:            "/fapi/v1/ticker/bookTicker",
	FuturesOpenInterest:          "/fapi/v1/openInterest",
	FuturesOrder:                 "/fapi/v1/order",
	FuturesOpenOrders:            "/fapi/v1/openOrders",
	FuturesAllOpenOrders:         "/fapi/v1/allOpenOrders",
	FuturesAllOrders:             "/fapi/v1/allOrders",
	FuturesPositionRisk:          "/fapi/v2/positionRisk",
	FuturesAccount:               "/fapi/v2/account",
	FuturesBalance:               "/fapi/v2/balance",
	FuturesChangeInitialLeverage: "/fapi/v1/leverage",
	FuturesMarginType:            "/fapi/v1/marginType",
	FuturesPositionSide:          "/fapi/v1/positionSide/dual",
	FuturesUserTrades:            "/fapi/v1/userTrades",
	FuturesIncome:                "/fapi/v1/income",
	FuturesListenKey:             "/fapi/v1/listenKey",
}

// Path returns the literal REST path.
func (e Futures) Path() string {
	return futuresPaths[e]
}

// Family returns FamilyFutures.
func (Futures) Family() Family {
	return FamilyFutures
}

func (e Futures) String() string {
	return e.Path()
}

// FuturesCM enumerates COIN-M futures endpoints under /dapi.
type FuturesCM int

const (
	FuturesCMPing FuturesCM = iota
	FuturesCMTime
	FuturesCMExchangeInfo
	FuturesCMDepth
	FuturesCMTrades
	FuturesCMAggTrades
	FuturesCMKlines
	FuturesCMPremiumIndex
	FuturesCMFundingRate
	FuturesCMTicker24hr
	FuturesCMTickerPrice
	FuturesCMBookTicker
	FuturesCMOpenInterest
	FuturesCMOrder
	FuturesCMOpenOrders
	FuturesCMAllOpenOrders
	FuturesCMAllOrders
	FuturesCMPositionRisk
	FuturesCMAccount
	FuturesCMBalance
	FuturesCMChangeInitialLeverage
	FuturesCMMarginType
	FuturesCMUserTrades
	FuturesCMIncome
	FuturesCMListenKey
)

var futuresCMPaths = [...]string{
	FuturesCMPing:                  "/dapi/v1/ping",
	FuturesCMTime:                  "/dapi/v1/time",
	FuturesCMExchangeInfo:          "/dapi/v1/exchangeInfo",
	FuturesCMDepth:                 "/dapi/v1/depth",
	FuturesCMTrades:                "/dapi/v1/trades",
	FuturesCMAggTrades:             "/dapi/v1/aggTrades",
	FuturesCMKlines:                "/dapi/v1/klines",
	FuturesCMPremiumIndex:          "/dapi/v1/premiumIndex",
	FuturesCMFundingRate:           "/dapi/v1/fundingRate",
	FuturesCMTicker24hr:            "/dapi/v1/ticker/24hr",
	FuturesCMTickerPrice:           "/dapi/v1/ticker/price",
	FuturesCMBookTicker:            "/dapi/v1/ticker/bookTicker",
	FuturesCMOpenInterest:          "/dapi/v1/openInterest",
	FuturesCMOrder:                 "/dapi/v1/order",
	FuturesCMOpenOrders:            "/dapi/v1/openOrders",
	FuturesCMAllOpenOrders:         "/dapi/v1/allOpenOrders",
	FuturesCMAllOrders:             "/dapi/v1/allOrders",
	FuturesCMPositionRisk:          "/dapi/v1/positionRisk",
	FuturesCMAccount:               "/dapi/v1/account",
	FuturesCMBalance:               "/dapi/v1/balance",
	FuturesCMChangeInitialLeverage: "/dapi/v1/leverage",
	FuturesCMMarginType:            "/dapi/v1/marginType",
	FuturesCMUserTrades:            "/dapi/v1/userTrades",
	FuturesCMIncome:                "/dapi/v1/income",
	FuturesCMListenKey:             "/dapi/v1/listenKey",
}

// Path returns the literal REST path.
func (e FuturesCM) Path() string {
	return futuresCMPaths[e]
}

// Family returns FamilyFuturesCM.
func (FuturesCM) Family() Family {
	return FamilyFuturesCM
}

func (e FuturesCM) String() string {
	return e.Path()
}
