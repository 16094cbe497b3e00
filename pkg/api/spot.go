package api

// Spot enumerates /api/v3 endpoints.
type Spot int

const (
	SpotPing Spot = iota
	SpotTime
	SpotExchangeInfo
	SpotDepth
	SpotTrades
	SpotHistoricalTrades
	SpotAggTrades
	SpotKlines
	SpotAvgPrice
	SpotTicker24hr
	SpotTickerPrice
	SpotBookTicker
	SpotOrder
	SpotOrderTest
	SpotOpenOrders
	SpotAllOrders
	SpotAccount
	SpotMyTrades
	SpotUserDataStream
)

var spotPaths = [...]string{
	SpotPing:             "/api/v3/ping",
	SpotTime:             "/api/v3/time",
	SpotExchangeInfo:     "/api/v3/exchangeInfo",
	SpotDepth:            "/api/v3/depth",
	SpotTrades:           "/api/v3/trades",
	SpotHistoricalTrades: "/api/v3/historicalTrades",
	SpotAggTrades:        "/api/v3/aggTrades",
	SpotKlines:           "/api/v3/klines",
	SpotAvgPrice:         "/api/v3/avgPrice",
	SpotTicker24hr:       "/api/v3/ticker/24hr",
	SpotTickerPrice:      "/api/v3/ticker/price",
	SpotBookTicker:       "/api/v3/ticker/bookTicker",
	SpotOrder:            "/api/v3/order",
	SpotOrderTest:        "/api/v3/order/test",
	SpotOpenOrders:       "/api/v3/openOrders",
	SpotAllOrders:        "/api/v3/allOrders",
	SpotAccount:          "/api/v3/account",
	SpotMyTrades:         "/api/v3/myTrades",
	SpotUserDataStream:   "/api/v3/userDataStream",
}

// Path returns the literal REST path.
func (e Spot) Path() string {
	return spotPaths[e]
}

// Family returns FamilySpot.
func (Spot) Family() Family {
	return FamilySpot
}

func (e Spot) String() string {
	return e.Path()
}
