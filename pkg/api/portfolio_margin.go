package api

// PortfolioMargin enumerates portfolio margin endpoints under /papi.
// UM endpoints route to USD-M contracts, CM endpoints to COIN-M contracts.
type PortfolioMargin int

const (
	PortfolioMarginPing PortfolioMargin = iota
	PortfolioMarginOrderUM
	PortfolioMarginOrderCM
	PortfolioMarginConditionalOrderUM
	PortfolioMarginConditionalOrderCM
	PortfolioMarginOpenOrdersUM
	PortfolioMarginOpenOrdersCM
	PortfolioMarginConditionalOpenOrdersUM
	PortfolioMarginConditionalOpenOrdersCM
	PortfolioMarginCancelAllOpenOrdersUM
	PortfolioMarginCancelAllOpenOrdersCM
	PortfolioMarginCancelAllConditionalOpenOrdersUM
	PortfolioMarginCancelAllConditionalOpenOrdersCM
	PortfolioMarginPositionRiskUM
	PortfolioMarginPositionRiskCM
	PortfolioMarginAccount
	PortfolioMarginBalance
	PortfolioMarginChangeInitialLeverageUM
	PortfolioMarginChangeInitialLeverageCM
	PortfolioMarginListenKey
)

var portfolioMarginPaths = [...]string{
	PortfolioMarginPing:                             "/papi/v1/ping",
	PortfolioMarginOrderUM:                          "/papi/v1/um/order",
	PortfolioMarginOrderCM:                          "/papi/v1/cm/order",
	PortfolioMarginConditionalOrderUM:               "/papi/v1/um/conditional/order",
	PortfolioMarginConditionalOrderCM:               "/papi/v1/cm/conditional/order",
	PortfolioMarginOpenOrdersUM:                     "/papi/v1/um/openOrders",
	PortfolioMarginOpenOrdersCM:                     "/papi/v1/cm/openOrders",
	PortfolioMarginConditionalOpenOrdersUM:          "/papi/v1/um/conditional/openOrders",
	PortfolioMarginConditionalOpenOrdersCM:          "/papi/v1/cm/conditional/openOrders",
	PortfolioMarginCancelAllOpenOrdersUM:            "/papi/v1/um/allOpenOrders",
	PortfolioMarginCancelAllOpenOrdersCM:            "/papi/v1/cm/allOpenOrders",
	PortfolioMarginCancelAllConditionalOpenOrdersUM: "/papi/v1/um/conditional/allOpenOrders",
	PortfolioMarginCancelAllConditionalOpenOrdersCM: "/papi/v1/cm/conditional/allOpenOrders",
	PortfolioMarginPositionRiskUM:                   "/papi/v1/um/positionRisk",
	PortfolioMarginPositionRiskCM:                   "/papi/v1/cm/positionRisk",
	PortfolioMarginAccount:                          "/papi/v1/account",
	PortfolioMarginBalance:                          "/papi/v1/balance",
	PortfolioMarginChangeInitialLeverageUM:          "/papi/v1/um/leverage",
	PortfolioMarginChangeInitialLeverageCM:          "/papi/v1/cm/leverage",
	PortfolioMarginListenKey:                        "/papi/v1/listenKey",
}

// Path returns the literal REST path.
func (e PortfolioMargin) Path() string {
	return portfolioMarginPaths[e]
}

// Family returns FamilyPortfolioMargin.
func (PortfolioMargin) Family() Family {
	return FamilyPortfolioMargin
}

func (e PortfolioMargin) String() string {
	return e.Path()
}
