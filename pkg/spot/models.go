package spot

import "nakula/pkg/core"

// Balance is one asset of the spot wallet.
type Balance struct {
	Asset  string      `json:"asset"`
	Free   core.Number `json:"free"`
	Locked core.Number `json:"locked"`
}

// AccountInformation is the response of /api/v3/account.
type AccountInformation struct {
	MakerCommission            int64          `json:"makerCommission"`
	TakerCommission            int64          `json:"takerCommission"`
	BuyerCommission            int64          `json:"buyerCommission"`
	SellerCommission           int64          `json:"sellerCommission"`
	CanTrade                   bool           `json:"canTrade"`
	CanWithdraw                bool           `json:"canWithdraw"`
	CanDeposit                 bool           `json:"canDeposit"`
	Brokered                   bool           `json:"brokered"`
	RequireSelfTradePrevention bool           `json:"requireSelfTradePrevention"`
	UpdateTime                 core.Timestamp `json:"updateTime"`
	AccountType                string         `json:"accountType"`
	Balances                   []Balance      `json:"balances"`
	Permissions                []string       `json:"permissions"`
	UID                        int64          `json:"uid"`
}

// Balance returns the wallet entry for asset, or nil.
func (a *AccountInformation) Balance(asset string) *Balance {
	for i := range a.Balances {
		if a.Balances[i].Asset == asset {
			return &a.Balances[i]
		}
	}
	return nil
}

// Order is a spot order as returned by the query, cancel and list endpoints.
type Order struct {
	Symbol                  string                       `json:"symbol"`
	OrderID                 int64                        `json:"orderId"`
	OrderListID             int64                        `json:"orderListId"`
	ClientOrderID           string                       `json:"clientOrderId"`
	OrigClientOrderID       string                       `json:"origClientOrderId"`
	Price                   core.Number                  `json:"price"`
	OrigQty                 core.Number                  `json:"origQty"`
	ExecutedQty             core.Number                  `json:"executedQty"`
	CummulativeQuoteQty     core.Number                  `json:"cummulativeQuoteQty"`
	Status                  core.OrderStatus             `json:"status"`
	TimeInForce             core.TimeInForce             `json:"timeInForce"`
	Type                    core.OrderType               `json:"type"`
	Side                    core.OrderSide               `json:"side"`
	StopPrice               core.Number                  `json:"stopPrice"`
	IcebergQty              core.Number                  `json:"icebergQty"`
	Time                    core.Timestamp               `json:"time"`
	UpdateTime              core.Timestamp               `json:"updateTime"`
	TransactTime            core.Timestamp               `json:"transactTime"`
	WorkingTime             core.Timestamp               `json:"workingTime"`
	IsWorking               bool                         `json:"isWorking"`
	OrigQuoteOrderQty       core.Number                  `json:"origQuoteOrderQty"`
	SelfTradePreventionMode core.SelfTradePreventionMode `json:"selfTradePreventionMode"`
}

// Fill is one execution reported in a FULL order response.
type Fill struct {
	Price           core.Number `json:"price"`
	Qty             core.Number `json:"qty"`
	Commission      core.Number `json:"commission"`
	CommissionAsset string      `json:"commissionAsset"`
	TradeID         int64       `json:"tradeId"`
}

// OrderResponse is the result of placing an order. Fields beyond the ids are
// only filled for RESULT and FULL response types.
type OrderResponse struct {
	Order
	Fills []Fill `json:"fills"`
}

// MyTrade is an account trade from /api/v3/myTrades.
type MyTrade struct {
	Symbol          string         `json:"symbol"`
	ID              int64          `json:"id"`
	OrderID         int64          `json:"orderId"`
	OrderListID     int64          `json:"orderListId"`
	Price           core.Number    `json:"price"`
	Qty             core.Number    `json:"qty"`
	QuoteQty        core.Number    `json:"quoteQty"`
	Commission      core.Number    `json:"commission"`
	CommissionAsset string         `json:"commissionAsset"`
	Time            core.Timestamp `json:"time"`
	IsBuyer         bool           `json:"isBuyer"`
	IsMaker         bool           `json:"isMaker"`
	IsBestMatch     bool           `json:"isBestMatch"`
}
