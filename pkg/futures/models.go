package futures

import "nakula/pkg/core"

// PremiumIndex carries the mark price and funding state of a symbol.
type PremiumIndex struct {
	Symbol               string         `json:"symbol"`
	Pair                 string         `json:"pair"`
	MarkPrice            core.Number    `json:"markPrice"`
	IndexPrice           core.Number    `json:"indexPrice"`
	EstimatedSettlePrice core.Number    `json:"estimatedSettlePrice"`
	LastFundingRate      core.Number    `json:"lastFundingRate"`
	InterestRate         core.Number    `json:"interestRate"`
	NextFundingTime      core.Timestamp `json:"nextFundingTime"`
	Time                 core.Timestamp `json:"time"`
}

type FundingRate struct {
	Symbol      string         `json:"symbol"`
	FundingRate core.Number    `json:"fundingRate"`
	FundingTime core.Timestamp `json:"fundingTime"`
	MarkPrice   core.Number    `json:"markPrice"`
}

type OpenInterest struct {
	Symbol       string         `json:"symbol"`
	Pair         string         `json:"pair"`
	ContractType string         `json:"contractType"`
	OpenInterest core.Number    `json:"openInterest"`
	Time         core.Timestamp `json:"time"`
}

// Order is a futures order as returned by the order endpoints. COIN-M
// orders fill Pair and CumBase instead of CumQuote.
type Order struct {
	Symbol        string                       `json:"symbol"`
	Pair          string                       `json:"pair"`
	OrderID       int64                        `json:"orderId"`
	ClientOrderID string                       `json:"clientOrderId"`
	Price         core.Number                  `json:"price"`
	AvgPrice      core.Number                  `json:"avgPrice"`
	OrigQty       core.Number                  `json:"origQty"`
	ExecutedQty   core.Number                  `json:"executedQty"`
	CumQty        core.Number                  `json:"cumQty"`
	CumQuote      core.Number                  `json:"cumQuote"`
	CumBase       core.Number                  `json:"cumBase"`
	Status        core.OrderStatus             `json:"status"`
	TimeInForce   core.TimeInForce             `json:"timeInForce"`
	Type          core.OrderType               `json:"type"`
	OrigType      core.OrderType               `json:"origType"`
	Side          core.OrderSide               `json:"side"`
	PositionSide  core.PositionSide            `json:"positionSide"`
	StopPrice     core.Number                  `json:"stopPrice"`
	ActivatePrice core.Number                  `json:"activatePrice"`
	PriceRate     core.Number                  `json:"priceRate"`
	WorkingType   core.WorkingType             `json:"workingType"`
	ReduceOnly    bool                         `json:"reduceOnly"`
	ClosePosition bool                         `json:"closePosition"`
	PriceProtect  bool                         `json:"priceProtect"`
	STPMode       core.SelfTradePreventionMode `json:"selfTradePreventionMode"`
	Time          core.Timestamp               `json:"time"`
	UpdateTime    core.Timestamp               `json:"updateTime"`
}

// PositionRisk is one entry of the position information endpoint. MarginType
// is reported in lower case ("cross", "isolated").
type PositionRisk struct {
	Symbol           string            `json:"symbol"`
	PositionSide     core.PositionSide `json:"positionSide"`
	PositionAmt      core.Number       `json:"positionAmt"`
	EntryPrice       core.Number       `json:"entryPrice"`
	BreakEvenPrice   core.Number       `json:"breakEvenPrice"`
	MarkPrice        core.Number       `json:"markPrice"`
	UnRealizedProfit core.Number       `json:"unRealizedProfit"`
	LiquidationPrice core.Number       `json:"liquidationPrice"`
	Leverage         core.Number       `json:"leverage"`
	MaxNotionalValue core.Number       `json:"maxNotionalValue"`
	MaxQty           core.Number       `json:"maxQty"`
	MarginType       string            `json:"marginType"`
	IsolatedMargin   core.Number       `json:"isolatedMargin"`
	IsolatedWallet   core.Number       `json:"isolatedWallet"`
	IsAutoAddMargin  string            `json:"isAutoAddMargin"`
	Notional         core.Number       `json:"notional"`
	NotionalValue    core.Number       `json:"notionalValue"`
	UpdateTime       core.Timestamp    `json:"updateTime"`
}

type AccountAsset struct {
	Asset                  string         `json:"asset"`
	WalletBalance          core.Number    `json:"walletBalance"`
	UnrealizedProfit       core.Number    `json:"unrealizedProfit"`
	MarginBalance          core.Number    `json:"marginBalance"`
	MaintMargin            core.Number    `json:"maintMargin"`
	InitialMargin          core.Number    `json:"initialMargin"`
	PositionInitialMargin  core.Number    `json:"positionInitialMargin"`
	OpenOrderInitialMargin core.Number    `json:"openOrderInitialMargin"`
	CrossWalletBalance     core.Number    `json:"crossWalletBalance"`
	CrossUnPnl             core.Number    `json:"crossUnPnl"`
	AvailableBalance       core.Number    `json:"availableBalance"`
	MaxWithdrawAmount      core.Number    `json:"maxWithdrawAmount"`
	MarginAvailable        bool           `json:"marginAvailable"`
	UpdateTime             core.Timestamp `json:"updateTime"`
}

type AccountPosition struct {
	Symbol                 string            `json:"symbol"`
	PositionSide           core.PositionSide `json:"positionSide"`
	PositionAmt            core.Number       `json:"positionAmt"`
	EntryPrice             core.Number       `json:"entryPrice"`
	InitialMargin          core.Number       `json:"initialMargin"`
	MaintMargin            core.Number       `json:"maintMargin"`
	UnrealizedProfit       core.Number       `json:"unrealizedProfit"`
	PositionInitialMargin  core.Number       `json:"positionInitialMargin"`
	OpenOrderInitialMargin core.Number       `json:"openOrderInitialMargin"`
	Leverage               core.Number       `json:"leverage"`
	Isolated               bool              `json:"isolated"`
	MaxNotional            core.Number       `json:"maxNotional"`
	UpdateTime             core.Timestamp    `json:"updateTime"`
}

// AccountInformation is the futures account snapshot.
type AccountInformation struct {
	FeeTier                     int64             `json:"feeTier"`
	CanTrade                    bool              `json:"canTrade"`
	CanDeposit                  bool              `json:"canDeposit"`
	CanWithdraw                 bool              `json:"canWithdraw"`
	TotalInitialMargin          core.Number       `json:"totalInitialMargin"`
	TotalMaintMargin            core.Number       `json:"totalMaintMargin"`
	TotalWalletBalance          core.Number       `json:"totalWalletBalance"`
	TotalUnrealizedProfit       core.Number       `json:"totalUnrealizedProfit"`
	TotalMarginBalance          core.Number       `json:"totalMarginBalance"`
	TotalPositionInitialMargin  core.Number       `json:"totalPositionInitialMargin"`
	TotalOpenOrderInitialMargin core.Number       `json:"totalOpenOrderInitialMargin"`
	TotalCrossWalletBalance     core.Number       `json:"totalCrossWalletBalance"`
	TotalCrossUnPnl             core.Number       `json:"totalCrossUnPnl"`
	AvailableBalance            core.Number       `json:"availableBalance"`
	MaxWithdrawAmount           core.Number       `json:"maxWithdrawAmount"`
	UpdateTime                  core.Timestamp    `json:"updateTime"`
	Assets                      []AccountAsset    `json:"assets"`
	Positions                   []AccountPosition `json:"positions"`
}

// Asset returns the entry for asset, or nil.
func (a *AccountInformation) Asset(asset string) *AccountAsset {
	for i := range a.Assets {
		if a.Assets[i].Asset == asset {
			return &a.Assets[i]
		}
	}
	return nil
}

type Balance struct {
	AccountAlias       string         `json:"accountAlias"`
	Asset              string         `json:"asset"`
	Balance            core.Number    `json:"balance"`
	CrossWalletBalance core.Number    `json:"crossWalletBalance"`
	CrossUnPnl         core.Number    `json:"crossUnPnl"`
	AvailableBalance   core.Number    `json:"availableBalance"`
	MaxWithdrawAmount  core.Number    `json:"maxWithdrawAmount"`
	WithdrawAvailable  core.Number    `json:"withdrawAvailable"`
	MarginAvailable    bool           `json:"marginAvailable"`
	UpdateTime         core.Timestamp `json:"updateTime"`
}

type Leverage struct {
	Symbol           string      `json:"symbol"`
	Leverage         int         `json:"leverage"`
	MaxNotionalValue core.Number `json:"maxNotionalValue"`
	MaxQty           core.Number `json:"maxQty"`
}

type UserTrade struct {
	ID              int64             `json:"id"`
	OrderID         int64             `json:"orderId"`
	Symbol          string            `json:"symbol"`
	Pair            string            `json:"pair"`
	Side            core.OrderSide    `json:"side"`
	PositionSide    core.PositionSide `json:"positionSide"`
	Price           core.Number       `json:"price"`
	Qty             core.Number       `json:"qty"`
	QuoteQty        core.Number       `json:"quoteQty"`
	BaseQty         core.Number       `json:"baseQty"`
	RealizedPnl     core.Number       `json:"realizedPnl"`
	Commission      core.Number       `json:"commission"`
	CommissionAsset string            `json:"commissionAsset"`
	MarginAsset     string            `json:"marginAsset"`
	Buyer           bool              `json:"buyer"`
	Maker           bool              `json:"maker"`
	Time            core.Timestamp    `json:"time"`
}

// Income is one entry of the income history (funding fees, realized PnL,
// commissions and transfers).
type Income struct {
	Symbol     string         `json:"symbol"`
	IncomeType string         `json:"incomeType"`
	Income     core.Number    `json:"income"`
	Asset      string         `json:"asset"`
	Info       string         `json:"info"`
	TranID     int64          `json:"tranId"`
	TradeID    string         `json:"tradeId"`
	Time       core.Timestamp `json:"time"`
}
