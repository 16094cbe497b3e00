package margin

import (
	"nakula/pkg/core"
	"nakula/pkg/spot"
)

type UserAsset struct {
	Asset    string      `json:"asset"`
	Borrowed core.Number `json:"borrowed"`
	Free     core.Number `json:"free"`
	Interest core.Number `json:"interest"`
	Locked   core.Number `json:"locked"`
	NetAsset core.Number `json:"netAsset"`
}

// CrossAccount is the cross margin account.
type CrossAccount struct {
	BorrowEnabled       bool        `json:"borrowEnabled"`
	TradeEnabled        bool        `json:"tradeEnabled"`
	TransferInEnabled   bool        `json:"transferInEnabled"`
	TransferOutEnabled  bool        `json:"transferOutEnabled"`
	MarginLevel         core.Number `json:"marginLevel"`
	TotalAssetOfBtc     core.Number `json:"totalAssetOfBtc"`
	TotalLiabilityOfBtc core.Number `json:"totalLiabilityOfBtc"`
	TotalNetAssetOfBtc  core.Number `json:"totalNetAssetOfBtc"`
	AccountType         string      `json:"accountType"`
	UserAssets          []UserAsset `json:"userAssets"`
}

// Asset returns the entry for asset, or nil.
func (a *CrossAccount) Asset(asset string) *UserAsset {
	for i := range a.UserAssets {
		if a.UserAssets[i].Asset == asset {
			return &a.UserAssets[i]
		}
	}
	return nil
}

type IsolatedAsset struct {
	Asset         string      `json:"asset"`
	BorrowEnabled bool        `json:"borrowEnabled"`
	RepayEnabled  bool        `json:"repayEnabled"`
	Borrowed      core.Number `json:"borrowed"`
	Free          core.Number `json:"free"`
	Interest      core.Number `json:"interest"`
	Locked        core.Number `json:"locked"`
	NetAsset      core.Number `json:"netAsset"`
	NetAssetOfBtc core.Number `json:"netAssetOfBtc"`
	TotalAsset    core.Number `json:"totalAsset"`
}

type IsolatedSymbol struct {
	Symbol          string        `json:"symbol"`
	BaseAsset       IsolatedAsset `json:"baseAsset"`
	QuoteAsset      IsolatedAsset `json:"quoteAsset"`
	IsolatedCreated bool          `json:"isolatedCreated"`
	Enabled         bool          `json:"enabled"`
	TradeEnabled    bool          `json:"tradeEnabled"`
	MarginLevel     core.Number   `json:"marginLevel"`
	MarginRatio     core.Number   `json:"marginRatio"`
	IndexPrice      core.Number   `json:"indexPrice"`
	LiquidatePrice  core.Number   `json:"liquidatePrice"`
	LiquidateRate   core.Number   `json:"liquidateRate"`
}

// IsolatedAccount lists the isolated margin pairs of the account.
type IsolatedAccount struct {
	Assets              []IsolatedSymbol `json:"assets"`
	TotalAssetOfBtc     core.Number      `json:"totalAssetOfBtc"`
	TotalLiabilityOfBtc core.Number      `json:"totalLiabilityOfBtc"`
	TotalNetAssetOfBtc  core.Number      `json:"totalNetAssetOfBtc"`
}

// Order is a margin order; the payload matches spot plus the isolated flag.
type Order struct {
	spot.Order
	IsIsolated bool `json:"isIsolated"`
}

type OrderResponse struct {
	spot.OrderResponse
	IsIsolated bool `json:"isIsolated"`
}

type Trade struct {
	spot.MyTrade
	IsIsolated bool `json:"isIsolated"`
}

type Transaction struct {
	TranID int64 `json:"tranId"`
}

type MaxBorrowable struct {
	Amount      core.Number `json:"amount"`
	BorrowLimit core.Number `json:"borrowLimit"`
}

type PriceIndex struct {
	Symbol   string         `json:"symbol"`
	Price    core.Number    `json:"price"`
	CalcTime core.Timestamp `json:"calcTime"`
}
