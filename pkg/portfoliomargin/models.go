package portfoliomargin

import (
	"fmt"

	"github.com/bytedance/sonic"

	"nakula/pkg/core"
)

// Market selects the contract side of a portfolio margin account.
type Market int

const (
	// MarketLinear routes to USD-M (um) endpoints.
	MarketLinear Market = iota
	// MarketInverse routes to COIN-M (cm) endpoints.
	MarketInverse
)

func (m Market) String() string {
	if m == MarketInverse {
		return "inverse"
	}
	return "linear"
}

// ParseMarket accepts "linear"/"um" and "inverse"/"cm".
func ParseMarket(s string) (Market, error) {
	switch s {
	case "linear", "um", "UM":
		return MarketLinear, nil
	case "inverse", "cm", "CM":
		return MarketInverse, nil
	}
	return 0, fmt.Errorf("%w: unknown market %q", core.ErrInvalidParameter, s)
}

// Order is a regular or conditional portfolio margin order. Conditional
// orders report strategy fields (strategyId, strategyType, strategyStatus,
// newClientStrategyId, bookTime); they are folded onto the regular names.
type Order struct {
	Symbol        string
	OrderID       int64
	ClientOrderID string
	Side          core.OrderSide
	PositionSide  core.PositionSide
	Type          core.OrderType
	OrigType      string
	Status        core.OrderStatus
	TimeInForce   core.TimeInForce
	Price         core.Number
	AvgPrice      core.Number
	OrigQty       core.Number
	ExecutedQty   core.Number
	CumBase       core.Number
	StopPrice     core.Number
	ActivatePrice core.Number
	PriceRate     core.Number
	ReduceOnly    bool
	Time          core.Timestamp
	UpdateTime    core.Timestamp

	strategy bool
}

// IsConditional reports whether the order lives on the conditional
// endpoints. Orders decoded from a strategy payload always do.
func (o *Order) IsConditional() bool {
	return o.strategy || o.Type.IsConditional()
}

type orderWire struct {
	Symbol              string            `json:"symbol"`
	OrderID             int64             `json:"orderId"`
	StrategyID          int64             `json:"strategyId"`
	ClientOrderID       string            `json:"clientOrderId"`
	NewClientStrategyID string            `json:"newClientStrategyId"`
	Side                core.OrderSide    `json:"side"`
	PositionSide        core.PositionSide `json:"positionSide"`
	Type                string            `json:"type"`
	StrategyType        string            `json:"strategyType"`
	OrigType            string            `json:"origType"`
	Status              core.OrderStatus  `json:"status"`
	StrategyStatus      core.OrderStatus  `json:"strategyStatus"`
	TimeInForce         core.TimeInForce  `json:"timeInForce"`
	Price               core.Number       `json:"price"`
	AvgPrice            core.Number       `json:"avgPrice"`
	OrigQty             core.Number       `json:"origQty"`
	ExecutedQty         core.Number       `json:"executedQty"`
	CumBase             core.Number       `json:"cumBase"`
	StopPrice           core.Number       `json:"stopPrice"`
	ActivatePrice       core.Number       `json:"activatePrice"`
	PriceRate           core.Number       `json:"priceRate"`
	ReduceOnly          bool              `json:"reduceOnly"`
	Time                core.Timestamp    `json:"time"`
	BookTime            core.Timestamp    `json:"bookTime"`
	UpdateTime          core.Timestamp    `json:"updateTime"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Order) UnmarshalJSON(data []byte) error {
	var w orderWire
	if err := sonic.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("portfolio margin order: %w", err)
	}

	*o = Order{
		Symbol:        w.Symbol,
		OrderID:       w.OrderID,
		ClientOrderID: coalesce(w.ClientOrderID, w.NewClientStrategyID),
		Side:          w.Side,
		PositionSide:  w.PositionSide,
		Type:          core.OrderType(coalesce(w.Type, w.StrategyType)),
		OrigType:      w.OrigType,
		Status:        coalesce(w.Status, w.StrategyStatus),
		TimeInForce:   w.TimeInForce,
		Price:         w.Price,
		AvgPrice:      w.AvgPrice,
		OrigQty:       w.OrigQty,
		ExecutedQty:   w.ExecutedQty,
		CumBase:       w.CumBase,
		StopPrice:     w.StopPrice,
		ActivatePrice: w.ActivatePrice,
		PriceRate:     w.PriceRate,
		ReduceOnly:    w.ReduceOnly,
		Time:          w.Time,
		UpdateTime:    w.UpdateTime,
		strategy:      w.StrategyType != "" || w.StrategyID != 0,
	}
	if o.OrderID == 0 {
		o.OrderID = w.StrategyID
	}
	if o.Time == 0 {
		o.Time = w.BookTime
	}
	return nil
}

func coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// PositionRisk is a UM or CM position of the account.
type PositionRisk struct {
	Symbol           string            `json:"symbol"`
	Side             string            `json:"side"`
	PositionSide     core.PositionSide `json:"positionSide"`
	Leverage         core.Number       `json:"leverage"`
	PositionAmt      core.Number       `json:"positionAmt"`
	EntryPrice       core.Number       `json:"entryPrice"`
	MarkPrice        core.Number       `json:"markPrice"`
	NotionalValue    core.Number       `json:"notionalValue"`
	Notional         core.Number       `json:"notional"`
	MaxQty           core.Number       `json:"maxQty"`
	MaxNotionalValue core.Number       `json:"maxNotionalValue"`
	BreakEvenPrice   core.Number       `json:"breakEvenPrice"`
	LiquidationPrice core.Number       `json:"liquidationPrice"`
	UnRealizedProfit core.Number       `json:"unRealizedProfit"`
	UpdateTime       core.Timestamp    `json:"updateTime"`
}

// AccountInformation is the unified portfolio margin account.
type AccountInformation struct {
	UniMMR                   core.Number    `json:"uniMMR"`
	AccountEquity            core.Number    `json:"accountEquity"`
	ActualEquity             core.Number    `json:"actualEquity"`
	AccountInitialMargin     core.Number    `json:"accountInitialMargin"`
	AccountMaintMargin       core.Number    `json:"accountMaintMargin"`
	AccountStatus            string         `json:"accountStatus"`
	VirtualMaxWithdrawAmount core.Number    `json:"virtualMaxWithdrawAmount"`
	TotalAvailableBalance    core.Number    `json:"totalAvailableBalance"`
	TotalMarginOpenLoss      core.Number    `json:"totalMarginOpenLoss"`
	UpdateTime               core.Timestamp `json:"updateTime"`
}

// AccountBalance is the balance of one asset across margin, UM and CM.
type AccountBalance struct {
	Asset               string         `json:"asset"`
	TotalWalletBalance  core.Number    `json:"totalWalletBalance"`
	CrossMarginAsset    core.Number    `json:"crossMarginAsset"`
	CrossMarginBorrowed core.Number    `json:"crossMarginBorrowed"`
	CrossMarginFree     core.Number    `json:"crossMarginFree"`
	CrossMarginInterest core.Number    `json:"crossMarginInterest"`
	CrossMarginLocked   core.Number    `json:"crossMarginLocked"`
	UMWalletBalance     core.Number    `json:"umWalletBalance"`
	UMUnrealizedPNL     core.Number    `json:"umUnrealizedPNL"`
	CMWalletBalance     core.Number    `json:"cmWalletBalance"`
	CMUnrealizedPNL     core.Number    `json:"cmUnrealizedPNL"`
	NegativeBalance     core.Number    `json:"negativeBalance"`
	UpdateTime          core.Timestamp `json:"updateTime"`
}
