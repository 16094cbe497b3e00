package spot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nakula/pkg/core"
)

func TestOrderRequest_Params(t *testing.T) {
	tests := []struct {
		name    string
		req     *OrderRequest
		want    map[string]string
		wantErr bool
	}{
		{
			name: "limit defaults to GTC",
			req: NewOrderRequest("BTCUSDT", core.SideBuy, core.TypeLimit).
				WithQuantity(core.MustNumber("1")).
				WithPrice(core.MustNumber("0.1")).
				WithClientOrderID("abc"),
			want: map[string]string{
				"symbol": "BTCUSDT", "side": "BUY", "type": "LIMIT", "timeInForce": "GTC",
				"quantity": "1", "price": "0.1", "newClientOrderId": "abc",
			},
		},
		{
			name: "market by quote amount",
			req: NewOrderRequest("BTCUSDT", core.SideSell, core.TypeMarket).
				WithQuoteOrderQty(core.MustNumber("100")).
				WithClientOrderID("q").
				WithResponseType(core.ResponseFull),
			want: map[string]string{
				"symbol": "BTCUSDT", "side": "SELL", "type": "MARKET",
				"quoteOrderQty": "100", "newClientOrderId": "q", "newOrderRespType": "FULL",
			},
		},
		{
			name: "stop loss limit with trailing delta",
			req: NewOrderRequest("ETHUSDT", core.SideSell, core.TypeStopLossLimit).
				WithQuantity(core.MustNumber("2")).
				WithPrice(core.MustNumber("1800")).
				WithTrailingDelta(50).
				WithTimeInForce(core.IOC).
				WithSelfTradePrevention(core.STPExpireBoth).
				WithClientOrderID("s"),
			want: map[string]string{
				"symbol": "ETHUSDT", "side": "SELL", "type": "STOP_LOSS_LIMIT", "timeInForce": "IOC",
				"quantity": "2", "price": "1800", "trailingDelta": "50", "newClientOrderId": "s",
				"selfTradePreventionMode": "EXPIRE_BOTH",
			},
		},
		{
			name:    "limit without price",
			req:     NewOrderRequest("BTCUSDT", core.SideBuy, core.TypeLimit).WithQuantity(core.MustNumber("1")),
			wantErr: true,
		},
		{
			name:    "market without any quantity",
			req:     NewOrderRequest("BTCUSDT", core.SideBuy, core.TypeMarket),
			wantErr: true,
		},
		{
			name:    "futures only type",
			req:     NewOrderRequest("BTCUSDT", core.SideBuy, core.TypeStopMarket).WithQuantity(core.MustNumber("1")),
			wantErr: true,
		},
		{
			name:    "missing symbol",
			req:     NewOrderRequest("", core.SideBuy, core.TypeMarket).WithQuantity(core.MustNumber("1")),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := tt.req.Params()
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, map[string]string(params))
		})
	}
}

func TestNewOrderRequest_GeneratesClientID(t *testing.T) {
	a := NewOrderRequest("BTCUSDT", core.SideBuy, core.TypeMarket)
	b := NewOrderRequest("BTCUSDT", core.SideBuy, core.TypeMarket)

	assert.Len(t, a.NewClientOrderID, 36)
	assert.NotEqual(t, a.NewClientOrderID, b.NewClientOrderID)
}
