package futures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nakula/pkg/core"
)

func TestOrderBuilder_Build(t *testing.T) {
	tests := []struct {
		name    string
		builder *OrderBuilder
		want    map[string]string
		wantErr bool
	}{
		{
			name: "limit defaults to GTC",
			builder: NewOrder("BTCUSDT", core.SideBuy, core.TypeLimit).
				Quantity("0.01").
				Price("60000").
				PositionSide(core.PositionLong).
				ClientOrderID("c1"),
			want: map[string]string{
				"symbol": "BTCUSDT", "side": "BUY", "type": "LIMIT", "timeInForce": "GTC",
				"quantity": "0.01", "price": "60000", "positionSide": "LONG", "newClientOrderId": "c1",
			},
		},
		{
			name: "stop market closing the position",
			builder: NewOrder("BTCUSDT", core.SideSell, core.TypeStopMarket).
				StopPrice("55000").
				ClosePosition().
				WorkingType(core.WorkingMarkPrice).
				PriceProtect().
				ClientOrderID("c2"),
			want: map[string]string{
				"symbol": "BTCUSDT", "side": "SELL", "type": "STOP_MARKET", "stopPrice": "55000",
				"closePosition": "true", "workingType": "MARK_PRICE", "priceProtect": "TRUE", "newClientOrderId": "c2",
			},
		},
		{
			name: "trailing stop",
			builder: NewOrder("ETHUSDT", core.SideSell, core.TypeTrailingStopMarket).
				Quantity("1").
				CallbackRate("1.5").
				ActivationPrice("4000").
				ReduceOnly().
				ResponseType(core.ResponseResult).
				SelfTradePrevention(core.STPExpireMaker).
				ClientOrderID("c3"),
			want: map[string]string{
				"symbol": "ETHUSDT", "side": "SELL", "type": "TRAILING_STOP_MARKET", "quantity": "1",
				"callbackRate": "1.5", "activationPrice": "4000", "reduceOnly": "true",
				"newOrderRespType": "RESULT", "selfTradePreventionMode": "EXPIRE_MAKER", "newClientOrderId": "c3",
			},
		},
		{
			name:    "bad quantity",
			builder: NewOrder("BTCUSDT", core.SideBuy, core.TypeMarket).Quantity("abc"),
			wantErr: true,
		},
		{
			name:    "negative price",
			builder: NewOrder("BTCUSDT", core.SideBuy, core.TypeLimit).Quantity("1").Price("-1"),
			wantErr: true,
		},
		{
			name:    "callback rate out of range",
			builder: NewOrder("BTCUSDT", core.SideBuy, core.TypeTrailingStopMarket).Quantity("1").CallbackRate("20"),
			wantErr: true,
		},
		{
			name:    "close position with quantity",
			builder: NewOrder("BTCUSDT", core.SideSell, core.TypeStopMarket).StopPrice("1").Quantity("1").ClosePosition(),
			wantErr: true,
		},
		{
			name:    "close position on limit",
			builder: NewOrder("BTCUSDT", core.SideSell, core.TypeLimit).Price("1").ClosePosition(),
			wantErr: true,
		},
		{
			name:    "stop without stop price",
			builder: NewOrder("BTCUSDT", core.SideSell, core.TypeStop).Quantity("1").Price("1"),
			wantErr: true,
		},
		{
			name:    "spot only type",
			builder: NewOrder("BTCUSDT", core.SideSell, core.TypeLimitMaker).Quantity("1").Price("1"),
			wantErr: true,
		},
		{
			name:    "missing symbol",
			builder: NewOrder("", core.SideSell, core.TypeMarket).Quantity("1"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.builder.Build()
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidParameter)
				assert.Nil(t, req)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, map[string]string(req.Params()))
		})
	}
}

func TestOrderBuilder_KeepsFirstError(t *testing.T) {
	_, err := NewOrder("BTCUSDT", core.SideBuy, core.TypeLimit).
		Quantity("x").
		Price("y").
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantity")
	assert.NotContains(t, err.Error(), "price")
}
