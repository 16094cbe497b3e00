package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFamily_String(t *testing.T) {
	tests := []struct {
		family Family
		want   string
	}{
		{FamilySpot, "spot"},
		{FamilyMargin, "margin"},
		{FamilyFutures, "futures"},
		{FamilyFuturesCM, "futures_cm"},
		{FamilyPortfolioMargin, "portfolio_margin"},
		{Family(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.family.String())
		})
	}
}

func TestEndpoint_Paths(t *testing.T) {
	tests := []struct {
		name     string
		endpoint Endpoint
		path     string
		family   Family
	}{
		{"spot_klines", SpotKlines, "/api/v3/klines", FamilySpot},
		{"spot_order", SpotOrder, "/api/v3/order", FamilySpot},
		{"spot_user_stream", SpotUserDataStream, "/api/v3/userDataStream", FamilySpot},
		{"margin_order", MarginOrder, "/sapi/v1/margin/order", FamilyMargin},
		{"margin_borrow_repay", MarginBorrowRepay, "/sapi/v1/margin/borrow-repay", FamilyMargin},
		{"futures_position_risk", FuturesPositionRisk, "/fapi/v2/positionRisk", FamilyFutures},
		{"futures_leverage", FuturesChangeInitialLeverage, "/fapi/v1/leverage", FamilyFutures},
		{"futures_cm_klines", FuturesCMKlines, "/dapi/v1/klines", FamilyFuturesCM},
		{"futures_cm_balance", FuturesCMBalance, "/dapi/v1/balance", FamilyFuturesCM},
		{"pm_order_um", PortfolioMarginOrderUM, "/papi/v1/um/order", FamilyPortfolioMargin},
		{"pm_conditional_cm", PortfolioMarginConditionalOrderCM, "/papi/v1/cm/conditional/order", FamilyPortfolioMargin},
		{"pm_cancel_all_conditional_um", PortfolioMarginCancelAllConditionalOpenOrdersUM, "/papi/v1/um/conditional/allOpenOrders", FamilyPortfolioMargin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.path, tt.endpoint.Path())
			assert.Equal(t, tt.family, tt.endpoint.Family())
		})
	}
}

func TestEndpoint_EveryValueHasPath(t *testing.T) {
	for e := SpotPing; e <= SpotUserDataStream; e++ {
		assert.True(t, strings.HasPrefix(e.Path(), "/api/v3/"), e.String())
	}
	for e := MarginOrder; e <= MarginUserDataStream; e++ {
		assert.True(t, strings.HasPrefix(e.Path(), "/sapi/v1/"), e.String())
	}
	for e := FuturesPing; e <= FuturesListenKey; e++ {
		assert.True(t, strings.HasPrefix(e.Path(), "/fapi/"), e.String())
	}
	for e := FuturesCMPing; e <= FuturesCMListenKey; e++ {
		assert.True(t, strings.HasPrefix(e.Path(), "/dapi/v1/"), e.String())
	}
	for e := PortfolioMarginPing; e <= PortfolioMarginListenKey; e++ {
		assert.True(t, strings.HasPrefix(e.Path(), "/papi/v1/"), e.String())
	}
}
