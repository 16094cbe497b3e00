package api

// Margin enumerates /sapi endpoints of the cross and isolated margin API.
type Margin int

const (
	MarginOrder Margin = iota
	MarginOpenOrders
	MarginAllOrders
	MarginAccount
	MarginIsolatedAccount
	MarginBorrowRepay
	MarginMaxBorrowable
	MarginMaxTransferable
	MarginMyTrades
	MarginPriceIndex
	MarginUserDataStream
)

var marginPaths = [...]string{
	MarginOrder:           "/sapi/v1/margin/order",
	MarginOpenOrders:      "/sapi/v1/margin/openOrders",
	MarginAllOrders:       "/sapi/v1/margin/allOrders",
	MarginAccount:         "/sapi/v1/margin/account",
	MarginIsolatedAccount: "/sapi/v1/margin/isolated/account",
	MarginBorrowRepay:     "/sapi/v1/margin/borrow-repay",
	MarginMaxBorrowable:   "/sapi/v1/margin/maxBorrowable",
	MarginMaxTransferable: "/sapi/v1/margin/maxTransferable",
	MarginMyTrades:        "/sapi/v1/margin/myTrades",
	MarginPriceIndex:      "/sapi/v1/margin/priceIndex",
	MarginUserDataStream:  "/sapi/v1/userDataStream",
}

// Path returns the literal REST path.
func (e Margin) Path() string {
	return marginPaths[e]
}

// Family returns FamilyMargin.
func (Margin) Family() Family {
	return FamilyMargin
}

func (e Margin) String() string {
	return e.Path()
}
