// Package api enumerates the REST endpoints of every Binance API family.
//
// Each family has its own enum type so that a service can only address the
// paths that belong to it. All enum types satisfy Endpoint, which is what the
// HTTP client consumes.
package api

// Family identifies a Binance API family. Each family is served from its own
// base URL.
type Family int

// API family constants.
const (
	// FamilySpot is the spot API under /api.
	FamilySpot Family = iota
	// FamilyMargin is the margin API under /sapi, served from the spot host.
	FamilyMargin
	// FamilyFutures is the USD-M futures API under /fapi.
	FamilyFutures
	// FamilyFuturesCM is the COIN-M futures API under /dapi.
	FamilyFuturesCM
	// FamilyPortfolioMargin is the portfolio margin API under /papi.
	FamilyPortfolioMargin
)

// String returns the string representation of the family.
func (f Family) String() string {
	switch f {
	case FamilySpot:
		return "spot"
	case FamilyMargin:
		return "margin"
	case FamilyFutures:
		return "futures"
	case FamilyFuturesCM:
		return "futures_cm"
	case FamilyPortfolioMargin:
		return "portfolio_margin"
	default:
		return "unknown"
	}
}

// Endpoint is a logical operation mapped to a literal REST path.
type Endpoint interface {
	Path() string
	Family() Family
}
