package core

import "time"

// QueryOption sets optional query parameters shared by many endpoints.
type QueryOption func(Params)

// WithLimit sets "limit". Non-positive values are ignored.
func WithLimit(limit int) QueryOption {
	return func(p Params) {
		if limit > 0 {
			p.SetInt("limit", limit)
		}
	}
}

// WithStartTime sets "startTime".
func WithStartTime(t time.Time) QueryOption {
	return func(p Params) {
		p.SetTime("startTime", t)
	}
}

// WithEndTime sets "endTime".
func WithEndTime(t time.Time) QueryOption {
	return func(p Params) {
		p.SetTime("endTime", t)
	}
}

// WithTimeRange sets both "startTime" and "endTime".
func WithTimeRange(start, end time.Time) QueryOption {
	return func(p Params) {
		p.SetTime("startTime", start)
		p.SetTime("endTime", end)
	}
}

// WithFromID sets "fromId".
func WithFromID(id int64) QueryOption {
	return func(p Params) {
		p.SetInt64("fromId", id)
	}
}

// WithOrderID sets "orderId".
func WithOrderID(id int64) QueryOption {
	return func(p Params) {
		p.SetInt64("orderId", id)
	}
}

// WithParam sets an arbitrary parameter.
func WithParam(key, value string) QueryOption {
	return func(p Params) {
		p.SetOptional(key, value)
	}
}

// ApplyOptions applies opts to p and returns it.
func ApplyOptions(p Params, opts ...QueryOption) Params {
	if p == nil {
		p = NewParams()
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
