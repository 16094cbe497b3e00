package core

import (
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"nakula/pkg/api"
)

// Params holds named query parameters. Encode serializes them with keys in
// lexicographic order, so the same set always yields the same query string.
type Params map[string]string

// NewParams returns an empty parameter set.
func NewParams() Params {
	return make(Params)
}

// Set stores a string value.
func (p Params) Set(key, value string) Params {
	p[key] = value
	return p
}

// SetOptional stores value only when it is non-empty.
func (p Params) SetOptional(key, value string) Params {
	if value != "" {
		p[key] = value
	}
	return p
}

// SetInt stores an integer value.
func (p Params) SetInt(key string, value int) Params {
	p[key] = strconv.Itoa(value)
	return p
}

// SetInt64 stores a 64-bit integer value.
func (p Params) SetInt64(key string, value int64) Params {
	p[key] = strconv.FormatInt(value, 10)
	return p
}

// SetFloat stores a float using the shortest representation that round-trips.
func (p Params) SetFloat(key string, value float64) Params {
	p[key] = strconv.FormatFloat(value, 'f', -1, 64)
	return p
}

// SetNumber stores a decimal in plain notation.
func (p Params) SetNumber(key string, value Number) Params {
	p[key] = value.Text()
	return p
}

// SetBool stores "true" or "false".
func (p Params) SetBool(key string, value bool) Params {
	p[key] = strconv.FormatBool(value)
	return p
}

// SetTime stores t as epoch milliseconds. Zero times are skipped.
func (p Params) SetTime(key string, t time.Time) Params {
	if !t.IsZero() {
		p[key] = strconv.FormatInt(t.UnixMilli(), 10)
	}
	return p
}

// Del removes a key.
func (p Params) Del(key string) Params {
	delete(p, key)
	return p
}

// Get returns the value for key or "".
func (p Params) Get(key string) string {
	return p[key]
}

// Clone returns a copy that can be mutated independently.
func (p Params) Clone() Params {
	out := make(Params, len(p)+2)
	maps.Copy(out, p)
	return out
}

// Keys returns the parameter names in lexicographic order.
func (p Params) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Encode returns key=value pairs joined by '&' in key order, with values
// query-escaped.
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for i, k := range p.Keys() {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[k]))
	}
	return b.String()
}

// Security describes how a request is authenticated.
type Security int

const (
	// SecurityNone sends the request without credentials.
	SecurityNone Security = iota
	// SecurityAPIKey sends the API key header without a signature.
	SecurityAPIKey
	// SecuritySigned sends the API key header plus timestamp and signature.
	SecuritySigned
)

// String returns the string representation of the security level.
func (s Security) String() string {
	return [...]string{"NONE", "API_KEY", "SIGNED"}[s]
}

// Request describes a single REST call.
type Request struct {
	Method   string
	Endpoint api.Endpoint
	Params   Params
	Security Security
	// Weight is the request weight charged against the family budget.
	Weight int
	// CacheTTL enables response caching for this request when positive.
	CacheTTL time.Duration
}

// NewRequest creates a request with weight 1 and no parameters.
func NewRequest(method string, endpoint api.Endpoint) *Request {
	return &Request{
		Method:   method,
		Endpoint: endpoint,
		Params:   NewParams(),
		Weight:   1,
	}
}

// Get creates an unsigned GET request.
func Get(endpoint api.Endpoint) *Request {
	return NewRequest(http.MethodGet, endpoint)
}

// Post creates an unsigned POST request.
func Post(endpoint api.Endpoint) *Request {
	return NewRequest(http.MethodPost, endpoint)
}

// Put creates an unsigned PUT request.
func Put(endpoint api.Endpoint) *Request {
	return NewRequest(http.MethodPut, endpoint)
}

// Delete creates an unsigned DELETE request.
func Delete(endpoint api.Endpoint) *Request {
	return NewRequest(http.MethodDelete, endpoint)
}

// SetParams replaces the parameter set.
func (r *Request) SetParams(params Params) *Request {
	if params == nil {
		params = NewParams()
	}
	r.Params = params
	return r
}

// SetParam stores a single parameter.
func (r *Request) SetParam(key, value string) *Request {
	if r.Params == nil {
		r.Params = NewParams()
	}
	r.Params[key] = value
	return r
}

// Signed marks the request as requiring a signature.
func (r *Request) Signed() *Request {
	r.Security = SecuritySigned
	return r
}

// Keyed marks the request as requiring only the API key header.
func (r *Request) Keyed() *Request {
	r.Security = SecurityAPIKey
	return r
}

// SetWeight sets the request weight.
func (r *Request) SetWeight(weight int) *Request {
	r.Weight = weight
	return r
}

// SetCache enables response caching for ttl.
func (r *Request) SetCache(ttl time.Duration) *Request {
	r.CacheTTL = ttl
	return r
}

// CacheKey identifies the response of this request in the client cache.
func (r *Request) CacheKey() string {
	return r.Endpoint.Family().String() + " " + r.Method + " " + r.Endpoint.Path() + "?" + r.Params.Encode()
}
