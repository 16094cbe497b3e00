package core

import "errors"

// Exchange error codes returned in the "code" field of error bodies.
const (
	CodeUnknown             = -1000
	CodeDisconnected        = -1001
	CodeUnauthorized        = -1002
	CodeTooManyRequests     = -1003
	CodeTimeout             = -1007
	CodeTooManyOrders       = -1015
	CodeInvalidTimestamp    = -1021
	CodeInvalidSignature    = -1022
	CodeIllegalChars        = -1100
	CodeTooManyParameters   = -1101
	CodeMandatoryParamEmpty = -1102
	CodeUnknownParam        = -1103
	CodeBadPrecision        = -1111
	CodeInvalidTimeInForce  = -1115
	CodeInvalidOrderType    = -1116
	CodeInvalidSide         = -1117
	CodeBadSymbol           = -1121
	CodeInvalidListenKey    = -1125

	CodeNewOrderRejected = -2010
	CodeCancelRejected   = -2011
	CodeNoSuchOrder      = -2013
	CodeBadAPIKeyFormat  = -2014
	CodeRejectedAPIKey   = -2015

	CodeMarginInsufficient  = -2019
	CodeBalanceInsufficient = -2018

	CodeNoNeedToChangeMarginType   = -4046
	CodeNoNeedToChangePositionSide = -4059
)

// IsErrorCode reports whether err is an APIError carrying the given exchange code.
func IsErrorCode(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}

// ErrorCodeOf returns the exchange code carried by err, or zero.
func ErrorCodeOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
