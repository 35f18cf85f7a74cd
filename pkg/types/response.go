// Package types holds the JSON envelopes shared by every storefront endpoint.
package types

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-Id"

// SuccessEnvelope wraps every 2xx payload as {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public shape of a failed request. Details holds field
// messages for validation failures and the current step for checkout conflicts.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
