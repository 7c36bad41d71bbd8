// Package types holds the JSON envelope shapes shared by every API
// response. Success bodies nest under "data", failures under "error",
// so the admin UI can branch on one key.
package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
