package synology

import (
	"errors"
	"fmt"

	"github.com/valyala/fastjson"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid synology configuration")
	// ErrAPINotAvailable indicates the API was not returned by SYNO.API.Info
	ErrAPINotAvailable = errors.New("api not available")
	// ErrNoSession indicates the session has no sid (never logged in or already logged out)
	ErrNoSession = errors.New("no active session")
	// ErrUnexpectedResponse indicates a body that is not a Synology response envelope
	ErrUnexpectedResponse = errors.New("unexpected response from Synology")
)

var commonErrors = map[int]string{
	100: "Unknown error",
	101: "Invalid parameter",
	102: "The requested API does not exist",
	103: "The requested method does not exist",
	104: "The requested version does not support the functionality",
	105: "The logged in session does not have permission",
	106: "Session timeout",
	107: "Session interrupted by duplicate login",
	119: "SID not found",
}

var apiErrors = map[string]map[int]string{
	APIAuth: {
		400: "No such account or incorrect password",
		401: "Account disabled",
		402: "Permission denied",
		403: "2-step verification code required",
		404: "Failed to authenticate 2-step verification code",
	},
	APITask: {
		400: "File upload failed",
		401: "Max number of tasks reached",
		402: "Destination denied",
		403: "Destination does not exist",
		404: "Invalid task id",
		405: "Invalid task action",
		406: "No default destination",
		407: "Set destination failed",
		408: "File does not exist",
	},
	APIBTSearch: {
		400: "Unknown error",
		401: "Invalid parameter",
		402: "Parse the user setting failed",
		403: "Get category failed",
		404: "Get the search result from DB failed",
		405: "Get the user setting failed",
	},
}

// ErrorMessage looks up the documented message for an error code returned by api.
func ErrorMessage(api string, code int) (string, bool) {
	if table, ok := apiErrors[api]; ok {
		if msg, ok := table[code]; ok {
			return msg, true
		}
	}
	msg, ok := commonErrors[code]
	return msg, ok
}

// APIError is a response with success=false.
type APIError struct {
	API    string
	Method string
	// Code is only meaningful when HasCode is set.
	Code    int
	HasCode bool
	// Raw holds the undecoded error field, if any.
	Raw    string
	object bool
	detail string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s failed: %s", e.API, e.Method, e.Message())
}

// Message returns the human-readable reason for the failure.
func (e *APIError) Message() string {
	if e.HasCode {
		if msg, ok := ErrorMessage(e.API, e.Code); ok {
			return msg
		}
		if e.object {
			return "Error: " + e.Raw
		}
		return fmt.Sprintf("Unknown error: %d", e.Code)
	}
	if e.object {
		return "Error: " + e.Raw
	}
	if e.detail != "" {
		return "Unknown error: " + e.detail
	}
	return "Unknown error"
}

// IsSessionError reports whether the sid is no longer usable.
func (e *APIError) IsSessionError() bool {
	if !e.HasCode {
		return false
	}
	switch e.Code {
	case 105, 106, 107, 119:
		return true
	}
	return false
}

// parseAPIError decodes the error field, which DSM sends as a bare number,
// as {"code": n, ...}, or not at all.
func parseAPIError(api, method string, raw []byte) *APIError {
	apiErr := &APIError{API: api, Method: method}
	if len(raw) == 0 {
		return apiErr
	}

	var p fastjson.Parser
	v, err := p.ParseBytes(raw)
	if err != nil {
		apiErr.detail = string(raw)
		return apiErr
	}

	switch v.Type() {
	case fastjson.TypeNull:
		return apiErr
	case fastjson.TypeNumber:
		apiErr.Raw = string(raw)
		apiErr.Code = v.GetInt()
		apiErr.HasCode = true
	case fastjson.TypeObject:
		apiErr.Raw = v.String()
		apiErr.object = true
		if code := v.Get("code"); code != nil && code.Type() == fastjson.TypeNumber {
			apiErr.Code = code.GetInt()
			apiErr.HasCode = true
		}
	case fastjson.TypeString:
		apiErr.Raw = string(raw)
		apiErr.detail = string(v.GetStringBytes())
	default:
		apiErr.Raw = string(raw)
		apiErr.detail = v.String()
	}
	return apiErr
}
