package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/KaramelBytes/waterdash/internal/logx"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

const (
	ErrorCodeInternalServerError ErrorCode = "internal_server_error"
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeNotFound            ErrorCode = "not_found"
	ErrorCodeInvalidFormat       ErrorCode = "invalid_format"
	ErrorCodeDataUnavailable     ErrorCode = "data_unavailable"
)

// APIError is the JSON body of every error response.
type APIError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    any       `json:"details,omitempty"`
	StatusCode int       `json:"-"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewAPIError builds an APIError.
func NewAPIError(code ErrorCode, message string, details any, statusCode int) APIError {
	return APIError{Code: code, Message: message, Details: details, StatusCode: statusCode}
}

func respondError(w http.ResponseWriter, apiErr APIError) {
	if apiErr.StatusCode >= 500 {
		logx.Errorf("%s", apiErr.Error())
	} else {
		logx.Debugf("%s", apiErr.Error())
	}
	respondJSON(w, apiErr.StatusCode, apiErr)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logx.Warnf("encode JSON response: %v", err)
	}
}
