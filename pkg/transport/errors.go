package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"chatgate/pkg/api"
)

// HTTPStatusFromError maps an error kind to the corresponding HTTP status
// code per the gateway's taxonomy.
func HTTPStatusFromError(err *api.Error) int {
	switch err.Kind {
	case api.ErrorKindInvalidRequest:
		return http.StatusBadRequest
	case api.ErrorKindAuth:
		return http.StatusUnauthorized
	case api.ErrorKindRateLimit:
		return http.StatusTooManyRequests
	case api.ErrorKindConnection:
		return http.StatusServiceUnavailable
	case api.ErrorKindTimeout:
		return http.StatusGatewayTimeout
	case api.ErrorKindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse writes the JSON error envelope with the given status.
func WriteErrorResponse(w http.ResponseWriter, apiErr *api.Error, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErr)
}

// WriteError writes an error envelope, deriving the HTTP status from the
// error kind. Non-taxonomy errors become internal errors.
func WriteError(w http.ResponseWriter, err error) {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		apiErr = api.NewInternalError(err.Error())
	}
	WriteErrorResponse(w, apiErr, HTTPStatusFromError(apiErr))
}
