package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"chatgate/pkg/api"
)

// MapHTTPError converts an HTTP response with a non-2xx status code into
// the gateway's error taxonomy. The response body (limited to 4 KiB) is
// captured as the error details; when it parses as a ChatErrorResponse the
// embedded message is preferred.
func MapHTTPError(resp *http.Response) *api.Error {
	details := readErrorDetails(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return api.NewAuthError(details)

	case resp.StatusCode == http.StatusTooManyRequests:
		return api.NewRateLimitError(details)

	default:
		return api.NewUpstreamError(details)
	}
}

// MapNetworkError converts a network-level failure (connection refused, DNS
// resolution, timeout) into the gateway's error taxonomy. Timeouts are only
// distinguishable here, before any stream bytes have arrived; a timeout
// mid-stream surfaces as a stream read error instead.
func MapNetworkError(err error) *api.Error {
	if isTimeout(err) {
		return api.NewTimeoutError(err.Error())
	}
	return api.NewConnectionError(err.Error())
}

// isTimeout reports whether err represents a timeout rather than a general
// connectivity failure.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// readErrorDetails extracts a details string from an error response. The
// parsed backend error message is used when present; otherwise the raw body,
// or a status-line fallback when the body is empty or unreadable.
func readErrorDetails(resp *http.Response) string {
	fallback := fmt.Sprintf("upstream returned HTTP %d", resp.StatusCode)
	if resp.Body == nil {
		return fallback
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(data) == 0 {
		return fallback
	}

	var errResp ChatErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return fallback
	}
	return raw
}
