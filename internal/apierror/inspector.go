// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package apierror

import (
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	mstdn "github.com/mattn/go-mastodon"
	"golang.org/x/oauth2"
)

// Inspector provides methods to classify API errors.
type Inspector interface {
	// IsAuthError returns true if the error represents an authentication or authorization error.
	IsAuthError(err error) bool

	// IsInvalidGrant returns true if the token endpoint rejected an authorization code.
	IsInvalidGrant(err error) bool

	// IsNotFoundError returns true if the error represents a resource not found error.
	IsNotFoundError(err error) bool

	// IsRateLimitError returns true if the error represents a rate limit error.
	IsRateLimitError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool
}

// MessageInspector classifies errors by their message text.
type MessageInspector struct{}

// NewMessageInspector creates a new MessageInspector.
func NewMessageInspector() Inspector {
	return &MessageInspector{}
}

// IsAuthError checks if the error is an authentication or authorization error.
func (i *MessageInspector) IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "forbidden") ||
		strings.Contains(errStr, "the access token is invalid") ||
		strings.Contains(errStr, "invalid_token")
}

// IsInvalidGrant checks if the error is a rejected authorization code.
func (i *MessageInspector) IsInvalidGrant(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "invalid_grant") ||
		strings.Contains(errStr, "authorization grant is invalid")
}

// IsNotFoundError checks if the error is a not found error.
func (i *MessageInspector) IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "404") ||
		strings.Contains(errStr, "not found") ||
		strings.Contains(errStr, "record not found")
}

// IsRateLimitError checks if the error is a rate limit error.
func (i *MessageInspector) IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "too many requests")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *MessageInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "tls handshake") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "connection reset")
}

// ChainInspector checks typed errors in the chain before deferring to a base
// inspector.
type ChainInspector struct {
	base Inspector
}

// NewInspector returns the inspector used by the API client: typed checks
// backed by message inspection.
func NewInspector() Inspector {
	return NewChainInspector(NewMessageInspector())
}

// NewChainInspector creates a ChainInspector around base.
func NewChainInspector(base Inspector) Inspector {
	return &ChainInspector{base: base}
}

// statusCode extracts an HTTP status from the typed errors we know about.
func statusCode(err error) (int, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	var apiErr *mstdn.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return retrieveErr.Response.StatusCode, true
	}
	return 0, false
}

// isTransportError reports whether err failed before any HTTP status was
// read. Its message embeds the request URL, so it is never matched as text.
func isTransportError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// isGatewayStatus reports whether code means the instance could not be
// reached behind its proxy.
func isGatewayStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// IsAuthError checks the status code first, then falls back to base inspector.
func (c *ChainInspector) IsAuthError(err error) bool {
	if code, ok := statusCode(err); ok {
		return code == http.StatusUnauthorized || code == http.StatusForbidden
	}
	if isTransportError(err) {
		return false
	}
	return c.base.IsAuthError(err)
}

// IsInvalidGrant checks the OAuth error code first, then falls back to base inspector.
func (c *ChainInspector) IsInvalidGrant(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.ErrorCode != "" {
			return retrieveErr.ErrorCode == "invalid_grant"
		}
		if retrieveErr.Response != nil {
			code := retrieveErr.Response.StatusCode
			return code == http.StatusBadRequest || code == http.StatusUnauthorized
		}
	}
	if _, ok := statusCode(err); ok || isTransportError(err) {
		return false
	}
	return c.base.IsInvalidGrant(err)
}

// IsNotFoundError checks the status code first, then falls back to base inspector.
func (c *ChainInspector) IsNotFoundError(err error) bool {
	if code, ok := statusCode(err); ok {
		return code == http.StatusNotFound
	}
	if isTransportError(err) {
		return false
	}
	return c.base.IsNotFoundError(err)
}

// IsRateLimitError checks the status code first, then falls back to base inspector.
func (c *ChainInspector) IsRateLimitError(err error) bool {
	if code, ok := statusCode(err); ok {
		return code == http.StatusTooManyRequests
	}
	if isTransportError(err) {
		return false
	}
	return c.base.IsRateLimitError(err)
}

// IsNetworkError treats transport failures and gateway statuses as network
// errors, then falls back to base inspector for untyped errors.
func (c *ChainInspector) IsNetworkError(err error) bool {
	if code, ok := statusCode(err); ok {
		return isGatewayStatus(code)
	}
	if isTransportError(err) {
		return true
	}
	return c.base.IsNetworkError(err)
}
