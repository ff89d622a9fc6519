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
	"fmt"
	"net"
	"net/http"
	"net/url"
	"testing"

	mstdn "github.com/mattn/go-mastodon"
	"golang.org/x/oauth2"
)

func TestMessageInspector_IsAuthError(t *testing.T) {
	inspector := NewMessageInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "401 unauthorized",
			err:  errors.New("bad request: 401 Unauthorized: The access token is invalid"),
			want: true,
		},
		{
			name: "403 forbidden",
			err:  errors.New("403 Forbidden"),
			want: true,
		},
		{
			name: "wrapped auth error",
			err:  fmt.Errorf("failed to verify: %w", errors.New("invalid_token")),
			want: true,
		},
		{
			name: "not an auth error",
			err:  errors.New("something went wrong"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsAuthError(tt.err); got != tt.want {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessageInspector_IsNetworkError(t *testing.T) {
	inspector := NewMessageInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"connection refused", errors.New("dial tcp 127.0.0.1:443: connect: connection refused"), true},
		{"no such host", errors.New("lookup example.invalid: no such host"), true},
		{"timeout", errors.New("context deadline exceeded (Client.Timeout exceeded while awaiting headers)"), true},
		{"tls", errors.New("tls handshake failure"), true},
		{"generic", errors.New("record not found"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsNetworkError(tt.err); got != tt.want {
				t.Errorf("IsNetworkError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessageInspector_IsRateLimitError(t *testing.T) {
	inspector := NewMessageInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"429 status", errors.New("bad request: 429 Too Many Requests"), true},
		{"rate limit text", errors.New("Rate limit exceeded"), true},
		{"other", errors.New("500 Internal Server Error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsRateLimitError(tt.err); got != tt.want {
				t.Errorf("IsRateLimitError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChainInspector_StatusCodes(t *testing.T) {
	inspector := NewInspector()

	apiErr := func(code int) error {
		return fmt.Errorf("request failed: %w", &StatusError{StatusCode: code, Message: "error"})
	}
	dialFailure := &url.Error{
		Op:  "Get",
		URL: "https://mastodon.test/api/v1/accounts/109429118812345678/followers?max_id=401404",
		Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
	}

	tests := []struct {
		name      string
		err       error
		auth      bool
		notFound  bool
		rateLimit bool
		network   bool
	}{
		{name: "401", err: apiErr(http.StatusUnauthorized), auth: true},
		{name: "403", err: apiErr(http.StatusForbidden), auth: true},
		{name: "404", err: apiErr(http.StatusNotFound), notFound: true},
		{name: "429", err: apiErr(http.StatusTooManyRequests), rateLimit: true},
		{name: "500", err: apiErr(http.StatusInternalServerError)},
		{
			name:    "net error",
			err:     fmt.Errorf("get: %w", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}),
			network: true,
		},
		{
			name:    "dial failure with status-like digits in the URL",
			err:     dialFailure,
			network: true,
		},
		{
			name:    "url error without net error",
			err:     &url.Error{Op: "Get", URL: "https://mastodon.test/api/v1/accounts/429", Err: errors.New("stopped after 10 redirects")},
			network: true,
		},
		{
			name:      "status error inside url error",
			err:       &url.Error{Op: "Get", URL: "https://mastodon.test/", Err: &StatusError{StatusCode: http.StatusTooManyRequests}},
			rateLimit: true,
		},
		{name: "mastodon 401", err: &mstdn.APIError{StatusCode: http.StatusUnauthorized}, auth: true},
		{name: "mastodon 404", err: &mstdn.APIError{StatusCode: http.StatusNotFound}, notFound: true},
		{name: "mastodon 429", err: &mstdn.APIError{StatusCode: http.StatusTooManyRequests}, rateLimit: true},
		{name: "mastodon 503", err: &mstdn.APIError{StatusCode: http.StatusServiceUnavailable, Message: "try 429 later"}, network: true},
		{name: "mastodon 500", err: &mstdn.APIError{StatusCode: http.StatusInternalServerError, Message: "401 403 404"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsAuthError(tt.err); got != tt.auth {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.auth)
			}
			if got := inspector.IsNotFoundError(tt.err); got != tt.notFound {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.notFound)
			}
			if got := inspector.IsRateLimitError(tt.err); got != tt.rateLimit {
				t.Errorf("IsRateLimitError() = %v, want %v", got, tt.rateLimit)
			}
			if got := inspector.IsNetworkError(tt.err); got != tt.network {
				t.Errorf("IsNetworkError() = %v, want %v", got, tt.network)
			}
		})
	}
}

func TestChainInspector_IsInvalidGrant(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "invalid_grant error code",
			err:  &oauth2.RetrieveError{Response: &http.Response{StatusCode: http.StatusBadRequest}, ErrorCode: "invalid_grant"},
			want: true,
		},
		{
			name: "other error code",
			err:  &oauth2.RetrieveError{Response: &http.Response{StatusCode: http.StatusBadRequest}, ErrorCode: "invalid_client"},
			want: false,
		},
		{
			name: "bare 400 without code",
			err:  &oauth2.RetrieveError{Response: &http.Response{StatusCode: http.StatusBadRequest}},
			want: true,
		},
		{
			name: "message fallback",
			err:  errors.New(`oauth2: "invalid_grant"`),
			want: true,
		},
		{
			name: "unrelated",
			err:  errors.New("boom"),
			want: false,
		},
		{
			name: "transport failure",
			err:  &url.Error{Op: "Post", URL: "https://mastodon.test/oauth/token?error=invalid_grant", Err: errors.New("EOF")},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsInvalidGrant(tt.err); got != tt.want {
				t.Errorf("IsInvalidGrant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := WithHint(cause, "Error communicating with the server!", "Check the address.")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should see the wrapped cause")
	}

	userErr, ok := AsUserError(fmt.Errorf("login: %w", err))
	if !ok {
		t.Fatal("AsUserError() did not find the UserError")
	}
	if userErr.Hint != "Check the address." {
		t.Errorf("Hint = %q", userErr.Hint)
	}
	if got, want := err.Error(), "Error communicating with the server! dial tcp: connection refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if WithHint(nil, "x", "y") != nil {
		t.Error("WithHint(nil) should return nil")
	}
}

func TestStatusError(t *testing.T) {
	err := &StatusError{StatusCode: http.StatusNotFound, Message: "Record not found"}
	if got, want := err.Error(), "404 Not Found: Record not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	bare := &StatusError{StatusCode: http.StatusBadGateway}
	if got, want := bare.Error(), "502 Bad Gateway"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
