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

package mastodon

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sirseerhq/mafolex/internal/apierror"
	"github.com/sirseerhq/mafolex/test/testutil"
)

func TestRetryTransport_UserAgent(t *testing.T) {
	var got string
	server := testutil.NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	})

	client := &http.Client{Transport: newRetryTransport(nil, 0, time.Millisecond, quietLogger())}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if !strings.HasPrefix(got, "mafolex/") || !strings.HasSuffix(got, "(go-mastodon)") {
		t.Errorf("User-Agent = %q", got)
	}
}

func TestRetryTransport_ReplaysBody(t *testing.T) {
	var bodies []string
	server := testutil.NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		buf := new(strings.Builder)
		_, _ = io.Copy(buf, r.Body)
		bodies = append(bodies, buf.String())
		if len(bodies) == 1 {
			w.WriteHeader(http.StatusGatewayTimeout)
		}
	})

	client := &http.Client{Transport: newRetryTransport(nil, 2, time.Millisecond, quietLogger())}
	resp, err := client.Post(server.URL, "text/plain", strings.NewReader("payload"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if len(bodies) != 2 || bodies[0] != "payload" || bodies[1] != "payload" {
		t.Errorf("bodies = %q", bodies)
	}
}

func TestRetryTransport_ContextCanceledDuringBackoff(t *testing.T) {
	server := testutil.NewErrorServer(t, http.StatusServiceUnavailable)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := &http.Client{Transport: newRetryTransport(nil, 5, time.Second, quietLogger())}
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)

	start := time.Now()
	_, err := client.Do(req)
	if err == nil {
		t.Fatal("expected error")
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Errorf("transport ignored cancellation, took %v", time.Since(start))
	}
}

func TestRetryTransport_RateLimited(t *testing.T) {
	tests := []struct {
		name         string
		retryAfter   string
		maxRetries   int
		wantErr      bool
		wantRequests int
	}{
		{name: "no retries left", maxRetries: 0, wantErr: true, wantRequests: 1},
		{name: "short wait is retried", retryAfter: "0", maxRetries: 2, wantRequests: 2},
		{name: "long wait fails fast", retryAfter: "3600", maxRetries: 5, wantErr: true, wantRequests: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var server *testutil.MockServer
			server = testutil.NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
				if server.RequestCount() > 1 {
					return
				}
				if tt.retryAfter != "" {
					w.Header().Set("Retry-After", tt.retryAfter)
				}
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = io.WriteString(w, `{"error":"Too many requests"}`)
			})

			client := &http.Client{Transport: newRetryTransport(nil, tt.maxRetries, time.Millisecond, quietLogger())}
			done := make(chan error, 1)
			go func() {
				resp, err := client.Get(server.URL)
				if err == nil {
					resp.Body.Close()
				}
				done <- err
			}()

			var err error
			select {
			case err = <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("request did not return")
			}

			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var statusErr *apierror.StatusError
				if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusTooManyRequests {
					t.Errorf("error = %v, want a 429 StatusError", err)
				} else if statusErr.Message != "Too many requests" {
					t.Errorf("Message = %q", statusErr.Message)
				}
			}
			if server.RequestCount() != tt.wantRequests {
				t.Errorf("RequestCount = %d, want %d", server.RequestCount(), tt.wantRequests)
			}
		})
	}
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		header http.Header
		want   time.Duration
	}{
		{name: "none", header: http.Header{}, want: time.Second},
		{name: "seconds", header: http.Header{"Retry-After": {"7"}}, want: 7 * time.Second},
		{name: "http date", header: http.Header{"Retry-After": {now.Add(time.Minute).Format(http.TimeFormat)}}, want: time.Minute},
		{name: "rate limit reset", header: http.Header{"X-Ratelimit-Reset": {now.Add(90 * time.Second).Format(time.RFC3339)}}, want: 90 * time.Second},
		{name: "reset in the past", header: http.Header{"X-Ratelimit-Reset": {now.Add(-time.Minute).Format(time.RFC3339)}}, want: 0},
		{name: "garbage", header: http.Header{"Retry-After": {"soon"}}, want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryAfter(tt.header, time.Second, now); got != tt.want {
				t.Errorf("retryAfter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRetryableStatusCode(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{http.StatusOK, false},
		{http.StatusNotFound, false},
		{http.StatusTooManyRequests, false},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusGatewayTimeout, true},
	}
	for _, tt := range tests {
		if got := isRetryableStatusCode(tt.code); got != tt.want {
			t.Errorf("isRetryableStatusCode(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
