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
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sirseerhq/mafolex/internal/apierror"
	"github.com/sirseerhq/mafolex/internal/version"
)

const (
	maxBackoff    = 30 * time.Second
	maxErrorBytes = 64 * 1024
)

// userAgent identifies us to instance admins.
func userAgent() string {
	return fmt.Sprintf("mafolex/%s (go-mastodon)", version.Version)
}

// retryTransport sets the User-Agent and retries transient failures with
// exponential backoff.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
	inspector  apierror.Inspector
	log        logrus.FieldLogger
}

func newRetryTransport(base http.RoundTripper, maxRetries int, backoff time.Duration, log logrus.FieldLogger) *retryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if backoff <= 0 {
		backoff = time.Second
	}
	return &retryTransport{
		base:       base,
		maxRetries: maxRetries,
		backoff:    backoff,
		inspector:  apierror.NewInspector(),
		log:        log,
	}
}

// RoundTrip implements http.RoundTripper.
//
// A 429 never reaches the caller as a response: go-mastodon would otherwise
// keep retrying it for up to an hour. It is retried while the instance asks
// for a short wait, then returned as a *apierror.StatusError.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	backoff := t.backoff
	// A body that cannot be replayed gets exactly one attempt.
	replayable := req.Body == nil || req.Body == http.NoBody || req.GetBody != nil

	for attempt := 0; ; attempt++ {
		clonedReq := req.Clone(req.Context())
		clonedReq.Header.Set("User-Agent", userAgent())
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			clonedReq.Body = body
		}

		resp, err := t.base.RoundTrip(clonedReq)
		last := attempt >= t.maxRetries || !replayable
		wait := backoff

		switch {
		case err != nil:
			if !t.inspector.IsNetworkError(err) || last {
				return nil, err
			}
			t.log.WithError(err).WithField("attempt", attempt+1).Debug("network error, retrying")

		case resp.StatusCode == http.StatusTooManyRequests:
			wait = retryAfter(resp.Header, backoff, time.Now())
			if last || wait > maxBackoff {
				msg := errorMessage(io.LimitReader(resp.Body, maxErrorBytes))
				resp.Body.Close()
				return nil, &apierror.StatusError{StatusCode: resp.StatusCode, Message: msg}
			}
			resp.Body.Close()
			t.log.WithField("wait", wait).WithField("attempt", attempt+1).Debug("rate limited, retrying")

		case isRetryableStatusCode(resp.StatusCode):
			if last {
				return resp, nil
			}
			resp.Body.Close()
			t.log.WithField("status", resp.StatusCode).WithField("attempt", attempt+1).Debug("server unavailable, retrying")

		default:
			return resp, nil
		}

		select {
		case <-time.After(wait):
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	}
}

// retryAfter returns how long the instance asked us to wait, from
// Retry-After (seconds or HTTP date) or Mastodon's X-RateLimit-Reset.
// fallback is used when neither header is usable.
func retryAfter(h http.Header, fallback time.Duration, now time.Time) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
		if at, err := http.ParseTime(v); err == nil {
			return max(at.Sub(now), 0)
		}
	}
	if v := h.Get("X-RateLimit-Reset"); v != "" {
		if at, err := time.Parse(time.RFC3339, v); err == nil {
			return max(at.Sub(now), 0)
		}
	}
	return fallback
}

// isRetryableStatusCode checks if an HTTP status code should trigger a retry.
func isRetryableStatusCode(code int) bool {
	switch code {
	case http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
