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

// Package testutil provides common test helpers for mafolex
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// Fixed credentials served by MastodonServer.
const (
	TestClientID     = "test-client-id"
	TestClientSecret = "test-client-secret"
	TestAccessToken  = "test-access-token"
	// TestAuthCode is a well-formed 43 character authorization code.
	TestAuthCode = "Zk3q9v_Xb8-4mTnP2wLr7Hs1dYcE6fGaJ0uQiVoKx5B"
)

// MockServer provides common mock server configurations for testing
type MockServer struct {
	*httptest.Server
	requestCount int32
}

// RequestCount returns how many requests the server has seen.
func (m *MockServer) RequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// NewMockServer wraps handler in a counting test server.
func NewMockServer(t *testing.T, handler http.HandlerFunc) *MockServer {
	t.Helper()
	m := &MockServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&m.requestCount, 1)
		handler(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

// NewErrorServer creates a mock server that always returns the specified error
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, statusCode, http.StatusText(statusCode))
	})
}

// MastodonServer is a fake instance implementing the endpoints mafolex
// uses: app registration, the token endpoint, verify_credentials,
// followers/following with Link header pagination, and relationships.
type MastodonServer struct {
	*httptest.Server

	mu        sync.Mutex
	me        *AccountBuilder
	followers []*AccountBuilder
	following []*AccountBuilder
	pageSize  int
	failures  []int
	history   []string
	appForms  []url.Values

	requestCount int32
}

// NewMastodonServer starts a fake instance whose signed-in user is account 1.
func NewMastodonServer(t *testing.T) *MastodonServer {
	t.Helper()

	m := &MastodonServer{
		me:       NewAccountBuilder(1).WithDisplayName("Alice").WithAcct("alice"),
		pageSize: 80,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/apps", m.handleApps)
	mux.HandleFunc("/oauth/token", m.handleToken)
	mux.HandleFunc("/api/v1/accounts/verify_credentials", m.authed(m.handleVerify))
	mux.HandleFunc("/api/v1/accounts/relationships", m.authed(m.handleRelationships))
	mux.HandleFunc("/api/v1/accounts/", m.authed(m.handleAccountList))

	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&m.requestCount, 1)

		m.mu.Lock()
		m.history = append(m.history, r.Method+" "+r.URL.Path)
		var status int
		if len(m.failures) > 0 {
			status, m.failures = m.failures[0], m.failures[1:]
		}
		m.mu.Unlock()

		if status != 0 {
			writeError(w, status, http.StatusText(status))
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(m.Close)

	return m
}

// SetFollowers replaces the follower list.
func (m *MastodonServer) SetFollowers(accounts ...*AccountBuilder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.followers = accounts
}

// SetFollowing replaces the followed-accounts list.
func (m *MastodonServer) SetFollowing(accounts ...*AccountBuilder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.following = accounts
}

// SetPageSize caps the accounts served per page regardless of the limit asked for.
func (m *MastodonServer) SetPageSize(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageSize = n
}

// FailNext makes the next requests fail with the given statuses, in order.
func (m *MastodonServer) FailNext(statuses ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, statuses...)
}

// RequestCount returns how many requests the server has seen.
func (m *MastodonServer) RequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// RequestHistory returns "METHOD /path" for every request so far.
func (m *MastodonServer) RequestHistory() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.history))
	copy(out, m.history)
	return out
}

// AppRegistrations returns the form of every app registration.
func (m *MastodonServer) AppRegistrations() []url.Values {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]url.Values, len(m.appForms))
	copy(out, m.appForms)
	return out
}

// Count returns how many requests matched "METHOD /path".
func (m *MastodonServer) Count(request string) int {
	n := 0
	for _, h := range m.RequestHistory() {
		if h == request {
			n++
		}
	}
	return n
}

func (m *MastodonServer) handleApps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m.mu.Lock()
	m.appForms = append(m.appForms, r.PostForm)
	m.mu.Unlock()

	writeJSON(w, map[string]interface{}{
		"id":            "42",
		"name":          r.PostForm.Get("client_name"),
		"website":       r.PostForm.Get("website"),
		"redirect_uri":  r.PostForm.Get("redirect_uris"),
		"client_id":     TestClientID,
		"client_secret": TestClientSecret,
	})
}

func (m *MastodonServer) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if r.PostForm.Get("client_id") != TestClientID || r.PostForm.Get("client_secret") != TestClientSecret {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_client",
			"error_description": "Client authentication failed due to unknown client.",
		})
		return
	}
	if r.PostForm.Get("grant_type") != "authorization_code" || r.PostForm.Get("code") != TestAuthCode {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "The provided authorization grant is invalid, expired, revoked, does not match the redirection URI used in the authorization request, or was issued to another client.",
		})
		return
	}

	writeJSON(w, map[string]interface{}{
		"access_token": TestAccessToken,
		"token_type":   "Bearer",
		"scope":        "read:accounts read:follows",
		"created_at":   1700000000,
	})
}

func (m *MastodonServer) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+TestAccessToken {
			writeError(w, http.StatusUnauthorized, "The access token is invalid")
			return
		}
		next(w, r)
	}
}

func (m *MastodonServer) handleVerify(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	me := m.me.Build()
	m.mu.Unlock()
	writeJSON(w, me)
}

// handleAccountList serves /api/v1/accounts/:id/followers and /following.
func (m *MastodonServer) handleAccountList(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 5 {
		writeError(w, http.StatusNotFound, "Record not found")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if parts[3] != m.me.ID() {
		writeError(w, http.StatusNotFound, "Record not found")
		return
	}

	var accounts []*AccountBuilder
	switch parts[4] {
	case "followers":
		accounts = m.followers
	case "following":
		accounts = m.following
	default:
		writeError(w, http.StatusNotFound, "Record not found")
		return
	}

	limit := m.pageSize
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l < limit {
		limit = l
	}

	start := 0
	if maxID := r.URL.Query().Get("max_id"); maxID != "" {
		start = len(accounts)
		for i, a := range accounts {
			if a.ID() == maxID {
				start = i + 1
				break
			}
		}
	}
	end := start + limit
	if end > len(accounts) {
		end = len(accounts)
	}

	page := make([]map[string]interface{}, 0, end-start)
	for _, a := range accounts[start:end] {
		page = append(page, a.Build())
	}

	base := m.URL + r.URL.Path
	var links []string
	if end < len(accounts) {
		links = append(links, fmt.Sprintf(`<%s?max_id=%s>; rel="next"`, base, accounts[end-1].ID()))
	}
	if end > start {
		links = append(links, fmt.Sprintf(`<%s?min_id=%s>; rel="prev"`, base, accounts[start].ID()))
	}
	if len(links) > 0 {
		w.Header().Set("Link", strings.Join(links, ", "))
	}

	writeJSON(w, page)
}

func (m *MastodonServer) handleRelationships(w http.ResponseWriter, r *http.Request) {
	ids := r.URL.Query()["id[]"]

	m.mu.Lock()
	known := make(map[string]*AccountBuilder)
	for _, list := range [][]*AccountBuilder{m.followers, m.following} {
		for _, a := range list {
			known[a.ID()] = a
		}
	}
	m.mu.Unlock()

	rels := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		if a, ok := known[id]; ok {
			if rel := a.Relationship(); rel != nil {
				rels = append(rels, rel)
			}
		}
	}
	writeJSON(w, rels)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
