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
	"fmt"
	"net/url"
	"sync"

	apperrors "github.com/sirseerhq/mafolex/internal/errors"
)

// MockClient is a mock implementation of API for testing.
type MockClient struct {
	mu sync.Mutex

	// Followers and Following to return from Users
	Followers []User
	Following []User

	// Account returned by CurrentAccount
	Account Account

	// App returned by RegisterApp; Server is filled from the call.
	App App

	// ValidCode is the only code Exchange accepts.
	ValidCode string
	Token     string

	// Error to return from every call
	Error error

	// Behavior flags
	ShouldFailAuth    bool
	ShouldFailNetwork bool

	// Track calls for verification
	RegisterCalls int
	ExchangeCalls int
	UsersCalls    int
	LastServer    string
	LastToken     string
	LastRelation  Relation
}

// NewMockClient creates a mock with default test data.
func NewMockClient() *MockClient {
	return &MockClient{
		Followers: generateTestUsers(),
		Following: generateTestUsers()[:2],
		Account:   Account{ID: "1", Username: "alice", Acct: "alice", DisplayName: "Alice"},
		App:       App{ClientID: "mock-client-id", ClientSecret: "mock-client-secret"},
		ValidCode: "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNO_-",
		Token:     "mock-access-token",
	}
}

func (m *MockClient) fail(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if m.ShouldFailNetwork {
		return fmt.Errorf("dial tcp: connection refused: %w", apperrors.ErrNetworkFailure)
	}
	return m.Error
}

// RegisterApp implements API.
func (m *MockClient) RegisterApp(ctx context.Context, server string) (*App, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RegisterCalls++
	m.LastServer = server
	if err := m.fail(ctx); err != nil {
		return nil, err
	}

	app := m.App
	app.Server = server
	return &app, nil
}

// AuthCodeURL implements API.
func (m *MockClient) AuthCodeURL(app App) string {
	return app.Server + "/oauth/authorize?client_id=" + url.QueryEscape(app.ClientID)
}

// Exchange implements API.
func (m *MockClient) Exchange(ctx context.Context, app App, code string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ExchangeCalls++
	m.LastServer = app.Server
	if err := m.fail(ctx); err != nil {
		return "", err
	}
	if code != m.ValidCode {
		return "", fmt.Errorf("the server rejected the code: %w", apperrors.ErrInvalidCode)
	}
	return m.Token, nil
}

// CurrentAccount implements API.
func (m *MockClient) CurrentAccount(ctx context.Context, server, token string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastServer = server
	m.LastToken = token
	if err := m.check(ctx, token); err != nil {
		return nil, err
	}

	acct := m.Account
	return &acct, nil
}

// Users implements API.
func (m *MockClient) Users(ctx context.Context, server, token string, rel Relation, progress ProgressFunc) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UsersCalls++
	m.LastServer = server
	m.LastToken = token
	m.LastRelation = rel
	if err := m.check(ctx, token); err != nil {
		return nil, err
	}

	users := m.Followers
	if rel == Following {
		users = m.Following
	}
	if progress != nil {
		progress(Progress{Pages: 1, Accounts: len(users), Batches: 1})
	}

	out := make([]User, len(users))
	copy(out, users)
	return out, nil
}

func (m *MockClient) check(ctx context.Context, token string) error {
	if err := m.fail(ctx); err != nil {
		return err
	}
	if m.ShouldFailAuth || token != m.Token {
		return fmt.Errorf("verify credentials: access token rejected: %w", apperrors.ErrUnauthorized)
	}
	return nil
}

// generateTestUsers creates sample follower data for testing.
func generateTestUsers() []User {
	return []User{
		{Username: "bob@example.social", DisplayName: "Bob", Note: "met at the conference", URL: "https://example.social/@bob", Mutual: true},
		{Username: "carol", DisplayName: "Carol, PhD", URL: "https://mastodon.test/@carol", Mutual: false},
		{Username: "dave@fedi.test", DisplayName: "", Note: "line one\nline two", URL: "https://fedi.test/@dave", Mutual: true},
	}
}

// MockClientOption is a functional option for configuring MockClient.
type MockClientOption func(*MockClient)

// WithFollowers sets the followers returned by the mock.
func WithFollowers(users []User) MockClientOption {
	return func(m *MockClient) {
		m.Followers = users
	}
}

// WithFollowing sets the followed accounts returned by the mock.
func WithFollowing(users []User) MockClientOption {
	return func(m *MockClient) {
		m.Following = users
	}
}

// WithError makes every call fail with err.
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure configures the mock to reject the access token.
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// WithNetworkFailure configures the mock to fail as if the server were unreachable.
func WithNetworkFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailNetwork = true
	}
}

// NewMockClientWithOptions creates a mock client with custom options.
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	m := NewMockClient()
	for _, opt := range opts {
		opt(m)
	}
	return m
}
