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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	mstdn "github.com/mattn/go-mastodon"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/sirseerhq/mafolex/internal/apierror"
	apperrors "github.com/sirseerhq/mafolex/internal/errors"
)

// API defines the operations mafolex needs from an instance.
// This interface allows for easy mocking in tests.
type API interface {
	// RegisterApp creates an OAuth application on server.
	RegisterApp(ctx context.Context, server string) (*App, error)

	// AuthCodeURL returns the page the user visits to approve access.
	AuthCodeURL(app App) string

	// Exchange trades an authorization code for an access token.
	Exchange(ctx context.Context, app App, code string) (string, error)

	// CurrentAccount returns the account the token belongs to.
	CurrentAccount(ctx context.Context, server, token string) (*Account, error)

	// Users lists every account related to the signed-in user. progress may be nil.
	Users(ctx context.Context, server, token string, rel Relation, progress ProgressFunc) ([]User, error)
}

// Options configures a Client. Zero values fall back to sensible defaults.
type Options struct {
	ClientName     string
	Website        string
	RedirectURI    string
	Scopes         []string
	PageLimit      int
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	Transport      http.RoundTripper
	Logger         logrus.FieldLogger
}

const (
	defaultPageLimit     = 80
	relationshipBatch    = 40
	maxRelationshipBytes = 10 * 1024 * 1024
)

// Client implements API on top of go-mastodon and x/oauth2.
type Client struct {
	opts       Options
	httpClient *http.Client
	inspector  apierror.Inspector
	log        logrus.FieldLogger
}

var _ API = (*Client)(nil)

// NewClient creates a Client.
func NewClient(opts Options) *Client {
	if opts.ClientName == "" {
		opts.ClientName = "mafolex"
	}
	if opts.RedirectURI == "" {
		opts.RedirectURI = "urn:ietf:wg:oauth:2.0:oob"
	}
	if len(opts.Scopes) == 0 {
		opts.Scopes = []string{"read:accounts", "read:follows"}
	}
	if opts.PageLimit <= 0 || opts.PageLimit > defaultPageLimit {
		opts.PageLimit = defaultPageLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	return &Client{
		opts: opts,
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: newRetryTransport(opts.Transport, opts.MaxRetries, opts.InitialBackoff, opts.Logger),
		},
		inspector: apierror.NewInspector(),
		log:       opts.Logger,
	}
}

// RegisterApp implements API.
func (c *Client) RegisterApp(ctx context.Context, server string) (*App, error) {
	c.log.WithField("server", server).Debug("registering application")

	app, err := mstdn.RegisterApp(ctx, &mstdn.AppConfig{
		Client:       *c.httpClient,
		Server:       server,
		ClientName:   c.opts.ClientName,
		Scopes:       strings.Join(c.opts.Scopes, " "),
		Website:      c.opts.Website,
		RedirectURIs: c.opts.RedirectURI,
	})
	if err != nil {
		return nil, c.mapError(err, "register application")
	}

	return &App{Server: server, ClientID: app.ClientID, ClientSecret: app.ClientSecret}, nil
}

func (c *Client) oauthConfig(app App) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     app.ClientID,
		ClientSecret: app.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   app.Server + "/oauth/authorize",
			TokenURL:  app.Server + "/oauth/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: c.opts.RedirectURI,
		Scopes:      c.opts.Scopes,
	}
}

// AuthCodeURL implements API.
func (c *Client) AuthCodeURL(app App) string {
	return c.oauthConfig(app).AuthCodeURL("")
}

// Exchange implements API.
func (c *Client) Exchange(ctx context.Context, app App, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := c.oauthConfig(app).Exchange(ctx, code)
	if err != nil {
		if c.inspector.IsInvalidGrant(err) {
			return "", fmt.Errorf("the server rejected the code: %w", apperrors.ErrInvalidCode)
		}
		return "", c.mapError(err, "exchange authorization code")
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token response carried no access token: %w", apperrors.ErrUnauthorized)
	}

	return tok.AccessToken, nil
}

func (c *Client) apiClient(server, token string) *mstdn.Client {
	client := mstdn.NewClient(&mstdn.Config{
		Server:      server,
		AccessToken: token,
	})
	client.Client = *c.httpClient
	return client
}

// CurrentAccount implements API.
func (c *Client) CurrentAccount(ctx context.Context, server, token string) (*Account, error) {
	acct, err := c.apiClient(server, token).GetAccountCurrentUser(ctx)
	if err != nil {
		return nil, c.mapError(err, "verify credentials")
	}
	return convertAccount(acct), nil
}

// Users implements API.
func (c *Client) Users(ctx context.Context, server, token string, rel Relation, progress ProgressFunc) ([]User, error) {
	if progress == nil {
		progress = func(Progress) {}
	}

	client := c.apiClient(server, token)
	me, err := client.GetAccountCurrentUser(ctx)
	if err != nil {
		return nil, c.mapError(err, "verify credentials")
	}

	accounts, state, err := c.listAccounts(ctx, client, me.ID, rel, progress)
	if err != nil {
		return nil, err
	}

	relations := make(map[string]relationship, len(accounts))
	for start := 0; start < len(accounts); start += relationshipBatch {
		end := start + relationshipBatch
		if end > len(accounts) {
			end = len(accounts)
		}
		ids := make([]string, 0, end-start)
		for _, a := range accounts[start:end] {
			ids = append(ids, string(a.ID))
		}

		rels, err := c.relationships(ctx, server, token, ids)
		if err != nil {
			return nil, c.mapError(err, "fetch relationships")
		}
		for _, r := range rels {
			relations[r.ID] = r
		}

		state.Batches++
		progress(state)
	}

	users := make([]User, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, convertUser(a, relations[string(a.ID)]))
	}

	c.log.WithFields(logrus.Fields{
		"relation": rel.String(),
		"users":    len(users),
	}).Debug("listing complete")

	return users, nil
}

// listAccounts follows the pagination cursor until the server stops
// handing out a next page.
func (c *Client) listAccounts(ctx context.Context, client *mstdn.Client, id mstdn.ID, rel Relation, progress ProgressFunc) ([]*mstdn.Account, Progress, error) {
	var (
		all   []*mstdn.Account
		pg    mstdn.Pagination
		state Progress
	)

	for {
		pg.Limit = int64(c.opts.PageLimit)
		prevMax := pg.MaxID

		var (
			page []*mstdn.Account
			err  error
		)
		if rel == Following {
			page, err = client.GetAccountFollowing(ctx, id, &pg)
		} else {
			page, err = client.GetAccountFollowers(ctx, id, &pg)
		}
		if err != nil {
			return nil, state, c.mapError(err, "list "+rel.String())
		}

		all = append(all, page...)
		state.Pages++
		state.Accounts = len(all)
		progress(state)

		c.log.WithFields(logrus.Fields{
			"page":     state.Pages,
			"accounts": len(page),
			"max_id":   string(pg.MaxID),
		}).Debug("fetched page")

		if len(page) == 0 || pg.MaxID == "" || pg.MaxID == prevMax {
			break
		}
		pg.SinceID = ""
		pg.MinID = ""
	}

	return all, state, nil
}

// relationship is the subset of /api/v1/accounts/relationships we read.
type relationship struct {
	ID         string `json:"id"`
	Following  bool   `json:"following"`
	FollowedBy bool   `json:"followed_by"`
	Note       string `json:"note"`
}

func (c *Client) relationships(ctx context.Context, server, token string, ids []string) ([]relationship, error) {
	params := url.Values{}
	for _, id := range ids {
		params.Add("id[]", id)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		server+"/api/v1/accounts/relationships?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxRelationshipBytes)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apierror.StatusError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	var rels []relationship
	if err := json.NewDecoder(body).Decode(&rels); err != nil {
		return nil, fmt.Errorf("decode relationships: %w", err)
	}
	return rels, nil
}

// errorMessage pulls the "error" field out of a Mastodon error body.
func errorMessage(r io.Reader) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return ""
	}
	return e.Error
}

// mapError maps client errors to our domain errors.
func (c *Client) mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	// Rate limit first, 403 can be either.
	if c.inspector.IsRateLimitError(err) {
		return fmt.Errorf("%s: server rate limit exceeded, wait a few minutes before retrying: %w", op, apperrors.ErrRateLimit)
	}
	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("%s: access token rejected, sign in again: %w", op, apperrors.ErrUnauthorized)
	}
	if c.inspector.IsNotFoundError(err) {
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}
	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("%s: %v: %w", op, err, apperrors.ErrNetworkFailure)
	}

	return fmt.Errorf("%s: %w", op, err)
}

func convertAccount(a *mstdn.Account) *Account {
	return &Account{
		ID:          string(a.ID),
		Username:    a.Username,
		Acct:        a.Acct,
		DisplayName: a.DisplayName,
		URL:         a.URL,
	}
}

func convertUser(a *mstdn.Account, r relationship) User {
	return User{
		Username:    a.Acct,
		DisplayName: a.DisplayName,
		Note:        r.Note,
		URL:         a.URL,
		Mutual:      r.Following && r.FollowedBy,
	}
}
