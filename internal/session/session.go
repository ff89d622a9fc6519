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

// Package session is the core both user interfaces drive. It keeps the
// instance domain and per-instance secrets in the keyring and runs the
// sign-in and listing steps against a mastodon.API.
package session

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sirseerhq/mafolex/internal/credentials"
	apperrors "github.com/sirseerhq/mafolex/internal/errors"
	"github.com/sirseerhq/mafolex/internal/mastodon"
	"github.com/sirseerhq/mafolex/internal/validate"
)

// Options configures a Session.
type Options struct {
	API    mastodon.API
	Store  *credentials.Store
	Logger logrus.FieldLogger

	// BaseURL maps an instance domain to its API base URL. Defaults to
	// mastodon.BaseURL.
	BaseURL func(domain string) string
}

// Session holds sign-in state for one keyring service.
type Session struct {
	api     mastodon.API
	store   *credentials.Store
	log     logrus.FieldLogger
	baseURL func(string) string
}

// New creates a Session.
func New(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.BaseURL == nil {
		opts.BaseURL = mastodon.BaseURL
	}
	return &Session{
		api:     opts.API,
		store:   opts.Store,
		log:     opts.Logger,
		baseURL: opts.BaseURL,
	}
}

// InstanceDomain returns the stored instance domain, or "" when none is set.
func (s *Session) InstanceDomain() (string, error) {
	return s.store.Instance()
}

// SetInstance normalizes and stores domain, registering an application on
// it when none is stored for that instance yet.
func (s *Session) SetInstance(ctx context.Context, domain string) error {
	domain, err := validate.NormalizeDomain(domain)
	if err != nil {
		return err
	}

	log := s.log.WithField("instance", domain)
	log.Debug("setting instance")

	if err := s.store.SetInstance(domain); err != nil {
		return err
	}

	id, secret, err := s.appCredentials(domain)
	if err != nil {
		return err
	}
	if id != "" && secret != "" {
		log.Debug("application already registered")
		return nil
	}

	app, err := s.api.RegisterApp(ctx, s.baseURL(domain))
	if err != nil {
		return err
	}
	if err := s.store.Save(domain, credentials.ClientID, app.ClientID); err != nil {
		return err
	}
	if err := s.store.Save(domain, credentials.ClientSecret, app.ClientSecret); err != nil {
		return err
	}

	log.Info("registered application")
	return nil
}

// Authed reports whether an instance and an access token are stored. It
// does not touch the network.
func (s *Session) Authed() bool {
	_, token, err := s.tokenFor()
	return err == nil && token != ""
}

// CheckAuth reports whether the stored token is still accepted by the
// instance. Failures of any kind count as not signed in.
func (s *Session) CheckAuth(ctx context.Context) bool {
	if !s.Authed() {
		return false
	}
	if _, err := s.CurrentUser(ctx); err != nil {
		s.log.WithError(err).Debug("stored token rejected")
		return false
	}
	return true
}

// AuthURL returns the page where the user approves access and copies the
// authorization code.
func (s *Session) AuthURL() (string, error) {
	app, err := s.app()
	if err != nil {
		return "", err
	}
	return s.api.AuthCodeURL(app), nil
}

// Authenticate validates code, exchanges it for an access token and stores
// the token.
func (s *Session) Authenticate(ctx context.Context, code string) error {
	if err := validate.CheckCode(code); err != nil {
		return err
	}

	app, err := s.app()
	if err != nil {
		return err
	}

	s.log.WithField("instance", app.Server).Debug("exchanging authorization code")
	token, err := s.api.Exchange(ctx, app, code)
	if err != nil {
		return err
	}

	instance, err := s.store.Instance()
	if err != nil {
		return err
	}
	return s.store.Save(instance, credentials.AccessToken, token)
}

// CurrentUser returns the signed-in user as @username@instance.
func (s *Session) CurrentUser(ctx context.Context) (string, error) {
	instance, token, err := s.requireToken()
	if err != nil {
		return "", err
	}

	acct, err := s.api.CurrentAccount(ctx, s.baseURL(instance), token)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("@%s@%s", acct.Username, instance), nil
}

// Users lists the accounts following (or followed by) the signed-in user.
func (s *Session) Users(ctx context.Context, rel mastodon.Relation, progress mastodon.ProgressFunc) ([]mastodon.User, error) {
	instance, token, err := s.requireToken()
	if err != nil {
		return nil, err
	}

	log := s.log.WithFields(logrus.Fields{"instance": instance, "relation": rel.String()})
	log.Debug("fetching users")

	users, err := s.api.Users(ctx, s.baseURL(instance), token, rel, progress)
	if err != nil {
		return nil, err
	}

	log.WithField("count", len(users)).Debug("fetched users")
	return users, nil
}

// Logout forgets the access token. The instance and its registered
// application are kept so signing in again is one step shorter.
func (s *Session) Logout() error {
	instance, err := s.store.Instance()
	if err != nil || instance == "" {
		return err
	}
	s.log.WithField("instance", instance).Debug("forgetting access token")
	return s.store.Forget(instance)
}

func (s *Session) appCredentials(instance string) (string, string, error) {
	id, err := s.store.Lookup(instance, credentials.ClientID)
	if err != nil {
		return "", "", err
	}
	secret, err := s.store.Lookup(instance, credentials.ClientSecret)
	if err != nil {
		return "", "", err
	}
	return id, secret, nil
}

func (s *Session) app() (mastodon.App, error) {
	instance, err := s.store.Instance()
	if err != nil {
		return mastodon.App{}, err
	}
	if instance == "" {
		return mastodon.App{}, apperrors.ErrNotConfigured
	}

	id, secret, err := s.appCredentials(instance)
	if err != nil {
		return mastodon.App{}, err
	}
	if id == "" || secret == "" {
		return mastodon.App{}, fmt.Errorf("no application registered on %s: %w", instance, apperrors.ErrNotConfigured)
	}

	return mastodon.App{Server: s.baseURL(instance), ClientID: id, ClientSecret: secret}, nil
}

func (s *Session) tokenFor() (string, string, error) {
	instance, err := s.store.Instance()
	if err != nil || instance == "" {
		return "", "", err
	}
	token, err := s.store.Lookup(instance, credentials.AccessToken)
	return instance, token, err
}

func (s *Session) requireToken() (string, string, error) {
	instance, token, err := s.tokenFor()
	if err != nil {
		return "", "", err
	}
	if token == "" {
		return "", "", apperrors.ErrNotLoggedIn
	}
	return instance, token, nil
}
