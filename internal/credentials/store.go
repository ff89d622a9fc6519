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

// Package credentials keeps the chosen instance and its OAuth secrets in the
// platform keyring (Secret Service, macOS Keychain or Windows Credential
// Manager) through go-keyring.
//
// The instance domain lives under "<service>/instance-domain". Secrets are
// stored per instance under "<service>/<key>/<instance>", so switching
// instances does not discard the application registered on the previous one.
package credentials

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Key names a per-instance secret.
type Key string

const (
	ClientID     Key = "client-id"
	ClientSecret Key = "client-secret"
	AccessToken  Key = "access-token"
)

// keyringUser is the account name entries are filed under; the service
// string alone identifies them.
const keyringUser = "default"

// Store reads and writes keyring entries for one service prefix.
type Store struct {
	service string
}

// NewStore creates a Store whose entries are prefixed with service.
func NewStore(service string) *Store {
	return &Store{service: service}
}

// Instance returns the stored instance domain, or "" when none is stored.
func (s *Store) Instance() (string, error) {
	return s.get(s.service + "/instance-domain")
}

// SetInstance stores the instance domain.
func (s *Store) SetInstance(domain string) error {
	return s.set(s.service+"/instance-domain", domain)
}

// Lookup returns the secret stored for instance, or "" when none is stored.
func (s *Store) Lookup(instance string, key Key) (string, error) {
	if instance == "" {
		return "", nil
	}
	return s.get(s.entry(instance, key))
}

// Save stores a secret for instance.
func (s *Store) Save(instance string, key Key, value string) error {
	if instance == "" {
		return fmt.Errorf("cannot store %s without an instance domain", key)
	}
	return s.set(s.entry(instance, key), value)
}

// Delete removes a secret for instance. Missing entries are not an error.
func (s *Store) Delete(instance string, key Key) error {
	err := keyring.Delete(s.entry(instance, key), keyringUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}

// Forget removes the access token for instance, keeping the registered
// application so the next sign-in skips app registration.
func (s *Store) Forget(instance string) error {
	return s.Delete(instance, AccessToken)
}

func (s *Store) entry(instance string, key Key) string {
	return fmt.Sprintf("%s/%s/%s", s.service, key, instance)
}

func (s *Store) get(service string) (string, error) {
	value, err := keyring.Get(service, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s from keyring: %w", service, err)
	}
	return value, nil
}

func (s *Store) set(service, value string) error {
	if err := keyring.Set(service, keyringUser, value); err != nil {
		return fmt.Errorf("failed to write %s to keyring: %w", service, err)
	}
	return nil
}
