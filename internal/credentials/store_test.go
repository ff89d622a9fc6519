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

package credentials

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestStore_Instance(t *testing.T) {
	keyring.MockInit()
	store := NewStore("mafolex-test")

	got, err := store.Instance()
	if err != nil {
		t.Fatalf("Instance() error = %v", err)
	}
	if got != "" {
		t.Errorf("Instance() = %q, want empty before SetInstance", got)
	}

	if err := store.SetInstance("mastodon.social"); err != nil {
		t.Fatalf("SetInstance() error = %v", err)
	}
	got, err = store.Instance()
	if err != nil {
		t.Fatalf("Instance() error = %v", err)
	}
	if got != "mastodon.social" {
		t.Errorf("Instance() = %q, want mastodon.social", got)
	}
}

func TestStore_SecretsArePerInstance(t *testing.T) {
	keyring.MockInit()
	store := NewStore("mafolex-test")

	if err := store.Save("a.example", AccessToken, "token-a"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save("b.example", AccessToken, "token-b"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	tests := []struct {
		instance string
		key      Key
		want     string
	}{
		{"a.example", AccessToken, "token-a"},
		{"b.example", AccessToken, "token-b"},
		{"a.example", ClientID, ""},
		{"", AccessToken, ""},
	}

	for _, tt := range tests {
		got, err := store.Lookup(tt.instance, tt.key)
		if err != nil {
			t.Errorf("Lookup(%q, %s) error = %v", tt.instance, tt.key, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%q, %s) = %q, want %q", tt.instance, tt.key, got, tt.want)
		}
	}
}

func TestStore_SaveRequiresInstance(t *testing.T) {
	keyring.MockInit()
	store := NewStore("mafolex-test")

	if err := store.Save("", ClientID, "id"); err == nil {
		t.Error("Save() with empty instance should fail")
	}
}

func TestStore_Forget(t *testing.T) {
	keyring.MockInit()
	store := NewStore("mafolex-test")

	_ = store.Save("a.example", ClientID, "id")
	_ = store.Save("a.example", AccessToken, "token")

	if err := store.Forget("a.example"); err != nil {
		t.Fatalf("Forget() error = %v", err)
	}
	if token, _ := store.Lookup("a.example", AccessToken); token != "" {
		t.Errorf("access token = %q after Forget, want empty", token)
	}
	if id, _ := store.Lookup("a.example", ClientID); id != "id" {
		t.Errorf("client id = %q after Forget, want it kept", id)
	}

	// Forgetting twice is fine.
	if err := store.Forget("a.example"); err != nil {
		t.Errorf("second Forget() error = %v", err)
	}
}

func TestStore_KeyringFailure(t *testing.T) {
	keyringErr := errors.New("secret service unavailable")
	keyring.MockInitWithError(keyringErr)
	t.Cleanup(keyring.MockInit)

	store := NewStore("mafolex-test")

	if _, err := store.Instance(); !errors.Is(err, keyringErr) {
		t.Errorf("Instance() error = %v, want keyring error", err)
	}
	if err := store.SetInstance("a.example"); !errors.Is(err, keyringErr) {
		t.Errorf("SetInstance() error = %v, want keyring error", err)
	}
}
