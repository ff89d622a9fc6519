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
	"testing"

	apperrors "github.com/sirseerhq/mafolex/internal/errors"
)

func TestMockClient_Flow(t *testing.T) {
	ctx := context.Background()
	mock := NewMockClient()

	app, err := mock.RegisterApp(ctx, "https://mastodon.test")
	if err != nil {
		t.Fatalf("RegisterApp failed: %v", err)
	}
	if app.Server != "https://mastodon.test" {
		t.Errorf("app server = %q", app.Server)
	}

	if _, err := mock.Exchange(ctx, *app, "wrong"); !errors.Is(err, apperrors.ErrInvalidCode) {
		t.Errorf("Exchange with wrong code error = %v", err)
	}

	token, err := mock.Exchange(ctx, *app, mock.ValidCode)
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}

	users, err := mock.Users(ctx, app.Server, token, Following, nil)
	if err != nil {
		t.Fatalf("Users failed: %v", err)
	}
	if len(users) != 2 || mock.LastRelation != Following {
		t.Errorf("got %d users for %v", len(users), mock.LastRelation)
	}
}

func TestMockClientOptions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		opts    []MockClientOption
		wantErr error
	}{
		{name: "auth failure", opts: []MockClientOption{WithAuthFailure()}, wantErr: apperrors.ErrUnauthorized},
		{name: "network failure", opts: []MockClientOption{WithNetworkFailure()}, wantErr: apperrors.ErrNetworkFailure},
		{name: "custom error", opts: []MockClientOption{WithError(apperrors.ErrRateLimit)}, wantErr: apperrors.ErrRateLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockClientWithOptions(tt.opts...)
			_, err := mock.CurrentAccount(ctx, "https://mastodon.test", mock.Token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	mock := NewMockClientWithOptions(WithFollowers(nil))
	users, err := mock.Users(ctx, "https://mastodon.test", mock.Token, Followers, nil)
	if err != nil || len(users) != 0 {
		t.Errorf("Users() = %v, %v; want empty", users, err)
	}

	following := []User{{Username: "erin@fedi.test", URL: "https://fedi.test/@erin"}}
	mock = NewMockClientWithOptions(WithFollowing(following))
	users, err = mock.Users(ctx, "https://mastodon.test", mock.Token, Following, nil)
	if err != nil || len(users) != 1 || users[0].Username != "erin@fedi.test" {
		t.Errorf("Users(Following) = %v, %v", users, err)
	}
}
