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

// Package mastodon talks to a Mastodon-compatible instance: it registers the
// OAuth application, builds the authorization URL, exchanges the code the
// user pastes back for an access token, and lists the accounts that follow
// (or are followed by) the signed-in user.
//
// Account listing and app registration go through github.com/mattn/go-mastodon;
// the OAuth code flow goes through golang.org/x/oauth2. Pagination follows the
// library's Link-header cursor until the server stops returning a next page.
//
// Basic usage:
//
//	client := mastodon.NewClient(mastodon.Options{ClientName: "mafolex", Scopes: scopes})
//	app, err := client.RegisterApp(ctx, mastodon.BaseURL("mastodon.social"))
//	if err != nil {
//	    // Handle error
//	}
//	fmt.Println(client.AuthCodeURL(*app))
//	token, err := client.Exchange(ctx, *app, code)
//	users, err := client.Users(ctx, app.Server, token, mastodon.Followers, nil)
package mastodon
