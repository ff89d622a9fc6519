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

// Package apierror classifies errors returned while talking to a Mastodon
// instance. Requests made directly report non-2xx responses as *StatusError,
// the OAuth token endpoint as *oauth2.RetrieveError, and go-mastodon folds the
// status into its error text, so classification checks typed errors in the
// chain first and falls back to message inspection.
//
// UserError attaches an actionable hint to an error without hiding the
// underlying cause from errors.Is.
package apierror
