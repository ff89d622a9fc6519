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

// Package main implements the mafolex command-line interface.
// mafolex signs in to a Mastodon instance and exports the signed-in
// account's followers, or the accounts it follows, as CSV, NDJSON or a
// terminal table.
//
// Run without a subcommand it opens the interactive main window. The CLI
// supports:
//   - Signing in with the out-of-band OAuth code flow (login)
//   - Listing followers or followed accounts (list)
//   - Forgetting the stored access token (logout)
//   - A step-by-step export wizard (wizard)
//
// Usage:
//
//	mafolex login <instance> [flags]
//	mafolex list [flags]
//
// Example:
//
//	mafolex login mastodon.social
//	mafolex list --mode csv --output followers.csv
//
// Exit codes:
//   - 0: Success
//   - 1: General error, including an incorrect sign-in code
//   - 2: Not signed in, or the instance rejected the credentials
//   - 3: Network error
package main
