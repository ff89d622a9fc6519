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

// Package errors defines the sentinel errors shared by the CLI and the
// terminal UI. Callers wrap them with %w and test with errors.Is.
package errors

import "errors"

var (
	// ErrNotLoggedIn indicates no usable access token is stored for the instance.
	// Maps to exit code 2.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrNotConfigured indicates no instance has been chosen yet, or the
	// instance has no registered application.
	// Maps to exit code 2.
	ErrNotConfigured = errors.New("no instance configured")

	// ErrInvalidCode indicates the authorization code was rejected.
	// Maps to exit code 2.
	ErrInvalidCode = errors.New("invalid authorization code")

	// ErrInvalidInstance indicates the instance domain is malformed.
	ErrInvalidInstance = errors.New("invalid instance domain")

	// ErrUnauthorized indicates the server rejected the stored credentials.
	// Maps to exit code 2.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the server has no such account or endpoint.
	ErrNotFound = errors.New("not found")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimit indicates the instance rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("rate limit exceeded")
)
