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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/sirseerhq/mafolex/internal/apierror"
	apperrors "github.com/sirseerhq/mafolex/internal/errors"
)

var (
	summaryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	hintStyle    = lipgloss.NewStyle().Bold(true)
	causeStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
)

// explainError attaches a summary and hint to the errors users commonly hit.
// Errors that already carry one are returned unchanged.
func explainError(err error) error {
	if _, ok := apierror.AsUserError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, apperrors.ErrNetworkFailure):
		return apierror.WithHint(err, "Error communicating with the server!",
			"Make sure that's the address of a server compatible with the Mastodon API.")
	case errors.Is(err, apperrors.ErrNotLoggedIn), errors.Is(err, apperrors.ErrNotConfigured):
		return apierror.WithHint(err, "Not logged in!", "Run 'mafolex login <instance>' first.")
	case errors.Is(err, apperrors.ErrUnauthorized):
		return apierror.WithHint(err, "The instance rejected the stored sign-in!",
			"Run 'mafolex login --force <instance>' to sign in again.")
	case errors.Is(err, apperrors.ErrRateLimit):
		return apierror.WithHint(err, "Rate limited by the instance!", "Wait a few minutes and try again.")
	case errors.Is(err, apperrors.ErrInvalidInstance):
		return apierror.WithHint(err, "Invalid instance!", "Give the instance's domain name, like mastodon.social.")
	case errors.Is(err, apperrors.ErrInvalidCode):
		return apierror.WithHint(err, "Incorrect code!", "")
	}
	return err
}

// printError writes err as "<summary> <hint> <cause>", or "Error: <err>"
// when err carries no summary.
func printError(w io.Writer, err error) {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(w, "Interrupted.")
		return
	}
	userErr, ok := apierror.AsUserError(err)
	if !ok {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	line := summaryStyle.Render(userErr.Summary)
	if userErr.Hint != "" {
		line += " " + hintStyle.Render(userErr.Hint)
	}
	if userErr.Err != nil {
		line += " " + causeStyle.Render(userErr.Err.Error())
	}
	fmt.Fprintln(w, line)
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	// An incorrect code is a typo, not a credentials problem.
	if errors.Is(err, apperrors.ErrInvalidCode) {
		return 1
	}

	if errors.Is(err, apperrors.ErrNotLoggedIn) ||
		errors.Is(err, apperrors.ErrNotConfigured) ||
		errors.Is(err, apperrors.ErrUnauthorized) ||
		errors.Is(err, apperrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, apperrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
