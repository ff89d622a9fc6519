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

// Package tui implements the two interactive front ends: a step-by-step
// export wizard and a main window listing the signed-in account's
// followers. Both run on bubbletea and drive the same Backend as the CLI.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cli/browser"
	"github.com/sirupsen/logrus"

	apperrors "github.com/sirseerhq/mafolex/internal/errors"
	"github.com/sirseerhq/mafolex/internal/mastodon"
	"github.com/sirseerhq/mafolex/internal/output"
)

// Backend is the sign-in and listing core. *session.Session implements it.
type Backend interface {
	InstanceDomain() (string, error)
	SetInstance(ctx context.Context, domain string) error
	Authed() bool
	CheckAuth(ctx context.Context) bool
	AuthURL() (string, error)
	Authenticate(ctx context.Context, code string) error
	CurrentUser(ctx context.Context) (string, error)
	Users(ctx context.Context, rel mastodon.Relation, progress mastodon.ProgressFunc) ([]mastodon.User, error)
}

// Options configures the wizard and the main window.
type Options struct {
	Backend Backend
	Logger  logrus.FieldLogger
	Version string

	// OpenURL opens a link in the user's browser. Defaults to browser.OpenURL.
	OpenURL func(url string) error
	// CopyText puts text on the system clipboard. Defaults to clipboard.WriteAll.
	CopyText func(text string) error
	// Now defaults to time.Now.
	Now func() time.Time
	// HomeDir and DocumentsDir seed the default save paths.
	HomeDir      string
	DocumentsDir string
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	if o.Version == "" {
		o.Version = "dev"
	}
	if o.OpenURL == nil {
		o.OpenURL = browser.OpenURL
	}
	if o.CopyText == nil {
		o.CopyText = clipboard.WriteAll
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.HomeDir == "" {
		o.HomeDir, _ = os.UserHomeDir()
	}
	if o.DocumentsDir == "" {
		o.DocumentsDir = documentsDir(o.HomeDir)
	}
	return o
}

// documentsDir returns XDG_DOCUMENTS_DIR, ~/Documents if it exists, or home.
func documentsDir(home string) string {
	if dir := os.Getenv("XDG_DOCUMENTS_DIR"); dir != "" {
		return dir
	}
	dir := filepath.Join(home, "Documents")
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return home
}

// expandHome replaces a leading ~ in path with home.
func expandHome(path, home string) string {
	path = strings.TrimSpace(path)
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// Messages returned by the background commands below.
type (
	authCheckedMsg struct {
		ok   bool
		user string
	}
	instanceSetMsg struct {
		domain string
		err    error
	}
	authURLMsg struct {
		url string
		err error
	}
	authenticatedMsg struct {
		err error
	}
	usersFetchedMsg struct {
		rel   mastodon.Relation
		user  string
		users []mastodon.User
		err   error
	}
	savedMsg struct {
		path  string
		count int
		err   error
	}
	copiedMsg struct {
		err error
	}
)

func checkAuthCmd(ctx context.Context, b Backend) tea.Cmd {
	return func() tea.Msg {
		if !b.CheckAuth(ctx) {
			return authCheckedMsg{}
		}
		user, err := b.CurrentUser(ctx)
		if err != nil {
			return authCheckedMsg{}
		}
		return authCheckedMsg{ok: true, user: user}
	}
}

func setInstanceCmd(ctx context.Context, b Backend, domain string) tea.Cmd {
	return func() tea.Msg {
		err := b.SetInstance(ctx, domain)
		return instanceSetMsg{domain: domain, err: err}
	}
}

// authURLCmd fetches the sign-in link and opens it in the browser. A browser
// that fails to start is not an error; the link is shown on screen anyway.
func authURLCmd(b Backend, openURL func(string) error, log logrus.FieldLogger) tea.Cmd {
	return func() tea.Msg {
		url, err := b.AuthURL()
		if err != nil {
			return authURLMsg{err: err}
		}
		if err := openURL(url); err != nil {
			log.WithError(err).Debug("could not open browser")
		}
		return authURLMsg{url: url}
	}
}

func authenticateCmd(ctx context.Context, b Backend, code string) tea.Cmd {
	return func() tea.Msg {
		return authenticatedMsg{err: b.Authenticate(ctx, code)}
	}
}

func fetchUsersCmd(ctx context.Context, b Backend, rel mastodon.Relation) tea.Cmd {
	return func() tea.Msg {
		user, err := b.CurrentUser(ctx)
		if err != nil {
			return usersFetchedMsg{rel: rel, err: err}
		}
		users, err := b.Users(ctx, rel, nil)
		return usersFetchedMsg{rel: rel, user: user, users: users, err: err}
	}
}

// exportCmd fetches the list and writes it as CSV to path in one step.
func exportCmd(ctx context.Context, b Backend, rel mastodon.Relation, path string) tea.Cmd {
	return func() tea.Msg {
		users, err := b.Users(ctx, rel, nil)
		if err != nil {
			return savedMsg{path: path, err: err}
		}
		return saveUsers(path, users)
	}
}

func saveCmd(path string, users []mastodon.User) tea.Cmd {
	return func() tea.Msg {
		return saveUsers(path, users)
	}
}

func saveUsers(path string, users []mastodon.User) savedMsg {
	w, err := output.New(output.Options{
		Mode:   output.ModeCSV,
		Path:   path,
		Header: true,
	})
	if err != nil {
		return savedMsg{path: path, err: err}
	}
	if err := output.WriteAll(w, users); err != nil {
		return savedMsg{path: path, err: err}
	}
	return savedMsg{path: path, count: len(users)}
}

func copyCmd(copyText func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: copyText(text)}
	}
}

// describeError turns a backend error into the text shown in the error box.
func describeError(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCode):
		return "Incorrect code!"
	case errors.Is(err, apperrors.ErrInvalidInstance):
		return "That doesn't look like a domain name."
	case errors.Is(err, apperrors.ErrNetworkFailure):
		return "Error communicating with the server!\nMake sure that's the address of a server compatible with the Mastodon API."
	case errors.Is(err, apperrors.ErrUnauthorized):
		return "The instance rejected the saved sign-in. Sign in again."
	case errors.Is(err, apperrors.ErrRateLimit):
		return "The instance is rate limiting requests. Try again in a few minutes."
	default:
		return fmt.Sprintf("Mastodon API error\n%v", err)
	}
}
