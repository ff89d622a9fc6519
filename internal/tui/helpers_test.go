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

package tui

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	apperrors "github.com/sirseerhq/mafolex/internal/errors"
	"github.com/sirseerhq/mafolex/internal/mastodon"
	"github.com/sirseerhq/mafolex/internal/validate"
)

const testCode = "Zk3q9v_Xb8-4mTnP2wLr7Hs1dYcE6fGaJ0uQiVoKx5B"

type fakeBackend struct {
	mu sync.Mutex

	instance string
	token    bool
	checkOK  bool
	user     string
	authURL  string
	users    []mastodon.User

	setErr   error
	authErr  error
	usersErr error

	setCalls  []string
	codes     []string
	relations []mastodon.Relation
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		user:    "@alice@mastodon.example",
		authURL: "https://mastodon.example/oauth/authorize?client_id=abc",
		users: []mastodon.User{
			{Username: "bob@other.example", DisplayName: "Bob", URL: "https://other.example/@bob", Mutual: true},
			{Username: "carol", DisplayName: "Carol", Note: "met at\nthe meetup", URL: "https://mastodon.example/@carol"},
		},
	}
}

func (f *fakeBackend) InstanceDomain() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.instance, nil
}

func (f *fakeBackend) SetInstance(_ context.Context, domain string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls = append(f.setCalls, domain)
	if f.setErr != nil {
		return f.setErr
	}
	d, err := validate.NormalizeDomain(domain)
	if err != nil {
		return err
	}
	f.instance = d
	return nil
}

func (f *fakeBackend) Authed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.instance != "" && f.token
}

func (f *fakeBackend) CheckAuth(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.instance != "" && f.token && f.checkOK
}

func (f *fakeBackend) AuthURL() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.instance == "" {
		return "", apperrors.ErrNotConfigured
	}
	return f.authURL, nil
}

func (f *fakeBackend) Authenticate(_ context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes = append(f.codes, code)
	if f.authErr != nil {
		return f.authErr
	}
	f.token = true
	f.checkOK = true
	return nil
}

func (f *fakeBackend) CurrentUser(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.token {
		return "", apperrors.ErrNotLoggedIn
	}
	return f.user, nil
}

func (f *fakeBackend) Users(_ context.Context, rel mastodon.Relation, _ mastodon.ProgressFunc) ([]mastodon.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.relations = append(f.relations, rel)
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	if !f.token {
		return nil, apperrors.ErrNotLoggedIn
	}
	return f.users, nil
}

type recorder struct {
	mu     sync.Mutex
	opened []string
	copied []string
}

func (r *recorder) open(url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = append(r.opened, url)
	return nil
}

func (r *recorder) copy(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.copied = append(r.copied, text)
	return nil
}

var fixedNow = time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

func testOptions(t *testing.T, b Backend) (Options, *recorder) {
	t.Helper()
	rec := &recorder{}
	log := logrus.New()
	log.SetOutput(io.Discard)
	home := t.TempDir()
	return Options{
		Backend:      b,
		Logger:       log,
		Version:      "1.2.3",
		OpenURL:      rec.open,
		CopyText:     rec.copy,
		Now:          func() time.Time { return fixedNow },
		HomeDir:      home,
		DocumentsDir: home,
	}, rec
}

func keyPress(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// ownMessage reports whether msg is one of the results this package's
// commands produce. Spinner ticks and cursor blinks are dropped so drain
// terminates.
func ownMessage(msg tea.Msg) bool {
	switch msg.(type) {
	case authCheckedMsg, instanceSetMsg, authURLMsg, authenticatedMsg,
		usersFetchedMsg, savedMsg, copiedMsg:
		return true
	}
	return false
}

// drain runs cmd and every command it leads to, feeding results back into
// m. It reports whether a quit was requested.
func drain(t *testing.T, m tea.Model, cmd tea.Cmd) bool {
	t.Helper()
	queue := []tea.Cmd{cmd}
	quit := false
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("drain: too many steps")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		case tea.QuitMsg:
			quit = true
			continue
		}
		if !ownMessage(msg) {
			continue
		}
		var c tea.Cmd
		_, c = m.Update(msg)
		queue = append(queue, c)
	}
	return quit
}

// press sends a key and drains the resulting commands.
func press(t *testing.T, m tea.Model, k tea.KeyMsg) bool {
	t.Helper()
	_, cmd := m.Update(k)
	return drain(t, m, cmd)
}

// typeText sends text one rune at a time, discarding cursor commands.
func typeText(m tea.Model, text string) {
	for _, r := range text {
		m.Update(runes(string(r)))
	}
}

func clearInput(m tea.Model, n int) {
	for i := 0; i < n; i++ {
		m.Update(keyPress(tea.KeyBackspace))
	}
}

var errBoom = errors.New("boom")
