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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sirseerhq/mafolex/internal/mastodon"
	"github.com/sirseerhq/mafolex/internal/output"
)

// Page identifies a wizard step.
type Page int

const (
	PageIntro Page = iota
	PageConfirmAccount
	PageChooseInstance
	PageGiveAuthCode
	PageChooseDestination
	PageFinished
)

func (p Page) String() string {
	switch p {
	case PageIntro:
		return "Intro"
	case PageConfirmAccount:
		return "ConfirmAccount"
	case PageChooseInstance:
		return "ChooseInstance"
	case PageGiveAuthCode:
		return "GiveAuthCode"
	case PageChooseDestination:
		return "ChooseDestination"
	case PageFinished:
		return "Finished"
	default:
		return fmt.Sprintf("Page(%d)", int(p))
	}
}

const (
	choiceContinue = iota
	choiceSwitch
)

// Wizard walks the user through signing in and saving their followers to a
// CSV file.
type Wizard struct {
	ctx     context.Context
	opts    Options
	styles  Styles
	keys    wizardKeys
	help    help.Model
	spinner spinner.Model

	page    Page
	history []Page
	busy    string
	err     string

	user    string
	choice  int
	input   inputDialog
	authURL string
	copied  bool

	savedPath  string
	savedCount int
}

// NewWizard creates the wizard on its intro page.
func NewWizard(ctx context.Context, opts Options) *Wizard {
	opts = opts.withDefaults()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	w := &Wizard{
		ctx:     ctx,
		opts:    opts,
		styles:  DefaultStyles(),
		keys:    newWizardKeys(),
		help:    help.New(),
		spinner: sp,
	}
	w.updateKeys()
	return w
}

// Page returns the current page.
func (w *Wizard) Page() Page { return w.page }

// Saved returns the export destination and user count once the wizard has
// finished.
func (w *Wizard) Saved() (string, int, bool) {
	return w.savedPath, w.savedCount, w.page == PageFinished
}

func (w *Wizard) Init() tea.Cmd {
	return nil
}

func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.help.Width = msg.Width
		return w, nil

	case spinner.TickMsg:
		if w.busy == "" {
			return w, nil
		}
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd

	case tea.KeyMsg:
		return w.handleKey(msg)

	case authCheckedMsg:
		w.busy = ""
		if msg.ok {
			w.user = msg.user
			return w, w.advance(PageConfirmAccount)
		}
		return w, w.advance(PageChooseInstance)

	case instanceSetMsg:
		w.busy = ""
		if msg.err != nil {
			w.fail(msg.err)
			return w, nil
		}
		return w, w.advance(PageGiveAuthCode)

	case authURLMsg:
		w.busy = ""
		if msg.err != nil {
			w.fail(msg.err)
			return w, nil
		}
		w.authURL = msg.url
		w.input.link = msg.url
		w.updateKeys()
		return w, nil

	case authenticatedMsg:
		w.busy = ""
		if msg.err != nil {
			w.fail(msg.err)
			return w, nil
		}
		return w, w.advance(PageChooseDestination)

	case savedMsg:
		w.busy = ""
		if msg.err != nil {
			w.fail(msg.err)
			return w, nil
		}
		w.savedPath = msg.path
		w.savedCount = msg.count
		return w, w.advance(PageFinished)

	case copiedMsg:
		if msg.err != nil {
			w.err = "Could not copy the link to the clipboard."
			w.opts.Logger.WithError(msg.err).Debug("clipboard write failed")
			return w, nil
		}
		w.copied = true
		return w, nil
	}

	if w.hasInput() {
		var cmd tea.Cmd
		w.input, cmd = w.input.Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w *Wizard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, w.keys.Quit) {
		return w, tea.Quit
	}
	if w.busy != "" {
		return w, nil
	}

	switch {
	case key.Matches(msg, w.keys.Back):
		w.back()
		return w, nil

	case key.Matches(msg, w.keys.Next):
		return w, w.next()

	case key.Matches(msg, w.keys.Up), key.Matches(msg, w.keys.Down):
		if w.page == PageConfirmAccount {
			w.choice = 1 - w.choice
			return w, nil
		}

	case key.Matches(msg, w.keys.Copy):
		if w.page == PageGiveAuthCode && w.authURL != "" {
			return w, copyCmd(w.opts.CopyText, w.authURL)
		}
		return w, nil
	}

	if w.hasInput() {
		var cmd tea.Cmd
		w.input, cmd = w.input.Update(msg)
		w.err = ""
		return w, cmd
	}
	return w, nil
}

// next validates the current page and starts whatever work moves past it.
func (w *Wizard) next() tea.Cmd {
	w.err = ""
	switch w.page {
	case PageIntro:
		return w.start("Checking sign-in", checkAuthCmd(w.ctx, w.opts.Backend))

	case PageConfirmAccount:
		if w.choice == choiceContinue {
			return w.advance(PageChooseDestination)
		}
		return w.advance(PageChooseInstance)

	case PageChooseInstance:
		if !w.input.Acceptable() {
			w.err = "Enter a domain name such as mastodon.social."
			return nil
		}
		domain := w.input.Value()
		return w.start("Connecting to "+domain, setInstanceCmd(w.ctx, w.opts.Backend, domain))

	case PageGiveAuthCode:
		if !w.input.Acceptable() {
			w.err = "Paste the whole code shown by your instance."
			return nil
		}
		return w.start("Signing in", authenticateCmd(w.ctx, w.opts.Backend, w.input.Value()))

	case PageChooseDestination:
		if !w.input.Acceptable() {
			w.err = "Enter a path to save the list to."
			return nil
		}
		path := expandHome(w.input.Value(), w.opts.HomeDir)
		return w.start("Fetching followers list",
			exportCmd(w.ctx, w.opts.Backend, mastodon.Followers, path))

	case PageFinished:
		return tea.Quit
	}
	return nil
}

func (w *Wizard) start(status string, cmd tea.Cmd) tea.Cmd {
	w.busy = status
	return tea.Batch(cmd, w.spinner.Tick)
}

func (w *Wizard) fail(err error) {
	w.err = describeError(err)
	w.opts.Logger.WithError(err).WithField("page", w.page).Warn("wizard step failed")
}

// advance records the current page for Back and enters p.
func (w *Wizard) advance(p Page) tea.Cmd {
	w.history = append(w.history, w.page)
	return w.enter(p)
}

func (w *Wizard) back() {
	if len(w.history) == 0 || w.page == PageFinished {
		return
	}
	prev := w.history[len(w.history)-1]
	w.history = w.history[:len(w.history)-1]
	// Going back to GiveAuthCode keeps the link already shown instead of
	// opening the browser again.
	_ = w.enter(prev)
}

func (w *Wizard) enter(p Page) tea.Cmd {
	w.page = p
	w.err = ""
	w.copied = false
	var cmd tea.Cmd
	switch p {
	case PageConfirmAccount:
		w.choice = choiceContinue
	case PageChooseInstance:
		previous, err := w.opts.Backend.InstanceDomain()
		if err != nil {
			w.opts.Logger.WithError(err).Debug("no stored instance")
		}
		w.input = instanceDialog(previous)
	case PageGiveAuthCode:
		w.input = codeDialog(w.authURL)
		cmd = authURLCmd(w.opts.Backend, w.opts.OpenURL, w.opts.Logger)
	case PageChooseDestination:
		name := output.DefaultFileName(w.opts.Now())
		w.input = saveDialog(filepath.Join(w.opts.HomeDir, name))
	}
	w.updateKeys()
	return cmd
}

func (w *Wizard) hasInput() bool {
	switch w.page {
	case PageChooseInstance, PageGiveAuthCode, PageChooseDestination:
		return true
	}
	return false
}

func (w *Wizard) updateKeys() {
	w.keys.Back.SetEnabled(w.page != PageIntro && w.page != PageFinished)
	w.keys.Up.SetEnabled(w.page == PageConfirmAccount)
	w.keys.Down.SetEnabled(w.page == PageConfirmAccount)
	w.keys.Copy.SetEnabled(w.page == PageGiveAuthCode && w.authURL != "")
	if w.page == PageFinished {
		w.keys.Next.SetHelp("enter", "finish")
	} else {
		w.keys.Next.SetHelp("enter", "next")
	}
}

func (w *Wizard) View() string {
	return pageView(w.styles, "mafolex", w.body(), w.err, w.help.View(w.keys))
}

func (w *Wizard) body() string {
	s := w.styles
	var b strings.Builder

	switch w.page {
	case PageIntro:
		b.WriteString(s.Subtitle.Render("Welcome"))
		b.WriteString("\n\n")
		b.WriteString(s.Body.Render("This program will allow you to export a list of your Mastodon followers " +
			"that you can save to your computer. It produces a CSV (Comma-Separated Values) file listing each " +
			"follower's full username and profile URL."))
		b.WriteString("\n\n")
		b.WriteString(s.Body.Render("Press Enter to get started."))

	case PageConfirmAccount:
		b.WriteString(s.Subtitle.Render("Confirm account"))
		b.WriteString("\n\n")
		b.WriteString(s.Body.Render(fmt.Sprintf("You previously used this program while signed into the account %s. "+
			"Do you want to continue as this account, or sign in to a different account?", w.user)))
		b.WriteString("\n\n")
		for i, label := range []string{"Continue", "Sign in to a different account"} {
			if i == w.choice {
				b.WriteString(s.ChoiceFocus.Render("● " + label))
			} else {
				b.WriteString(s.Choice.Render("○ " + label))
			}
			b.WriteString("\n")
		}

	case PageChooseInstance, PageGiveAuthCode, PageChooseDestination:
		b.WriteString(w.input.View(s))
		if w.copied {
			b.WriteString("\n")
			b.WriteString(s.Success.Render("Link copied to the clipboard."))
		}

	case PageFinished:
		b.WriteString(s.Subtitle.Render("Done"))
		b.WriteString("\n\n")
		b.WriteString(s.Success.Render(fmt.Sprintf("Saved %d followers to %s.", w.savedCount, w.savedPath)))
	}

	if w.busy != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, w.spinner.View(), " ", s.Status.Render(w.busy)))
	}
	return b.String()
}
