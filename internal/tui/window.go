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
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/sirseerhq/mafolex/internal/mastodon"
	"github.com/sirseerhq/mafolex/internal/output"
)

type dialogKind int

const (
	dialogNone dialogKind = iota
	dialogInstance
	dialogCode
	dialogSave
	dialogAbout
)

const (
	maxColumnWidth = 48
	// rows taken by the title, status line and help
	windowChrome = 8
)

// Window is the main screen: the followers table plus the sign-in, refresh
// and save actions.
type Window struct {
	ctx     context.Context
	opts    Options
	styles  Styles
	keys    windowKeys
	dlgKeys dialogKeys
	help    help.Model
	spinner spinner.Model
	table   table.Model

	width  int
	height int

	// rel is the relation shown; want is the one the next fetch asks for.
	rel    mastodon.Relation
	want   mastodon.Relation
	user   string
	users  []mastodon.User
	loaded bool

	dialog  dialogKind
	input   inputDialog
	force   bool
	authURL string

	busy   bool
	status string
	err    string
}

// NewWindow creates the main window. When the backend already holds a
// token the list is fetched on Init.
func NewWindow(ctx context.Context, opts Options) *Window {
	opts = opts.withDefaults()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	t := table.New(
		table.WithColumns(columnsFor(nil, 0)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())
	return &Window{
		ctx:     ctx,
		opts:    opts,
		styles:  DefaultStyles(),
		keys:    newWindowKeys(),
		dlgKeys: newDialogKeys(),
		help:    help.New(),
		spinner: sp,
		table:   t,
		rel:     mastodon.Followers,
		want:    mastodon.Followers,
	}
}

// Relation returns the list currently shown.
func (w *Window) Relation() mastodon.Relation { return w.rel }

// Users returns the rows currently shown.
func (w *Window) Users() []mastodon.User { return w.users }

func (w *Window) Init() tea.Cmd {
	if w.opts.Backend.Authed() {
		return w.fetch()
	}
	return nil
}

func (w *Window) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width, w.height = msg.Width, msg.Height
		w.help.Width = msg.Width
		w.table.SetHeight(max(msg.Height-windowChrome, 3))
		w.table.SetWidth(msg.Width - 4)
		return w, nil

	case spinner.TickMsg:
		if !w.busy {
			return w, nil
		}
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd

	case tea.KeyMsg:
		if w.dialog != dialogNone {
			return w.handleDialogKey(msg)
		}
		return w.handleKey(msg)

	case authCheckedMsg:
		w.busy = false
		w.status = ""
		if msg.ok {
			return w, w.fetch()
		}
		return w, w.promptCode()

	case instanceSetMsg:
		w.busy = false
		w.status = ""
		if msg.err != nil {
			w.input.err = describeError(msg.err)
			w.opts.Logger.WithError(msg.err).Warn("setting instance failed")
			return w, nil
		}
		w.closeDialog()
		if w.force {
			return w, w.promptCode()
		}
		return w, w.checkAuth()

	case authURLMsg:
		if msg.err != nil {
			w.closeDialog()
			w.fail(msg.err)
			return w, nil
		}
		w.authURL = msg.url
		w.input.link = msg.url
		return w, nil

	case authenticatedMsg:
		w.busy = false
		w.status = ""
		if msg.err != nil {
			w.input.err = describeError(msg.err)
			w.opts.Logger.WithError(msg.err).Warn("sign-in failed")
			return w, nil
		}
		w.closeDialog()
		w.force = false
		return w, w.fetch()

	case usersFetchedMsg:
		w.busy = false
		if msg.err != nil {
			w.status = ""
			if w.loaded {
				w.want = w.rel
			}
			w.fail(msg.err)
			return w, nil
		}
		w.setUsers(msg.rel, msg.user, msg.users)
		return w, nil

	case savedMsg:
		w.busy = false
		if msg.err != nil {
			w.status = ""
			w.input.err = describeError(msg.err)
			w.opts.Logger.WithError(msg.err).Warn("saving list failed")
			return w, nil
		}
		w.closeDialog()
		w.status = fmt.Sprintf("Saved %d accounts to %s", msg.count, msg.path)
		return w, nil

	case copiedMsg:
		if msg.err != nil {
			w.input.err = "Could not copy the link to the clipboard."
		}
		return w, nil
	}

	if w.dialog == dialogInstance || w.dialog == dialogCode || w.dialog == dialogSave {
		var cmd tea.Cmd
		w.input, cmd = w.input.Update(msg)
		return w, cmd
	}
	var cmd tea.Cmd
	w.table, cmd = w.table.Update(msg)
	return w, cmd
}

func (w *Window) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, w.keys.Quit) {
		return w, tea.Quit
	}
	if w.busy {
		return w, nil
	}
	w.err = ""

	switch {
	case key.Matches(msg, w.keys.About):
		w.dialog = dialogAbout
		return w, nil
	case key.Matches(msg, w.keys.SignInAgain):
		return w, w.signIn(true)
	case key.Matches(msg, w.keys.ChangeInstance):
		w.force = false
		return w, w.promptInstance()
	case key.Matches(msg, w.keys.Refresh):
		return w, w.signIn(false)
	case key.Matches(msg, w.keys.Toggle):
		if w.want == mastodon.Followers {
			w.want = mastodon.Following
		} else {
			w.want = mastodon.Followers
		}
		if w.loaded {
			return w, w.fetch()
		}
		return w, nil
	case key.Matches(msg, w.keys.Save):
		if !w.loaded {
			w.err = "Sign in and load the list before saving it."
			return w, nil
		}
		w.input = saveDialog(filepath.Join(w.opts.DocumentsDir, "followers.csv"))
		w.dialog = dialogSave
		return w, nil
	case key.Matches(msg, w.keys.SignIn):
		if !w.loaded {
			return w, w.signIn(false)
		}
	}

	var cmd tea.Cmd
	w.table, cmd = w.table.Update(msg)
	return w, cmd
}

func (w *Window) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return w, tea.Quit
	}
	if w.dialog == dialogAbout {
		w.dialog = dialogNone
		return w, nil
	}
	if w.busy {
		return w, nil
	}

	switch {
	case key.Matches(msg, w.dlgKeys.Cancel):
		w.closeDialog()
		w.force = false
		return w, nil

	case key.Matches(msg, w.dlgKeys.Copy):
		if w.authURL != "" {
			return w, copyCmd(w.opts.CopyText, w.authURL)
		}
		return w, nil

	case key.Matches(msg, w.dlgKeys.Accept):
		if !w.input.Acceptable() {
			return w, nil
		}
		value := w.input.Value()
		switch w.dialog {
		case dialogInstance:
			return w, w.run("Connecting to "+value, setInstanceCmd(w.ctx, w.opts.Backend, value))
		case dialogCode:
			return w, w.run("Signing in", authenticateCmd(w.ctx, w.opts.Backend, value))
		case dialogSave:
			path := expandHome(value, w.opts.HomeDir)
			return w, w.run("Saving list", saveCmd(path, w.users))
		}
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

// signIn asks for whatever is missing before fetching: the instance when
// none is stored (or when forced), then the code when the stored token no
// longer works.
func (w *Window) signIn(force bool) tea.Cmd {
	w.force = force
	domain, err := w.opts.Backend.InstanceDomain()
	if err != nil {
		w.opts.Logger.WithError(err).Debug("reading instance failed")
	}
	if force || domain == "" {
		return w.promptInstance()
	}
	return w.checkAuth()
}

func (w *Window) checkAuth() tea.Cmd {
	return w.run("Checking sign-in", checkAuthCmd(w.ctx, w.opts.Backend))
}

func (w *Window) promptInstance() tea.Cmd {
	previous, _ := w.opts.Backend.InstanceDomain()
	w.input = instanceDialog(previous)
	w.dialog = dialogInstance
	w.dlgKeys.Copy.SetEnabled(false)
	return nil
}

func (w *Window) promptCode() tea.Cmd {
	w.authURL = ""
	w.input = codeDialog("")
	w.dialog = dialogCode
	w.dlgKeys.Copy.SetEnabled(true)
	return authURLCmd(w.opts.Backend, w.opts.OpenURL, w.opts.Logger)
}

func (w *Window) closeDialog() {
	w.dialog = dialogNone
	w.dlgKeys.Copy.SetEnabled(false)
}

func (w *Window) fetch() tea.Cmd {
	return w.run(fmt.Sprintf("Fetching %s list", w.want), fetchUsersCmd(w.ctx, w.opts.Backend, w.want))
}

func (w *Window) run(status string, cmd tea.Cmd) tea.Cmd {
	w.busy = true
	w.status = status
	return tea.Batch(cmd, w.spinner.Tick)
}

func (w *Window) fail(err error) {
	w.err = describeError(err)
	w.opts.Logger.WithError(err).Warn("request failed")
}

func (w *Window) setUsers(rel mastodon.Relation, user string, users []mastodon.User) {
	w.rel = rel
	w.want = rel
	w.user = user
	w.users = users
	w.loaded = true
	w.status = fmt.Sprintf("%d accounts", len(users))

	rows := make([]table.Row, 0, len(users))
	for _, u := range users {
		rows = append(rows, rowFor(u))
	}
	// Columns first so rows never exceed the column count.
	w.table.SetRows(nil)
	w.table.SetColumns(columnsFor(rows, w.width))
	w.table.SetRows(rows)
	w.table.GotoTop()
}

func rowFor(u mastodon.User) table.Row {
	mutual := "No"
	if u.Mutual {
		mutual = "Yes"
	}
	note := strings.Join(strings.Fields(u.Note), " ")
	return table.Row{u.Username, u.DisplayName, note, u.URL, mutual}
}

// columnsFor sizes each column to its widest cell, capped, and shrinks the
// note column when the total would not fit in width.
func columnsFor(rows []table.Row, width int) []table.Column {
	cols := make([]table.Column, len(mastodon.Columns))
	for i, c := range mastodon.Columns {
		cols[i] = table.Column{Title: c.Title, Width: runewidth.StringWidth(c.Title)}
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := min(runewidth.StringWidth(cell), maxColumnWidth); n > cols[i].Width {
				cols[i].Width = n
			}
		}
	}
	if width <= 0 {
		return cols
	}
	total := 0
	for _, c := range cols {
		total += c.Width + 2
	}
	const noteCol = 2
	if over := total - (width - 4); over > 0 {
		cols[noteCol].Width = max(cols[noteCol].Width-over, runewidth.StringWidth(cols[noteCol].Title))
	}
	return cols
}

func (w *Window) title() string {
	if w.loaded && w.user != "" {
		return "mafolex · " + output.Title(w.rel, w.user)
	}
	return "mafolex"
}

func (w *Window) View() string {
	s := w.styles
	var body string

	switch {
	case w.dialog == dialogAbout:
		body = s.Dialog.Render(s.Subtitle.Render("About") + "\n\n" +
			fmt.Sprintf("mafolex %s\n\nExport the followers of your Mastodon account.", w.opts.Version) +
			"\n\n" + s.Help.Render("press any key to close"))
	case w.dialog != dialogNone:
		body = w.input.View(s)
	case !w.loaded:
		body = lipgloss.JoinVertical(lipgloss.Left,
			s.Body.Render("This is where you'll see your followers. You'll need to sign in to your Mastodon instance first."),
			"",
			s.ButtonFocus.Render("Sign in"),
		)
	default:
		body = w.table.View()
	}

	if w.status != "" {
		line := s.Status.Render(w.status)
		if w.busy {
			line = lipgloss.JoinHorizontal(lipgloss.Top, w.spinner.View(), " ", line)
		}
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", line)
	}

	var helpView string
	if w.dialog == dialogNone {
		keys := w.keys
		keys.SignIn.SetEnabled(!w.loaded)
		helpView = w.help.View(keys)
	} else if w.dialog != dialogAbout {
		helpView = w.help.View(w.dlgKeys)
	}
	return pageView(s, w.title(), body, w.err, helpView)
}
