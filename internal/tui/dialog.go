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
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sirseerhq/mafolex/internal/validate"
)

// inputDialog is a single-line prompt whose validator can reject keystrokes
// outright (Invalid) or just hold back the OK key (Intermediate).
type inputDialog struct {
	title       string
	description string
	input       textinput.Model
	check       func(string) validate.State
	fixup       func(string) string
	link        string
	err         string
}

func newInputDialog(title, description, value string, check func(string) validate.State, fixup func(string) string) inputDialog {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 1024
	ti.Width = 64
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	return inputDialog{
		title:       title,
		description: description,
		input:       ti,
		check:       check,
		fixup:       fixup,
	}
}

func instanceDialog(previous string) inputDialog {
	return newInputDialog(
		"Choose instance",
		"Enter the domain name of the Mastodon instance on which you have an account.",
		previous,
		validate.Domain,
		validate.FixupDomain,
	)
}

func codeDialog(link string) inputDialog {
	d := newInputDialog(
		"Enter code",
		"Sign in to the instance in the browser window that just opened, then enter the code here.",
		"",
		validate.Code,
		strings.TrimSpace,
	)
	d.input.Placeholder = "authorization code"
	d.link = link
	return d
}

func saveDialog(path string) inputDialog {
	return newInputDialog(
		"Save list",
		"Enter a path at which to save the exported list.",
		path,
		nonEmpty,
		strings.TrimSpace,
	)
}

func nonEmpty(text string) validate.State {
	if strings.TrimSpace(text) == "" {
		return validate.Intermediate
	}
	return validate.Acceptable
}

// Update forwards msg to the text input, undoing any edit that leaves the
// text Invalid.
func (d inputDialog) Update(msg tea.Msg) (inputDialog, tea.Cmd) {
	before := d.input.Value()
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	if d.check != nil && d.check(d.input.Value()) == validate.Invalid {
		d.input.SetValue(before)
	}
	if d.input.Value() != before {
		d.err = ""
	}
	return d, cmd
}

// Value returns the fixed-up text.
func (d inputDialog) Value() string {
	v := d.input.Value()
	if d.fixup != nil {
		v = d.fixup(v)
	}
	return v
}

// Acceptable reports whether the fixed-up text passes the validator.
func (d inputDialog) Acceptable() bool {
	if d.check == nil {
		return true
	}
	return d.check(d.Value()) == validate.Acceptable
}

func (d inputDialog) View(s Styles) string {
	var b strings.Builder
	b.WriteString(s.Subtitle.Render(d.title))
	b.WriteString("\n\n")
	b.WriteString(s.Body.Render(d.description))
	b.WriteString("\n")
	if d.link != "" {
		b.WriteString("\n")
		b.WriteString(s.Link.Render(d.link))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(d.input.View())
	if d.err != "" {
		b.WriteString("\n")
		b.WriteString(s.Error.Render(d.err))
	}
	return s.Dialog.Render(b.String())
}

// pageView lays out a titled page with an optional error box and help line.
func pageView(s Styles, title, body, errText, help string) string {
	parts := []string{s.Title.Render(title), body}
	if errText != "" {
		parts = append(parts, s.Error.Render(errText))
	}
	if help != "" {
		parts = append(parts, s.Help.Render(help))
	}
	return s.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
