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

import "github.com/charmbracelet/bubbles/key"

// windowKeys are the main window's actions, the terminal stand-in for its
// File and Help menus.
type windowKeys struct {
	SignIn         key.Binding
	SignInAgain    key.Binding
	ChangeInstance key.Binding
	Refresh        key.Binding
	Save           key.Binding
	Toggle         key.Binding
	About          key.Binding
	Quit           key.Binding
}

func (k windowKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Save, k.Toggle, k.SignInAgain, k.ChangeInstance, k.About, k.Quit}
}

func (k windowKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SignIn, k.SignInAgain, k.ChangeInstance},
		{k.Refresh, k.Save, k.Toggle},
		{k.About, k.Quit},
	}
}

func newWindowKeys() windowKeys {
	return windowKeys{
		SignIn: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "sign in"),
		),
		SignInAgain: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "sign in again"),
		),
		ChangeInstance: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "change instance"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r", "refresh"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s", "s"),
			key.WithHelp("ctrl+s", "save list"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "followers/following"),
		),
		About: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "about"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q", "q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// dialogKeys apply while an input dialog is open.
type dialogKeys struct {
	Accept key.Binding
	Cancel key.Binding
	Copy   key.Binding
}

func (k dialogKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Accept, k.Cancel, k.Copy}
}

func (k dialogKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newDialogKeys() dialogKeys {
	return dialogKeys{
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "ok"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy sign-in link"),
			key.WithDisabled(),
		),
	}
}

// wizardKeys drive the wizard pages.
type wizardKeys struct {
	Next key.Binding
	Back key.Binding
	Up   key.Binding
	Down key.Binding
	Copy key.Binding
	Quit key.Binding
}

func (k wizardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Back, k.Up, k.Down, k.Copy, k.Quit}
}

func (k wizardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newWizardKeys() wizardKeys {
	return wizardKeys{
		Next: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "next"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy sign-in link"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
