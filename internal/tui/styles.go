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
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Color palette
const (
	colorAccent  = "#6364FF" // Mastodon blurple
	colorMuted   = "#8C8DFF"
	colorComment = "#6C7086"
	colorGreen   = "#50FA7B"
	colorRed     = "#FF5555"
	colorText    = "#F8F8F2"
)

// Styles defines the application styles.
type Styles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Body        lipgloss.Style
	Frame       lipgloss.Style
	Error       lipgloss.Style
	Status      lipgloss.Style
	Success     lipgloss.Style
	Button      lipgloss.Style
	ButtonFocus lipgloss.Style
	Choice      lipgloss.Style
	ChoiceFocus lipgloss.Style
	Dialog      lipgloss.Style
	Link        lipgloss.Style
	Help        lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorText)).
			Background(lipgloss.Color(colorAccent)).
			Padding(0, 1).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorMuted)),
		Body: lipgloss.NewStyle().
			Width(72),
		Frame: lipgloss.NewStyle().
			Padding(1, 2),
		Error: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorRed)).
			Foreground(lipgloss.Color(colorRed)).
			Padding(0, 1).
			MarginTop(1).
			Width(70),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGreen)),
		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorText)).
			Background(lipgloss.Color(colorComment)).
			Padding(0, 2),
		ButtonFocus: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorText)).
			Background(lipgloss.Color(colorAccent)).
			Bold(true).
			Padding(0, 2),
		Choice: lipgloss.NewStyle().
			PaddingLeft(2),
		ChoiceFocus: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorAccent)).
			Bold(true),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorAccent)).
			Padding(1, 2).
			Width(76),
		Link: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted)).
			Underline(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorComment)).
			MarginTop(1),
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(colorComment)).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color(colorMuted))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(colorText)).
		Background(lipgloss.Color(colorAccent)).
		Bold(false)
	return s
}
