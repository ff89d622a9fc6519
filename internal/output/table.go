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

package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sirseerhq/mafolex/internal/mastodon"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	yesStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	noStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Title returns the heading shown above a table of users.
func Title(rel mastodon.Relation, user string) string {
	if rel == mastodon.Following {
		return "Accounts followed by user " + user
	}
	return "Followers for user " + user
}

// TableWriter collects users and renders them as a bordered table on Close.
type TableWriter struct {
	mu     sync.Mutex
	output io.Writer
	title  string
	header bool
	rows   [][]string
}

// NewTableWriter creates a table writer. An empty title is omitted.
func NewTableWriter(w io.Writer, title string, header bool) *TableWriter {
	return &TableWriter{output: w, title: title, header: header}
}

// Write adds a user to the table.
func (w *TableWriter) Write(user mastodon.User) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	row := user.Strings()
	row[len(row)-1] = YesNo(user.Mutual)
	w.rows = append(w.rows, row)
	return nil
}

// Count returns the number of rows collected.
func (w *TableWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.rows)
}

// Close renders the table.
func (w *TableWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.title != "" {
		if _, err := fmt.Fprintln(w.output, titleStyle.Render(w.title)); err != nil {
			return fmt.Errorf("failed to write table: %w", err)
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Rows(w.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if w.header {
		titles := make([]string, len(mastodon.Columns))
		for i, c := range mastodon.Columns {
			titles[i] = c.Title
		}
		t = t.Headers(titles...)
	}

	if _, err := fmt.Fprintln(w.output, t.Render()); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

// YesNo renders a boolean as a green "yes" or a red "no".
func YesNo(b bool) string {
	if b {
		return yesStyle.Render("yes")
	}
	return noStyle.Render("no")
}
