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

	tea "github.com/charmbracelet/bubbletea"
)

// RunWizard runs the export wizard until the user finishes or quits. It
// returns the saved path and count when an export was written.
func RunWizard(ctx context.Context, opts Options) (string, int, error) {
	w := NewWizard(ctx, opts)
	if _, err := tea.NewProgram(w, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return "", 0, fmt.Errorf("wizard: %w", err)
	}
	path, count, _ := w.Saved()
	return path, count, nil
}

// RunWindow runs the main window until the user quits.
func RunWindow(ctx context.Context, opts Options) error {
	w := NewWindow(ctx, opts)
	if _, err := tea.NewProgram(w, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}
