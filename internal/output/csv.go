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
	"encoding/csv"
	"fmt"
	"io"
	"sync"

	"github.com/sirseerhq/mafolex/internal/mastodon"
)

// CSVWriter writes users as CSV rows in column order, optionally preceded
// by a header row of field names.
type CSVWriter struct {
	mu          sync.Mutex
	csv         *csv.Writer
	header      bool
	wroteHeader bool
	count       int
}

// NewCSVWriter creates a CSV writer on w.
func NewCSVWriter(w io.Writer, header bool) *CSVWriter {
	return &CSVWriter{
		csv:    csv.NewWriter(w),
		header: header,
	}
}

func (w *CSVWriter) writeHeader() error {
	if !w.header || w.wroteHeader {
		return nil
	}
	w.wroteHeader = true

	names := make([]string, len(mastodon.Columns))
	for i, c := range mastodon.Columns {
		names[i] = c.Name
	}
	if err := w.csv.Write(names); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// Write writes a single user row.
func (w *CSVWriter) Write(user mastodon.User) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writeHeader(); err != nil {
		return err
	}
	if err := w.csv.Write(user.Strings()); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	w.count++
	return nil
}

// Count returns the number of records written, header excluded.
func (w *CSVWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close writes the header if nothing has been written yet and flushes.
func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writeHeader(); err != nil {
		return err
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
