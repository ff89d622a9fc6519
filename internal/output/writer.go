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
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/sirseerhq/mafolex/internal/mastodon"
)

// JSONWriter writes users as newline-delimited JSON. It is safe for
// concurrent use.
type JSONWriter struct {
	mu      sync.Mutex
	output  io.Writer
	encoder *json.Encoder
	count   int
}

// NewJSONWriter creates a new NDJSON writer that writes to the specified output.
func NewJSONWriter(w io.Writer) *JSONWriter {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	return &JSONWriter{
		output:  w,
		encoder: encoder,
	}
}

// Write writes a single user as one JSON line.
func (w *JSONWriter) Write(user mastodon.User) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(user); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	w.count++
	return nil
}

// Count returns the number of records written.
func (w *JSONWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close implements RecordWriter. Every record is written through on Write,
// so there is nothing to flush; the destination belongs to the caller.
func (w *JSONWriter) Close() error {
	return nil
}
