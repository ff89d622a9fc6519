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
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirseerhq/mafolex/internal/mastodon"
)

func sampleUsers() []mastodon.User {
	return []mastodon.User{
		{Username: "bob@example.social", DisplayName: "Bob", Note: "met at the conference", URL: "https://example.social/@bob", Mutual: true},
		{Username: "carol", DisplayName: "Carol, PhD", URL: "https://mastodon.test/@carol"},
		{Username: "dave@fedi.test", Note: "line one\nline \"two\"", URL: "https://fedi.test/@dave", Mutual: true},
	}
}

func TestNewJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	writer := NewJSONWriter(&buf)

	if writer == nil {
		t.Fatal("NewJSONWriter returned nil")
	}
	if writer.output != &buf {
		t.Error("Writer output doesn't match provided buffer")
	}
	if writer.encoder == nil {
		t.Error("Writer encoder is nil")
	}
	if writer.count != 0 {
		t.Errorf("Initial count should be 0, got %d", writer.count)
	}
}

func TestJSONWriter_Write(t *testing.T) {
	tests := []struct {
		name  string
		users []mastodon.User
		want  []string
	}{
		{
			name:  "single user",
			users: sampleUsers()[:1],
			want: []string{
				`{"username":"bob@example.social","display_name":"Bob","note":"met at the conference","url":"https://example.social/@bob","mutual":true}`,
			},
		},
		{
			name:  "escaping",
			users: sampleUsers()[2:],
			want: []string{
				`{"username":"dave@fedi.test","display_name":"","note":"line one\nline \"two\"","url":"https://fedi.test/@dave","mutual":true}`,
			},
		},
		{
			name:  "empty list",
			users: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writer := NewJSONWriter(&buf)

			for _, u := range tt.users {
				if err := writer.Write(u); err != nil {
					t.Fatalf("Write failed: %v", err)
				}
			}
			if err := writer.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			if writer.Count() != len(tt.users) {
				t.Errorf("Count mismatch: got %d, want %d", writer.Count(), len(tt.users))
			}

			output := strings.TrimSpace(buf.String())
			if output == "" && len(tt.want) == 0 {
				return
			}

			lines := strings.Split(output, "\n")
			if len(lines) != len(tt.want) {
				t.Fatalf("Line count mismatch: got %d, want %d", len(lines), len(tt.want))
			}
			for i, line := range lines {
				if line != tt.want[i] {
					t.Errorf("Line %d mismatch:\ngot:  %s\nwant: %s", i, line, tt.want[i])
				}
			}
		})
	}
}

func TestJSONWriter_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	writer := NewJSONWriter(&buf)

	numGoroutines := 10
	recordsPerGoroutine := 100
	totalRecords := numGoroutines * recordsPerGoroutine

	errCh := make(chan error, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			for j := 0; j < recordsPerGoroutine; j++ {
				if err := writer.Write(sampleUsers()[0]); err != nil {
					errCh <- err
					return
				}
			}
			errCh <- nil
		}()
	}

	for i := 0; i < numGoroutines; i++ {
		if err := <-errCh; err != nil {
			t.Fatalf("Concurrent write failed: %v", err)
		}
	}

	if writer.Count() != totalRecords {
		t.Errorf("Count mismatch: got %d, want %d", writer.Count(), totalRecords)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != totalRecords {
		t.Errorf("Line count mismatch: got %d, want %d", len(lines), totalRecords)
	}
	for i, line := range lines {
		var u mastodon.User
		if err := json.Unmarshal([]byte(line), &u); err != nil {
			t.Errorf("Invalid JSON at line %d: %v", i, err)
		}
	}
}
