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

package testutil

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// UserFields is the column order of every exported user record.
var UserFields = []string{"username", "display_name", "note", "url", "mutual"}

// ReadCSV parses a CSV export into its rows, header included when present.
func ReadCSV(t *testing.T, filePath string) [][]string {
	t.Helper()

	file, err := os.Open(filePath)
	if err != nil {
		t.Fatalf("Failed to open output file: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Invalid CSV in %s: %v", filePath, err)
	}
	return rows
}

// AssertCSVOutput validates a CSV export: header row and record count.
func AssertCSVOutput(t *testing.T, filePath string, header bool, expectedUsers int) {
	t.Helper()

	rows := ReadCSV(t, filePath)
	if header {
		if len(rows) == 0 {
			t.Fatal("Expected header row, file is empty")
		}
		if strings.Join(rows[0], ",") != strings.Join(UserFields, ",") {
			t.Errorf("Header = %v, want %v", rows[0], UserFields)
		}
		rows = rows[1:]
	}

	for i, row := range rows {
		if len(row) != len(UserFields) {
			t.Errorf("Row %d: got %d fields, want %d", i+1, len(row), len(UserFields))
		}
	}

	if len(rows) != expectedUsers {
		t.Errorf("Expected %d users, got %d", expectedUsers, len(rows))
	}
}

// AssertNDJSONOutput validates that a file contains valid NDJSON with expected user count
func AssertNDJSONOutput(t *testing.T, filePath string, expectedUsers int) {
	t.Helper()

	file, err := os.Open(filePath)
	if err != nil {
		t.Fatalf("Failed to open output file: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	count := 0

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var user map[string]interface{}
		if err := json.Unmarshal([]byte(line), &user); err != nil {
			t.Errorf("Line %d: invalid JSON: %v", count+1, err)
			continue
		}

		for _, field := range UserFields {
			if _, ok := user[field]; !ok {
				t.Errorf("Line %d: missing required field '%s'", count+1, field)
			}
		}

		count++
	}

	if err := scanner.Err(); err != nil {
		t.Fatalf("Error reading file: %v", err)
	}

	if count != expectedUsers {
		t.Errorf("Expected %d users, got %d", expectedUsers, count)
	}
}

// AssertMetadataFile validates the export metadata file in dir and returns its contents.
func AssertMetadataFile(t *testing.T, dir string) map[string]interface{} {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, "export-metadata-*.json"))
	if err != nil {
		t.Fatalf("Failed to glob metadata files: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("No metadata file found")
	}

	var metadata map[string]interface{}
	ReadJSON(t, matches[0], &metadata)

	requiredFields := []string{"version", "instance", "account", "relation", "started_at", "completed_at", "total_users"}
	for _, field := range requiredFields {
		if _, ok := metadata[field]; !ok {
			t.Errorf("Missing required metadata field: %s", field)
		}
	}
	return metadata
}

// AssertContainsString checks if a string contains a substring
func AssertContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected string to contain %q, got: %s", needle, haystack)
	}
}

// AssertNotContainsString checks if a string does not contain a substring
func AssertNotContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Errorf("Expected string to NOT contain %q, got: %s", needle, haystack)
	}
}

// AssertErrorContains checks if an error contains expected text
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), expected) {
		t.Errorf("Expected error to contain %q, got: %v", expected, err)
	}
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}
