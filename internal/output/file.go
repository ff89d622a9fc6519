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
	"os"
	"path/filepath"
	"time"
)

// DefaultFileName returns the suggested export name for now, e.g.
// followers_2024-03-01_14-05-09.csv.
func DefaultFileName(now time.Time) string {
	return "followers_" + now.Format("2006-01-02_15-04-05") + ".csv"
}

// AtomicFile is a file that only appears at its final path once Commit
// succeeds. Writes go to a temporary file in the same directory.
type AtomicFile struct {
	*os.File
	path string
	done bool
}

// CreateAtomic creates the temporary file backing path.
func CreateAtomic(path string) (*AtomicFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &AtomicFile{File: file, path: path}, nil
}

// Path returns the final path.
func (f *AtomicFile) Path() string {
	return f.path
}

// Commit syncs the temporary file and renames it into place.
func (f *AtomicFile) Commit() error {
	if f.done {
		return nil
	}
	f.done = true
	tempFile := f.File.Name()

	if err := f.File.Sync(); err != nil {
		_ = f.File.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync output file: %w", err)
	}
	if err := f.File.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Chmod(tempFile, 0o644); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to set output file permissions: %w", err)
	}
	if err := os.Rename(tempFile, f.path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename output file: %w", err)
	}
	return nil
}

// Abort discards the temporary file. It is a no-op after Commit.
func (f *AtomicFile) Abort() error {
	if f.done {
		return nil
	}
	f.done = true
	_ = f.File.Close()
	return os.Remove(f.File.Name())
}
