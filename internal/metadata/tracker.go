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

// Package metadata records statistics about an export: how many users were
// written, how many follow back, how many API pages it took, and how the
// count compares with the previous export of the same list.
//
// Metadata is saved as JSON files in a directory of the user's choosing,
// one file per export, so external tools can chart follower counts over time.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirseerhq/mafolex/internal/mastodon"
)

// Tracker collects statistics during an export. Create one at the start of
// each export. It is safe for concurrent use, so Progress can be handed to
// a background fetch.
type Tracker struct {
	mu        sync.Mutex
	startTime time.Time
	progress  mastodon.Progress
	stats     userStats
}

type userStats struct {
	total     int
	mutuals   int
	withNotes int
}

// New creates a new tracker and initializes it with the current time.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// Progress records the latest fetch progress. Its signature matches
// mastodon.ProgressFunc.
func (t *Tracker) Progress(p mastodon.Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress = p
}

// AddUser updates the running statistics with one exported user.
func (t *Tracker) AddUser(u mastodon.User) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.total++
	if u.Mutual {
		t.stats.mutuals++
	}
	if u.Note != "" {
		t.stats.withNotes++
	}
}

// GenerateMetadata creates the record for a completed export. previous may
// be nil.
func (t *Tracker) GenerateMetadata(appVersion string, params ExportParams, previous *ExportMetadata) *ExportMetadata {
	t.mu.Lock()
	defer t.mu.Unlock()

	completedAt := time.Now()

	md := &ExportMetadata{
		Version:  appVersion,
		ExportID: fmt.Sprintf("%s-%d", params.Relation, t.startTime.Unix()),
		Instance: params.Instance,
		Account:  params.Account,
		Relation: params.Relation,
		Mode:     params.Mode,
		Output:   params.Output,
		Results: ExportResults{
			Mutuals:   t.stats.mutuals,
			WithNotes: t.stats.withNotes,
			Pages:     t.progress.Pages,
			Batches:   t.progress.Batches,
			Duration:  completedAt.Sub(t.startTime).String(),
		},
		TotalUsers:  t.stats.total,
		StartedAt:   t.startTime,
		CompletedAt: completedAt,
	}

	if previous != nil {
		md.PreviousExport = &ExportRef{
			ExportID:    previous.ExportID,
			TotalUsers:  previous.TotalUsers,
			CompletedAt: previous.CompletedAt,
		}
		change := t.stats.total - previous.TotalUsers
		md.Results.ChangeSinceLast = &change
	}

	return md
}

// SaveMetadata writes md to dir as export-metadata-{unix start}.json. The
// file is written to a temporary name and renamed into place.
func SaveMetadata(md *ExportMetadata, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create metadata directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("export-metadata-%d.json", md.StartedAt.Unix()))

	tmpFile := filename + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata file: %w", err)
	}

	if err := WriteMetadataToWriter(md, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, filename); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to save metadata file: %w", err)
	}

	return filename, nil
}

// LoadLatestMetadata returns the most recent export of relation on instance
// recorded in dir, or nil when there is none.
func LoadLatestMetadata(dir, instance, relation string) (*ExportMetadata, error) {
	files, err := filepath.Glob(filepath.Join(dir, "export-metadata-*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata files: %w", err)
	}

	var latest *ExportMetadata
	for _, file := range files {
		md, err := readMetadata(file)
		if err != nil {
			// Unreadable files from other tools or older versions are skipped.
			continue
		}
		if md.Instance != instance || md.Relation != relation {
			continue
		}
		if latest == nil || md.CompletedAt.After(latest.CompletedAt) {
			latest = md
		}
	}

	return latest, nil
}

func readMetadata(path string) (*ExportMetadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var md ExportMetadata
	if err := json.NewDecoder(file).Decode(&md); err != nil {
		return nil, err
	}
	return &md, nil
}

// WriteMetadataToWriter serializes metadata as indented JSON.
func WriteMetadataToWriter(md *ExportMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(md)
}
