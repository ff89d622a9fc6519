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

package metadata

import (
	"time"
)

// ExportMetadata is the record written next to an export. It captures what
// was exported, from where, and how long it took.
type ExportMetadata struct {
	Version        string        `json:"version"`
	ExportID       string        `json:"export_id"`
	Instance       string        `json:"instance"`
	Account        string        `json:"account"`
	Relation       string        `json:"relation"`
	Mode           string        `json:"mode"`
	Output         string        `json:"output,omitempty"`
	Results        ExportResults `json:"results"`
	TotalUsers     int           `json:"total_users"`
	StartedAt      time.Time     `json:"started_at"`
	CompletedAt    time.Time     `json:"completed_at"`
	PreviousExport *ExportRef    `json:"previous_export,omitempty"`
}

// ExportParams describes the export being tracked.
type ExportParams struct {
	Instance string
	Account  string
	Relation string
	Mode     string
	Output   string
}

// ExportResults holds the counters gathered while exporting.
type ExportResults struct {
	Mutuals         int    `json:"mutual_users"`
	WithNotes       int    `json:"users_with_notes"`
	Pages           int    `json:"api_pages"`
	Batches         int    `json:"relationship_batches"`
	Duration        string `json:"export_duration"`
	ChangeSinceLast *int   `json:"change_since_previous,omitempty"`
}

// ExportRef points at an earlier export of the same list.
type ExportRef struct {
	ExportID    string    `json:"export_id"`
	TotalUsers  int       `json:"total_users"`
	CompletedAt time.Time `json:"completed_at"`
}
