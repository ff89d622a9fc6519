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

// Package output writes exported users. Three formats share the RecordWriter
// interface: CSV (the default for files and pipes), NDJSON, and a rendered
// table for terminals. File destinations are written to a temporary file and
// renamed into place on Close, so an interrupted export never leaves a
// truncated file behind.
//
// Example usage:
//
//	w, err := output.New(output.Options{
//	    Mode:   output.ModeCSV,
//	    Path:   "followers.csv",
//	    Header: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, u := range users {
//	    if err := w.Write(u); err != nil {
//	        log.Printf("Failed to write user: %v", err)
//	    }
//	}
//	if err := w.Close(); err != nil {
//	    log.Fatal(err)
//	}
package output
