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
	"strings"

	"github.com/sirseerhq/mafolex/internal/mastodon"
)

// RecordWriter defines the interface for writing exported users.
type RecordWriter interface {
	// Write writes a single user to the output.
	Write(user mastodon.User) error

	// Close flushes buffered output and releases any resources.
	// This should be called when all writing is complete.
	Close() error
}

// Mode selects the output format.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeFancy Mode = "fancy"
	ModeCSV   Mode = "csv"
	ModeJSON  Mode = "json"
)

// Modes lists every accepted mode, for help text and validation.
var Modes = []Mode{ModeAuto, ModeFancy, ModeCSV, ModeJSON}

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid output mode %q, expected one of auto, fancy, csv, json", s)
}

// Resolve replaces ModeAuto with a concrete mode: a table when a person is
// reading the output, CSV otherwise.
func (m Mode) Resolve(interactive bool) Mode {
	if m != ModeAuto {
		return m
	}
	if interactive {
		return ModeFancy
	}
	return ModeCSV
}

func (m Mode) String() string {
	return string(m)
}
