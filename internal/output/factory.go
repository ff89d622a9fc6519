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
	"io"
	"os"

	"github.com/sirseerhq/mafolex/internal/mastodon"
)

// Options selects a writer and its destination.
type Options struct {
	// Mode must not be ModeAuto; call Resolve first.
	Mode Mode

	// Path is the destination file. Empty means Stdout.
	Path   string
	Stdout io.Writer

	Header bool

	// Title heads the fancy table.
	Title string
}

// New creates the writer for opts. When writing to a file, the file only
// appears once Close succeeds.
func New(opts Options) (RecordWriter, error) {
	if opts.Path == "" {
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		return newWriter(opts, out)
	}

	file, err := CreateAtomic(opts.Path)
	if err != nil {
		return nil, err
	}
	w, err := newWriter(opts, file)
	if err != nil {
		_ = file.Abort()
		return nil, err
	}
	return &fileWriter{RecordWriter: w, file: file}, nil
}

func newWriter(opts Options, out io.Writer) (RecordWriter, error) {
	switch opts.Mode {
	case ModeCSV:
		return NewCSVWriter(out, opts.Header), nil
	case ModeJSON:
		return NewJSONWriter(out), nil
	case ModeFancy:
		return NewTableWriter(out, opts.Title, opts.Header), nil
	default:
		return nil, fmt.Errorf("unresolved output mode %q", opts.Mode)
	}
}

// fileWriter commits the destination file when the inner writer closes
// cleanly and discards it otherwise.
type fileWriter struct {
	RecordWriter
	file *AtomicFile
}

func (w *fileWriter) Close() error {
	if err := w.RecordWriter.Close(); err != nil {
		_ = w.file.Abort()
		return err
	}
	return w.file.Commit()
}

// Abort discards the destination without committing it.
func (w *fileWriter) Abort() error {
	return w.file.Abort()
}

// Abort discards a writer's file destination, if it has one. Call it
// instead of Close when the export failed part way.
func Abort(w RecordWriter) error {
	if a, ok := w.(interface{ Abort() error }); ok {
		return a.Abort()
	}
	return nil
}

// WriteAll writes users to w and closes it. On a write error the file
// destination, if any, is discarded.
func WriteAll(w RecordWriter, users []mastodon.User) error {
	for _, u := range users {
		if err := w.Write(u); err != nil {
			_ = Abort(w)
			return err
		}
	}
	return w.Close()
}
