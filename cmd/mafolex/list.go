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

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/mafolex/internal/mastodon"
	"github.com/sirseerhq/mafolex/internal/metadata"
	"github.com/sirseerhq/mafolex/internal/output"
	"github.com/sirseerhq/mafolex/internal/version"
)

// listOptions are the list command's flags.
type listOptions struct {
	mode        string
	noHeader    bool
	outputFile  string
	following   bool
	metadataDir string
}

func newListCommand(e *env, flags *globalFlags) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the followers of the signed-in account",
		Long: `List the followers of the signed-in account, or with --following the
accounts it follows.

Output modes:
  fancy  a table, for reading in a terminal
  csv    comma-separated values with columns username, display_name, note,
         url and mutual
  json   one JSON object per line
  auto   fancy when writing to a terminal, csv otherwise (default)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.setup(flags, false)
			if err != nil {
				return err
			}
			defer a.close()

			if !cmd.Flags().Changed("mode") {
				opts.mode = a.cfg.Output.Mode
			}
			if !a.cfg.Output.Header {
				opts.noHeader = true
			}
			return runList(cmd.Context(), e, a, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "auto", "Output mode: auto, fancy, csv or json")
	cmd.Flags().BoolVarP(&opts.noHeader, "no-header", "H", false, "Remove the header line")
	cmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "Output to a file (default: stdout)")
	cmd.Flags().BoolVar(&opts.following, "following", false, "List the accounts you follow instead of your followers")
	cmd.Flags().StringVar(&opts.metadataDir, "metadata-dir", "", "Write export statistics to this directory")

	return cmd
}

// runList fetches the list and writes it in the chosen mode.
func runList(ctx context.Context, e *env, a *app, opts listOptions) error {
	mode, err := output.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	interactive := opts.outputFile == "" && e.stdoutIsTerminal()
	mode = mode.Resolve(interactive)

	rel := mastodon.Followers
	if opts.following {
		rel = mastodon.Following
	}

	sess := a.session
	user, err := sess.CurrentUser(ctx)
	if err != nil {
		return err
	}

	tracker := metadata.New()
	progress := newProgress(e, rel)
	progress.start()
	users, err := sess.Users(ctx, rel, func(p mastodon.Progress) {
		tracker.Progress(p)
		progress.update(p)
	})
	progress.stop()
	if err != nil {
		return err
	}

	writer, err := output.New(output.Options{
		Mode:   mode,
		Path:   opts.outputFile,
		Stdout: e.stdout,
		Header: !opts.noHeader,
		Title:  output.Title(rel, user),
	})
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	for _, u := range users {
		if err := writer.Write(u); err != nil {
			_ = output.Abort(writer)
			return fmt.Errorf("failed to write user: %w", err)
		}
		tracker.AddUser(u)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if opts.outputFile != "" {
		fmt.Fprintf(e.stderr, "Saved %d %s to %s\n", len(users), rel, opts.outputFile)
	}

	if opts.metadataDir != "" {
		instance, err := sess.InstanceDomain()
		if err != nil {
			return err
		}
		params := metadata.ExportParams{
			Instance: instance,
			Account:  user,
			Relation: rel.String(),
			Mode:     mode.String(),
			Output:   opts.outputFile,
		}
		return saveMetadata(a.log, tracker, params, opts.metadataDir)
	}
	return nil
}

func saveMetadata(log logrus.FieldLogger, tracker *metadata.Tracker, params metadata.ExportParams, dir string) error {
	previous, err := metadata.LoadLatestMetadata(dir, params.Instance, params.Relation)
	if err != nil {
		log.WithError(err).Warn("could not read previous export metadata")
	}

	md := tracker.GenerateMetadata(version.Version, params, previous)
	path, err := metadata.SaveMetadata(md, dir)
	if err != nil {
		return err
	}
	log.WithField("path", path).Info("saved export metadata")
	return nil
}

// progress shows a spinner on stderr while the list is fetched. It stays
// silent when stderr is not a terminal.
type progress struct {
	spin *spinner.Spinner
	rel  mastodon.Relation
}

func newProgress(e *env, rel mastodon.Relation) *progress {
	p := &progress{rel: rel}
	if e.stderrIsTerminal() {
		p.spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond,
			spinner.WithWriter(e.stderr), spinner.WithHiddenCursor(true))
		p.spin.Suffix = fmt.Sprintf(" Fetching %s list", rel)
	}
	return p
}

func (p *progress) start() {
	if p.spin != nil {
		p.spin.Start()
	}
}

func (p *progress) update(pr mastodon.Progress) {
	if p.spin == nil {
		return
	}
	p.spin.Lock()
	p.spin.Suffix = fmt.Sprintf(" Fetching %s list (%d accounts, %d pages)", p.rel, pr.Accounts, pr.Pages)
	p.spin.Unlock()
}

func (p *progress) stop() {
	if p.spin != nil {
		p.spin.Stop()
	}
}
