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
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cli/browser"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sirseerhq/mafolex/internal/config"
	"github.com/sirseerhq/mafolex/internal/credentials"
	"github.com/sirseerhq/mafolex/internal/mastodon"
	"github.com/sirseerhq/mafolex/internal/session"
	"github.com/sirseerhq/mafolex/internal/tui"
	"github.com/sirseerhq/mafolex/internal/version"
)

// env holds the process streams and the hooks tests swap out.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	stdoutIsTerminal func() bool
	stderrIsTerminal func() bool
	openURL          func(url string) error
	now              func() time.Time

	newAPI    func(cfg *config.Config, log logrus.FieldLogger) mastodon.API
	baseURL   func(domain string) string
	runWindow func(ctx context.Context, opts tui.Options) error
	runWizard func(ctx context.Context, opts tui.Options) (string, int, error)
}

func newEnv() *env {
	return &env{
		stdin:            os.Stdin,
		stdout:           os.Stdout,
		stderr:           os.Stderr,
		stdoutIsTerminal: func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
		stderrIsTerminal: func() bool { return term.IsTerminal(int(os.Stderr.Fd())) },
		openURL:          browser.OpenURL,
		now:              time.Now,
		newAPI:           newMastodonAPI,
		runWindow:        tui.RunWindow,
		runWizard:        tui.RunWizard,
	}
}

func newMastodonAPI(cfg *config.Config, log logrus.FieldLogger) mastodon.API {
	return mastodon.NewClient(mastodon.Options{
		ClientName:  cfg.App.ClientName,
		Website:     cfg.App.Website,
		RedirectURI: cfg.App.RedirectURI,
		Scopes:      cfg.App.Scopes,
		PageLimit:   cfg.HTTP.PageLimit,
		Timeout:     cfg.HTTP.Timeout,
		MaxRetries:  cfg.HTTP.MaxRetries,
		Logger:      log,
	})
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	debug      bool
}

// app is everything a command needs once configuration is loaded.
type app struct {
	cfg     *config.Config
	log     *logrus.Logger
	session *session.Session
	close   func() error
}

// setup loads configuration and builds the session. Terminal UIs log to a
// file because bubbletea owns the screen.
func (e *env) setup(flags *globalFlags, forTUI bool) (*app, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, closeLog, err := e.newLogger(cfg, flags.debug, forTUI)
	if err != nil {
		return nil, err
	}

	sess := session.New(session.Options{
		API:     e.newAPI(cfg, log),
		Store:   credentials.NewStore(cfg.Keyring.Service),
		Logger:  log,
		BaseURL: e.baseURL,
	})

	return &app{cfg: cfg, log: log, session: sess, close: closeLog}, nil
}

func (e *env) newLogger(cfg *config.Config, debug, forTUI bool) (*logrus.Logger, func() error, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}
	if debug {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	path := cfg.Log.File
	if path == "" && forTUI {
		path = config.DefaultLogFile()
	}
	if path == "" {
		log.SetOutput(e.stderr)
		return log, func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(file)
	return log, file.Close, nil
}

func (a *app) tuiOptions(e *env) tui.Options {
	return tui.Options{
		Backend: a.session,
		Logger:  a.log,
		Version: version.Version,
		OpenURL: e.openURL,
		Now:     e.now,
	}
}

func newRootCommand(e *env) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "mafolex",
		Short: "Export the followers of a Mastodon account",
		Long: `mafolex signs in to a Mastodon instance and exports the followers of the
signed-in account, or the accounts it follows, as CSV, NDJSON or a table.

Run without a command to open the interactive window.`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(e.stdout, "Opening mafolex in GUI mode.")
			fmt.Fprintln(e.stdout, "To learn about CLI mode, use the --help flag.")
			return runWindow(cmd.Context(), e, flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default: .mafolex.yaml or the user config directory)")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")

	rootCmd.SetIn(e.stdin)
	rootCmd.SetOut(e.stdout)
	rootCmd.SetErr(e.stderr)

	rootCmd.AddCommand(
		newLoginCommand(e, flags),
		newListCommand(e, flags),
		newLogoutCommand(e, flags),
		newWizardCommand(e, flags),
		newWindowCommand(e, flags),
	)

	return rootCmd
}
