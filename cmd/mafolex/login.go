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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/mafolex/internal/session"
)

func newLoginCommand(e *env, flags *globalFlags) *cobra.Command {
	var (
		force     bool
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "login <instance>",
		Short: "Sign in to a Mastodon instance",
		Long: `Sign in to a Mastodon instance.

mafolex registers itself as an application on the instance the first time,
then prints a link. Sign in there, approve the request, and paste the code
the instance shows you. The token is kept in the system keyring.

If a working token for the instance is already stored, nothing is asked
unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.setup(flags, false)
			if err != nil {
				return err
			}
			defer a.close()

			return runLogin(cmd.Context(), e, a.session, args[0], force, noBrowser)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Log in from scratch, whether already logged in or not")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Print the sign-in link without opening a browser")

	return cmd
}

// runLogin points the session at instance and, when needed, walks through
// the code flow on the terminal.
func runLogin(ctx context.Context, e *env, sess *session.Session, instance string, force, noBrowser bool) error {
	if err := sess.SetInstance(ctx, instance); err != nil {
		return err
	}

	if force || !sess.CheckAuth(ctx) {
		url, err := sess.AuthURL()
		if err != nil {
			return err
		}

		fmt.Fprintln(e.stdout, "To log in, visit the following link:")
		fmt.Fprintln(e.stdout, url)
		fmt.Fprintln(e.stdout)
		fmt.Fprintln(e.stdout, "Then enter the code you get below.")
		if !noBrowser {
			// The link is already printed; a missing browser is fine.
			_ = e.openURL(url)
		}

		code, err := promptLine(e.stdin, e.stdout, "Code: ")
		if err != nil {
			return fmt.Errorf("failed to read code: %w", err)
		}
		if err := sess.Authenticate(ctx, code); err != nil {
			return err
		}
	}

	user, err := sess.CurrentUser(ctx)
	if err != nil {
		return err
	}
	domain, err := sess.InstanceDomain()
	if err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "Logged in to %s as %s.\n", domain, user)
	return nil
}

// promptLine prints prompt and reads one line from in.
func promptLine(in io.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
