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
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCommand(e *env, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.setup(flags, false)
			if err != nil {
				return err
			}
			defer a.close()

			domain, err := a.session.InstanceDomain()
			if err != nil {
				return err
			}
			if err := a.session.Logout(); err != nil {
				return fmt.Errorf("failed to forget token: %w", err)
			}
			if domain == "" {
				fmt.Fprintln(e.stdout, "Not logged in.")
				return nil
			}
			fmt.Fprintf(e.stdout, "Logged out of %s.\n", domain)
			return nil
		},
	}
}
