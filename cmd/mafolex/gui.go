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

	"github.com/spf13/cobra"
)

func newWindowCommand(e *env, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "window",
		Short: "Open the interactive followers window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(cmd.Context(), e, flags)
		},
	}
}

func newWizardCommand(e *env, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "wizard",
		Short: "Sign in and save your followers step by step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.setup(flags, true)
			if err != nil {
				return err
			}
			defer a.close()

			path, count, err := e.runWizard(cmd.Context(), a.tuiOptions(e))
			if err != nil {
				return err
			}
			if path != "" {
				fmt.Fprintf(e.stdout, "Saved %d followers to %s\n", count, path)
			}
			return nil
		},
	}
}

func runWindow(ctx context.Context, e *env, flags *globalFlags) error {
	a, err := e.setup(flags, true)
	if err != nil {
		return err
	}
	defer a.close()

	return e.runWindow(ctx, a.tuiOptions(e))
}
