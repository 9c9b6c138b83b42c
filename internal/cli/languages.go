// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nearbuy/assistant/internal/lang"
)

// languagesCmd lists the supported session languages.
func languagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, l := range lang.Supported() {
				native := lang.NativeName(l.Code)
				if native != l.Name {
					fmt.Fprintf(cmd.OutOrStdout(), "%-4s %s (%s)\n", l.Code, l.Name, native)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%-4s %s\n", l.Code, l.Name)
				}
			}
		},
	}
}
