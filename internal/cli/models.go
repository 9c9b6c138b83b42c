// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nearbuy/assistant/internal/gemini"
)

// modelsCmd lists the generation-capable models the backend offers.
func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available generation models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client := gemini.NewClientWithConfig(cfg.API.Key, &gemini.ClientConfig{
				BaseURL:     cfg.API.BaseURL,
				Timeout:     cfg.Timeout(),
				ModelPrefix: cfg.API.ModelPrefix,
			})

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
			defer cancel()

			models, err := client.ListModels(ctx)
			if err != nil {
				return err
			}

			for _, m := range models {
				name := m.ShortName()
				if m.DisplayName != "" && m.DisplayName != name {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, m.DisplayName)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
			}
			return nil
		},
	}
}
