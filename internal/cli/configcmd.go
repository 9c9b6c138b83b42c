// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nearbuy/assistant/internal/config"
	"github.com/nearbuy/assistant/internal/lang"
)

// configCmd groups configuration subcommands.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
	}
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configSetKeyCmd())
	cmd.AddCommand(configSetLanguageCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "api.base_url        %s\n", cfg.API.BaseURL)
			fmt.Fprintf(out, "api.key             %s\n", maskKey(cfg.API.Key))
			fmt.Fprintf(out, "request.timeout     %s\n", cfg.Timeout())
			fmt.Fprintf(out, "request.max_retries %d\n", cfg.Request.MaxRetries)
			fmt.Fprintf(out, "request.retry_delay %s\n", cfg.RetryDelay())
			fmt.Fprintf(out, "language.default    %s (%s)\n",
				cfg.Language.Default, lang.DisplayName(cfg.Language.Default))
			fmt.Fprintf(out, "export.prefix       %s\n", cfg.Export.Prefix)
			return nil
		},
	}
}

func configSetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key <api-key>",
		Short: "Store the API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.API.Key = strings.TrimSpace(args[0])
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key saved.")
			return nil
		},
	}
}

func configSetLanguageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-language <code>",
		Short: "Store the default session language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToLower(strings.TrimSpace(args[0]))
			if _, ok := lang.Lookup(code); !ok {
				return fmt.Errorf("unsupported language code %q (see 'assistant languages')", code)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.Language.Default = code
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default language set to %s.\n", lang.DisplayName(code))
			return nil
		},
	}
}

// maskKey hides all but the tail of an API key.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
