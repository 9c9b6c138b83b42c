// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nearbuy/assistant/internal/engine"
	"github.com/nearbuy/assistant/internal/notify"
)

// askCmd asks a single question and prints the response.
func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a one-shot question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			capture := &notify.Capture{}
			eng, st, _, err := buildEngine(cfg, notify.Multi(capture, notify.NewLogger(log)))
			if err != nil {
				return err
			}
			defer func() {
				eng.Close()
				saveArchive(st)
			}()

			question := strings.Join(args, " ")
			if err := eng.Submit(question); err != nil {
				return err
			}
			eng.Wait()

			s := eng.State()
			if s.Phase != engine.PhaseSuccess {
				return fmt.Errorf("%s", s.ErrorMessage)
			}

			fmt.Fprintln(cmd.OutOrStdout(), s.Conversations[0].Response)
			return nil
		},
	}
}
