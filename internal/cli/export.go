// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nearbuy/assistant/internal/config"
	"github.com/nearbuy/assistant/internal/store"
)

// exportCmd writes the archived conversations to a JSON artifact.
func exportCmd() *cobra.Command {
	var searchText, dateFilter, outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export conversations to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			st := store.New()
			dataDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			if err := st.LoadArchive(dataDir); err != nil {
				return err
			}
			if st.Len() == 0 {
				return fmt.Errorf("no conversations to export")
			}

			dir := outDir
			if dir == "" {
				dir = cfg.Export.Dir
			}

			records := st.FilteredView(searchText, dateFilter)
			path, err := store.WriteArtifact(dir, cfg.Export.Prefix,
				store.NewJSONExporter(), records, time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d conversations to %s\n", len(records), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&searchText, "search", "", "only export conversations containing this text")
	cmd.Flags().StringVar(&dateFilter, "date", "", "only export conversations from this date (2006-01-02)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from config)")
	return cmd
}

// clearCmd deletes the archived conversations.
func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all archived conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, err := config.ConfigDir()
			if err != nil {
				return err
			}

			st := store.New()
			if err := st.LoadArchive(dataDir); err != nil {
				return err
			}
			n := st.Clear()
			if err := st.SaveArchive(dataDir); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d conversations.\n", n)
			return nil
		},
	}
}
