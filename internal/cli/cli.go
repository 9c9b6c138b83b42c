// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nearbuy/assistant/internal/config"
	"github.com/nearbuy/assistant/internal/engine"
	"github.com/nearbuy/assistant/internal/gemini"
	"github.com/nearbuy/assistant/internal/lang"
	"github.com/nearbuy/assistant/internal/netmon"
	"github.com/nearbuy/assistant/internal/notify"
	"github.com/nearbuy/assistant/internal/session"
	"github.com/nearbuy/assistant/internal/store"
)

var (
	cfgPath  string
	langCode string
	verbose  bool

	log zerolog.Logger
)

// Execute runs the CLI. version is stamped by the build.
func Execute(version string) error {
	rootCmd := &cobra.Command{
		Use:   "assistant",
		Short: "Conversational assistant for the Gemini API",
		Long: `An interactive conversational assistant backed by the Gemini
generative-language API, with voice commands, multilingual keyword
interpretation, and conversation export.

Start an interactive session:  assistant
Ask a one-shot question:       assistant ask "what time does the market open"
List available models:         assistant models`,
		PersistentPreRunE: initLogging,
		RunE:              runSession,
		SilenceUsage:      true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.assistant/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&langCode, "language", "l", "", "session language code (en, af, zu, ...)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(clearCmd())
	rootCmd.AddCommand(languagesCmd())
	rootCmd.AddCommand(configCmd())

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("assistant v%s\n", version)
		},
	})

	return rootCmd.Execute()
}

// =============================================================================
// SETUP
// =============================================================================

func initLogging(cmd *cobra.Command, args []string) error {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
	return nil
}

// loadConfig reads the configuration, honoring --config and --language.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cfgPath != "" {
		cfg, err = config.LoadFromPath(cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if langCode != "" {
		cfg.Language.Default = langCode
	}
	return cfg, nil
}

// buildEngine assembles the engine and its collaborators from config.
// The conversation archive is loaded so history carries across runs. The
// client is returned alongside the engine so config reloads can rotate
// its key.
func buildEngine(cfg *config.Config, notifier notify.Notifier) (*engine.Engine, *store.Store, *gemini.Client, error) {
	st := store.New()
	dataDir, err := config.ConfigDir()
	if err == nil {
		if err := st.LoadArchive(dataDir); err != nil {
			log.Warn().Err(err).Msg("could not load conversation archive")
		}
	}

	client := gemini.NewClientWithConfig(cfg.API.Key, &gemini.ClientConfig{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.Timeout(),
		ModelPrefix: cfg.API.ModelPrefix,
	})

	// Probe once so the flag reflects real connectivity from the start
	// instead of assuming online until the first watch tick.
	mon := netmon.New(false, notifier)
	mon.CheckNow(context.Background())
	go mon.Watch(context.Background(), 10*time.Second)

	eng, err := engine.New(engine.Config{
		APIKey:       cfg.API.Key,
		Backend:      client,
		Store:        st,
		Network:      mon,
		Notifier:     notifier,
		Logger:       &log,
		Language:     lang.Resolve(cfg.Language.Default),
		Timeout:      cfg.Timeout(),
		MaxRetries:   cfg.Request.MaxRetries,
		RetryDelay:   cfg.RetryDelay(),
		ExportDir:    cfg.Export.Dir,
		ExportPrefix: cfg.Export.Prefix,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return eng, st, client, nil
}

// watchConfig reloads the configuration on disk changes, rotating the
// API key into the running engine and client. Returns nil when the
// watcher cannot be started; a session without live reload still works.
func watchConfig(eng *engine.Engine, client *gemini.Client) *config.Watcher {
	path := cfgPath
	if path == "" {
		var err error
		if path, err = config.ConfigPath(); err != nil {
			return nil
		}
	}

	w, err := config.NewWatcher(path, func(fresh *config.Config) {
		eng.SetAPIKey(fresh.API.Key)
		client.SetAPIKey(fresh.API.Key)
		log.Info().Msg("configuration reloaded")
	})
	if err != nil {
		log.Warn().Err(err).Msg("config watcher unavailable")
		return nil
	}
	if err := w.Watch(); err != nil {
		log.Warn().Err(err).Msg("config watcher unavailable")
		w.Close()
		return nil
	}
	return w
}

// saveArchive persists the conversation log, logging rather than failing
// on error.
func saveArchive(st *store.Store) {
	dataDir, err := config.ConfigDir()
	if err != nil {
		return
	}
	if err := st.SaveArchive(dataDir); err != nil {
		log.Warn().Err(err).Msg("could not save conversation archive")
	}
}

// =============================================================================
// INTERACTIVE SESSION
// =============================================================================

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, st, client, err := buildEngine(cfg, notify.NewLogger(log))
	if err != nil {
		return err
	}
	defer func() {
		eng.Close()
		saveArchive(st)
	}()

	if w := watchConfig(eng, client); w != nil {
		defer w.Close()
	}

	return session.Run(eng)
}
