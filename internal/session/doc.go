// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session is the interactive terminal session: a Bubble Tea
// adapter over the engine.
//
// The engine owns all state and logic; the session model only translates
// key events into engine calls and renders the most recent snapshot. The
// engine publishes snapshots through a channel, surfaced to the Bubble
// Tea loop as StateMsg values, so the render path never reaches into the
// engine mid-update.
//
// # Usage
//
// Run an interactive session:
//
//	eng, err := engine.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//	return session.Run(eng)
package session
