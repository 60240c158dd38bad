// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Command resonancectl is the command-line client for a Resonance server.
package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/tomtom215/resonance/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
