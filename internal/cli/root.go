// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Package cli implements resonancectl, the command-line client for the
// Resonance API.
package cli

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	// EnvServer overrides the default server URL.
	EnvServer = "RESONANCE_SERVER"

	// EnvAdminToken supplies the admin bearer token.
	EnvAdminToken = "RESONANCE_ADMIN_TOKEN"

	defaultServer = "http://localhost:8420"
)

// app holds the state shared by every command.
type app struct {
	server  string
	token   string
	timeout time.Duration
	jsonOut bool
	noColor bool

	out    io.Writer
	client *Client
}

// NewRootCommand builds the resonancectl command tree writing to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:   "resonancectl",
		Short: "Command-line client for the Resonance engine",
		Long: `resonancectl talks to a running Resonance server. It records interactions,
indexes content, and queries recommendations, sentiment, engagement predictions,
behavior profiles and trends.

The server URL and admin token are read from flags, from the environment
(RESONANCE_SERVER, RESONANCE_ADMIN_TOKEN) or from a .env file.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.server, "server", defaultServer, "Resonance server URL")
	flags.StringVar(&a.token, "token", "", "admin bearer token")
	flags.DurationVar(&a.timeout, "timeout", 30*time.Second, "request timeout")
	flags.BoolVar(&a.jsonOut, "json", false, "print raw JSON")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newIngestCmd(a),
		newIndexCmd(a),
		newRecommendCmd(a),
		newSimilarCmd(a),
		newSentimentCmd(a),
		newPredictCmd(a),
		newBehaviorCmd(a),
		newTrendingCmd(a),
		newRetrainCmd(a),
		newStatusCmd(a),
	)
	return root
}

// Execute runs resonancectl with os.Args.
func Execute() error {
	return NewRootCommand(os.Stdout).Execute()
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("server") {
		if v := os.Getenv(EnvServer); v != "" {
			a.server = v
		}
	}
	if !flags.Changed("token") {
		a.token = os.Getenv(EnvAdminToken)
	}
	if a.noColor {
		color.NoColor = true
	}

	a.client = NewClient(a.server, a.token, a.timeout)
	return nil
}
