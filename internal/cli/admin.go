// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/resonance/internal/recommend"
)

const pollInterval = time.Second

func newRetrainCmd(a *app) *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   "retrain",
		Short: "Start a model rebuild",
		Long:  `Start a model rebuild. Requires the admin token when the server sets one.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			err := a.client.Retrain(ctx)
			started := err == nil
			var re *RemoteError
			if err != nil && (!errors.As(err, &re) || re.Code != "RETRAIN_IN_PROGRESS") {
				return err
			}
			if !wait {
				if a.jsonOut {
					return a.printJSON(map[string]bool{"started": started})
				}
				if started {
					good.Fprintln(a.out, "rebuild started")
				} else {
					warn.Fprintln(a.out, "a rebuild is already running")
				}
				return nil
			}

			status, err := a.waitForBuild(ctx)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(status)
			}
			a.printModel(status)
			if status.LastError != "" {
				return fmt.Errorf("rebuild failed: %s", status.LastError)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the rebuild to finish")
	return cmd
}

// waitForBuild polls the model status until no build is running.
func (a *app) waitForBuild(ctx context.Context) (recommend.Status, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		status, err := a.client.Model(ctx)
		if err != nil {
			return status, err
		}
		if status.State != "building" {
			return status, nil
		}
		select {
		case <-ctx.Done():
			return status, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (a *app) printModel(s recommend.Status) {
	a.labeled("model", s.State)
	a.field("version", s.Version)
	if !s.BuiltAt.IsZero() {
		a.field("built at", s.BuiltAt.Format(time.RFC3339))
	}
	a.field("users", s.Users)
	a.field("items", s.Items)
	a.field("content items", s.ContentItems)
	a.field("events", s.Events)
	if s.LastError != "" {
		a.field("last error", bad.Sprint(s.LastError))
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server health and model status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.client.Health(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(h)
			}
			a.labeled("status", h.Status)
			a.field("version", h.Version)
			a.field("uptime", time.Duration(h.Uptime * float64(time.Second)).Round(time.Second).String())
			a.labeled("storage", h.Storage)
			a.field("users", h.Engine.Users)
			a.field("interactions", h.Engine.Interactions)
			a.field("content", h.Engine.Content)
			a.field("last sequence", h.Engine.LastSequence)
			a.printModel(h.Engine.Model)
			return nil
		},
	}
}
