// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/resonance/internal/analytics"
)

func newIngestCmd(a *app) *cobra.Command {
	var (
		at     string
		weight string
	)
	cmd := &cobra.Command{
		Use:   "ingest <user-id> <content-id> <event-type>",
		Short: "Record an interaction",
		Long:  `Record an interaction. The event type is one of view, like, comment, share or follow.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := analytics.InteractionInput{UserID: args[0], ContentID: args[1], EventType: args[2]}
			if at != "" {
				ts, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				in.Timestamp = ts
			}
			if weight != "" {
				w, err := strconv.ParseFloat(weight, 64)
				if err != nil {
					return fmt.Errorf("invalid --weight: %w", err)
				}
				in.Weight = &w
			}

			seq, err := a.client.Ingest(cmd.Context(), in)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(map[string]uint64{"sequence": seq})
			}
			good.Fprint(a.out, "recorded")
			a.printf(" %s %s %s (sequence %d)\n", in.UserID, in.EventType, in.ContentID, seq)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "event time (RFC 3339), defaults to now")
	cmd.Flags().StringVar(&weight, "weight", "", "override the event-type weight")
	return cmd
}

func newIndexCmd(a *app) *cobra.Command {
	var (
		in        analytics.ContentInput
		createdAt string
	)
	cmd := &cobra.Command{
		Use:   "index <content-id>",
		Short: "Index a piece of content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.ContentID = args[0]
			if createdAt != "" {
				ts, err := time.Parse(time.RFC3339, createdAt)
				if err != nil {
					return fmt.Errorf("invalid --created-at: %w", err)
				}
				in.CreatedAt = ts
			}

			if err := a.client.Index(cmd.Context(), in); err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(map[string]string{"content_id": in.ContentID})
			}
			good.Fprint(a.out, "indexed")
			a.printf(" %s\n", in.ContentID)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&in.Text, "text", "", "caption or body text")
	flags.StringSliceVar(&in.Hashtags, "hashtags", nil, "hashtags, comma separated")
	flags.StringVar(&in.Category, "category", "", "content category")
	flags.StringVar(&in.AuthorID, "author", "", "author user id")
	flags.StringVar(&createdAt, "created-at", "", "publication time (RFC 3339), defaults to now")
	return cmd
}
