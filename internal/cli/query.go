// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/resonance/internal/models"
)

func newRecommendCmd(a *app) *cobra.Command {
	var (
		kind  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "recommend <user-id>",
		Short: "Show recommendations for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := a.client.Recommend(cmd.Context(), args[0], kind, limit)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(recs)
			}
			heading.Fprintf(a.out, "%s recommendations for %s", recs.Kind, recs.UserID)
			dim.Fprintf(a.out, " (source %s, snapshot v%d)\n", recs.Source, recs.SnapshotVersion)
			a.printScored(recs.Items)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "content or users (default content)")
	cmd.Flags().IntVar(&limit, "limit", 0, "number of results (server default when 0)")
	return cmd
}

func newSimilarCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "similar <content-id>",
		Short: "Show content similar to an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.client.Similar(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(items)
			}
			heading.Fprintf(a.out, "similar to %s\n", args[0])
			a.printScored(items)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "number of results (server default when 0)")
	return cmd
}

func (a *app) printScored(items []models.ScoredID) {
	if len(items) == 0 {
		dim.Fprintln(a.out, "  no results")
		return
	}
	for i, it := range items {
		a.printf("%3d. %-24s %.4f", i+1, it.ID, it.Score)
		if len(it.Sources) > 0 {
			dim.Fprintf(a.out, "  %v", it.Sources)
		}
		a.printf("\n")
	}
}

func newBehaviorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "behavior <user-id>",
		Short: "Show a user's behavior profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.Behavior(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(p)
			}
			a.field("user", p.UserID)
			a.labeled("engagement", string(p.EngagementLevel))
			a.field("activity rate", fmt.Sprintf("%.2f events/day", p.ActivityRate))
			a.field("activity score", fmt.Sprintf("%.2f", p.ActivityScore))
			a.field("churn risk", fmt.Sprintf("%.2f", p.ChurnRisk))
			a.labeled("trend", string(p.Trend))
			a.field("events in window", p.EventsInWindow)
			a.field("peak hours", fmt.Sprint(p.PeakHours))
			if !p.LastActiveAt.IsZero() {
				a.field("last active", p.LastActiveAt.Format("2006-01-02 15:04 MST"))
			}
			return nil
		},
	}
}

func newTrendingCmd(a *app) *cobra.Command {
	var windowHours, limit int
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Show trending hashtags and categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			trends, err := a.client.Trending(cmd.Context(), windowHours, limit)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(trends)
			}
			if len(trends) == 0 {
				dim.Fprintln(a.out, "nothing is trending")
				return nil
			}
			heading.Fprintf(a.out, "%-24s %-9s %8s %8s %9s\n", "TAG", "KIND", "COUNT", "PRIOR", "VELOCITY")
			for _, t := range trends {
				a.printf("%-24s %-9s %8d %8d ", t.Tag, t.Kind, t.CountA, t.CountB)
				good.Fprintf(a.out, "%8.2fx\n", t.Velocity)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&windowHours, "window-hours", 0, "comparison window in hours (server default when 0)")
	cmd.Flags().IntVar(&limit, "limit", 0, "number of tags (20 when 0)")
	return cmd
}
