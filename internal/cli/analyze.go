// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/resonance/internal/analytics"
)

func newSentimentCmd(a *app) *cobra.Command {
	var moderate bool
	cmd := &cobra.Command{
		Use:   "sentiment <text>...",
		Short: "Score the sentiment and quality of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if moderate {
				res, err := a.client.Moderate(cmd.Context(), text)
				if err != nil {
					return err
				}
				if a.jsonOut {
					return a.printJSON(res)
				}
				a.labeled("action", string(res.Action))
				a.field("flagged", res.Flagged)
				a.field("reasons", joinOrNone(res.Reasons))
				a.field("spam score", fmt.Sprintf("%.2f", res.SpamScore))
				return nil
			}

			res, err := a.client.Sentiment(cmd.Context(), text)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(res)
			}
			a.labeled("label", string(res.Label))
			a.field("sentiment", fmt.Sprintf("%+.3f", res.Sentiment))
			a.field("quality", fmt.Sprintf("%.3f", res.Quality))
			a.field("matches", fmt.Sprintf("%d positive, %d negative", res.Positive, res.Negative))
			return nil
		},
	}
	cmd.Flags().BoolVar(&moderate, "moderate", false, "run the moderation checks instead")
	return cmd
}

func newPredictCmd(a *app) *cobra.Command {
	var (
		in     analytics.PredictionInput
		postAt string
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict engagement for a draft post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if postAt != "" {
				ts, err := time.Parse(time.RFC3339, postAt)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				in.PostAt = ts
			}

			p, err := a.client.Predict(cmd.Context(), in)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(p)
			}
			a.field("likes", fmt.Sprintf("%.1f", p.PredictedLikes))
			a.field("comments", fmt.Sprintf("%.1f", p.PredictedComments))
			a.field("shares", fmt.Sprintf("%.1f", p.PredictedShares))
			a.field("viral score", fmt.Sprintf("%.2f", p.ViralScore))
			a.labeled("sentiment", string(p.Label))
			a.field("basis", p.Basis)
			a.field("suggestions", joinOrNone(p.Suggestions))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&in.Text, "text", "", "draft caption")
	flags.StringSliceVar(&in.Hashtags, "hashtags", nil, "hashtags, comma separated")
	flags.StringVar(&in.Category, "category", "", "content category")
	flags.StringVar(&postAt, "at", "", "planned posting time (RFC 3339); omit to leave out timing factors")
	return cmd
}
