// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
)

var (
	heading = color.New(color.Bold)
	good    = color.New(color.FgGreen)
	warn    = color.New(color.FgYellow)
	bad     = color.New(color.FgRed)
	dim     = color.New(color.FgHiBlack)
)

func (a *app) printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

func (a *app) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) field(label string, value interface{}) {
	heading.Fprintf(a.out, "%-18s", label+":")
	fmt.Fprintf(a.out, " %v\n", value)
}

// levelColor picks a color for a label on a good/bad scale.
func levelColor(label string) *color.Color {
	switch label {
	case "positive", "high", "growing", "ready", "healthy", "approve", "closed":
		return good
	case "negative", "low", "declining", "stale", "degraded", "block", "open":
		return bad
	case "neutral", "medium", "stable", "building", "cold", "review", "half-open":
		return warn
	default:
		return heading
	}
}

func (a *app) labeled(label, value string) {
	heading.Fprintf(a.out, "%-18s", label+":")
	fmt.Fprint(a.out, " ")
	levelColor(value).Fprintln(a.out, value)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return dim.Sprint("none")
	}
	return strings.Join(items, ", ")
}
