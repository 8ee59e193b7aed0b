package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"samplesort/internal/review"
	"samplesort/internal/services"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Inspect quarantined packs and manage manual overrides",
	}
	reviewCmd.AddCommand(newReviewListCommand(ctx))
	reviewCmd.AddCommand(newReviewOverrideCommand(ctx))
	reviewCmd.AddCommand(newReviewClearCommand(ctx))
	return reviewCmd
}

func newReviewListCommand(ctx *commandContext) *cobra.Command {
	var (
		reason    string
		overrides bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quarantined packs (or overrides with --overrides)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withReview(func(store *review.Store) error {
				if overrides {
					return listOverrides(cmd, ctx, store)
				}
				entries, err := store.ListQuarantine(cmd.Context(), reason)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					if entries == nil {
						entries = []review.Entry{}
					}
					return writeJSON(cmd, entries)
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Quarantine is empty")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					candidate := ""
					if e.Candidate != nil {
						candidate = fmt.Sprintf("%s (%s)", e.Candidate.Label(), formatConfidence(e.Candidate.Confidence))
					}
					rows = append(rows, []string{
						e.PackID, e.PackName, e.Reason, candidate, yesNo(e.ManualReview), formatTimestamp(e.RecordedAt),
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"ID", "Pack", "Reason", "Candidate", "Review", "Recorded"},
					rows, nil,
				))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Only show entries with this reason")
	cmd.Flags().BoolVar(&overrides, "overrides", false, "List manual overrides instead of quarantine")
	return cmd
}

func listOverrides(cmd *cobra.Command, ctx *commandContext, store *review.Store) error {
	list, err := store.ListOverrides(cmd.Context())
	if err != nil {
		return err
	}
	if ctx.jsonOutput() {
		if list == nil {
			list = []review.Override{}
		}
		return writeJSON(cmd, list)
	}
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No overrides")
		return nil
	}
	rows := make([][]string, 0, len(list))
	for _, o := range list {
		rows = append(rows, []string{o.PackID, o.Family, o.Style, formatConfidence(o.Confidence), o.Note, formatTimestamp(o.UpdatedAt)})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"ID", "Family", "Style", "Confidence", "Note", "Updated"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	))
	return nil
}

func newReviewOverrideCommand(ctx *commandContext) *cobra.Command {
	var (
		family     string
		style      string
		note       string
		confidence float64
		remove     bool
	)
	cmd := &cobra.Command{
		Use:   "override <pack-id>",
		Short: "Set or remove the manual classification for a pack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			packID := strings.TrimSpace(args[0])
			return ctx.withReview(func(store *review.Store) error {
				out := cmd.OutOrStdout()
				if remove {
					if err := store.RemoveOverride(cmd.Context(), packID); err != nil {
						if errors.Is(err, services.ErrNotFound) {
							return fmt.Errorf("pack %s has no override", packID)
						}
						return err
					}
					fmt.Fprintf(out, "Removed override for %s\n", packID)
					return nil
				}

				index := ctx.loadIndex("")
				fam, ok := index.FamilyByName(family)
				if !ok {
					return fmt.Errorf("unknown family %q (see `samplesort taxonomy show`)", family)
				}
				if style != "" {
					style = index.CanonicalStyle(style)
				}
				o := review.Override{PackID: packID, Family: fam.Name, Style: style, Confidence: confidence, Note: note}
				if err := store.SetOverride(cmd.Context(), o); err != nil {
					return err
				}
				label := fam.Name
				if style != "" {
					label += " / " + style
				}
				fmt.Fprintf(out, "Override set: %s -> %s\n", packID, label)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&family, "family", "", "Genre family to assign")
	cmd.Flags().StringVar(&style, "style", "", "Style within the family")
	cmd.Flags().StringVar(&note, "note", "", "Free-form note kept with the override")
	cmd.Flags().Float64Var(&confidence, "confidence", 1, "Confidence recorded for the override")
	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the existing override")
	cmd.MarkFlagsMutuallyExclusive("remove", "family")
	cmd.MarkFlagsOneRequired("remove", "family")
	return cmd
}

func newReviewClearCommand(ctx *commandContext) *cobra.Command {
	var overrides bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove quarantine entries (and overrides with --overrides)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withReview(func(store *review.Store) error {
				removed, err := store.Clear(cmd.Context(), overrides)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d review entries\n", removed)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&overrides, "overrides", false, "Also remove manual overrides")
	return cmd
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}
