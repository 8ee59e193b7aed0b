package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

type familyView struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Styles     []string           `json:"styles"`
	Keywords   map[string]float64 `json:"keywords"`
	Exclusions []string           `json:"exclusions,omitempty"`
	Confidence float64            `json:"confidence"`
}

func newTaxonomyCommand(ctx *commandContext) *cobra.Command {
	taxCmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Inspect the genre taxonomy",
	}

	var path string
	show := &cobra.Command{
		Use:   "show",
		Short: "List families, styles and keyword counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			index := ctx.loadIndex(path)
			families := index.Families()
			if ctx.jsonOutput() {
				views := make([]familyView, 0, len(families))
				for _, f := range families {
					views = append(views, familyView(f))
				}
				return writeJSON(cmd, views)
			}
			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(families))
			for _, f := range families {
				styles := append([]string(nil), f.Styles...)
				sort.Strings(styles)
				rows = append(rows, []string{
					f.ID,
					f.Name,
					strconv.Itoa(len(f.Keywords)),
					truncateList(styles, 4),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"ID", "Family", "Keywords", "Styles"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "%d families\n", index.Len())
			return nil
		},
	}
	show.Flags().StringVar(&path, "taxonomy", "", "Taxonomy document overriding paths.taxonomy_file")
	taxCmd.AddCommand(show)
	return taxCmd
}

func truncateList(values []string, limit int) string {
	if len(values) <= limit {
		return strings.Join(values, ", ")
	}
	return fmt.Sprintf("%s, +%d more", strings.Join(values[:limit], ", "), len(values)-limit)
}
