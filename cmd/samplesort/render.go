package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/spf13/cobra"

	"samplesort/internal/classification"
	"samplesort/internal/clustering"
	"samplesort/internal/fusion"
	"samplesort/internal/matrix"
	"samplesort/internal/proposal"
	"samplesort/internal/workflow"
)

type outcomeView struct {
	classification.Outcome
	Status string `json:"status"`
}

type runView struct {
	ID           string                 `json:"id"`
	StartedAt    time.Time              `json:"started_at"`
	FinishedAt   time.Time              `json:"finished_at"`
	Steps        []workflow.Step        `json:"steps"`
	Outcomes     []outcomeView          `json:"outcomes,omitempty"`
	Stats        *classification.Stats  `json:"classification_stats,omitempty"`
	Matrix       *matrix.Matrix         `json:"matrix,omitempty"`
	Strategy     string                 `json:"strategy,omitempty"`
	Clusters     []clustering.Cluster   `json:"clusters,omitempty"`
	Issues       []clustering.Issue     `json:"cluster_issues,omitempty"`
	FusionGroups []fusion.Group         `json:"fusion_groups,omitempty"`
	Proposals    []proposal.Proposal    `json:"proposals,omitempty"`
	Failures     []workflow.StepFailure `json:"failures,omitempty"`
}

func newRunView(run *workflow.Run) runView {
	v := runView{
		ID:           run.ID,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
		Steps:        run.Steps,
		Strategy:     run.Strategy,
		Clusters:     run.Clusters,
		Issues:       run.Issues,
		FusionGroups: run.FusionGroups,
		Proposals:    run.Proposals,
		Failures:     run.Failures,
		Matrix:       run.Matrix,
	}
	if run.Result != nil {
		stats := run.Result.Stats
		v.Stats = &stats
		for _, o := range run.Result.Outcomes {
			v.Outcomes = append(v.Outcomes, outcomeView{Outcome: o, Status: o.Status()})
		}
	}
	return v
}

func renderRun(cmd *cobra.Command, run *workflow.Run) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s)\n\n", run.ID, run.Duration().Round(time.Millisecond))
	if err := renderClassification(cmd, run); err != nil {
		return err
	}
	fmt.Fprintln(out)
	if err := renderFusion(cmd, run); err != nil {
		return err
	}
	if len(run.Proposals) > 0 {
		fmt.Fprintln(out)
		return renderProposals(cmd, run)
	}
	return nil
}

func renderClassification(cmd *cobra.Command, run *workflow.Run) error {
	out := cmd.OutOrStdout()
	if run.Result == nil || len(run.Result.Outcomes) == 0 {
		fmt.Fprintln(out, "No packs classified")
		return nil
	}
	rows := make([][]string, 0, len(run.Result.Outcomes))
	for _, o := range run.Result.Outcomes {
		row := []string{o.PackID, o.PackName, o.Status(), "", "", "", ""}
		switch o.Kind {
		case classification.KindClassified:
			row[3] = o.Classification.Label()
			row[4] = string(o.Classification.Method)
			row[5] = formatConfidence(o.Classification.Confidence)
		case classification.KindQuarantined:
			row[6] = o.Quarantine.Reason
			if c := o.Quarantine.Candidate; c != nil {
				row[3] = c.Label() + " ?"
				row[5] = formatConfidence(c.Confidence)
			}
		}
		rows = append(rows, row)
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"ID", "Pack", "Status", "Genre", "Method", "Confidence", "Reason"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	s := run.Result.Stats
	fmt.Fprintf(out, "%d classified, %d quarantined", s.Classified, s.Quarantined)
	if s.AIBatches > 0 {
		fmt.Fprintf(out, ", %d AI batches (%d failed)", s.AIBatches, s.AIFailures)
	}
	fmt.Fprintln(out)
	return nil
}

func renderFusion(cmd *cobra.Command, run *workflow.Run) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d clusters (%s)\n", len(run.Clusters), run.Strategy)
	if len(run.FusionGroups) == 0 {
		fmt.Fprintln(out, "No fusion groups")
		return nil
	}
	rows := make([][]string, 0, len(run.FusionGroups))
	for _, g := range run.FusionGroups {
		rows = append(rows, []string{
			g.CanonicalName,
			strconv.Itoa(len(g.Sources)),
			strconv.Itoa(g.Stats.DistinctPacks),
			strconv.Itoa(g.ExpectedFileCount),
			formatConfidence(g.Cohesion),
			string(g.ConflictPolicy),
			g.TargetPath,
		})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"Folder", "Sources", "Packs", "Files", "Cohesion", "Conflicts", "Target"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft},
	))
	for _, g := range run.FusionGroups {
		for _, w := range g.Warnings {
			fmt.Fprintf(out, "! %s: %s\n", g.CanonicalName, w)
		}
	}
	return nil
}

func renderProposals(cmd *cobra.Command, run *workflow.Run) error {
	out := cmd.OutOrStdout()
	if len(run.Proposals) == 0 {
		fmt.Fprintln(out, "No proposals")
		return nil
	}
	rows := make([][]string, 0, len(run.Proposals))
	for i, p := range run.Proposals {
		rank := strconv.Itoa(i + 1)
		if p.Recommended {
			rank += " *"
		}
		rows = append(rows, []string{
			rank,
			string(p.Kind),
			p.Levels(),
			strconv.Itoa(p.EstimatedFolders),
			formatConfidence(p.Balance),
			formatConfidence(p.Compatibility),
			formatConfidence(p.Simplicity),
			formatConfidence(p.Score),
		})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"#", "Kind", "Levels", "Folders", "Balance", "Compat", "Simple", "Score"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	))
	best := run.Proposals[0]
	fmt.Fprintf(out, "\nRecommended: %s (%s)\n", best.Kind, best.Rationale)
	for _, a := range best.Advantages {
		fmt.Fprintf(out, "  + %s\n", a)
	}
	for _, d := range best.Disadvantages {
		fmt.Fprintf(out, "  - %s\n", d)
	}
	fmt.Fprintln(out, renderPreview(best.Preview))
	return nil
}

// renderPreview draws the proposal tree two levels deep.
func renderPreview(root *proposal.Node) string {
	if root == nil {
		return ""
	}
	lw := list.NewWriter()
	lw.SetStyle(list.StyleConnectedRounded)
	var walk func(n *proposal.Node, depth int)
	walk = func(n *proposal.Node, depth int) {
		children := append([]*proposal.Node(nil), n.Children...)
		sort.SliceStable(children, func(i, j int) bool { return children[i].Files > children[j].Files })
		for _, c := range children {
			lw.AppendItem(fmt.Sprintf("%s (%d files, %d packs)", c.Name, c.Files, c.Packs))
			if depth < 1 && len(c.Children) > 0 {
				lw.Indent()
				walk(c, depth+1)
				lw.UnIndent()
			}
		}
	}
	walk(root, 0)
	return lw.Render()
}

func renderFailures(cmd *cobra.Command, run *workflow.Run) {
	if len(run.Failures) == 0 {
		return
	}
	errOut := cmd.ErrOrStderr()
	for _, f := range run.Failures {
		fmt.Fprintf(errOut, "step %s failed: %s\n", f.Step, strings.TrimSpace(f.Message))
	}
}

func formatConfidence(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
