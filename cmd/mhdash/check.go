package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/noah-isme/student-mental-health-api/internal/aggregate"
	"github.com/noah-isme/student-mental-health-api/internal/models"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the charts agree on per condition counts",
	Long: `Compare the condition totals of the flow diagram, the gender pies and the
CGPA chart over the rows every chart can place (a numeric age, a known gender
and a listed CGPA range). Exits with status 2 when any total differs.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// conditionTotals holds one chart's count per condition.
type conditionTotals struct {
	Flow int
	Pie  int
	CGPA int
}

func (t conditionTotals) agree() bool {
	return t.Flow == t.Pie && t.Pie == t.CGPA
}

func runCheck(cmd *cobra.Command, _ []string) error {
	records, err := loadRecords(cmd.Context())
	if err != nil {
		return err
	}
	placed := comparableRecords(records)
	totals := compareCharts(placed)

	flowTotal := 0
	for _, c := range models.Conditions {
		flowTotal += totals[c].Flow
	}
	barTotal := 0
	for _, bucket := range aggregate.Bar(placed, models.FilterState{}).Buckets {
		barTotal += bucket.Total
	}

	w := cmd.OutOrStdout()
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	_, _ = fmt.Fprintf(w, "%d of %d rows compared\n\n", len(placed), len(records))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, bold.Sprint("CONDITION")+"\t"+bold.Sprint("FLOW")+"\t"+bold.Sprint("PIE")+"\t"+bold.Sprint("CGPA")+"\t"+bold.Sprint("STATUS"))
	mismatches := 0
	for _, c := range models.Conditions {
		t := totals[c]
		status := green.Sprint("ok")
		if !t.agree() {
			status = red.Sprint("mismatch")
			mismatches++
		}
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", c, t.Flow, t.Pie, t.CGPA, status)
	}
	status := green.Sprint("ok")
	if flowTotal != barTotal {
		status = red.Sprint("mismatch")
		mismatches++
	}
	_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", "Bar total", flowTotal, "-", "-", status)
	if err := tw.Flush(); err != nil {
		return err
	}

	if mismatches > 0 {
		return exitError(ExitMismatch, "mhdash: %d chart total(s) disagree", mismatches)
	}
	return nil
}

func comparableRecords(records []models.StudentRecord) []models.StudentRecord {
	out := make([]models.StudentRecord, 0, len(records))
	for _, r := range records {
		if r.AgeGroup() == models.AgeGroupNone || r.GenderGroup() == models.GenderUnknown || r.Band() == models.CGPABandNone {
			continue
		}
		out = append(out, r)
	}
	return out
}

func compareCharts(records []models.StudentRecord) map[models.Condition]conditionTotals {
	totals := make(map[models.Condition]conditionTotals, len(models.Conditions))

	graph := aggregate.Sankey(records, models.FilterState{})
	pie := aggregate.Pie(records, models.FilterState{}, aggregate.PieOptions{KeepEmpty: true})
	cgpa := aggregate.CGPA(records, models.FilterState{})

	for _, c := range models.Conditions {
		var t conditionTotals
		target := aggregate.ConditionNodeIndex(c)
		for _, link := range graph.Links {
			if link.Target == target {
				t.Flow += link.Value
			}
		}
		for _, group := range pie.Groups {
			for _, segment := range group.Segments {
				if segment.Condition == c {
					t.Pie += segment.Count
				}
			}
		}
		for _, bucket := range cgpa.Buckets {
			t.CGPA += bucket.Count(c)
		}
		totals[c] = t
	}
	return totals
}
