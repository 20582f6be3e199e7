package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/noah-isme/student-mental-health-api/internal/chart"
	"github.com/noah-isme/student-mental-health-api/internal/models"
	"github.com/noah-isme/student-mental-health-api/internal/service"
	"github.com/noah-isme/student-mental-health-api/pkg/export"
)

var (
	summaryChart     string
	summaryAge       string
	summaryCondition string
	summaryTreatment string
	summaryKeepEmpty bool
	summaryCSV       bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print one chart aggregate for the dataset",
	Long: `Print the table behind one chart (sankey, bar, pie or cgpa) under an
optional filter. Filter values use the labels shown on the dashboard, for
example --age "18 or younger" or --condition "Panic Attack".`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryChart, "chart", "c", string(models.ChartSankey), "chart to summarize (sankey, bar, pie, cgpa)")
	summaryCmd.Flags().StringVar(&summaryAge, "age", "", "age group filter")
	summaryCmd.Flags().StringVar(&summaryCondition, "condition", "", "condition filter")
	summaryCmd.Flags().StringVar(&summaryTreatment, "treatment", "", "treatment status filter")
	summaryCmd.Flags().BoolVar(&summaryKeepEmpty, "keep-empty", false, "keep zero count pie slices")
	summaryCmd.Flags().BoolVar(&summaryCSV, "csv", false, "write CSV instead of a table")
}

func runSummary(cmd *cobra.Command, _ []string) error {
	kind, ok := models.ParseChartKind(summaryChart)
	if !ok {
		return exitError(ExitInvalidArgs, "mhdash: unknown chart %q", summaryChart)
	}
	filter, err := summaryFilter()
	if err != nil {
		return exitError(ExitInvalidArgs, "mhdash: %v", err)
	}

	records, err := loadRecords(cmd.Context())
	if err != nil {
		return err
	}
	adapter, err := chart.New(kind, chart.Params{
		Loader:          recordSet(records),
		Logger:          cliLogger,
		KeepEmptySlices: summaryKeepEmpty,
	})
	if err != nil {
		return exitError(ExitInvalidArgs, "mhdash: %v", err)
	}
	adapter.Mount()
	defer adapter.Unmount()

	model, err := adapter.Render(cmd.Context(), chart.Props{Filter: filter})
	if err != nil {
		return exitError(ExitInvalidArgs, "mhdash: %v", err)
	}
	dataset, err := service.ChartDataset(model)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if summaryCSV {
		body, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return err
		}
		_, err = w.Write(body)
		return err
	}
	return printDataset(w, dataset)
}

func summaryFilter() (models.FilterState, error) {
	filter := models.FilterState{}
	selections := []struct {
		dimension models.Dimension
		value     string
	}{
		{models.DimensionAge, summaryAge},
		{models.DimensionCondition, summaryCondition},
		{models.DimensionTreatment, summaryTreatment},
	}
	for _, s := range selections {
		if strings.TrimSpace(s.value) == "" {
			continue
		}
		next, err := filter.Toggle(s.dimension, s.value)
		if err != nil {
			return filter, err
		}
		filter = next
	}
	return filter, nil
}

func printDataset(w io.Writer, dataset export.Dataset) error {
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	_, _ = bold.Fprintln(w, dataset.Title)
	for _, note := range dataset.Notes {
		_, _ = dim.Fprintln(w, note)
	}
	_, _ = fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	headers := make([]string, len(dataset.Headers))
	for i, h := range dataset.Headers {
		headers[i] = bold.Sprint(h)
	}
	_, _ = fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range dataset.Rows {
		cells := make([]string, len(dataset.Headers))
		for i, h := range dataset.Headers {
			cells[i] = row[h]
		}
		_, _ = fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if len(dataset.Rows) == 0 {
		_, _ = fmt.Fprintln(tw, dim.Sprint("(no matching students)"))
	}
	return tw.Flush()
}
