package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-mental-health-api/internal/dto"
	"github.com/noah-isme/student-mental-health-api/internal/models"
	appErrors "github.com/noah-isme/student-mental-health-api/pkg/errors"
	"github.com/noah-isme/student-mental-health-api/pkg/export"
)

// ExportFormat is a rendered table format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type chartRenderer interface {
	Render(ctx context.Context, kind models.ChartKind) (*dto.ChartModel, error)
}

type tableRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Enabled bool
}

// ExportResult is a rendered chart table ready for download.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService turns the current chart models into downloadable tables.
type ExportService struct {
	charts    chartRenderer
	renderers map[ExportFormat]tableRenderer
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to
// the CSV and PDF exporters.
func NewExportService(charts chartRenderer, cfg ExportConfig, logger *zap.Logger, csv, pdf tableRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		charts:    charts,
		renderers: map[ExportFormat]tableRenderer{ExportFormatCSV: csv, ExportFormatPDF: pdf},
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Export renders chart kind under the current filter in format.
func (s *ExportService) Export(ctx context.Context, kind models.ChartKind, format ExportFormat) (*ExportResult, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.ErrExportDisabled
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	model, err := s.charts.Render(ctx, kind)
	if err != nil {
		return nil, err
	}
	dataset, err := ChartDataset(model)
	if err != nil {
		return nil, err
	}
	body, err := renderer.Render(dataset)
	if err != nil {
		s.logger.Error("render chart export", zap.String("chart", string(kind)), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("%s_%s.%s", kind, s.now().UTC().Format("20060102_150405"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// ChartDataset flattens a chart model into a table.
func ChartDataset(model *dto.ChartModel) (export.Dataset, error) {
	if model == nil {
		return export.Dataset{}, appErrors.Clone(appErrors.ErrInternal, "chart model missing")
	}
	dataset := export.Dataset{Title: model.Title, Notes: []string{filterNote(model.Filters)}}
	switch {
	case model.Sankey != nil:
		dataset.Headers = []string{"Source", "Target", "Students"}
		names := make(map[int]string, len(model.Sankey.Nodes))
		for _, node := range model.Sankey.Nodes {
			names[node.Index] = node.Name
		}
		for _, link := range model.Sankey.Links {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Source":   names[link.Source],
				"Target":   names[link.Target],
				"Students": formatInt(link.Value),
			})
		}
	case model.Bar != nil:
		dataset.Headers = append([]string{"Age Group"}, model.Bar.Series...)
		dataset.Headers = append(dataset.Headers, "Total")
		for _, group := range model.Bar.Groups {
			row := map[string]string{"Age Group": group.AgeGroup, "Total": strconv.Itoa(group.Total)}
			for _, series := range model.Bar.Series {
				row[series] = "0"
			}
			for _, bar := range group.Bars {
				row[bar.Category] = formatInt(bar.Value)
			}
			dataset.Rows = append(dataset.Rows, row)
		}
	case model.Pie != nil:
		dataset.Headers = []string{"Gender", "Condition", "Count", "Percentage"}
		for _, group := range model.Pie.Groups {
			for _, slice := range group.Slices {
				pct := 0.0
				if slice.Percentage != nil {
					pct = *slice.Percentage
				}
				dataset.Rows = append(dataset.Rows, map[string]string{
					"Gender":     group.Gender,
					"Condition":  slice.Name,
					"Count":      formatInt(slice.Value),
					"Percentage": fmt.Sprintf("%.1f%%", pct),
				})
			}
		}
	case model.CGPA != nil:
		dataset.Headers = append([]string{"CGPA"}, model.CGPA.Series...)
		for _, group := range model.CGPA.Groups {
			row := map[string]string{"CGPA": group.Band}
			for i, bar := range group.Bars {
				if i < len(model.CGPA.Series) {
					row[model.CGPA.Series[i]] = formatInt(bar.Value)
				}
			}
			dataset.Rows = append(dataset.Rows, row)
		}
	default:
		return export.Dataset{}, appErrors.Clone(appErrors.ErrInternal, "chart model has no body")
	}
	return dataset, nil
}

func filterNote(filters dto.Filters) string {
	parts := []string{}
	add := func(label string, value *string) {
		if value != nil {
			parts = append(parts, label+": "+*value)
		}
	}
	add("Age", filters.SelectedAge)
	add("Condition", filters.SelectedCondition)
	add("Treatment", filters.SelectedTreatment)
	if len(parts) == 0 {
		return "Filters: none"
	}
	return "Filters: " + strings.Join(parts, ", ")
}

func formatInt(v float64) string {
	return strconv.FormatInt(int64(v), 10)
}
