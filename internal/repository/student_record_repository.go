package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/student-mental-health-api/internal/models"
)

// LoadStats describes a CSV read.
type LoadStats struct {
	Rows    int
	Skipped int
}

// StudentRecordRepository reads the survey CSV from disk. Every Load parses
// the file again; callers that want reuse keep the result themselves.
type StudentRecordRepository struct {
	path    string
	logger  *zap.Logger
	open    func(string) (io.ReadCloser, error)
	skipped SkipRecorder
}

// SkipRecorder counts rows rejected while loading.
type SkipRecorder interface {
	RecordSkippedRows(n int)
}

// NewStudentRecordRepository constructs the repository for the CSV at path.
func NewStudentRecordRepository(path string, logger *zap.Logger) *StudentRecordRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentRecordRepository{
		path:   path,
		logger: logger,
		open: func(p string) (io.ReadCloser, error) {
			return os.Open(p)
		},
	}
}

// WithSkipRecorder reports skipped rows of every Load to rec.
func (r *StudentRecordRepository) WithSkipRecorder(rec SkipRecorder) *StudentRecordRepository {
	r.skipped = rec
	return r
}

// Fingerprint identifies the current revision of the CSV by size and
// modification time.
func (r *StudentRecordRepository) Fingerprint() (string, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		return "", fmt.Errorf("stat dataset %s: %w", r.path, err)
	}
	return fmt.Sprintf("%x-%x", info.Size(), info.ModTime().UnixNano()), nil
}

// Path returns the CSV location.
func (r *StudentRecordRepository) Path() string {
	return r.path
}

// Load parses every row of the CSV.
func (r *StudentRecordRepository) Load(ctx context.Context) ([]models.StudentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := r.open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", r.path, err)
	}
	defer f.Close()

	records, stats, err := ParseStudentRecords(f)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", r.path, err)
	}
	if stats.Skipped > 0 {
		if r.skipped != nil {
			r.skipped.RecordSkippedRows(stats.Skipped)
		}
		r.logger.Warn("skipped malformed dataset rows",
			zap.String("path", r.path),
			zap.Int("skipped", stats.Skipped),
			zap.Int("rows", stats.Rows),
		)
	}
	r.logger.Debug("dataset loaded", zap.String("path", r.path), zap.Int("rows", stats.Rows))
	return records, nil
}

// ParseStudentRecords reads CSV rows into records. Columns are located by
// exact header text; a missing required header fails the whole read while
// rows the CSV reader rejects are skipped and counted.
func ParseStudentRecords(src io.Reader) ([]models.StudentRecord, LoadStats, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, LoadStats{}, errors.New("dataset is empty")
		}
		return nil, LoadStats{}, fmt.Errorf("read headers: %w", err)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	var missing []string
	for _, column := range models.RequiredColumns {
		if _, ok := index[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, LoadStats{}, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var (
		records []models.StudentRecord
		stats   LoadStats
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				stats.Skipped++
				continue
			}
			return nil, stats, fmt.Errorf("read row: %w", err)
		}
		stats.Rows++
		records = append(records, models.StudentRecord{
			Age:         cell(row, models.ColumnAge),
			Gender:      cell(row, models.ColumnGender),
			Course:      cell(row, models.ColumnCourse),
			YearOfStudy: cell(row, models.ColumnYearOfStudy),
			CGPA:        cell(row, models.ColumnCGPA),
			Depression:  cell(row, models.ColumnDepression),
			Anxiety:     cell(row, models.ColumnAnxiety),
			PanicAttack: cell(row, models.ColumnPanicAttack),
			Treatment:   cell(row, models.ColumnTreatment),
		})
	}
	return records, stats, nil
}
