package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-mental-health-api/internal/chart"
	"github.com/noah-isme/student-mental-health-api/internal/models"
	"github.com/noah-isme/student-mental-health-api/pkg/jobs"
)

// WarmupTask is one chart model to precompute.
type WarmupTask struct {
	Kind   models.ChartKind
	Filter models.FilterState
}

// WarmupParams groups cache warmup dependencies.
type WarmupParams struct {
	Loader   chart.Loader
	Cache    chart.ModelCache
	CacheTTL time.Duration
	Workers  int
	Logger   *zap.Logger
	// KeepEmptySlices must match the chart service so keys line up.
	KeepEmptySlices bool
}

// WarmupService fills the chart cache with the models reachable by a single
// click from the overview.
type WarmupService struct {
	loader          *memoLoader
	cache           chart.ModelCache
	cacheTTL        time.Duration
	workers         int
	logger          *zap.Logger
	keepEmptySlices bool
}

// NewWarmupService validates dependencies and builds the service.
func NewWarmupService(params WarmupParams) (*WarmupService, error) {
	if params.Loader == nil {
		return nil, errors.New("cache warmup requires a dataset loader")
	}
	if params.Cache == nil {
		return nil, errors.New("cache warmup requires a chart cache")
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WarmupService{
		loader:          &memoLoader{next: params.Loader},
		cache:           params.Cache,
		cacheTTL:        params.CacheTTL,
		workers:         params.Workers,
		logger:          logger.With(zap.String("component", "cache_warmup")),
		keepEmptySlices: params.KeepEmptySlices,
	}, nil
}

// WarmupTasks lists every chart under the empty filter and under each single
// dimension value.
func WarmupTasks() []WarmupTask {
	filters := []models.FilterState{{}}
	for _, group := range models.AgeGroups {
		filters = append(filters, models.FilterState{Age: group})
	}
	for _, c := range models.Conditions {
		filters = append(filters, models.FilterState{Condition: c})
	}
	for _, t := range models.TreatmentStatuses {
		filters = append(filters, models.FilterState{Treatment: t})
	}

	tasks := make([]WarmupTask, 0, len(filters)*len(models.ChartKinds))
	for _, kind := range models.ChartKinds {
		for _, filter := range filters {
			tasks = append(tasks, WarmupTask{Kind: kind, Filter: filter})
		}
	}
	return tasks
}

// Run renders every warmup task through the worker pool and waits for them.
func (s *WarmupService) Run(ctx context.Context) (jobs.Result, error) {
	pool := jobs.NewPool("chart-warmup", s.render, jobs.Config{
		Workers:     s.workers,
		MaxAttempts: 2,
		RetryDelay:  50 * time.Millisecond,
		Logger:      s.logger,
	})
	pool.Start(ctx)
	defer pool.Stop()

	start := time.Now()
	for _, task := range WarmupTasks() {
		if err := pool.Submit(task); err != nil {
			return pool.Result(), err
		}
	}
	result, err := pool.Wait(ctx)
	s.logger.Info("chart cache warmed",
		zap.Int("completed", result.Completed),
		zap.Int("failed", result.Failed),
		zap.Duration("took", time.Since(start)),
	)
	return result, err
}

func (s *WarmupService) render(ctx context.Context, task WarmupTask) error {
	adapter, err := chart.New(task.Kind, chart.Params{
		Loader:          s.loader,
		Cache:           s.cache,
		CacheTTL:        s.cacheTTL,
		Logger:          s.logger,
		KeepEmptySlices: s.keepEmptySlices,
	})
	if err != nil {
		return err
	}
	adapter.Mount()
	defer adapter.Unmount()
	_, err = adapter.Render(ctx, chart.Props{Filter: task.Filter})
	return err
}

// memoLoader keeps the first successful load for the lifetime of a warmup.
type memoLoader struct {
	next chart.Loader

	mu      sync.Mutex
	records []models.StudentRecord
}

func (l *memoLoader) Load(ctx context.Context) ([]models.StudentRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.records != nil {
		return l.records, nil
	}
	records, err := l.next.Load(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.StudentRecord{}
	}
	l.records = records
	return records, nil
}
