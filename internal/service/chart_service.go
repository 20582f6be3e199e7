package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-mental-health-api/internal/chart"
	"github.com/noah-isme/student-mental-health-api/internal/dto"
	"github.com/noah-isme/student-mental-health-api/internal/models"
	appErrors "github.com/noah-isme/student-mental-health-api/pkg/errors"
)

// ChartServiceParams groups chart service dependencies.
type ChartServiceParams struct {
	Dashboard *Dashboard
	Loader    chart.Loader
	Cache     *CacheService
	CacheTTL  time.Duration
	Metrics   *MetricsService
	Logger    *zap.Logger
	// KeepEmptySlices keeps zero count pie slices.
	KeepEmptySlices bool
}

// ChartService owns one adapter per chart kind and keeps the mounted set in
// line with the active view of the dashboard.
type ChartService struct {
	dashboard *Dashboard
	adapters  map[models.ChartKind]*chart.Adapter
	metrics   *MetricsService
	logger    *zap.Logger

	mu          sync.Mutex
	unsubscribe func()
	closed      bool
}

// NewChartService builds the adapters and mounts the charts of the current view.
func NewChartService(params ChartServiceParams) (*ChartService, error) {
	if params.Dashboard == nil {
		return nil, errors.New("chart service requires a dashboard")
	}
	if params.Loader == nil {
		return nil, errors.New("chart service requires a dataset loader")
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	adapterParams := chart.Params{
		Loader:          params.Loader,
		CacheTTL:        params.CacheTTL,
		Logger:          logger,
		KeepEmptySlices: params.KeepEmptySlices,
	}
	if params.Cache.Enabled() {
		adapterParams.Cache = params.Cache
	}

	s := &ChartService{
		dashboard: params.Dashboard,
		adapters:  make(map[models.ChartKind]*chart.Adapter, len(models.ChartKinds)),
		metrics:   params.Metrics,
		logger:    logger,
	}
	for _, kind := range models.ChartKinds {
		adapter, err := chart.New(kind, adapterParams)
		if err != nil {
			return nil, err
		}
		s.adapters[kind] = adapter
	}
	s.reconcile()
	s.unsubscribe = s.dashboard.Subscribe(func(models.DashboardSnapshot) {
		s.reconcile()
	})
	return s, nil
}

// Mounted lists the charts currently attached, in chart order.
func (s *ChartService) Mounted() []models.ChartKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChartKind, 0, len(s.adapters))
	for _, kind := range models.ChartKinds {
		if s.adapters[kind].Mounted() {
			out = append(out, kind)
		}
	}
	return out
}

// Render draws kind under the current dashboard state.
func (s *ChartService) Render(ctx context.Context, kind models.ChartKind) (*dto.ChartModel, error) {
	adapter, err := s.mountedAdapter(kind)
	if err != nil {
		return nil, err
	}
	snap := s.dashboard.Snapshot()
	start := time.Now()
	model, err := adapter.Render(ctx, s.props(kind, snap))
	if err != nil {
		if errors.Is(err, appErrors.ErrStaleRender) {
			s.metrics.RecordStaleRender(string(kind))
			s.logger.Warn("chart remounted during render", zap.String("chart", string(kind)))
		}
		return nil, err
	}
	s.metrics.ObserveRender(string(kind), time.Since(start))
	return model, nil
}

// PointerEnter moves the pointer onto an element of kind.
func (s *ChartService) PointerEnter(ctx context.Context, kind models.ChartKind, elementID string, pointer models.Pointer) (models.DashboardSnapshot, error) {
	if _, err := s.Render(ctx, kind); err != nil {
		return models.DashboardSnapshot{}, err
	}
	adapter, err := s.mountedAdapter(kind)
	if err != nil {
		return models.DashboardSnapshot{}, err
	}
	if _, err := adapter.PointerEnter(elementID, pointer); err != nil {
		return models.DashboardSnapshot{}, err
	}
	return s.dashboard.Snapshot(), nil
}

// PointerLeave moves the pointer off an element of kind; an empty id leaves
// whatever element of kind is hovered.
func (s *ChartService) PointerLeave(kind models.ChartKind, elementID string) (models.DashboardSnapshot, error) {
	adapter, err := s.mountedAdapter(kind)
	if err != nil {
		return models.DashboardSnapshot{}, err
	}
	if _, err := adapter.PointerLeave(elementID); err != nil {
		return models.DashboardSnapshot{}, err
	}
	return s.dashboard.Snapshot(), nil
}

// Click activates an element of kind. Clicking a flow diagram node toggles
// the matching filter.
func (s *ChartService) Click(ctx context.Context, kind models.ChartKind, elementID string) (models.DashboardSnapshot, error) {
	if _, err := s.Render(ctx, kind); err != nil {
		return models.DashboardSnapshot{}, err
	}
	adapter, err := s.mountedAdapter(kind)
	if err != nil {
		return models.DashboardSnapshot{}, err
	}
	if err := adapter.Click(elementID); err != nil {
		return models.DashboardSnapshot{}, err
	}
	return s.dashboard.Snapshot(), nil
}

// Close unsubscribes from the dashboard and unmounts every chart.
func (s *ChartService) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.closed = true
	for _, adapter := range s.adapters {
		adapter.Unmount()
	}
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *ChartService) mountedAdapter(kind models.ChartKind) (*chart.Adapter, error) {
	adapter, ok := s.adapters[kind]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown chart "+string(kind))
	}
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, appErrors.ErrDashboardClosed
	}
	if !adapter.Mounted() {
		return nil, appErrors.ErrChartNotMounted
	}
	return adapter, nil
}

// reconcile mounts the charts of the active view and unmounts the rest. A
// hover owned by an unmounted chart is released after the lock is dropped,
// since releasing it notifies subscribers, this service included.
func (s *ChartService) reconcile() {
	view := s.dashboard.Snapshot().View.Active
	want := make(map[models.ChartKind]bool, len(models.ChartKinds))
	for _, kind := range MountedCharts(view) {
		want[kind] = true
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	var released []models.ChartKind
	for _, kind := range models.ChartKinds {
		adapter := s.adapters[kind]
		if want[kind] {
			adapter.Mount()
			continue
		}
		if adapter.Unmount() {
			released = append(released, kind)
		}
	}
	s.mu.Unlock()

	for _, kind := range released {
		if _, err := s.dashboard.ClearHover(kind); err != nil && !errors.Is(err, appErrors.ErrDashboardClosed) {
			s.logger.Warn("release chart hover", zap.String("chart", string(kind)), zap.Error(err))
		}
	}
}

func (s *ChartService) props(kind models.ChartKind, snap models.DashboardSnapshot) chart.Props {
	return chart.Props{
		Filter:        snap.Filter,
		Transitioning: snap.View.Transitioning,
		OnElementHover: func(el *models.HoveredElement) {
			var err error
			if el == nil {
				_, err = s.dashboard.ClearHover(kind)
			} else {
				_, err = s.dashboard.SetHover(kind, *el)
			}
			if err != nil {
				s.logger.Warn("apply chart hover", zap.String("chart", string(kind)), zap.Error(err))
			}
		},
		OnNodeSelect: func(name string, category models.Dimension) {
			if _, err := s.dashboard.SelectNode(name, category); err != nil {
				s.logger.Warn("apply node selection", zap.String("node", name), zap.Error(err))
			}
		},
	}
}
