package service

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/student-mental-health-api/internal/models"
	appErrors "github.com/noah-isme/student-mental-health-api/pkg/errors"
)

const defaultSettleWindow = 500 * time.Millisecond

// DashboardConfig tunes dashboard behaviour.
type DashboardConfig struct {
	// SettleWindow is how long the view stays in transition after a selection.
	SettleWindow time.Duration
}

// DashboardParams groups constructor dependencies.
type DashboardParams struct {
	Scheduler Scheduler
	Metrics   *MetricsService
	Logger    *zap.Logger
	Config    DashboardConfig
}

// Dashboard is the shared state of one dashboard instance: the filter
// selection, the active view with its transition flag, and the hovered
// element. Mutations are serialized and every mutation produces a new
// snapshot version.
type Dashboard struct {
	scheduler Scheduler
	metrics   *MetricsService
	logger    *zap.Logger
	settle    time.Duration

	mu          sync.Mutex
	id          string
	version     uint64
	filter      models.FilterState
	view        models.ViewState
	hover       models.HoverState
	settleTimer Timer
	generation  uint64
	closed      bool

	subMu       sync.Mutex
	subscribers map[uint64]func(models.DashboardSnapshot)
	nextSub     uint64
}

// NewDashboard constructs an empty dashboard showing the overview.
func NewDashboard(params DashboardParams) *Dashboard {
	cfg := params.Config
	if cfg.SettleWindow <= 0 {
		cfg.SettleWindow = defaultSettleWindow
	}
	scheduler := params.Scheduler
	if scheduler == nil {
		scheduler = NewClockScheduler()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{
		scheduler:   scheduler,
		metrics:     params.Metrics,
		logger:      logger,
		settle:      cfg.SettleWindow,
		id:          uuid.NewString(),
		view:        models.ViewState{Active: models.ViewSankey},
		subscribers: make(map[uint64]func(models.DashboardSnapshot)),
	}
}

// ID identifies this dashboard instance.
func (d *Dashboard) ID() string {
	return d.id
}

// Snapshot returns a consistent copy of the current state.
func (d *Dashboard) Snapshot() models.DashboardSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

// Toggle selects value on dimension, or clears the dimension when value is
// already selected, then routes the view for the dimension.
func (d *Dashboard) Toggle(dimension models.Dimension, value string) (models.DashboardSnapshot, error) {
	return d.mutate(func() error {
		next, err := d.filter.Toggle(dimension, value)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		action := "select"
		if next.Value(dimension) == "" {
			action = "deselect"
		}
		d.filter = next
		d.metrics.RecordSelection(string(dimension), action)
		d.routeLocked(RouteForDimension(dimension))
		return nil
	})
}

// SelectNode applies a click on a flow diagram node of the given category.
func (d *Dashboard) SelectNode(name string, category models.Dimension) (models.DashboardSnapshot, error) {
	return d.Toggle(category, name)
}

// Clear unsets one dimension, as the remove button of a filter tag does.
// The view is left unchanged.
func (d *Dashboard) Clear(dimension models.Dimension) (models.DashboardSnapshot, error) {
	return d.mutate(func() error {
		next, err := d.filter.Clear(dimension)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		d.filter = next
		d.metrics.RecordSelection(string(dimension), "clear")
		d.startTransitionLocked()
		return nil
	})
}

// ResetAll clears every dimension and returns to the overview.
func (d *Dashboard) ResetAll() (models.DashboardSnapshot, error) {
	return d.mutate(func() error {
		d.filter = models.FilterState{}
		d.metrics.RecordSelection("all", "reset")
		d.routeLocked(models.ViewSankey)
		return nil
	})
}

// SetHover replaces the hovered element unconditionally. owner names the
// chart that emitted it and may be empty.
func (d *Dashboard) SetHover(owner models.ChartKind, el models.HoveredElement) (models.DashboardSnapshot, error) {
	return d.mutate(func() error {
		d.hover = models.HoverState{Element: &el, Owner: owner}
		d.metrics.RecordHover(string(el.Kind))
		return nil
	})
}

// ClearHover empties the hovered element. A non-empty owner only clears an
// element that owner set, so a late leave event of one chart cannot hide the
// tooltip of another.
func (d *Dashboard) ClearHover(owner models.ChartKind) (models.DashboardSnapshot, error) {
	return d.mutate(func() error {
		if d.hover.Element == nil {
			return errUnchanged
		}
		if owner != "" && d.hover.Owner != owner {
			return errUnchanged
		}
		d.hover = models.HoverState{}
		return nil
	})
}

// Subscribe registers fn for every new snapshot. fn runs on the mutating
// goroutine without any dashboard lock held and may mutate the dashboard
// itself; concurrent mutations can deliver snapshots out of order, so
// consumers keep the highest Version. The returned function removes the
// subscription.
func (d *Dashboard) Subscribe(fn func(models.DashboardSnapshot)) func() {
	d.subMu.Lock()
	id := d.nextSub
	d.nextSub++
	d.subscribers[id] = fn
	d.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.subMu.Lock()
			delete(d.subscribers, id)
			d.subMu.Unlock()
		})
	}
}

// Close cancels the pending settle task and rejects further mutations.
func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.generation++
	if d.settleTimer != nil {
		d.settleTimer.Stop()
		d.settleTimer = nil
	}
	d.logger.Debug("dashboard closed", zap.String("dashboard", d.id))
}

var errUnchanged = errors.New("dashboard unchanged")

func (d *Dashboard) mutate(apply func() error) (models.DashboardSnapshot, error) {
	d.mu.Lock()
	if d.closed {
		snap := d.snapshotLocked()
		d.mu.Unlock()
		return snap, appErrors.ErrDashboardClosed
	}
	if err := apply(); err != nil {
		snap := d.snapshotLocked()
		d.mu.Unlock()
		if errors.Is(err, errUnchanged) {
			return snap, nil
		}
		return snap, err
	}
	d.version++
	snap := d.snapshotLocked()
	d.mu.Unlock()
	d.publish(snap)
	return snap, nil
}

func (d *Dashboard) routeLocked(view models.View) {
	if d.view.Active != view {
		d.metrics.RecordViewChange(string(view))
	}
	d.view.Active = view
	d.startTransitionLocked()
}

// startTransitionLocked raises the transition flag and replaces any pending
// settle task, so the flag drops one full window after the latest change.
func (d *Dashboard) startTransitionLocked() {
	d.view.Transitioning = true
	if d.settleTimer != nil {
		d.settleTimer.Stop()
	}
	d.generation++
	generation := d.generation
	d.settleTimer = d.scheduler.AfterFunc(d.settle, func() {
		d.settleTransition(generation)
	})
}

func (d *Dashboard) settleTransition(generation uint64) {
	_, err := d.mutate(func() error {
		if generation != d.generation || !d.view.Transitioning {
			return errUnchanged
		}
		d.view.Transitioning = false
		d.settleTimer = nil
		return nil
	})
	if err != nil && !errors.Is(err, appErrors.ErrDashboardClosed) {
		d.logger.Warn("settle transition", zap.Error(err))
	}
}

func (d *Dashboard) publish(snap models.DashboardSnapshot) {
	d.subMu.Lock()
	subs := make([]func(models.DashboardSnapshot), 0, len(d.subscribers))
	for _, fn := range d.subscribers {
		subs = append(subs, fn)
	}
	d.subMu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

func (d *Dashboard) snapshotLocked() models.DashboardSnapshot {
	snap := models.DashboardSnapshot{
		ID:      d.id,
		Version: d.version,
		Filter:  d.filter,
		View:    d.view,
		Hover:   models.HoverState{Owner: d.hover.Owner},
	}
	if d.hover.Element != nil {
		el := *d.hover.Element
		if el.Percentage != nil {
			pct := *el.Percentage
			el.Percentage = &pct
		}
		snap.Hover.Element = &el
	}
	return snap
}
