package chart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/student-mental-health-api/internal/dto"
	"github.com/noah-isme/student-mental-health-api/internal/models"
	appErrors "github.com/noah-isme/student-mental-health-api/pkg/errors"
)

// Loader provides the survey rows.
type Loader interface {
	Load(ctx context.Context) ([]models.StudentRecord, error)
}

// ModelCache stores rendered chart models keyed by chart and filter.
type ModelCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Props is what the dashboard hands an adapter on every render.
type Props struct {
	Filter        models.FilterState
	Transitioning bool
	// OnElementHover receives the hovered element, or nil when the pointer left.
	OnElementHover func(el *models.HoveredElement)
	// OnNodeSelect is only invoked by the Sankey adapter.
	OnNodeSelect func(name string, category models.Dimension)
}

// Params groups adapter dependencies.
type Params struct {
	Loader   Loader
	Cache    ModelCache
	CacheTTL time.Duration
	Logger   *zap.Logger
	// KeepEmptySlices keeps zero count pie slices.
	KeepEmptySlices bool
}

type builder func(records []models.StudentRecord, filter models.FilterState) *dto.ChartModel

// Adapter binds one chart kind to the dashboard. An adapter loads its rows
// once per mount, memoizes the model of the last filter and tracks the
// element under the pointer so hover callbacks fire once per transition.
// Callbacks are never invoked while the adapter lock is held.
type Adapter struct {
	kind     models.ChartKind
	build    builder
	loader   Loader
	cache    ModelCache
	cacheTTL time.Duration
	// variant names the build options in cache keys so adapters with
	// different options never share a cached model.
	variant string
	logger  *zap.Logger

	mu       sync.Mutex
	token    string
	records  []models.StudentRecord
	props    Props
	model    *dto.ChartModel
	memoKey  string
	elements map[string]dto.ChartElement
	hovered  string
}

func newAdapter(kind models.ChartKind, build builder, params Params) *Adapter {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		kind:     kind,
		build:    build,
		loader:   params.Loader,
		cache:    params.Cache,
		cacheTTL: params.CacheTTL,
		variant:  string(kind),
		logger:   logger.With(zap.String("chart", string(kind))),
	}
}

// New constructs the adapter of the given kind.
func New(kind models.ChartKind, params Params) (*Adapter, error) {
	switch kind {
	case models.ChartSankey:
		return NewSankey(params), nil
	case models.ChartBar:
		return NewBar(params), nil
	case models.ChartPie:
		return NewPie(params), nil
	case models.ChartCGPA:
		return NewCGPA(params), nil
	}
	return nil, fmt.Errorf("unknown chart kind %q", kind)
}

// Kind returns the chart this adapter draws.
func (a *Adapter) Kind() models.ChartKind {
	return a.kind
}

// Mounted reports whether the adapter is attached to the dashboard.
func (a *Adapter) Mounted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token != ""
}

// Mount attaches the adapter and issues a fresh mount token. Mounting an
// already mounted adapter is a no-op.
func (a *Adapter) Mount() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token == "" {
		a.token = uuid.NewString()
		a.records = nil
		a.model = nil
		a.memoKey = ""
		a.elements = nil
		a.hovered = ""
	}
	return a.token
}

// Unmount detaches the adapter and drops renders still in flight. It reports
// whether an element of this chart was hovered; releasing that hover is up
// to the caller since the adapter no longer owns any callbacks.
func (a *Adapter) Unmount() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token == "" {
		return false
	}
	hadHover := a.hovered != ""
	a.token = ""
	a.records = nil
	a.model = nil
	a.memoKey = ""
	a.elements = nil
	a.hovered = ""
	a.props = Props{}
	return hadHover
}

// Render builds the chart for props. The returned model must not be mutated.
func (a *Adapter) Render(ctx context.Context, props Props) (*dto.ChartModel, error) {
	key := props.Filter.Key()

	a.mu.Lock()
	token := a.token
	if token == "" {
		a.mu.Unlock()
		return nil, appErrors.ErrChartNotMounted
	}
	if a.model != nil && a.memoKey == key {
		a.props = props
		model := withTransition(a.model, props.Transitioning)
		a.mu.Unlock()
		return model, nil
	}
	records := a.records
	a.mu.Unlock()

	if records == nil {
		loaded, err := a.loader.Load(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			a.logger.Error("load chart dataset", zap.Error(err))
			return nil, appErrors.WrapAs(err, appErrors.ErrDatasetUnavailable)
		}
		records = loaded
		if records == nil {
			records = []models.StudentRecord{}
		}
	}

	model := a.buildModel(ctx, records, props.Filter)

	a.mu.Lock()
	if a.token != token {
		a.mu.Unlock()
		a.logger.Debug("dropping stale render", zap.String("filter", key))
		return nil, appErrors.ErrStaleRender
	}
	a.records = records
	a.props = props
	a.model = model
	a.memoKey = key
	a.elements = indexElements(model)
	var notify func(*models.HoveredElement)
	if a.hovered != "" {
		if _, ok := a.elements[a.hovered]; !ok {
			a.hovered = ""
			notify = props.OnElementHover
		}
	}
	out := withTransition(model, props.Transitioning)
	a.mu.Unlock()

	if notify != nil {
		notify(nil)
	}
	return out, nil
}

func (a *Adapter) buildModel(ctx context.Context, records []models.StudentRecord, filter models.FilterState) *dto.ChartModel {
	cacheKey := fmt.Sprintf("chart:%s:%s", a.variant, filter.Key())
	if a.cache != nil {
		var cached dto.ChartModel
		if hit, err := a.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached
		}
	}
	model := a.build(records, filter)
	if a.cache != nil {
		if err := a.cache.Set(ctx, cacheKey, model, a.cacheTTL); err != nil {
			a.logger.Debug("chart cache set failed", zap.Error(err))
		}
	}
	return model
}

// PointerEnter moves the pointer onto element id. It reports whether a hover
// event was emitted; entering the element already under the pointer emits nothing.
func (a *Adapter) PointerEnter(id string, pointer models.Pointer) (bool, error) {
	a.mu.Lock()
	if a.token == "" {
		a.mu.Unlock()
		return false, appErrors.ErrChartNotMounted
	}
	el, ok := a.elements[id]
	if !ok {
		a.mu.Unlock()
		return false, appErrors.ErrUnknownElement
	}
	if a.hovered == id {
		a.mu.Unlock()
		return false, nil
	}
	a.hovered = id
	notify := a.props.OnElementHover
	a.mu.Unlock()

	if notify != nil {
		hovered := el.Hovered(pointer)
		notify(&hovered)
	}
	return true, nil
}

// PointerLeave moves the pointer off element id, or off whatever element is
// hovered when id is empty. It reports whether a hover event was emitted.
func (a *Adapter) PointerLeave(id string) (bool, error) {
	a.mu.Lock()
	if a.token == "" {
		a.mu.Unlock()
		return false, appErrors.ErrChartNotMounted
	}
	if a.hovered == "" || (id != "" && a.hovered != id) {
		a.mu.Unlock()
		return false, nil
	}
	a.hovered = ""
	notify := a.props.OnElementHover
	a.mu.Unlock()

	if notify != nil {
		notify(nil)
	}
	return true, nil
}

// Hovered returns the id of the element under the pointer.
func (a *Adapter) Hovered() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hovered
}

// Click activates element id. Only Sankey nodes are selectable.
func (a *Adapter) Click(id string) error {
	a.mu.Lock()
	if a.token == "" {
		a.mu.Unlock()
		return appErrors.ErrChartNotMounted
	}
	el, ok := a.elements[id]
	if !ok {
		a.mu.Unlock()
		return appErrors.ErrUnknownElement
	}
	notify := a.props.OnNodeSelect
	a.mu.Unlock()

	if a.kind != models.ChartSankey || el.Kind != string(models.ElementNode) {
		return appErrors.ErrNotSelectable
	}
	if notify != nil {
		notify(el.Name, models.Dimension(el.Category))
	}
	return nil
}

func withTransition(model *dto.ChartModel, transitioning bool) *dto.ChartModel {
	out := *model
	out.Transitioning = transitioning
	return &out
}

func indexElements(model *dto.ChartModel) map[string]dto.ChartElement {
	elements := model.Elements()
	out := make(map[string]dto.ChartElement, len(elements))
	for _, el := range elements {
		out[el.ID] = el
	}
	return out
}
