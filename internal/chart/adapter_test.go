package chart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-mental-health-api/internal/dto"
	"github.com/noah-isme/student-mental-health-api/internal/models"
	appErrors "github.com/noah-isme/student-mental-health-api/pkg/errors"
)

type fakeLoader struct {
	mu      sync.Mutex
	records []models.StudentRecord
	err     error
	calls   int
	gate    chan struct{}
	started chan struct{}
}

func (f *fakeLoader) Load(ctx context.Context) ([]models.StudentRecord, error) {
	f.mu.Lock()
	f.calls++
	gate, started := f.gate, f.started
	f.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.records, f.err
}

func (f *fakeLoader) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeModelCache struct {
	mu      sync.Mutex
	entries map[string]dto.ChartModel
	sets    int
}

func (f *fakeModelCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	model, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	*dest.(*dto.ChartModel) = model
	return true, nil
}

func (f *fakeModelCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entries == nil {
		f.entries = map[string]dto.ChartModel{}
	}
	f.entries[key] = *value.(*dto.ChartModel)
	f.sets++
	return nil
}

type hoverRecorder struct {
	mu     sync.Mutex
	events []*models.HoveredElement
}

func (h *hoverRecorder) record(el *models.HoveredElement) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, el)
}

func (h *hoverRecorder) Events() []*models.HoveredElement {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*models.HoveredElement(nil), h.events...)
}

func surveyRecords() []models.StudentRecord {
	return []models.StudentRecord{
		{Age: "19", Gender: "Male", CGPA: "3.00 - 3.49", Depression: "Yes", Anxiety: "No", PanicAttack: "No", Treatment: "Yes"},
		{Age: "25", Gender: "Female", CGPA: "3.50 - 4.00", Depression: "No", Anxiety: "No", PanicAttack: "No", Treatment: "No"},
		{Age: "20", Gender: "Female", CGPA: "2.50 - 2.99", Depression: "Yes", Anxiety: "Yes", PanicAttack: "No", Treatment: "No"},
	}
}

func TestRenderRequiresMount(t *testing.T) {
	adapter := NewSankey(Params{Loader: &fakeLoader{records: surveyRecords()}})
	_, err := adapter.Render(context.Background(), Props{})
	assert.ErrorIs(t, err, appErrors.ErrChartNotMounted)
}

func TestRenderLoadsOncePerMount(t *testing.T) {
	loader := &fakeLoader{records: surveyRecords()}
	adapter := NewBar(Params{Loader: loader})
	adapter.Mount()

	_, err := adapter.Render(context.Background(), Props{})
	require.NoError(t, err)
	_, err = adapter.Render(context.Background(), Props{Filter: models.FilterState{Age: models.AgeGroup20}})
	require.NoError(t, err)
	assert.Equal(t, 1, loader.Calls())

	adapter.Unmount()
	adapter.Mount()
	_, err = adapter.Render(context.Background(), Props{})
	require.NoError(t, err)
	assert.Equal(t, 2, loader.Calls())
}

func TestRenderMemoizesFilterAndRefreshesTransition(t *testing.T) {
	cache := &fakeModelCache{}
	adapter := NewPie(Params{Loader: &fakeLoader{records: surveyRecords()}, Cache: cache})
	adapter.Mount()

	first, err := adapter.Render(context.Background(), Props{Transitioning: true})
	require.NoError(t, err)
	assert.True(t, first.Transitioning)

	second, err := adapter.Render(context.Background(), Props{Transitioning: false})
	require.NoError(t, err)
	assert.False(t, second.Transitioning)
	assert.Equal(t, first.Pie, second.Pie)
	assert.Equal(t, 1, cache.sets)
}

func TestRenderUsesCachedModel(t *testing.T) {
	cache := &fakeModelCache{entries: map[string]dto.ChartModel{
		"chart:bar:" + models.FilterState{}.Key(): {Kind: "bar", Title: "cached"},
	}}
	adapter := NewBar(Params{Loader: &fakeLoader{records: surveyRecords()}, Cache: cache})
	adapter.Mount()

	model, err := adapter.Render(context.Background(), Props{})
	require.NoError(t, err)
	assert.Equal(t, "cached", model.Title)
	assert.Zero(t, cache.sets)
}

func TestPieSliceOptionsDoNotShareCachedModels(t *testing.T) {
	cache := &fakeModelCache{}
	keep := NewPie(Params{Loader: &fakeLoader{records: surveyRecords()}, Cache: cache, KeepEmptySlices: true})
	drop := NewPie(Params{Loader: &fakeLoader{records: surveyRecords()}, Cache: cache})
	keep.Mount()
	drop.Mount()

	kept, err := keep.Render(context.Background(), Props{})
	require.NoError(t, err)
	dropped, err := drop.Render(context.Background(), Props{})
	require.NoError(t, err)

	slices := func(model *dto.ChartModel, gender string) int {
		for _, group := range model.Pie.Groups {
			if group.Gender == gender {
				return len(group.Slices)
			}
		}
		return -1
	}
	assert.Equal(t, len(models.Conditions), slices(kept, "Male"))
	assert.Equal(t, 1, slices(dropped, "Male"))
	assert.Equal(t, 2, cache.sets)
	assert.Contains(t, cache.entries, "chart:pie+keep:"+models.FilterState{}.Key())
	assert.Contains(t, cache.entries, "chart:pie:"+models.FilterState{}.Key())
}

func TestRenderReportsDatasetFailure(t *testing.T) {
	adapter := NewCGPA(Params{Loader: &fakeLoader{err: errors.New("no such file")}})
	adapter.Mount()

	model, err := adapter.Render(context.Background(), Props{})
	assert.Nil(t, model)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDatasetUnavailable.Code, appErrors.FromError(err).Code)
}

func TestRenderDropsResultAfterRemount(t *testing.T) {
	loader := &fakeLoader{records: surveyRecords(), gate: make(chan struct{}), started: make(chan struct{}, 1)}
	adapter := NewSankey(Params{Loader: loader})
	adapter.Mount()

	done := make(chan error, 1)
	go func() {
		_, err := adapter.Render(context.Background(), Props{})
		done <- err
	}()
	<-loader.started

	adapter.Unmount()
	adapter.Mount()
	close(loader.gate)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, appErrors.ErrStaleRender)
	case <-time.After(time.Second):
		t.Fatal("render did not finish")
	}
}

func TestPointerTransitionsEmitOnce(t *testing.T) {
	hovers := &hoverRecorder{}
	adapter := NewPie(Params{Loader: &fakeLoader{records: surveyRecords()}})
	adapter.Mount()
	_, err := adapter.Render(context.Background(), Props{OnElementHover: hovers.record})
	require.NoError(t, err)

	id := SliceID(models.GenderMale, models.ConditionDepression)
	emitted, err := adapter.PointerEnter(id, models.Pointer{X: 40, Y: 60})
	require.NoError(t, err)
	assert.True(t, emitted)

	emitted, err = adapter.PointerEnter(id, models.Pointer{X: 41, Y: 61})
	require.NoError(t, err)
	assert.False(t, emitted)

	emitted, err = adapter.PointerLeave(id)
	require.NoError(t, err)
	assert.True(t, emitted)

	emitted, err = adapter.PointerLeave(id)
	require.NoError(t, err)
	assert.False(t, emitted)

	events := hovers.Events()
	require.Len(t, events, 2)
	require.NotNil(t, events[0])
	assert.Equal(t, models.ElementPie, events[0].Kind)
	assert.Equal(t, "Depression", events[0].Name)
	assert.Equal(t, float64(1), events[0].Value)
	require.NotNil(t, events[0].Percentage)
	assert.InDelta(t, 100.0, *events[0].Percentage, 0.001)
	assert.Equal(t, models.Pointer{X: 40, Y: 60}, events[0].Pointer)
	assert.Nil(t, events[1])
}

func TestPointerEnterUnknownElement(t *testing.T) {
	adapter := NewBar(Params{Loader: &fakeLoader{records: surveyRecords()}})
	adapter.Mount()
	_, err := adapter.Render(context.Background(), Props{})
	require.NoError(t, err)

	_, err = adapter.PointerEnter("bar-99-sought", models.Pointer{})
	assert.ErrorIs(t, err, appErrors.ErrUnknownElement)
}

func TestRerenderReleasesVanishedHover(t *testing.T) {
	hovers := &hoverRecorder{}
	adapter := NewBar(Params{Loader: &fakeLoader{records: surveyRecords()}})
	adapter.Mount()
	_, err := adapter.Render(context.Background(), Props{OnElementHover: hovers.record})
	require.NoError(t, err)

	_, err = adapter.PointerEnter(BarID(models.AgeGroup24Plus, models.TreatmentNotSought), models.Pointer{})
	require.NoError(t, err)

	filter := models.FilterState{Treatment: models.TreatmentSought}
	_, err = adapter.Render(context.Background(), Props{Filter: filter, OnElementHover: hovers.record})
	require.NoError(t, err)

	events := hovers.Events()
	require.Len(t, events, 2)
	assert.Nil(t, events[1])
	assert.Empty(t, adapter.Hovered())
}

func TestUnmountReportsHover(t *testing.T) {
	hovers := &hoverRecorder{}
	adapter := NewSankey(Params{Loader: &fakeLoader{records: surveyRecords()}})
	adapter.Mount()
	_, err := adapter.Render(context.Background(), Props{OnElementHover: hovers.record})
	require.NoError(t, err)
	_, err = adapter.PointerEnter(NodeID(0), models.Pointer{})
	require.NoError(t, err)

	assert.True(t, adapter.Unmount())
	assert.False(t, adapter.Unmount())
	assert.False(t, adapter.Mounted())
	assert.Len(t, hovers.Events(), 1)

	_, err = adapter.PointerLeave("")
	assert.ErrorIs(t, err, appErrors.ErrChartNotMounted)
}

func TestClickSelectsSankeyNodesOnly(t *testing.T) {
	var selected []string
	props := Props{OnNodeSelect: func(name string, category models.Dimension) {
		selected = append(selected, string(category)+":"+name)
	}}

	sankey := NewSankey(Params{Loader: &fakeLoader{records: surveyRecords()}})
	sankey.Mount()
	_, err := sankey.Render(context.Background(), props)
	require.NoError(t, err)

	require.NoError(t, sankey.Click(NodeID(8)))
	assert.Equal(t, []string{"condition:Anxiety"}, selected)

	assert.ErrorIs(t, sankey.Click(LinkID(1, 7)), appErrors.ErrNotSelectable)
	assert.ErrorIs(t, sankey.Click("node-99"), appErrors.ErrUnknownElement)

	bar := NewBar(Params{Loader: &fakeLoader{records: surveyRecords()}})
	bar.Mount()
	_, err = bar.Render(context.Background(), props)
	require.NoError(t, err)
	assert.ErrorIs(t, bar.Click(BarID(models.AgeGroup19, models.TreatmentSought)), appErrors.ErrNotSelectable)
	assert.Len(t, selected, 1)
}

func TestNewRejectsUnknownKind(t *testing.T) {
	_, err := New(models.ChartKind("radar"), Params{})
	assert.Error(t, err)

	for _, kind := range models.ChartKinds {
		adapter, err := New(kind, Params{})
		require.NoError(t, err)
		assert.Equal(t, kind, adapter.Kind())
	}
}
