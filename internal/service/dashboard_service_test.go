package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/student-mental-health-api/internal/models"
	appErrors "github.com/noah-isme/student-mental-health-api/pkg/errors"
)

type fakeTimer struct {
	sched   *fakeScheduler
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{sched: s, delay: d, fn: f}
	s.timers = append(s.timers, t)
	return t
}

// FireDue runs every timer that was neither stopped nor fired.
func (s *fakeScheduler) FireDue() int {
	s.mu.Lock()
	var due []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
	return len(due)
}

func (s *fakeScheduler) Timer(i int) *fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timers[i]
}

func (s *fakeScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func newTestDashboard(t *testing.T) (*Dashboard, *fakeScheduler) {
	t.Helper()
	sched := &fakeScheduler{}
	d := NewDashboard(DashboardParams{Scheduler: sched, Logger: zap.NewNop()})
	t.Cleanup(d.Close)
	return d, sched
}

func TestNewDashboardStartsOnOverview(t *testing.T) {
	d, _ := newTestDashboard(t)
	snap := d.Snapshot()

	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, d.ID(), snap.ID)
	assert.Zero(t, snap.Version)
	assert.True(t, snap.Filter.IsEmpty())
	assert.Equal(t, models.ViewState{Active: models.ViewSankey}, snap.View)
	assert.Nil(t, snap.Hover.Element)
}

func TestToggleRoutesViewByDimension(t *testing.T) {
	cases := []struct {
		dimension models.Dimension
		value     string
		view      models.View
	}{
		{models.DimensionAge, "19", models.ViewBar},
		{models.DimensionTreatment, "No Treatment", models.ViewBar},
		{models.DimensionCondition, "Anxiety", models.ViewPie},
	}
	for _, tc := range cases {
		t.Run(string(tc.dimension), func(t *testing.T) {
			d, sched := newTestDashboard(t)
			snap, err := d.Toggle(tc.dimension, tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.value, snap.Filter.Value(tc.dimension))
			assert.Equal(t, tc.view, snap.View.Active)
			assert.True(t, snap.View.Transitioning)
			assert.Equal(t, 1, sched.Len())
			assert.Equal(t, defaultSettleWindow, sched.Timer(0).delay)
		})
	}
}

func TestToggleSameValueClearsDimension(t *testing.T) {
	d, _ := newTestDashboard(t)
	_, err := d.Toggle(models.DimensionAge, "19")
	require.NoError(t, err)

	snap, err := d.Toggle(models.DimensionAge, "19")
	require.NoError(t, err)
	assert.Equal(t, models.AgeGroupNone, snap.Filter.Age)
	assert.Equal(t, models.ViewBar, snap.View.Active)
	assert.Equal(t, uint64(2), snap.Version)
}

func TestDimensionsAreIndependent(t *testing.T) {
	d, _ := newTestDashboard(t)
	_, err := d.Toggle(models.DimensionAge, "19")
	require.NoError(t, err)
	_, err = d.Toggle(models.DimensionCondition, "Depression")
	require.NoError(t, err)
	snap, err := d.Toggle(models.DimensionAge, "20")
	require.NoError(t, err)

	assert.Equal(t, models.AgeGroup20, snap.Filter.Age)
	assert.Equal(t, models.ConditionDepression, snap.Filter.Condition)
	assert.Equal(t, models.TreatmentNone, snap.Filter.Treatment)
}

func TestToggleRejectsUnknownValue(t *testing.T) {
	d, sched := newTestDashboard(t)
	snap, err := d.Toggle(models.DimensionCondition, "Insomnia")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, snap.Version)
	assert.Zero(t, sched.Len())

	_, err = d.Toggle(models.Dimension("gender"), "Male")
	assert.Error(t, err)
}

func TestSelectNodeTogglesCategory(t *testing.T) {
	d, _ := newTestDashboard(t)
	snap, err := d.SelectNode("Panic Attack", models.DimensionCondition)
	require.NoError(t, err)
	assert.Equal(t, models.ConditionPanicAttack, snap.Filter.Condition)
	assert.Equal(t, models.ViewPie, snap.View.Active)
}

func TestClearKeepsViewAndOtherDimensions(t *testing.T) {
	d, _ := newTestDashboard(t)
	_, err := d.Toggle(models.DimensionTreatment, "Sought Treatment")
	require.NoError(t, err)
	_, err = d.Toggle(models.DimensionAge, "23")
	require.NoError(t, err)

	snap, err := d.Clear(models.DimensionAge)
	require.NoError(t, err)
	assert.Equal(t, models.AgeGroupNone, snap.Filter.Age)
	assert.Equal(t, models.TreatmentSought, snap.Filter.Treatment)
	assert.Equal(t, models.ViewBar, snap.View.Active)

	again, err := d.Clear(models.DimensionAge)
	require.NoError(t, err)
	assert.Equal(t, snap.Filter, again.Filter)
}

func TestResetAllReturnsToOverview(t *testing.T) {
	d, _ := newTestDashboard(t)
	_, err := d.Toggle(models.DimensionCondition, "Anxiety")
	require.NoError(t, err)
	_, err = d.Toggle(models.DimensionAge, "21")
	require.NoError(t, err)

	snap, err := d.ResetAll()
	require.NoError(t, err)
	assert.True(t, snap.Filter.IsEmpty())
	assert.Equal(t, models.ViewSankey, snap.View.Active)
	assert.True(t, snap.View.Transitioning)
}

func TestSettleClearsTransitionAfterWindow(t *testing.T) {
	d, sched := newTestDashboard(t)
	_, err := d.Toggle(models.DimensionAge, "19")
	require.NoError(t, err)

	assert.Equal(t, 1, sched.FireDue())
	snap := d.Snapshot()
	assert.False(t, snap.View.Transitioning)
	assert.Equal(t, uint64(2), snap.Version)
	assert.Equal(t, models.ViewBar, snap.View.Active)
}

func TestNewToggleCancelsPendingSettle(t *testing.T) {
	d, sched := newTestDashboard(t)
	_, err := d.Toggle(models.DimensionAge, "19")
	require.NoError(t, err)
	_, err = d.Toggle(models.DimensionCondition, "Depression")
	require.NoError(t, err)

	require.Equal(t, 2, sched.Len())
	assert.True(t, sched.Timer(0).stopped)

	// A settle task that slipped past Stop must not clear the newer transition.
	sched.Timer(0).fn()
	assert.True(t, d.Snapshot().View.Transitioning)

	assert.Equal(t, 1, sched.FireDue())
	assert.False(t, d.Snapshot().View.Transitioning)
}

func TestSettleWithRealClock(t *testing.T) {
	d := NewDashboard(DashboardParams{Config: DashboardConfig{SettleWindow: 10 * time.Millisecond}})
	defer d.Close()

	_, err := d.Toggle(models.DimensionAge, "22")
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		return !d.Snapshot().View.Transitioning
	}, time.Second, 5*time.Millisecond)
}

func TestHoverReplacesAndOwnerGuardsClear(t *testing.T) {
	d, _ := newTestDashboard(t)
	pct := 42.5
	_, err := d.SetHover(models.ChartPie, models.HoveredElement{Kind: models.ElementPie, Name: "Anxiety", Value: 3, Percentage: &pct})
	require.NoError(t, err)
	snap, err := d.SetHover(models.ChartBar, models.HoveredElement{Kind: models.ElementBar, Name: "19: No Treatment", Value: 4})
	require.NoError(t, err)
	require.NotNil(t, snap.Hover.Element)
	assert.Equal(t, models.ChartBar, snap.Hover.Owner)
	assert.Equal(t, "19: No Treatment", snap.Hover.Element.Name)

	before := snap.Version
	snap, err = d.ClearHover(models.ChartPie)
	require.NoError(t, err)
	assert.NotNil(t, snap.Hover.Element)
	assert.Equal(t, before, snap.Version)

	snap, err = d.ClearHover(models.ChartBar)
	require.NoError(t, err)
	assert.Nil(t, snap.Hover.Element)

	_, err = d.SetHover("", models.HoveredElement{Kind: models.ElementNode, Name: "Age"})
	require.NoError(t, err)
	snap, err = d.ClearHover("")
	require.NoError(t, err)
	assert.Nil(t, snap.Hover.Element)
}

func TestSnapshotCopiesHoverPercentage(t *testing.T) {
	d, _ := newTestDashboard(t)
	pct := 10.0
	_, err := d.SetHover(models.ChartPie, models.HoveredElement{Kind: models.ElementPie, Percentage: &pct})
	require.NoError(t, err)

	snap := d.Snapshot()
	*snap.Hover.Element.Percentage = 99
	assert.Equal(t, 10.0, *d.Snapshot().Hover.Element.Percentage)
}

func TestSubscribeDeliversEveryMutation(t *testing.T) {
	d, _ := newTestDashboard(t)
	var versions []uint64
	unsubscribe := d.Subscribe(func(snap models.DashboardSnapshot) {
		versions = append(versions, snap.Version)
	})

	_, _ = d.Toggle(models.DimensionAge, "19")
	_, _ = d.ResetAll()
	unsubscribe()
	unsubscribe()
	_, _ = d.Toggle(models.DimensionAge, "20")

	assert.Equal(t, []uint64{1, 2}, versions)
}

func TestCloseRejectsMutations(t *testing.T) {
	d, sched := newTestDashboard(t)
	_, err := d.Toggle(models.DimensionAge, "19")
	require.NoError(t, err)

	d.Close()
	assert.True(t, sched.Timer(0).stopped)

	_, err = d.Toggle(models.DimensionAge, "20")
	assert.ErrorIs(t, err, appErrors.ErrDashboardClosed)
	_, err = d.SetHover("", models.HoveredElement{})
	assert.ErrorIs(t, err, appErrors.ErrDashboardClosed)
	assert.Equal(t, models.AgeGroup19, d.Snapshot().Filter.Age)
}

func TestMutationsAreSerialized(t *testing.T) {
	d := NewDashboard(DashboardParams{Config: DashboardConfig{SettleWindow: time.Hour}})
	defer d.Close()

	const workers, rounds = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if w%2 == 0 {
					_, _ = d.Toggle(models.DimensionCondition, "Anxiety")
				} else {
					_, _ = d.SetHover(models.ChartBar, models.HoveredElement{Kind: models.ElementBar, Value: float64(i)})
				}
			}
		}(w)
	}
	wg.Wait()

	snap := d.Snapshot()
	assert.Equal(t, uint64(workers*rounds), snap.Version)
	// Even toggles per worker leave the condition cleared.
	assert.Equal(t, models.ConditionNone, snap.Filter.Condition)
}
