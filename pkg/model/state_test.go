package model_test

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/mtt-project/mtt/pkg/errclass"
	"github.com/mtt-project/mtt/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppState_Empty(t *testing.T) {
	s := model.NewAppState()
	assert.Empty(t, s.Timers)
	assert.Nil(t, s.ActiveTimer)
	assert.False(t, s.HasActiveTimer())
}

func TestAppState_CreateTimer(t *testing.T) {
	s := model.NewAppState()
	timer, err := s.CreateTimer("timer name")
	require.NoError(t, err)
	assert.False(t, timer.IsRunning())

	_, err = s.CreateTimer("timer name")
	require.ErrorIs(t, err, errclass.ErrDuplicateTimerName)
	assert.Len(t, s.Timers, 1)

	got, ok := s.GetTimer("timer name")
	require.True(t, ok)
	assert.Same(t, timer, got, "a failed create must not replace the existing timer")
}

func TestAppState_CreateTimer_NamesVerbatim(t *testing.T) {
	s := model.NewAppState()
	for _, name := range []string{"", "Work", "work", "work "} {
		_, err := s.CreateTimer(name)
		require.NoError(t, err, "name %q", name)
	}
	assert.Len(t, s.Timers, 4)
}

func TestAppState_GetTimer_SameInstance(t *testing.T) {
	s := model.NewAppState()
	_, err := s.CreateTimer("timer name")
	require.NoError(t, err)

	timer1, ok := s.GetTimer("timer name")
	require.True(t, ok)
	timer2, ok := s.GetTimer("timer name")
	require.True(t, ok)
	assert.Same(t, timer1, timer2)

	require.NoError(t, timer1.Start(t0))
	assert.True(t, timer2.IsRunning())
}

func TestAppState_GetTimer_Missing(t *testing.T) {
	s := model.NewAppState()
	timer, ok := s.GetTimer("nope")
	assert.False(t, ok)
	assert.Nil(t, timer)
}

func TestAppState_SetTimerActive_Nonexisting(t *testing.T) {
	s := model.NewAppState()
	err := s.SetTimerActive("something")
	require.ErrorIs(t, err, errclass.ErrNoSuchTimer)
	assert.Nil(t, s.ActiveTimer)
}

func TestAppState_SetTimerActive_KeepsPreviousOnError(t *testing.T) {
	s := model.NewAppState()
	_, _ = s.CreateTimer("work")
	require.NoError(t, s.SetTimerActive("work"))

	require.ErrorIs(t, s.SetTimerActive("play"), errclass.ErrNoSuchTimer)
	name, ok := s.ActiveTimerName()
	require.True(t, ok)
	assert.Equal(t, "work", name)
}

func TestAppState_GetActiveTimer(t *testing.T) {
	s := model.NewAppState()
	work, _ := s.CreateTimer("work")
	require.NoError(t, s.SetTimerActive("work"))

	active, ok := s.GetActiveTimer()
	require.True(t, ok)
	assert.Same(t, work, active)
	assert.True(t, s.HasActiveTimer())
}

func TestAppState_GetActiveTimer_Unset(t *testing.T) {
	s := model.NewAppState()
	_, _ = s.CreateTimer("work")
	_, ok := s.GetActiveTimer()
	assert.False(t, ok)
	assert.False(t, s.HasActiveTimer())
}

func TestAppState_GetActiveTimer_Dangling(t *testing.T) {
	s := model.NewAppState()
	gone := "gone"
	s.ActiveTimer = &gone

	_, ok := s.GetActiveTimer()
	assert.False(t, ok)
	assert.False(t, s.HasActiveTimer())
	_, ok = s.ActiveTimerName()
	assert.False(t, ok)
}

func TestAppState_RemoveTimer(t *testing.T) {
	s := model.NewAppState()
	_, _ = s.CreateTimer("work")
	_, _ = s.CreateTimer("play")
	require.NoError(t, s.SetTimerActive("work"))

	require.NoError(t, s.RemoveTimer("play"))
	assert.True(t, s.HasActiveTimer())

	require.NoError(t, s.RemoveTimer("work"))
	assert.Nil(t, s.ActiveTimer)
	assert.Empty(t, s.Timers)

	require.ErrorIs(t, s.RemoveTimer("work"), errclass.ErrNoSuchTimer)
}

func TestAppState_AbortTimer(t *testing.T) {
	s := model.NewAppState()
	timer, _ := s.CreateTimer("work")

	_, err := s.AbortTimer("work")
	require.ErrorIs(t, err, errclass.ErrNoTimerRunning)

	_, err = s.AbortTimer("missing")
	require.ErrorIs(t, err, errclass.ErrNoSuchTimer)

	require.NoError(t, timer.Start(t0))
	started, err := s.AbortTimer("work")
	require.NoError(t, err)
	assert.Equal(t, t0, started)
	assert.False(t, timer.IsRunning())
	assert.Empty(t, timer.Records, "abort must not emit a record")
}

func TestAppState_TimerNames_Sorted(t *testing.T) {
	s := model.NewAppState()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, _ = s.CreateTimer(name)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, s.TimerNames())

	mid, _ := s.GetTimer("mid")
	require.NoError(t, mid.Start(t0))
	assert.Equal(t, []string{"mid"}, s.RunningTimers())
}

func TestAppState_Normalize(t *testing.T) {
	s := &model.AppState{Timers: map[string]*model.Timer{"a": nil, "b": {}}}
	s.Normalize()
	require.NotNil(t, s.Timers["a"])
	assert.NotNil(t, s.Timers["b"].Records)

	empty := &model.AppState{}
	empty.Normalize()
	assert.NotNil(t, empty.Timers)
}

func TestScenario_CreateStartStop(t *testing.T) {
	s := model.NewAppState()
	_, err := s.CreateTimer("work")
	require.NoError(t, err)

	work, _ := s.GetTimer("work")
	require.NoError(t, work.Start(t0))

	work, _ = s.GetTimer("work")
	_, err = work.Stop(t0.Add(3600*time.Second), "coding")
	require.NoError(t, err)

	work, _ = s.GetTimer("work")
	assert.Equal(t, []model.TimerRecord{model.NewTimerRecord(t0, t0.Add(3600*time.Second), "coding")}, work.Records)
	assert.Equal(t, 3600*time.Second, work.TotalDuration())
	assert.False(t, work.IsRunning())
}

func TestScenario_DoubleStart(t *testing.T) {
	s := model.NewAppState()
	work, _ := s.CreateTimer("work")
	require.NoError(t, work.Start(t0))

	err := work.Start(t0.Add(time.Minute))
	require.ErrorIs(t, err, errclass.ErrTimerAlreadyRunning)
	assert.Equal(t, t0, *work.CurrentStart)
}

func TestAppState_JSONRoundTrip(t *testing.T) {
	s := model.NewAppState()
	idle, _ := s.CreateTimer("idle")
	require.NoError(t, idle.Start(t0))
	_, err := idle.Stop(t0.Add(time.Hour), "first")
	require.NoError(t, err)
	running, _ := s.CreateTimer("running")
	require.NoError(t, running.Start(t0.Add(2*time.Hour)))
	require.NoError(t, s.SetTimerActive("running"))

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded model.AppState
	require.NoError(t, json.Unmarshal(data, &decoded))
	decoded.Normalize()

	assert.ElementsMatch(t, s.TimerNames(), decoded.TimerNames())
	for _, name := range s.TimerNames() {
		want, _ := s.GetTimer(name)
		got, _ := decoded.GetTimer(name)
		require.Len(t, got.Records, len(want.Records))
		for i := range want.Records {
			assert.True(t, want.Records[i].Start.Equal(got.Records[i].Start))
			assert.True(t, want.Records[i].End.Equal(got.Records[i].End))
			assert.Equal(t, want.Records[i].Comment, got.Records[i].Comment)
		}
		if want.CurrentStart == nil {
			assert.Nil(t, got.CurrentStart)
		} else {
			require.NotNil(t, got.CurrentStart)
			assert.True(t, want.CurrentStart.Equal(*got.CurrentStart))
		}
	}
	require.NotNil(t, decoded.ActiveTimer)
	assert.Equal(t, "running", *decoded.ActiveTimer)
}

func TestAppState_JSONFieldNames(t *testing.T) {
	raw := `{"timers":{"work":{"records":[{"start":"2024-03-01T09:00:00Z","end":"2024-03-01T10:00:00Z","comment":"c"}],"current_start":null}},"active_timer":"work"}`

	var s model.AppState
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	work, ok := s.GetActiveTimer()
	require.True(t, ok)
	assert.Equal(t, time.Hour, work.TotalDuration())
	assert.False(t, work.IsRunning())
}
