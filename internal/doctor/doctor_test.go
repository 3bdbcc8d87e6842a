package doctor_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/mtt-project/mtt/internal/doctor"
	"github.com/mtt-project/mtt/internal/journal"
	"github.com/mtt-project/mtt/internal/store"
	"github.com/mtt-project/mtt/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*store.Store, *journal.Journal) {
	t.Helper()
	st, err := store.Open(t.TempDir(), store.Options{
		LockEnabled: true,
		LockPolicy: model.LockPolicy{
			LeaseTTL:     time.Minute,
			RetryTimeout: 100 * time.Millisecond,
			RetryEvery:   10 * time.Millisecond,
		},
	})
	require.NoError(t, err)
	return st, journal.New(st.JournalPath())
}

func categories(r *doctor.Result) []string {
	var out []string
	for _, f := range r.Findings {
		out = append(out, f.Category+"/"+f.Severity)
	}
	return out
}

func TestCheck_Healthy(t *testing.T) {
	st, j := setup(t)
	state := model.NewAppState()
	_, err := state.CreateTimer("work")
	require.NoError(t, err)
	require.NoError(t, st.Save(state))
	_, err = j.Append(model.EventTimerCreate, "work", nil)
	require.NoError(t, err)

	result := doctor.NewDoctor(st, j).Check()
	assert.True(t, result.Healthy)
	assert.Empty(t, result.Findings)
}

func TestCheck_CorruptState(t *testing.T) {
	st, j := setup(t)
	require.NoError(t, os.WriteFile(st.StatePath(), []byte("{bad"), 0644))

	result := doctor.NewDoctor(st, j).Check()
	assert.False(t, result.Healthy)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, "state", result.Findings[0].Category)
	assert.Equal(t, doctor.SeverityCritical, result.Findings[0].Severity)
	assert.True(t, result.Findings[0].Repairable)
}

func TestCheck_DanglingActive(t *testing.T) {
	st, _ := setup(t)
	require.NoError(t, os.WriteFile(st.StatePath(), []byte(`{"timers":{},"active_timer":"ghost"}`), 0644))

	result := doctor.NewDoctor(st, nil).Check()
	assert.Equal(t, []string{"state/warning"}, categories(result))
	assert.Contains(t, result.Findings[0].Description, "ghost")
}

func TestCheck_HeldLockIsInfo(t *testing.T) {
	st, _ := setup(t)
	_, err := st.Locks().Acquire(context.Background(), "start")
	require.NoError(t, err)

	result := doctor.NewDoctor(st, nil).Check()
	assert.True(t, result.Healthy)
	assert.Equal(t, []string{"lock/info"}, categories(result))
}

func writeExpiredLock(t *testing.T, st *store.Store) {
	t.Helper()
	past := time.Now().Add(-time.Hour)
	data, err := json.Marshal(model.LockRecord{
		HolderNonce: "dead",
		PID:         1,
		Purpose:     "stop",
		AcquiredAt:  past,
		ExpiresAt:   past.Add(time.Minute),
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(st.LockPath(), data, 0644))
}

func TestCheck_ExpiredLock(t *testing.T) {
	st, _ := setup(t)
	writeExpiredLock(t, st)

	result := doctor.NewDoctor(st, nil).Check()
	assert.Equal(t, []string{"lock/warning"}, categories(result))
}

func TestCheck_OrphanTmp(t *testing.T) {
	st, _ := setup(t)
	tmp := filepath.Join(st.Dir(), ".mtt-tmp-state.json-123")
	require.NoError(t, os.WriteFile(tmp, []byte("x"), 0644))

	result := doctor.NewDoctor(st, nil).Check()
	assert.Equal(t, []string{"tmp/warning"}, categories(result))
	assert.Equal(t, tmp, result.Findings[0].Path)
}

func TestCheck_BrokenJournal(t *testing.T) {
	st, j := setup(t)
	_, err := j.Append(model.EventTimerCreate, "work", nil)
	require.NoError(t, err)
	data, err := os.ReadFile(j.Path())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(j.Path(), []byte(strings.Replace(string(data), "work", "play", 1)), 0644))

	result := doctor.NewDoctor(st, j).Check()
	assert.Equal(t, []string{"journal/error"}, categories(result))
	assert.False(t, result.Findings[0].Repairable)
}

func TestRepair(t *testing.T) {
	st, j := setup(t)
	require.NoError(t, os.WriteFile(st.StatePath(), []byte("{bad"), 0644))
	writeExpiredLock(t, st)
	require.NoError(t, os.WriteFile(filepath.Join(st.Dir(), ".mtt-tmp-x"), []byte("x"), 0644))

	d := doctor.NewDoctor(st, j)
	actions, err := d.Repair(context.Background())
	require.NoError(t, err)
	require.Len(t, actions, 3)
	assert.Equal(t, "removed expired lock", actions[0])
	assert.Contains(t, actions[2], "state.json.corrupt-")

	assert.NoFileExists(t, st.LockPath())
	result := d.Check()
	assert.True(t, result.Healthy, "%v", result.Findings)
}

func TestRepair_DanglingActive(t *testing.T) {
	st, _ := setup(t)
	require.NoError(t, os.WriteFile(st.StatePath(), []byte(`{"timers":{"a":{"records":[],"current_start":null}},"active_timer":"ghost"}`), 0644))

	actions, err := doctor.NewDoctor(st, nil).Repair(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"cleared dangling active timer 'ghost'"}, actions)

	state, err := st.Load()
	require.NoError(t, err)
	assert.Nil(t, state.ActiveTimer)
	_, ok := state.GetTimer("a")
	assert.True(t, ok)
}

func TestRepair_NothingToDo(t *testing.T) {
	st, j := setup(t)
	actions, err := doctor.NewDoctor(st, j).Repair(context.Background())
	require.NoError(t, err)
	assert.Empty(t, actions)
}
