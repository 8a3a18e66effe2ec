package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/Freeeeeet/practiceroom_bot/internal/model"
	"github.com/Freeeeeet/practiceroom_bot/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryStore struct {
	mu      sync.Mutex
	saved   []model.CalendarSnapshot
	loaded  *model.CalendarSnapshot
	saveErr error
}

func (m *memoryStore) Save(_ context.Context, snap model.CalendarSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, snap)
	return nil
}

func (m *memoryStore) Load(_ context.Context) (*model.CalendarSnapshot, error) {
	return m.loaded, nil
}

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

// fixedNow часы, которые всегда показывают t
func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newService(t *testing.T, now time.Time, store SnapshotStore) (*ScheduleService, *schedule.Calendar) {
	t.Helper()
	cal := schedule.NewCalendar()
	svc, err := NewScheduleService(cal, store, Options{
		Location: now.Location(),
		Now:      fixedNow(now),
	}, zap.NewNop())
	require.NoError(t, err)
	return svc, cal
}

func TestReserve_PastPolicy(t *testing.T) {
	loc := newYork(t)
	// Вторник 00:00 - канонический индекс 9
	now := time.Date(2026, 10, 20, 0, 10, 0, 0, loc)
	svc, cal := newService(t, now, nil)
	require.Equal(t, 9, svc.CurrentIndex())

	_, err := svc.Reserve(context.Background(), model.Room1, "alice", 8, 1)
	assert.ErrorIs(t, err, schedule.ErrReservationInPast)
	assert.True(t, cal.Snapshot().Room1[8].IsEmpty())

	// Текущий получас ещё можно занять
	run, err := svc.Reserve(context.Background(), model.Room1, "alice", 9, 1)
	require.NoError(t, err)
	assert.Equal(t, 9, run.Start)
}

func TestCancel_StartedReservation(t *testing.T) {
	loc := newYork(t)
	clock := time.Date(2026, 10, 19, 20, 0, 0, 0, loc) // индекс 1
	current := clock

	cal := schedule.NewCalendar()
	svc, err := NewScheduleService(cal, nil, Options{
		Location: loc,
		Now:      func() time.Time { return current },
	}, zap.NewNop())
	require.NoError(t, err)

	_, err = svc.Reserve(context.Background(), model.Room2, "alice", 2, 1)
	require.NoError(t, err)

	// Прошёл час, бронь уже идёт
	current = clock.Add(time.Hour)
	_, err = svc.Cancel(context.Background(), model.Room2, "alice", 3)
	assert.ErrorIs(t, err, schedule.ErrReservationStarted)
	assert.True(t, cal.Snapshot().Room2[2].OwnedBy("alice"))

	current = clock
	_, err = svc.Cancel(context.Background(), model.Room2, "alice", 3)
	require.NoError(t, err)
	assert.True(t, cal.Snapshot().Room2[2].IsEmpty())
}

func TestService_PersistsAfterMutation(t *testing.T) {
	loc := newYork(t)
	now := time.Date(2026, 10, 21, 12, 0, 0, 0, loc)
	store := &memoryStore{}
	svc, _ := newService(t, now, store)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, model.Room1, "alice", 200, 1)
	require.NoError(t, err)
	_, err = svc.AddRaid(ctx, 250, 1)
	require.NoError(t, err)
	_, err = svc.AddRecording(ctx, 260, 1)
	require.NoError(t, err)

	// Неудачная операция ничего не сохраняет
	_, err = svc.Reserve(ctx, model.Room1, "bob", 200, 1)
	require.ErrorIs(t, err, schedule.ErrSlotUnavailable)

	require.Len(t, store.saved, 3)
	last := store.saved[2]
	assert.True(t, last.Room1[200].OwnedBy("alice"))
	assert.True(t, last.Raided[250])
	assert.True(t, last.Room2[260].IsRecording())
	assert.True(t, last.WeekStart.Equal(time.Date(2026, 10, 19, 19, 30, 0, 0, loc)), "week start %v", last.WeekStart)
}

func TestService_SaveFailureKeepsMutation(t *testing.T) {
	loc := newYork(t)
	store := &memoryStore{saveErr: errors.New("db down")}
	svc, cal := newService(t, time.Date(2026, 10, 21, 12, 0, 0, 0, loc), store)

	_, err := svc.Reserve(context.Background(), model.Room1, "alice", 200, 1)
	require.NoError(t, err)
	assert.True(t, cal.Snapshot().Room1[200].OwnedBy("alice"))
}

func TestService_Restore(t *testing.T) {
	loc := newYork(t)
	now := time.Date(2026, 10, 21, 12, 0, 0, 0, loc)

	saved := schedule.NewCalendar().Snapshot()
	saved.Room1[120] = model.OwnedSlot("alice")

	t.Run("current week", func(t *testing.T) {
		snap := saved
		snap.WeekStart = time.Date(2026, 10, 19, 19, 30, 0, 0, loc)
		svc, cal := newService(t, now, &memoryStore{loaded: &snap})

		require.NoError(t, svc.Restore(context.Background()))
		assert.True(t, cal.Snapshot().Room1[120].OwnedBy("alice"))
	})

	t.Run("previous week", func(t *testing.T) {
		snap := saved
		snap.WeekStart = time.Date(2026, 10, 12, 19, 30, 0, 0, loc)
		svc, cal := newService(t, now, &memoryStore{loaded: &snap})

		require.NoError(t, svc.Restore(context.Background()))
		assert.True(t, cal.Snapshot().Room1[120].IsEmpty())
	})

	t.Run("nothing saved", func(t *testing.T) {
		svc, _ := newService(t, now, &memoryStore{})
		assert.NoError(t, svc.Restore(context.Background()))
	})
}

func TestService_ResetWeek(t *testing.T) {
	loc := newYork(t)
	store := &memoryStore{}
	svc, cal := newService(t, time.Date(2026, 10, 21, 12, 0, 0, 0, loc), store)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, model.Room1, "alice", 200, 1)
	require.NoError(t, err)

	svc.ResetWeek(ctx)
	assert.Empty(t, cal.Runs())
	require.Len(t, store.saved, 2)
	assert.True(t, store.saved[1].Room1[200].IsEmpty())
}

func TestService_MySchedule(t *testing.T) {
	loc := newYork(t)
	svc, _ := newService(t, time.Date(2026, 10, 19, 20, 0, 0, 0, loc), nil)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, model.Room1, "alice", 10, 1)
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, model.Room2, "alice", 40, 0.5)
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, model.Room2, "bob", 50, 1)
	require.NoError(t, err)

	runs, remaining := svc.MySchedule("alice")
	require.Len(t, runs, 2)
	assert.Equal(t, model.Room1, runs[0].Room)
	assert.Equal(t, model.Room2, runs[1].Room)
	assert.Equal(t, 3, remaining)
}

func TestService_ExportICS(t *testing.T) {
	loc := newYork(t)
	svc, _ := newService(t, time.Date(2026, 10, 19, 20, 0, 0, 0, loc), nil)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, model.Room1, "alice", 10, 1)
	require.NoError(t, err)
	_, err = svc.AddRaid(ctx, 30, 1)
	require.NoError(t, err)

	all := svc.ExportICS("")
	assert.Equal(t, 2, strings.Count(all, "BEGIN:VEVENT"))
	assert.Contains(t, all, "alice (room 1)")
	assert.Contains(t, all, "Raid: equipment removed")

	mine := svc.ExportICS("alice")
	assert.Equal(t, 1, strings.Count(mine, "BEGIN:VEVENT"))

	assert.Equal(t, 0, strings.Count(svc.ExportICS("bob"), "BEGIN:VEVENT"))
}
