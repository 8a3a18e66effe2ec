package handlers

import (
	"context"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/Freeeeeet/practiceroom_bot/internal/controller/state"
	"github.com/Freeeeeet/practiceroom_bot/internal/model"
	"github.com/Freeeeeet/practiceroom_bot/internal/schedule"
	"github.com/Freeeeeet/practiceroom_bot/internal/service"
	"github.com/Freeeeeet/practiceroom_bot/internal/timeslot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type roleTable map[string]model.Role

func (r roleTable) RoleOf(username string) model.Role {
	if role, ok := r[username]; ok {
		return role
	}
	return model.RoleGuest
}

var testRoles = roleTable{
	"alice": model.RoleMember,
	"bob":   model.RoleMember,
	"olga":  model.RoleOfficer,
	"root":  model.RoleAdmin,
}

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Понедельник 20:00 - индекс 1
	now := time.Date(2026, 10, 19, 20, 0, 0, 0, loc)
	svc, err := service.NewScheduleService(schedule.NewCalendar(), nil, service.Options{
		Location: loc,
		Now:      func() time.Time { return now },
	}, zap.NewNop())
	require.NoError(t, err)

	return NewHandlers(svc, testRoles, state.NewManager(time.Minute, nil), zap.NewNop())
}

func as(name string, id int64) caller {
	return caller{ID: id, Name: name, Role: testRoles.RoleOf(name)}
}

func runText(t *testing.T, h *Handlers, c caller, text string) (reply, error) {
	t.Helper()
	return h.execute(context.Background(), c, text, zap.NewNop())
}

func TestReserveAndCancel(t *testing.T) {
	h := newTestHandlers(t)
	alice := as("alice", 1)

	r, err := runText(t, h, alice, "/reserve 1 tue 8pm 1.5")
	require.NoError(t, err)
	assert.Equal(t, "Congrats! Room 1 is yours from Tuesday 8pm to Tuesday 9:30pm.", r.text)
	assert.True(t, r.schedule)
	assert.Equal(t, "alice", r.viewer)

	r, err = runText(t, h, as("bob", 2), "/whohas 1 tuesday 9pm")
	require.NoError(t, err)
	assert.Equal(t, "Room 1 on Tuesday 9pm: alice", r.text)

	r, err = runText(t, h, alice, "/mine")
	require.NoError(t, err)
	assert.Contains(t, r.text, "Room 1: Tuesday 8pm to Tuesday 9:30pm")
	assert.Contains(t, r.text, "Remaining: 1.5 hours")

	_, err = runText(t, h, as("bob", 2), "/cancel 1 tue 8pm")
	assert.ErrorIs(t, err, schedule.ErrNoReservation)

	r, err = runText(t, h, alice, "/cancel 1 tue 9pm")
	require.NoError(t, err)
	assert.Equal(t, "Cancelled your room 1 reservation from Tuesday 8pm to Tuesday 9:30pm.", r.text)

	r, err = runText(t, h, as("bob", 2), "/whohas 1 tuesday 9pm")
	require.NoError(t, err)
	assert.Equal(t, "Room 1 is free on Tuesday 9pm.", r.text)
}

func TestReserve_Errors(t *testing.T) {
	h := newTestHandlers(t)
	alice := as("alice", 1)

	tests := []struct {
		text    string
		wantErr error
	}{
		{"/reserve 1 tue 8pm", ErrUsage},
		{"/reserve one tue 8pm 1", ErrInvalidNumber},
		{"/reserve 1 tue 8pm lots", ErrInvalidNumber},
		{"/reserve 3 tue 8pm 1", schedule.ErrInvalidRoom},
		{"/reserve 1 funday 8pm 1", timeslot.ErrInvalidDay},
		{"/reserve 1 tue 8:15pm 1", timeslot.ErrOffHalfHour},
		{"/reserve 1 mon 7pm 1", schedule.ErrSplitCrossing},
		{"/reserve 1 tue 8pm 4", schedule.ErrQuotaExceeded},
		// Сейчас индекс 1, слот 0 уже в прошлом
		{"/reserve 1 mon 7:30pm 0.5", schedule.ErrReservationInPast},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := runText(t, h, alice, tt.text)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, "Failed: Usage: /reserve <room> <day> <time> <hours>",
		h.errorText("/reserve 1 tue", ErrUsage))
}

func TestPermissions(t *testing.T) {
	h := newTestHandlers(t)
	guest := as("stranger", 9)

	_, err := runText(t, h, guest, "/reserve 1 tue 8pm 1")
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = runText(t, h, as("alice", 1), "/raid tue 8pm 1")
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = runText(t, h, as("olga", 3), "/reset")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	r, err := runText(t, h, guest, "/display")
	require.NoError(t, err)
	assert.True(t, r.schedule)
	assert.Contains(t, r.text, "Mon Oct 19, 7:30pm")

	_, err = runText(t, h, guest, "/nosuch")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestOfficerCommands(t *testing.T) {
	h := newTestHandlers(t)
	olga := as("olga", 3)

	r, err := runText(t, h, olga, "/raid wed 6pm 2")
	require.NoError(t, err)
	assert.Equal(t, "Raid marked from Wednesday 6pm to Wednesday 8pm.", r.text)

	r, err = runText(t, h, olga, "/unraid wed 7pm")
	require.NoError(t, err)
	assert.Equal(t, "Raid removed from Wednesday 6pm to Wednesday 8pm.", r.text)

	_, err = runText(t, h, olga, "/unraid wed 7pm")
	assert.ErrorIs(t, err, schedule.ErrNoRaid)

	_, err = runText(t, h, as("alice", 1), "/reserve 2 thu 1pm 1")
	require.NoError(t, err)
	_, err = runText(t, h, olga, "/record thu 12pm 2")
	assert.ErrorIs(t, err, schedule.ErrSlotUnavailable)

	r, err = runText(t, h, olga, "/record thu 3pm 2")
	require.NoError(t, err)
	assert.Equal(t, "Recording session set from Thursday 3pm to Thursday 5pm.", r.text)

	r, err = runText(t, h, as("bob", 2), "/whohas 2 thu 4pm")
	require.NoError(t, err)
	assert.Equal(t, "Room 2 on Thursday 4pm: Recording Session", r.text)

	r, err = runText(t, h, olga, "/unrecord thu 4:30pm")
	require.NoError(t, err)
	assert.Equal(t, "Recording session cancelled from Thursday 3pm to Thursday 5pm.", r.text)
}

func TestResetConfirmation(t *testing.T) {
	h := newTestHandlers(t)
	root := as("root", 4)

	_, err := runText(t, h, as("alice", 1), "/reserve 1 tue 8pm 1")
	require.NoError(t, err)

	r, err := runText(t, h, root, "/reset")
	require.NoError(t, err)
	assert.Contains(t, r.text, confirmResetWord)

	// Другой ответ отменяет сброс
	r, err = runText(t, h, root, "no thanks")
	require.NoError(t, err)
	assert.Contains(t, r.text, "aborted")
	runs, _ := h.scheduleService.MySchedule("alice")
	assert.Len(t, runs, 1)

	_, err = runText(t, h, root, "/reset")
	require.NoError(t, err)
	r, err = runText(t, h, root, "YES")
	require.NoError(t, err)
	assert.Contains(t, r.text, "have been reset")
	runs, _ = h.scheduleService.MySchedule("alice")
	assert.Empty(t, runs)

	// Без активного диалога текст игнорируется
	r, err = runText(t, h, root, "YES")
	require.NoError(t, err)
	assert.Empty(t, r.text)
}

func TestResetConfirmation_OtherCommandAborts(t *testing.T) {
	h := newTestHandlers(t)
	root := as("root", 4)

	_, err := runText(t, h, as("alice", 1), "/reserve 1 tue 8pm 1")
	require.NoError(t, err)
	_, err = runText(t, h, root, "/reset")
	require.NoError(t, err)
	_, err = runText(t, h, root, "/display")
	require.NoError(t, err)

	r, err := runText(t, h, root, "YES")
	require.NoError(t, err)
	assert.Empty(t, r.text)
	runs, _ := h.scheduleService.MySchedule("alice")
	assert.Len(t, runs, 1)
}

func TestDebug(t *testing.T) {
	h := newTestHandlers(t)
	guest := as("stranger", 9)

	r, err := runText(t, h, guest, "/debug 1")
	require.NoError(t, err)
	assert.Equal(t, "Current time index: 1 (Monday 8pm)", r.text)

	r, err = runText(t, h, guest, "/debug 2 tue 12am")
	require.NoError(t, err)
	assert.Equal(t, "Index for tue 12am: 9", r.text)

	_, err = runText(t, h, guest, "/debug 3")
	assert.ErrorIs(t, err, ErrInvalidDebugCode)
	_, err = runText(t, h, guest, "/debug 2 tue")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestICS(t *testing.T) {
	h := newTestHandlers(t)

	_, err := runText(t, h, as("alice", 1), "/reserve 1 tue 8pm 1")
	require.NoError(t, err)

	r, err := runText(t, h, as("stranger", 9), "/ics")
	require.NoError(t, err)
	require.NotNil(t, r.document)
	assert.Equal(t, icsFilename, r.document.filename)
	assert.Equal(t, 1, strings.Count(string(r.document.data), "BEGIN:VEVENT"))

	r, err = runText(t, h, as("bob", 2), "/ics mine")
	require.NoError(t, err)
	assert.Equal(t, 0, strings.Count(string(r.document.data), "BEGIN:VEVENT"))
}

func TestHelp_FiltersByRole(t *testing.T) {
	h := newTestHandlers(t)

	r, err := runText(t, h, as("stranger", 9), "/phelp")
	require.NoError(t, err)
	assert.Contains(t, r.text, "/display")
	assert.NotContains(t, r.text, "/reserve")

	r, err = runText(t, h, as("root", 4), "/help")
	require.NoError(t, err)
	assert.Contains(t, r.text, "/reset")
	assert.Contains(t, r.text, "/raid")

	assert.Len(t, h.BotCommands(), len(commandOrder))
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "1 hour", formatHours(2))
	assert.Equal(t, "3 hours", formatHours(6))
	assert.Equal(t, "0.5 hours", formatHours(1))
	assert.Equal(t, "0 hours", formatHours(0))
}
