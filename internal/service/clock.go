package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/practiceroom_bot/internal/model"
	"github.com/Freeeeeet/practiceroom_bot/internal/timeslot"
	"github.com/robfig/cron/v3"
	"github.com/teambition/rrule-go"
)

// DefaultResetCron понедельник 19:30 - начало повёрнутой недели
const DefaultResetCron = "30 19 * * MON"

// Clock время в зоне комнат и расписание недельного сброса
type Clock struct {
	loc   *time.Location
	reset cron.Schedule
	now   func() time.Time

	// weekRule переиспользуется между вызовами, DTStart меняет его состояние
	weekMu   sync.Mutex
	weekRule *rrule.RRule
}

// NewClock создаёт часы. Пустые аргументы заменяются значениями по умолчанию.
func NewClock(loc *time.Location, resetCron string, now func() time.Time) (*Clock, error) {
	if loc == nil {
		loc = time.UTC
	}
	if resetCron == "" {
		resetCron = DefaultResetCron
	}
	if now == nil {
		now = time.Now
	}

	sched, err := cron.ParseStandard(fmt.Sprintf("CRON_TZ=%s %s", loc.String(), resetCron))
	if err != nil {
		return nil, fmt.Errorf("parse reset schedule %q: %w", resetCron, err)
	}

	weekRule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   time.Date(2000, time.January, 3, 0, 0, 0, 0, loc),
		Byweekday: []rrule.Weekday{rrule.MO},
		Byhour:    []int{model.SplitSlot / 2},
		Byminute:  []int{(model.SplitSlot % 2) * 30},
		Bysecond:  []int{0},
	})
	if err != nil {
		return nil, fmt.Errorf("build week start rule: %w", err)
	}

	return &Clock{loc: loc, reset: sched, now: now, weekRule: weekRule}, nil
}

// Now текущее время в зоне комнат
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

// CurrentIndex канонический индекс текущего получаса
func (c *Clock) CurrentIndex() int {
	return timeslot.IndexAt(c.Now())
}

// NextReset следующий момент сброса строго после t
func (c *Clock) NextReset(t time.Time) time.Time {
	return c.reset.Next(t.In(c.loc))
}

// WeekStart последний понедельник 19:30 не позже t
func (c *Clock) WeekStart(t time.Time) time.Time {
	local := t.In(c.loc)

	c.weekMu.Lock()
	defer c.weekMu.Unlock()

	// Правило начинается за 8 дней до t, чтобы перебор был коротким
	c.weekRule.DTStart(time.Date(local.Year(), local.Month(), local.Day()-8, 0, 0, 0, 0, c.loc))
	return c.weekRule.Before(local, true)
}

// SlotStart момент начала слота текущей недели
func (c *Clock) SlotStart(index int) time.Time {
	return timeslot.StartOf(c.WeekStart(c.Now()), index)
}
