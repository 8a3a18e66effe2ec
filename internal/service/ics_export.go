package service

import (
	"fmt"

	"github.com/Freeeeeet/practiceroom_bot/internal/model"
	"github.com/Freeeeeet/practiceroom_bot/internal/timeslot"
	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const icsProductID = "-//practiceroom_bot//schedule//EN"

// ExportICS выгружает неделю в iCalendar. Если user не пустой - только его брони.
func (s *ScheduleService) ExportICS(user string) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName("Practice rooms")
	cal.SetXWRTimezone(s.clock.Location().String())

	weekStart := s.clock.WeekStart(s.clock.Now())
	stamp := s.clock.Now()

	count := 0
	for _, run := range s.cal.Runs() {
		if user != "" && (run.Kind != model.RunReservation || run.Owner != user) {
			continue
		}

		event := cal.AddEvent(uuid.NewString())
		event.SetDtStampTime(stamp)
		event.SetStartAt(timeslot.StartOf(weekStart, run.Start))
		event.SetEndAt(timeslot.StartOf(weekStart, run.End))
		event.SetSummary(runSummary(run))
		if run.Room.Valid() {
			event.SetLocation(fmt.Sprintf("Room %d", run.Room))
		}
		count++
	}

	s.logger.Debug("Calendar exported", zap.String("user", user), zap.Int("events", count))
	return cal.Serialize()
}

func runSummary(run model.Run) string {
	switch run.Kind {
	case model.RunReservation:
		return fmt.Sprintf("%s (room %d)", run.Owner, run.Room)
	case model.RunRecording:
		return "Recording session"
	case model.RunRaid:
		return "Raid: equipment removed"
	default:
		return string(run.Kind)
	}
}
