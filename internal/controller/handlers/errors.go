package handlers

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/practiceroom_bot/internal/schedule"
	"github.com/Freeeeeet/practiceroom_bot/internal/timeslot"
)

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrUsage            = errors.New("wrong number of arguments")
	ErrInvalidNumber    = errors.New("invalid number")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidDebugCode = errors.New("invalid debug code")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "You do not have permission to use this command."
	case errors.Is(err, ErrUnknownCommand):
		return "Unknown command. Use /phelp to see the list of commands."
	case errors.Is(err, ErrInvalidNumber):
		return "Failed: Invalid number format in command."
	case errors.Is(err, ErrInvalidDebugCode):
		return "Invalid debug code."
	case errors.Is(err, timeslot.ErrInvalidDay):
		return "Failed: Invalid day. Use a weekday name such as Monday or Tue."
	case errors.Is(err, timeslot.ErrOffHalfHour):
		return "Failed: Times must be on the hour or half hour."
	case errors.Is(err, timeslot.ErrInvalidTimeFormat):
		return "Failed: Invalid time format. Use something like 7pm, 7:30pm or 19:30."
	case errors.Is(err, schedule.ErrInvalidRoom):
		return "Failed: Invalid room number. Rooms are 1 and 2."
	case errors.Is(err, schedule.ErrInvalidUser):
		return "Failed: Could not determine who you are."
	case errors.Is(err, schedule.ErrInvalidDuration):
		return "Failed: Duration must be a positive number of hours in half-hour steps."
	case errors.Is(err, schedule.ErrSplitCrossing):
		return "Failed: Reservations cannot cross the weekly reset on Monday at 7:30pm."
	case errors.Is(err, schedule.ErrQuotaExceeded):
		return "Failed: This would exceed your weekly limit of practice time."
	case errors.Is(err, schedule.ErrCrossRoomConflict):
		return "Failed: You already have the other room at that time."
	case errors.Is(err, schedule.ErrSlotUnavailable):
		return "Failed: That time is already taken."
	case errors.Is(err, schedule.ErrIndexOutOfRange):
		return "Failed: That time is outside of this week."
	case errors.Is(err, schedule.ErrNoReservation):
		return "Failed: You have no reservation in that room at that time."
	case errors.Is(err, schedule.ErrNoRaid):
		return "Failed: There is no raid at that time."
	case errors.Is(err, schedule.ErrNoRecording):
		return "Failed: There is no recording session at that time."
	case errors.Is(err, schedule.ErrReservationInPast):
		return "Failed: Cannot reserve time in the past."
	case errors.Is(err, schedule.ErrReservationStarted):
		return "Failed: That reservation has already started."
	default:
		return fmt.Sprintf("Failed: An unexpected error occurred: %v", err)
	}
}
