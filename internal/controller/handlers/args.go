package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/practiceroom_bot/internal/model"
	"github.com/Freeeeeet/practiceroom_bot/internal/timeslot"
)

// parseCommand разбивает "/reserve@bot 1 mon 8pm 2" на имя и аргументы.
// Для обычного текста ok == false.
func parseCommand(text string) (name string, args []string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}

	name = strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	return strings.ToLower(name), fields[1:], name != ""
}

func expectArgs(args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: want %d, got %d", ErrUsage, n, len(args))
	}
	return nil
}

func parseRoom(text string) (model.Room, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%w: room %q", ErrInvalidNumber, text)
	}
	return model.Room(n), nil
}

func parseHours(text string) (float64, error) {
	hours, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: hours %q", ErrInvalidNumber, text)
	}
	return hours, nil
}

// parseSlot день и время в канонический индекс
func parseSlot(dayText, timeText string) (int, error) {
	index, err := timeslot.ToIndex(timeText, dayText)
	if err != nil {
		return 0, fmt.Errorf("parse slot %q %q: %w", dayText, timeText, err)
	}
	return index, nil
}

// rangeLabel "Monday 8pm to Monday 9pm"
func rangeLabel(run model.Run) string {
	return timeslot.Label(run.Start) + " to " + timeslot.Label(run.End%model.SlotsPerWeek)
}
