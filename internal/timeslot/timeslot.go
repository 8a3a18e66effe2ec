// Package timeslot переводит человеческие выражения времени в индексы недельной сетки.
//
// Неделя повёрнута: индекс 0 - понедельник 19:30, последний индекс 335 - следующий
// понедельник 19:00. Утро понедельника до 19:30 относится к хвосту недели.
package timeslot

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/practiceroom_bot/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrInvalidDay        = errors.New("invalid day")
	ErrInvalidTimeFormat = errors.New("invalid time format")
	ErrOffHalfHour       = errors.New("time must be on the half hour")
)

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var (
	timeCleaner = regexp.MustCompile(`[^0-9:apm]`)
	dayCleaner  = regexp.MustCompile(`[^a-z]`)
	timePattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?(am|pm)?$`)
)

var titleCaser = cases.Title(language.English)

// ToIndex переводит пару (время, день) в канонический индекс слота
func ToIndex(timeText, dayText string) (int, error) {
	day, err := ParseDay(dayText)
	if err != nil {
		return 0, err
	}

	timeIdx, err := ParseTime(timeText)
	if err != nil {
		return 0, err
	}

	return Rotate(day, timeIdx), nil
}

// IsValidTimeFormat проверяет время без возврата ошибки
func IsValidTimeFormat(text string) bool {
	_, err := ParseTime(text)
	return err == nil
}

// ParseDay возвращает номер дня (понедельник = 0) по имени или однозначному префиксу
func ParseDay(text string) (int, error) {
	normalized := dayCleaner.ReplaceAllString(strings.ToLower(text), "")
	if normalized == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDay, text)
	}

	match := -1
	for i, name := range weekdays {
		if name == normalized {
			return i, nil
		}
		if strings.HasPrefix(name, normalized) {
			if match >= 0 {
				// "t" и "s" подходят двум дням
				return 0, fmt.Errorf("%w: %q is ambiguous", ErrInvalidDay, text)
			}
			match = i
		}
	}

	if match < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDay, text)
	}
	return match, nil
}

// ParseTime возвращает номер получаса в сутках (0..47).
// Принимает "7", "19:30", "7:30pm", "7p", "12 AM". Без am/pm час считается 24-часовым.
func ParseTime(text string) (int, error) {
	normalized := timeCleaner.ReplaceAllString(strings.ToLower(text), "")
	if strings.HasSuffix(normalized, "a") || strings.HasSuffix(normalized, "p") {
		normalized += "m"
	}

	parts := timePattern.FindStringSubmatch(normalized)
	if parts == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}

	hour, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}

	minutes := 0
	if parts[2] != "" {
		minutes, err = strconv.Atoi(parts[2])
		if err != nil || minutes >= 60 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
		}
	}

	if minutes%30 != 0 {
		return 0, fmt.Errorf("%w: %q", ErrOffHalfHour, text)
	}

	switch parts[3] {
	case "am", "pm":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
		}
		if parts[3] == "pm" && hour != 12 {
			hour += 12
		} else if parts[3] == "am" && hour == 12 {
			hour = 0
		}
	default:
		if hour == 24 && minutes == 0 {
			hour = 0
		}
		if hour > 23 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
		}
	}

	return hour*2 + minutes/30, nil
}

// Rotate сдвигает обычный индекс day*48+time в повёрнутую неделю.
// day 7 - виртуальный второй понедельник, используется сеткой и сырыми индексами.
func Rotate(day, timeIdx int) int {
	raw := day*model.SlotsPerDay + timeIdx
	switch {
	case day == 0 && timeIdx < model.SplitSlot:
		raw += model.SlotsPerWeek
	case day == model.DaysPerWeek && timeIdx >= model.SplitSlot:
		raw -= model.SlotsPerWeek
	}
	return raw - model.SplitSlot
}

// FoldRaw поворачивает сырой индекс, отсчитанный от полуночи первого понедельника.
// Отрицательный индекс возвращается как есть и отсекается проверкой границ.
func FoldRaw(raw int) int {
	if raw < 0 {
		return raw
	}
	return Rotate(raw/model.SlotsPerDay, raw%model.SlotsPerDay)
}

// DayTime обратное преобразование: день (0..6) и получас для канонического индекса
func DayTime(index int) (day, timeIdx int) {
	raw := index + model.SplitSlot
	if raw >= model.SlotsPerWeek {
		return 0, raw - model.SlotsPerWeek
	}
	return raw / model.SlotsPerDay, raw % model.SlotsPerDay
}

// IndexAt индекс слота, в который попадает момент t (в его собственной зоне), с округлением вниз до получаса
func IndexAt(t time.Time) int {
	day := (int(t.Weekday()) + 6) % 7
	return Rotate(day, t.Hour()*2+t.Minute()/30)
}

// StartOf момент начала слота относительно начала недели.
// Слоты - получасы по настенным часам, поэтому в неделю перевода времени считаем по календарю.
func StartOf(weekStart time.Time, index int) time.Time {
	return time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(),
		weekStart.Hour(), weekStart.Minute()+index*30, 0, 0, weekStart.Location())
}

// DayName название дня с заглавной буквы
func DayName(day int) string {
	if day < 0 || day >= len(weekdays) {
		return ""
	}
	return titleCaser.String(weekdays[day])
}

// Label человекочитаемое время слота, например "Monday 7:30pm"
func Label(index int) string {
	day, timeIdx := DayTime(index)
	return DayName(day) + " " + FormatTime(timeIdx)
}

// FormatTime форматирует получас суток в 12-часовом виде
func FormatTime(timeIdx int) string {
	hour := timeIdx / 2
	suffix := "am"
	if hour >= 12 {
		suffix = "pm"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	if timeIdx%2 == 1 {
		return fmt.Sprintf("%d:30%s", display, suffix)
	}
	return fmt.Sprintf("%d%s", display, suffix)
}
