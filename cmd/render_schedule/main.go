package main

import (
	"fmt"
	"os"

	"github.com/Freeeeeet/practiceroom_bot/internal/controller/render"
	"github.com/Freeeeeet/practiceroom_bot/internal/model"
	"github.com/Freeeeeet/practiceroom_bot/internal/schedule"
	"github.com/Freeeeeet/practiceroom_bot/internal/timeslot"
)

// Рисует расписание с тестовыми данными в schedule.png, чтобы проверить картинку без бота
func main() {
	cal := schedule.NewCalendar()
	reservations := schedule.NewReservationEngine(cal, schedule.DefaultQuotaHours)
	raids := schedule.NewRaidEngine(cal)
	recordings := schedule.NewRecordingEngine(cal)

	// Тестовые брони: понедельник вечером, вторник и пятница
	bookings := []struct {
		room  model.Room
		user  string
		day   string
		time  string
		hours float64
	}{
		{model.Room1, "alice", "monday", "8pm", 2},
		{model.Room2, "bob", "monday", "9pm", 1},
		{model.Room1, "bob", "tuesday", "6pm", 1.5},
		{model.Room2, "carol", "tuesday", "6pm", 3},
		{model.Room1, "dave", "friday", "1pm", 1},
		{model.Room2, "alice", "sunday", "10am", 1},
	}

	for _, bk := range bookings {
		start, err := timeslot.ToIndex(bk.time, bk.day)
		if err != nil {
			fail("parse %s %s: %v", bk.day, bk.time, err)
		}
		if _, err := reservations.Reserve(bk.room, bk.user, start, bk.hours); err != nil {
			fail("reserve %s for %s: %v", timeslot.Label(start), bk.user, err)
		}
	}

	mustIndex := func(timeText, day string) int {
		index, err := timeslot.ToIndex(timeText, day)
		if err != nil {
			fail("parse %s %s: %v", day, timeText, err)
		}
		return index
	}

	if _, err := raids.AddRaid(mustIndex("12pm", "wednesday"), 4); err != nil {
		fail("raid: %v", err)
	}
	if _, err := recordings.AddSession(mustIndex("3pm", "saturday"), 3); err != nil {
		fail("recording: %v", err)
	}

	grid := schedule.NewResolver(cal).Grid("alice")
	imageData, err := render.ScheduleImage(grid, mustIndex("7pm", "thursday"))
	if err != nil {
		fail("render: %v", err)
	}

	filename := "schedule.png"
	if err := os.WriteFile(filename, imageData, 0644); err != nil {
		fail("save %s: %v", filename, err)
	}

	fmt.Printf("Schedule image saved to %s (%dx%d)\n", filename, render.ImageWidth, render.ImageHeight)
	fmt.Printf("Runs: %d\n", len(cal.Runs()))
}

func fail(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}
