package model

import "time"

type RunKind string

const (
	RunReservation RunKind = "reservation"
	RunRaid        RunKind = "raid"
	RunRecording   RunKind = "recording"
)

// Run непрерывный диапазон слотов [Start, End) с одинаковым значением
type Run struct {
	Kind  RunKind `json:"kind"`
	Room  Room    `json:"room,omitempty"`  // 0 для рейдов и записей
	Owner string  `json:"owner,omitempty"` // только для броней
	Start int     `json:"start"`
	End   int     `json:"end"`
}

// HalfHours длина диапазона в получасах
func (r Run) HalfHours() int {
	return r.End - r.Start
}

// CalendarSnapshot копия календаря для отрисовки и сохранения
type CalendarSnapshot struct {
	Room1     []SlotState `json:"room1"`
	Room2     []SlotState `json:"room2"`
	Raided    []bool      `json:"raided"`
	WeekStart time.Time   `json:"week_start"`
}

// Slot возвращает состояние комнаты в слоте
func (s *CalendarSnapshot) Slot(room Room, index int) SlotState {
	if room == Room2 {
		return s.Room2[index]
	}
	return s.Room1[index]
}
