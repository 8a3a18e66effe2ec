package schedule

import (
	"fmt"

	"github.com/Freeeeeet/practiceroom_bot/internal/model"
	"github.com/Freeeeeet/practiceroom_bot/internal/timeslot"
)

// RaidEngine отметки рейдов: оборудование вынесено из комнат.
// Рейд не занимает комнаты и может лежать поверх броней.
type RaidEngine struct {
	cal *Calendar
}

func NewRaidEngine(cal *Calendar) *RaidEngine {
	return &RaidEngine{cal: cal}
}

// AddRaid отмечает рейд на duration часов начиная с канонического индекса start.
// Соседние рейды сливаются, возвращается получившийся диапазон.
func (e *RaidEngine) AddRaid(start int, duration float64) (model.Run, error) {
	h, err := halfHours(duration)
	if err != nil {
		return model.Run{}, err
	}
	if !storedIndex(start) {
		return model.Run{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, start)
	}

	end := start + h
	if !validIndex(end) || crossesSplit(end) {
		return model.Run{}, fmt.Errorf("%w: ends at %d", ErrSplitCrossing, end)
	}

	e.cal.mu.Lock()
	defer e.cal.mu.Unlock()

	for i := start; i < clip(end); i++ {
		e.cal.raided[i] = true
	}

	runStart, runEnd := scanRun(start, func(i int) bool { return e.cal.raided[i] })
	return model.Run{Kind: model.RunRaid, Start: runStart, End: runEnd}, nil
}

// AddRaidRaw то же, что AddRaid, но start отсчитан от полуночи первого понедельника
// и ещё не повёрнут.
func (e *RaidEngine) AddRaidRaw(rawStart int, duration float64) (model.Run, error) {
	return e.AddRaid(timeslot.FoldRaw(rawStart), duration)
}

// RemoveRaid снимает весь рейд, в который попадает index
func (e *RaidEngine) RemoveRaid(index int) (model.Run, error) {
	if !validIndex(index) {
		return model.Run{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	e.cal.mu.Lock()
	defer e.cal.mu.Unlock()

	if !storedIndex(index) || !e.cal.raided[index] {
		return model.Run{}, fmt.Errorf("%w: %d", ErrNoRaid, index)
	}

	start, end := scanRun(index, func(i int) bool { return e.cal.raided[i] })
	for i := start; i < end; i++ {
		e.cal.raided[i] = false
	}
	return model.Run{Kind: model.RunRaid, Start: start, End: end}, nil
}

func (e *RaidEngine) IsRaided(index int) bool {
	if !storedIndex(index) {
		return false
	}

	e.cal.mu.RLock()
	defer e.cal.mu.RUnlock()

	return e.cal.raided[index]
}
