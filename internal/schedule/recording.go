package schedule

import (
	"fmt"

	"github.com/Freeeeeet/practiceroom_bot/internal/model"
)

// RecordingEngine сессии записи, которые занимают обе комнаты сразу
type RecordingEngine struct {
	cal *Calendar
}

func NewRecordingEngine(cal *Calendar) *RecordingEngine {
	return &RecordingEngine{cal: cal}
}

// AddSession ставит запись на duration часов. Слоты должны быть пустыми или уже
// принадлежать записи в обеих комнатах: сессию можно продлить, но нельзя
// перезаписать личную бронь. Возвращает итоговый слитый диапазон.
func (e *RecordingEngine) AddSession(start int, duration float64) (model.Run, error) {
	h, err := halfHours(duration)
	if err != nil {
		return model.Run{}, err
	}
	if !storedIndex(start) {
		return model.Run{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, start)
	}

	end := start + h
	if !validIndex(end) {
		return model.Run{}, fmt.Errorf("%w: ends at %d", ErrSplitCrossing, end)
	}

	e.cal.mu.Lock()
	defer e.cal.mu.Unlock()

	for i := start; i < clip(end); i++ {
		for _, room := range []model.Room{model.Room1, model.Room2} {
			s := e.cal.slots(room)[i]
			if !s.IsEmpty() && !s.IsRecording() {
				return model.Run{}, fmt.Errorf("%w: room %d at %d held by %s", ErrSlotUnavailable, room, i, s.Owner)
			}
		}
	}

	for i := start; i < clip(end); i++ {
		e.cal.room1[i] = model.RecordingSlot()
		e.cal.room2[i] = model.RecordingSlot()
	}

	runStart, runEnd := e.sessionBoundsLocked(start)
	return model.Run{Kind: model.RunRecording, Start: runStart, End: runEnd}, nil
}

// IsRecording true если хотя бы одна комната в слоте занята записью
func (e *RecordingEngine) IsRecording(index int) bool {
	if !storedIndex(index) {
		return false
	}

	e.cal.mu.RLock()
	defer e.cal.mu.RUnlock()

	return e.cal.isRecordingLocked(index)
}

// Cancel снимает сессию, в которую попадает index. Диапазон каждой комнаты ищется
// отдельно, очищается их объединение, так что рассинхронизированные комнаты не
// оставляют хвостов записи.
func (e *RecordingEngine) Cancel(index int) (model.Run, error) {
	if !storedIndex(index) {
		return model.Run{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	e.cal.mu.Lock()
	defer e.cal.mu.Unlock()

	if !e.cal.isRecordingLocked(index) {
		return model.Run{}, fmt.Errorf("%w: %d", ErrNoRecording, index)
	}

	start, end := e.sessionBoundsLocked(index)
	for i := start; i < end; i++ {
		if e.cal.room1[i].IsRecording() {
			e.cal.room1[i] = model.EmptySlot()
		}
		if e.cal.room2[i].IsRecording() {
			e.cal.room2[i] = model.EmptySlot()
		}
	}
	return model.Run{Kind: model.RunRecording, Start: start, End: end}, nil
}

// sessionBoundsLocked объединение диапазонов записи обеих комнат вокруг index
func (e *RecordingEngine) sessionBoundsLocked(index int) (int, int) {
	start, end := index, index
	for _, room := range []model.Room{model.Room1, model.Room2} {
		slots := e.cal.slots(room)
		if !slots[index].IsRecording() {
			continue
		}
		s, t := scanRun(index, func(i int) bool { return slots[i].IsRecording() })
		if start == end || s < start {
			start = s
		}
		if t > end {
			end = t
		}
	}
	return start, end
}

func (c *Calendar) isRecordingLocked(index int) bool {
	return c.room1[index].IsRecording() || c.room2[index].IsRecording()
}
