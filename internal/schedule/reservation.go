package schedule

import (
	"fmt"

	"github.com/Freeeeeet/practiceroom_bot/internal/model"
)

// DefaultQuotaHours недельный лимит личных броней на пользователя
const DefaultQuotaHours = 3

// CancelGuard политика вызывающего, проверяется под той же блокировкой, что и отмена
type CancelGuard func(run model.Run) error

// NotStartedBefore запрещает отмену брони, которая началась раньше текущего слота
func NotStartedBefore(current int) CancelGuard {
	return func(run model.Run) error {
		if run.Start < current {
			return fmt.Errorf("%w: started at %d, now %d", ErrReservationStarted, run.Start, current)
		}
		return nil
	}
}

// ReservationEngine личные брони в одной комнате
type ReservationEngine struct {
	cal            *Calendar
	quotaHalfHours int
}

// NewReservationEngine создаёт движок броней с недельным лимитом в часах
func NewReservationEngine(cal *Calendar, quotaHours float64) *ReservationEngine {
	if quotaHours <= 0 {
		quotaHours = DefaultQuotaHours
	}
	return &ReservationEngine{
		cal:            cal,
		quotaHalfHours: int(quotaHours * 2),
	}
}

// QuotaHalfHours лимит в получасах
func (e *ReservationEngine) QuotaHalfHours() int {
	return e.quotaHalfHours
}

// Reserve бронирует комнату для пользователя на duration часов начиная со start.
// Проверки идут по порядку, первая неудачная возвращает свою ошибку и ничего не меняет.
func (e *ReservationEngine) Reserve(room model.Room, user string, start int, duration float64) (model.Run, error) {
	if !room.Valid() {
		return model.Run{}, fmt.Errorf("%w: %d", ErrInvalidRoom, room)
	}
	if user == "" {
		return model.Run{}, ErrInvalidUser
	}

	h, err := halfHours(duration)
	if err != nil {
		return model.Run{}, err
	}
	end := start + h

	e.cal.mu.Lock()
	defer e.cal.mu.Unlock()

	if !validIndex(start) || !validIndex(end) {
		return model.Run{}, fmt.Errorf("%w: %d..%d", ErrSplitCrossing, start, end)
	}

	used := e.usedLocked(user)
	if used+h > e.quotaHalfHours {
		return model.Run{}, fmt.Errorf("%w: %d of %d half hours used, requested %d", ErrQuotaExceeded, used, e.quotaHalfHours, h)
	}

	other := e.cal.slots(room.Other())
	for i := start; i < clip(end); i++ {
		if other[i].OwnedBy(user) {
			return model.Run{}, fmt.Errorf("%w: room %d at %d", ErrCrossRoomConflict, room.Other(), i)
		}
	}

	target := e.cal.slots(room)
	for i := start; i < clip(end); i++ {
		if !target[i].IsEmpty() {
			return model.Run{}, fmt.Errorf("%w: room %d at %d", ErrSlotUnavailable, room, i)
		}
	}

	// Повторная проверка по сырому концу: вызывающий мог передать индекс без поворота
	if crossesSplit(end) {
		return model.Run{}, fmt.Errorf("%w: ends at %d", ErrSplitCrossing, end)
	}

	for i := start; i < end; i++ {
		if !storedIndex(i) {
			continue
		}
		target[i] = model.OwnedSlot(user)
	}

	return model.Run{Kind: model.RunReservation, Room: room, Owner: user, Start: start, End: clip(end)}, nil
}

// Cancel снимает всю бронь пользователя, в которую попадает index
func (e *ReservationEngine) Cancel(room model.Room, user string, index int, guards ...CancelGuard) (model.Run, error) {
	if !room.Valid() {
		return model.Run{}, fmt.Errorf("%w: %d", ErrInvalidRoom, room)
	}
	if !storedIndex(index) {
		return model.Run{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	e.cal.mu.Lock()
	defer e.cal.mu.Unlock()

	target := e.cal.slots(room)
	if !target[index].OwnedBy(user) {
		return model.Run{}, fmt.Errorf("%w: room %d at %d", ErrNoReservation, room, index)
	}

	start, end := scanRun(index, func(i int) bool { return target[i].OwnedBy(user) })
	run := model.Run{Kind: model.RunReservation, Room: room, Owner: user, Start: start, End: end}

	for _, guard := range guards {
		if err := guard(run); err != nil {
			return model.Run{}, err
		}
	}

	for i := start; i < end; i++ {
		target[i] = model.EmptySlot()
	}
	return run, nil
}

// Query возвращает состояние комнаты в слоте
func (e *ReservationEngine) Query(room model.Room, index int) (model.SlotState, error) {
	if !room.Valid() {
		return model.SlotState{}, fmt.Errorf("%w: %d", ErrInvalidRoom, room)
	}
	if !storedIndex(index) {
		return model.SlotState{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	e.cal.mu.RLock()
	defer e.cal.mu.RUnlock()

	return e.cal.slots(room)[index], nil
}

// IsOwnedBy проверяет что слот комнаты - личная бронь пользователя
func (e *ReservationEngine) IsOwnedBy(user string, room model.Room, index int) bool {
	state, err := e.Query(room, index)
	if err != nil {
		return false
	}
	return state.OwnedBy(user)
}

// UsedHalfHours сколько получасов пользователь занял в обеих комнатах
func (e *ReservationEngine) UsedHalfHours(user string) int {
	e.cal.mu.RLock()
	defer e.cal.mu.RUnlock()

	return e.usedLocked(user)
}

func (e *ReservationEngine) usedLocked(user string) int {
	used := 0
	for i := 0; i < model.SlotsPerWeek; i++ {
		if e.cal.room1[i].OwnedBy(user) {
			used++
		}
		if e.cal.room2[i].OwnedBy(user) {
			used++
		}
	}
	return used
}
