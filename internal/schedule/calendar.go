// Package schedule хранит недельный календарь двух комнат и движки, которые его меняют.
//
// Все индексы - канонические индексы повёрнутой недели (см. пакет timeslot).
// Брони, рейды и записи не хранятся как объекты: это непрерывные диапазоны одинаковых
// значений в массивах, и их границы всегда находятся линейным проходом от любого слота
// диапазона. Размер недели фиксирован (336), поэтому проход ограничен длиной недели;
// индексных структур поверх массивов нет и быть не должно, иначе они разойдутся с данными.
package schedule

import (
	"fmt"
	"math"
	"sync"

	"github.com/Freeeeeet/practiceroom_bot/internal/model"
)

// Calendar недельное состояние: владельцы обеих комнат и флаги рейдов.
// Все изменения идут через движки под одной блокировкой.
type Calendar struct {
	mu     sync.RWMutex
	room1  [model.SlotsPerWeek]model.SlotState
	room2  [model.SlotsPerWeek]model.SlotState
	raided [model.SlotsPerWeek]bool
}

// NewCalendar создаёт пустой календарь
func NewCalendar() *Calendar {
	return &Calendar{}
}

// Reset очищает все три массива
func (c *Calendar) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.room1 = [model.SlotsPerWeek]model.SlotState{}
	c.room2 = [model.SlotsPerWeek]model.SlotState{}
	c.raided = [model.SlotsPerWeek]bool{}
}

// Snapshot возвращает согласованную копию календаря
func (c *Calendar) Snapshot() model.CalendarSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return model.CalendarSnapshot{
		Room1:  append([]model.SlotState(nil), c.room1[:]...),
		Room2:  append([]model.SlotState(nil), c.room2[:]...),
		Raided: append([]bool(nil), c.raided[:]...),
	}
}

// Restore заменяет состояние календаря снимком
func (c *Calendar) Restore(snap model.CalendarSnapshot) error {
	if len(snap.Room1) != model.SlotsPerWeek || len(snap.Room2) != model.SlotsPerWeek || len(snap.Raided) != model.SlotsPerWeek {
		return fmt.Errorf("restore calendar: expected %d slots, got %d/%d/%d",
			model.SlotsPerWeek, len(snap.Room1), len(snap.Room2), len(snap.Raided))
	}

	for i := 0; i < model.SlotsPerWeek; i++ {
		if err := checkSlot(snap.Room1[i]); err != nil {
			return fmt.Errorf("restore calendar: room 1 slot %d: %w", i, err)
		}
		if err := checkSlot(snap.Room2[i]); err != nil {
			return fmt.Errorf("restore calendar: room 2 slot %d: %w", i, err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	copy(c.room1[:], snap.Room1)
	copy(c.room2[:], snap.Room2)
	copy(c.raided[:], snap.Raided)
	return nil
}

func checkSlot(s model.SlotState) error {
	switch s.Kind {
	case model.SlotEmpty, model.SlotRecording:
		return nil
	case model.SlotOwned:
		if s.Owner == "" {
			return fmt.Errorf("owned slot without owner")
		}
		return nil
	default:
		return fmt.Errorf("unknown slot kind %d", s.Kind)
	}
}

// Runs восстанавливает все брони, рейды и записи линейным проходом
func (c *Calendar) Runs() []model.Run {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var runs []model.Run
	for _, room := range []model.Room{model.Room1, model.Room2} {
		slots := c.slots(room)
		collectRuns(func(i int) (string, bool) {
			if slots[i].Kind != model.SlotOwned {
				return "", false
			}
			return slots[i].Owner, true
		}, func(owner string, start, end int) {
			runs = append(runs, model.Run{Kind: model.RunReservation, Room: room, Owner: owner, Start: start, End: end})
		})
	}

	collectRuns(func(i int) (string, bool) {
		return "", c.room1[i].IsRecording() || c.room2[i].IsRecording()
	}, func(_ string, start, end int) {
		runs = append(runs, model.Run{Kind: model.RunRecording, Start: start, End: end})
	})

	collectRuns(func(i int) (string, bool) {
		return "", c.raided[i]
	}, func(_ string, start, end int) {
		runs = append(runs, model.Run{Kind: model.RunRaid, Start: start, End: end})
	})

	return runs
}

// collectRuns вызывает emit для каждого максимального диапазона одинаковых ключей
func collectRuns(key func(i int) (string, bool), emit func(k string, start, end int)) {
	start := -1
	current := ""
	for i := 0; i <= model.SlotsPerWeek; i++ {
		k, ok := "", false
		if i < model.SlotsPerWeek {
			k, ok = key(i)
		}
		if start >= 0 && (!ok || k != current) {
			emit(current, start, i)
			start = -1
		}
		if ok && start < 0 {
			start = i
			current = k
		}
	}
}

// slots возвращает массив комнаты; вызывающий держит блокировку
func (c *Calendar) slots(room model.Room) *[model.SlotsPerWeek]model.SlotState {
	if room == model.Room2 {
		return &c.room2
	}
	return &c.room1
}

// scanRun находит диапазон [start, end) вокруг index, где выполняется in.
// Линейный проход в обе стороны; index должен удовлетворять in.
func scanRun(index int, in func(i int) bool) (int, int) {
	start := index
	for start > 0 && in(start-1) {
		start--
	}
	end := index
	for end < model.SlotsPerWeek && in(end) {
		end++
	}
	return start, end
}

// validIndex допускает два индекса за концом недели - только как границу диапазона
func validIndex(i int) bool {
	return i >= 0 && i < model.SlotsPerWeek+model.BoundaryAllowance
}

// storedIndex индекс, который реально хранится в массивах
func storedIndex(i int) bool {
	return i >= 0 && i < model.SlotsPerWeek
}

// crossesSplit конец диапазона уходит в следующую неделю
func crossesSplit(end int) bool {
	return end >= model.SlotsPerWeek+1
}

func clip(end int) int {
	if end > model.SlotsPerWeek {
		return model.SlotsPerWeek
	}
	return end
}

// halfHours переводит длительность в часах в число получасов
func halfHours(duration float64) (int, error) {
	h := duration * 2
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 || h != math.Trunc(h) || h > model.SlotsPerWeek {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDuration, duration)
	}
	return int(h), nil
}
