package schedule

import (
	"github.com/Freeeeeet/practiceroom_bot/internal/model"
)

// GridRows строки картинки: понедельник, ..., воскресенье и второй понедельник
const GridRows = model.DaysPerWeek + 1

// Grid состояния всех ячеек картинки, строка - день, столбец - получас
type Grid [GridRows][model.SlotsPerDay]model.DisplayState

// Resolver решает, что показывает слот. Только читает календарь.
type Resolver struct {
	cal *Calendar
}

func NewResolver(cal *Calendar) *Resolver {
	return &Resolver{cal: cal}
}

// ColorOf состояние слота для зрителя viewer (пустая строка - без зрителя)
func (r *Resolver) ColorOf(index int, viewer string) model.DisplayState {
	r.cal.mu.RLock()
	defer r.cal.mu.RUnlock()

	return r.cal.colorOfLocked(index, viewer)
}

// Cell состояние ячейки сетки (день 0..7, получас 0..47)
func (r *Resolver) Cell(row, col int, viewer string) model.DisplayState {
	r.cal.mu.RLock()
	defer r.cal.mu.RUnlock()

	return r.cal.cellLocked(row, col, viewer)
}

// Grid вся сетка под одной блокировкой, чтобы картинка была согласованной
func (r *Resolver) Grid(viewer string) Grid {
	r.cal.mu.RLock()
	defer r.cal.mu.RUnlock()

	var g Grid
	for row := 0; row < GridRows; row++ {
		for col := 0; col < model.SlotsPerDay; col++ {
			g[row][col] = r.cal.cellLocked(row, col, viewer)
		}
	}
	return g
}

// IsBlackoutCell ячейки первого понедельника до 19:30 и второго понедельника с 19:30:
// их нет в повёрнутой неделе
func IsBlackoutCell(row, col int) bool {
	if row == 0 && col < model.SplitSlot {
		return true
	}
	return row == model.DaysPerWeek && col >= model.SplitSlot
}

func (c *Calendar) cellLocked(row, col int, viewer string) model.DisplayState {
	if row < 0 || row >= GridRows || col < 0 || col >= model.SlotsPerDay {
		return model.DisplayBackground
	}
	if IsBlackoutCell(row, col) {
		return model.DisplayBlackout
	}
	return c.colorOfLocked(row*model.SlotsPerDay+col-model.SplitSlot, viewer)
}

// colorOfLocked порядок проверок фиксирован, побеждает первое совпадение
func (c *Calendar) colorOfLocked(index int, viewer string) model.DisplayState {
	if !validIndex(index) {
		return model.DisplayBackground
	}
	if !storedIndex(index) {
		return model.DisplayBlackout
	}

	r1, r2 := c.room1[index], c.room2[index]

	if r1.IsRecording() || r2.IsRecording() {
		return model.DisplayRecording
	}
	if viewer != "" {
		if r1.OwnedBy(viewer) && !r2.OwnedBy(viewer) {
			return model.DisplayOwnRoom1
		}
		if r2.OwnedBy(viewer) && !r1.OwnedBy(viewer) {
			return model.DisplayOwnRoom2
		}
	}
	if !r1.IsEmpty() && !r2.IsEmpty() {
		return model.DisplayBothOccupied
	}
	if !r1.IsEmpty() {
		return model.DisplayRoom1Occupied
	}
	if !r2.IsEmpty() {
		return model.DisplayRoom2Occupied
	}
	if c.raided[index] && r1.IsEmpty() {
		return model.DisplayRaided
	}
	return model.DisplayVacant
}
