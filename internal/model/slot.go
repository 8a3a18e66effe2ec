package model

// Размеры недельной сетки
const (
	SlotsPerDay  = 48
	DaysPerWeek  = 7
	SlotsPerWeek = DaysPerWeek * SlotsPerDay // 336

	// SplitSlot - слот понедельника 19:30, с которого начинается неделя
	SplitSlot = 39

	// BoundaryAllowance - сколько индексов за концом недели принимается как граница диапазона
	BoundaryAllowance = 2
)

// Room номер комнаты (1 или 2)
type Room int

const (
	Room1 Room = 1
	Room2 Room = 2
)

// Valid проверяет что номер комнаты существует
func (r Room) Valid() bool {
	return r == Room1 || r == Room2
}

// Other возвращает вторую комнату
func (r Room) Other() Room {
	if r == Room1 {
		return Room2
	}
	return Room1
}

type SlotKind uint8

const (
	SlotEmpty     SlotKind = iota // Свободно
	SlotOwned                     // Личная бронь
	SlotRecording                 // Запись, занимает обе комнаты
)

// SlotState состояние одной комнаты в одном слоте
type SlotState struct {
	Kind  SlotKind `json:"kind"`
	Owner string   `json:"owner,omitempty"` // только для SlotOwned
}

// EmptySlot возвращает свободный слот
func EmptySlot() SlotState {
	return SlotState{Kind: SlotEmpty}
}

// OwnedSlot возвращает слот, занятый пользователем
func OwnedSlot(user string) SlotState {
	return SlotState{Kind: SlotOwned, Owner: user}
}

// RecordingSlot возвращает слот записи
func RecordingSlot() SlotState {
	return SlotState{Kind: SlotRecording}
}

func (s SlotState) IsEmpty() bool {
	return s.Kind == SlotEmpty
}

func (s SlotState) IsRecording() bool {
	return s.Kind == SlotRecording
}

// OwnedBy проверяет что слот - личная бронь пользователя
func (s SlotState) OwnedBy(user string) bool {
	return s.Kind == SlotOwned && s.Owner == user
}

// String возвращает владельца для отображения
func (s SlotState) String() string {
	switch s.Kind {
	case SlotOwned:
		return s.Owner
	case SlotRecording:
		return "Recording Session"
	default:
		return ""
	}
}
