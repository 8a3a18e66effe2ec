package model

// DisplayState что показывает слот на картинке расписания
type DisplayState int

const (
	DisplayBackground DisplayState = iota // За пределами недели
	DisplayBlackout                       // Артефакт поворота недели, бронировать нельзя
	DisplayRecording
	DisplayOwnRoom1
	DisplayOwnRoom2
	DisplayBothOccupied
	DisplayRoom1Occupied
	DisplayRoom2Occupied
	DisplayRaided
	DisplayVacant
)

var displayNames = map[DisplayState]string{
	DisplayBackground:    "background",
	DisplayBlackout:      "blackout",
	DisplayRecording:     "recording",
	DisplayOwnRoom1:      "own-room-1",
	DisplayOwnRoom2:      "own-room-2",
	DisplayBothOccupied:  "both-occupied",
	DisplayRoom1Occupied: "room-1-occupied",
	DisplayRoom2Occupied: "room-2-occupied",
	DisplayRaided:        "raided",
	DisplayVacant:        "vacant",
}

func (d DisplayState) String() string {
	if name, ok := displayNames[d]; ok {
		return name
	}
	return "unknown"
}
