package handlers

const (
	// confirmResetWord ответ, подтверждающий сброс
	confirmResetWord = "YES"

	icsFilename      = "practice_rooms.ics"
	scheduleFilename = "schedule.png"
)

// Порядок команд в справке и меню
var commandOrder = []string{
	"reserve", "cancel", "display", "whohas", "mine", "ics",
	"raid", "unraid", "record", "unrecord", "reset", "debug", "phelp",
}
