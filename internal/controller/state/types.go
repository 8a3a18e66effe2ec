package state

import "time"

// UserState текущий шаг диалога пользователя
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Ожидаем подтверждения сброса расписания
	StateConfirmReset UserState = "confirm_reset"
)

// UserData временные данные диалога
type UserData struct {
	State     UserState
	Data      map[string]any
	ExpiresAt time.Time
}
