package model

// Role уровень доступа пользователя
type Role int

const (
	RoleGuest   Role = iota // Только просмотр
	RoleMember              // Бронирование
	RoleOfficer             // Рейды и записи
	RoleAdmin               // Сброс расписания
)

func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleOfficer:
		return "officer"
	case RoleAdmin:
		return "admin"
	default:
		return "guest"
	}
}

// Allows проверяет что роль не ниже требуемой
func (r Role) Allows(required Role) bool {
	return r >= required
}
