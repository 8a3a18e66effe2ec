package handlers

import (
	"context"

	"github.com/Freeeeeet/practiceroom_bot/internal/controller/state"
	"github.com/Freeeeeet/practiceroom_bot/internal/model"
	"github.com/Freeeeeet/practiceroom_bot/internal/service"
	"go.uber.org/zap"
)

// AccessChecker роль пользователя по его Telegram username
type AccessChecker interface {
	RoleOf(username string) model.Role
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	scheduleService *service.ScheduleService
	access          AccessChecker
	stateManager    *state.Manager
	commands        map[string]command
	logger          *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	scheduleService *service.ScheduleService,
	access AccessChecker,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	h := &Handlers{
		scheduleService: scheduleService,
		access:          access,
		stateManager:    stateManager,
		logger:          logger,
	}
	h.commands = h.buildCommands()
	return h
}

// caller автор команды
type caller struct {
	ID   int64
	Name string
	Role model.Role
}

// document файл для отправки в чат
type document struct {
	filename string
	data     []byte
}

// reply ответ на команду
type reply struct {
	text string
	// schedule прикладывает картинку расписания глазами viewer
	schedule bool
	viewer   string
	document *document
}

type commandFunc func(ctx context.Context, c caller, args []string) (reply, error)

type command struct {
	name        string
	usage       string
	description string
	role        model.Role
	run         commandFunc
}
