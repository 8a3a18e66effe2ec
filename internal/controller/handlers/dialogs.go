package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/practiceroom_bot/internal/controller/state"
	"go.uber.org/zap"
)

// handleDialogStep обрабатывает текст без команды в зависимости от состояния пользователя
func (h *Handlers) handleDialogStep(ctx context.Context, c caller, text string, logger *zap.Logger) (reply, error) {
	switch h.stateManager.GetState(c.ID) {
	case state.StateConfirmReset:
		return h.handleResetConfirmation(ctx, c, text, logger)
	default:
		// Обычная переписка в чате, не отвечаем
		return reply{}, nil
	}
}

// handleResetConfirmation второй шаг /reset
func (h *Handlers) handleResetConfirmation(ctx context.Context, c caller, text string, logger *zap.Logger) (reply, error) {
	h.stateManager.ClearState(c.ID)

	if strings.TrimSpace(text) != confirmResetWord {
		logger.Info("Schedule reset aborted")
		return reply{text: "Reset aborted, the schedule is unchanged."}, nil
	}

	// Роль могла измениться между шагами
	if !c.Role.Allows(h.commands["reset"].role) {
		return reply{}, ErrPermissionDenied
	}

	h.scheduleService.ResetWeek(ctx)
	logger.Info("Schedule reset by admin")

	return reply{text: "All room reservations and raid schedules have been reset.", schedule: true}, nil
}
