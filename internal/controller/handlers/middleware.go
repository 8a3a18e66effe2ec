package handlers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Freeeeeet/practiceroom_bot/internal/controller/render"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// callerFrom автор сообщения с его ролью
func (h *Handlers) callerFrom(msg *models.Message) caller {
	if msg.From == nil {
		return caller{ID: msg.Chat.ID}
	}

	name := msg.From.Username
	if name == "" {
		// Без username роль не определить, но бронировать при открытом доступе можно
		name = fmt.Sprintf("user%d", msg.From.ID)
	}
	return caller{
		ID:   msg.From.ID,
		Name: name,
		Role: h.access.RoleOf(msg.From.Username),
	}
}

// send отправляет ответ команды: текст, картинку расписания или файл
func (h *Handlers) send(ctx context.Context, b *bot.Bot, chatID int64, r reply) {
	switch {
	case r.document != nil:
		h.sendDocument(ctx, b, chatID, r.text, r.document)
	case r.schedule:
		img, err := render.ScheduleImage(h.scheduleService.Grid(r.viewer), h.scheduleService.CurrentIndex())
		if err != nil {
			h.logger.Error("Failed to render schedule", zap.Error(err))
			h.sendMessage(ctx, b, chatID, r.text)
			return
		}
		h.sendPhoto(ctx, b, chatID, r.text, img)
	default:
		h.sendMessage(ctx, b, chatID, r.text)
	}
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

func (h *Handlers) sendPhoto(ctx context.Context, b *bot.Bot, chatID int64, caption string, img []byte) {
	_, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: scheduleFilename, Data: bytes.NewReader(img)},
		Caption: caption,
	})
	if err != nil {
		h.logger.Error("Failed to send schedule image",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

func (h *Handlers) sendDocument(ctx context.Context, b *bot.Bot, chatID int64, caption string, doc *document) {
	_, err := b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   chatID,
		Document: &models.InputFileUpload{Filename: doc.filename, Data: bytes.NewReader(doc.data)},
		Caption:  caption,
	})
	if err != nil {
		h.logger.Error("Failed to send document",
			zap.Int64("chat_id", chatID),
			zap.String("filename", doc.filename),
			zap.Error(err),
		)
	}
}
