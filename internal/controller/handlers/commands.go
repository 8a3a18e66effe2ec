package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/practiceroom_bot/internal/controller/state"
	"github.com/Freeeeeet/practiceroom_bot/internal/model"
	"github.com/Freeeeeet/practiceroom_bot/internal/timeslot"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (h *Handlers) buildCommands() map[string]command {
	list := []command{
		{name: "reserve", usage: "/reserve <room> <day> <time> <hours>", description: "Reserve a room", role: model.RoleMember, run: h.reserve},
		{name: "cancel", usage: "/cancel <room> <day> <time>", description: "Cancel your reservation", role: model.RoleMember, run: h.cancel},
		{name: "display", usage: "/display", description: "Show the weekly schedule", role: model.RoleGuest, run: h.display},
		{name: "whohas", usage: "/whohas <room> <day> <time>", description: "Who is using a room at a given time", role: model.RoleMember, run: h.whoHas},
		{name: "mine", usage: "/mine", description: "Your reservations and remaining time", role: model.RoleMember, run: h.mine},
		{name: "ics", usage: "/ics [mine]", description: "Download the week as a calendar file", role: model.RoleGuest, run: h.exportICS},
		{name: "raid", usage: "/raid <day> <time> <hours>", description: "Mark equipment as removed (officers only)", role: model.RoleOfficer, run: h.raid},
		{name: "unraid", usage: "/unraid <day> <time>", description: "Remove a raid mark (officers only)", role: model.RoleOfficer, run: h.unraid},
		{name: "record", usage: "/record <day> <time> <hours>", description: "Add a recording session (officers only)", role: model.RoleOfficer, run: h.record},
		{name: "unrecord", usage: "/unrecord <day> <time>", description: "Cancel a recording session (officers only)", role: model.RoleOfficer, run: h.unrecord},
		{name: "reset", usage: "/reset", description: "Clear the whole schedule (admins only)", role: model.RoleAdmin, run: h.reset},
		{name: "debug", usage: "/debug 1 | /debug 2 <day> <time>", description: "Show slot indices", role: model.RoleGuest, run: h.debug},
		{name: "phelp", usage: "/phelp", description: "Show this message", role: model.RoleGuest, run: h.help},
	}

	commands := make(map[string]command, len(list)+2)
	for _, c := range list {
		commands[c.name] = c
	}
	commands["help"] = commands["phelp"]
	commands["start"] = commands["phelp"]
	return commands
}

// HandleMessage единая точка входа для текстовых сообщений: команды и шаги диалогов
func (h *Handlers) HandleMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	msg := update.Message
	c := h.callerFrom(msg)
	requestID := uuid.NewString()
	logger := h.logger.With(
		zap.String("request_id", requestID),
		zap.Int64("telegram_id", c.ID),
		zap.String("user", c.Name),
	)

	r, err := h.execute(ctx, c, msg.Text, logger)
	if err != nil {
		h.sendError(ctx, b, msg.Chat.ID, h.errorText(msg.Text, err))
		return
	}
	if r.text == "" && !r.schedule && r.document == nil {
		return
	}
	h.send(ctx, b, msg.Chat.ID, r)
}

// execute выполняет сообщение без обращения к Telegram
func (h *Handlers) execute(ctx context.Context, c caller, text string, logger *zap.Logger) (reply, error) {
	name, args, ok := parseCommand(text)
	if !ok {
		return h.handleDialogStep(ctx, c, text, logger)
	}

	// Любая команда прерывает незавершённый диалог
	h.stateManager.ClearState(c.ID)

	cmd, found := h.commands[name]
	if !found {
		return reply{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if !c.Role.Allows(cmd.role) {
		logger.Info("Command denied",
			zap.String("command", name),
			zap.String("role", c.Role.String()))
		return reply{}, fmt.Errorf("%w: %s requires %s", ErrPermissionDenied, name, cmd.role)
	}

	logger.Debug("Handling command", zap.String("command", name), zap.Strings("args", args))

	r, err := cmd.run(ctx, c, args)
	if err != nil {
		logger.Info("Command failed", zap.String("command", name), zap.Error(err))
		return reply{}, err
	}
	return r, nil
}

// errorText текст ошибки; для неверного числа аргументов показываем usage
func (h *Handlers) errorText(text string, err error) string {
	if errors.Is(err, ErrUsage) {
		name, _, _ := parseCommand(text)
		if cmd, ok := h.commands[name]; ok {
			return "Failed: Usage: " + cmd.usage
		}
	}
	return ErrorMessage(err)
}

func (h *Handlers) reserve(ctx context.Context, c caller, args []string) (reply, error) {
	if err := expectArgs(args, 4); err != nil {
		return reply{}, err
	}
	room, err := parseRoom(args[0])
	if err != nil {
		return reply{}, err
	}
	start, err := parseSlot(args[1], args[2])
	if err != nil {
		return reply{}, err
	}
	hours, err := parseHours(args[3])
	if err != nil {
		return reply{}, err
	}

	run, err := h.scheduleService.Reserve(ctx, room, c.Name, start, hours)
	if err != nil {
		return reply{}, err
	}

	return reply{
		text:     fmt.Sprintf("Congrats! Room %d is yours from %s.", run.Room, rangeLabel(run)),
		schedule: true,
		viewer:   c.Name,
	}, nil
}

func (h *Handlers) cancel(ctx context.Context, c caller, args []string) (reply, error) {
	if err := expectArgs(args, 3); err != nil {
		return reply{}, err
	}
	room, err := parseRoom(args[0])
	if err != nil {
		return reply{}, err
	}
	index, err := parseSlot(args[1], args[2])
	if err != nil {
		return reply{}, err
	}

	run, err := h.scheduleService.Cancel(ctx, room, c.Name, index)
	if err != nil {
		return reply{}, err
	}

	return reply{
		text:     fmt.Sprintf("Cancelled your room %d reservation from %s.", run.Room, rangeLabel(run)),
		schedule: true,
		viewer:   c.Name,
	}, nil
}

func (h *Handlers) display(_ context.Context, c caller, _ []string) (reply, error) {
	weekStart := h.scheduleService.Clock().WeekStart(h.scheduleService.Clock().Now())
	return reply{
		text:     "Schedule for the week starting " + weekStart.Format("Mon Jan 2, 3:04pm"),
		schedule: true,
		viewer:   c.Name,
	}, nil
}

func (h *Handlers) whoHas(_ context.Context, _ caller, args []string) (reply, error) {
	if err := expectArgs(args, 3); err != nil {
		return reply{}, err
	}
	room, err := parseRoom(args[0])
	if err != nil {
		return reply{}, err
	}
	index, err := parseSlot(args[1], args[2])
	if err != nil {
		return reply{}, err
	}

	slot, err := h.scheduleService.WhoHas(room, index)
	if err != nil {
		return reply{}, err
	}

	label := timeslot.Label(index)
	if slot.IsEmpty() {
		return reply{text: fmt.Sprintf("Room %d is free on %s.", room, label)}, nil
	}
	return reply{text: fmt.Sprintf("Room %d on %s: %s", room, label, slot)}, nil
}

func (h *Handlers) mine(_ context.Context, c caller, _ []string) (reply, error) {
	runs, remaining := h.scheduleService.MySchedule(c.Name)

	var sb strings.Builder
	if len(runs) == 0 {
		sb.WriteString("You have no reservations this week.\n")
	} else {
		sb.WriteString("Your reservations this week:\n")
		for _, run := range runs {
			fmt.Fprintf(&sb, "- Room %d: %s\n", run.Room, rangeLabel(run))
		}
	}
	fmt.Fprintf(&sb, "Remaining: %s", formatHours(remaining))

	return reply{text: sb.String()}, nil
}

func (h *Handlers) exportICS(_ context.Context, c caller, args []string) (reply, error) {
	user := ""
	switch {
	case len(args) == 0:
	case len(args) == 1 && strings.EqualFold(args[0], "mine"):
		user = c.Name
	default:
		return reply{}, fmt.Errorf("%w: ics takes at most one argument", ErrUsage)
	}

	return reply{
		text:     "Practice room calendar for this week",
		document: &document{filename: icsFilename, data: []byte(h.scheduleService.ExportICS(user))},
	}, nil
}

func (h *Handlers) raid(ctx context.Context, _ caller, args []string) (reply, error) {
	if err := expectArgs(args, 3); err != nil {
		return reply{}, err
	}
	start, err := parseSlot(args[0], args[1])
	if err != nil {
		return reply{}, err
	}
	hours, err := parseHours(args[2])
	if err != nil {
		return reply{}, err
	}

	run, err := h.scheduleService.AddRaid(ctx, start, hours)
	if err != nil {
		return reply{}, err
	}
	return reply{text: "Raid marked from " + rangeLabel(run) + ".", schedule: true}, nil
}

func (h *Handlers) unraid(ctx context.Context, _ caller, args []string) (reply, error) {
	if err := expectArgs(args, 2); err != nil {
		return reply{}, err
	}
	index, err := parseSlot(args[0], args[1])
	if err != nil {
		return reply{}, err
	}

	run, err := h.scheduleService.RemoveRaid(ctx, index)
	if err != nil {
		return reply{}, err
	}
	return reply{text: "Raid removed from " + rangeLabel(run) + ".", schedule: true}, nil
}

func (h *Handlers) record(ctx context.Context, _ caller, args []string) (reply, error) {
	if err := expectArgs(args, 3); err != nil {
		return reply{}, err
	}
	start, err := parseSlot(args[0], args[1])
	if err != nil {
		return reply{}, err
	}
	hours, err := parseHours(args[2])
	if err != nil {
		return reply{}, err
	}

	run, err := h.scheduleService.AddRecording(ctx, start, hours)
	if err != nil {
		return reply{}, err
	}
	return reply{text: "Recording session set from " + rangeLabel(run) + ".", schedule: true}, nil
}

func (h *Handlers) unrecord(ctx context.Context, _ caller, args []string) (reply, error) {
	if err := expectArgs(args, 2); err != nil {
		return reply{}, err
	}
	index, err := parseSlot(args[0], args[1])
	if err != nil {
		return reply{}, err
	}

	run, err := h.scheduleService.RemoveRecording(ctx, index)
	if err != nil {
		return reply{}, err
	}
	return reply{text: "Recording session cancelled from " + rangeLabel(run) + ".", schedule: true}, nil
}

func (h *Handlers) reset(_ context.Context, c caller, _ []string) (reply, error) {
	h.stateManager.SetState(c.ID, state.StateConfirmReset)
	return reply{
		text: fmt.Sprintf("This clears every reservation, raid and recording session for the week.\nSend %s to confirm, anything else to abort.", confirmResetWord),
	}, nil
}

func (h *Handlers) debug(_ context.Context, _ caller, args []string) (reply, error) {
	if len(args) == 0 {
		return reply{}, fmt.Errorf("%w: debug code is required", ErrUsage)
	}

	switch args[0] {
	case "1":
		current := h.scheduleService.CurrentIndex()
		return reply{text: fmt.Sprintf("Current time index: %d (%s)", current, timeslot.Label(current))}, nil
	case "2":
		if len(args) != 3 {
			return reply{}, fmt.Errorf("%w: debug 2 needs day and time", ErrUsage)
		}
		index, err := parseSlot(args[1], args[2])
		if err != nil {
			return reply{}, err
		}
		return reply{text: fmt.Sprintf("Index for %s %s: %d", args[1], args[2], index)}, nil
	default:
		return reply{}, fmt.Errorf("%w: %s", ErrInvalidDebugCode, args[0])
	}
}

func (h *Handlers) help(_ context.Context, c caller, _ []string) (reply, error) {
	var sb strings.Builder
	sb.WriteString("Here are the available commands:\n")
	for _, name := range commandOrder {
		cmd := h.commands[name]
		if !c.Role.Allows(cmd.role) {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", cmd.usage, cmd.description)
	}
	sb.WriteString("\nDays: monday..sunday or a prefix (mon, tu). Times: 7pm, 7:30pm, 19:30.")
	return reply{text: sb.String()}, nil
}

// BotCommands меню команд для SetMyCommands
func (h *Handlers) BotCommands() []models.BotCommand {
	commands := make([]models.BotCommand, 0, len(commandOrder))
	for _, name := range commandOrder {
		commands = append(commands, models.BotCommand{Command: name, Description: h.commands[name].description})
	}
	return commands
}

// formatHours получасы в "2.5 hours"
func formatHours(halfHours int) string {
	if halfHours == 2 {
		return "1 hour"
	}
	if halfHours%2 == 0 {
		return fmt.Sprintf("%d hours", halfHours/2)
	}
	return fmt.Sprintf("%.1f hours", float64(halfHours)/2)
}
