package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/practiceroom_bot/internal/model"
	"github.com/Freeeeeet/practiceroom_bot/internal/schedule"
	"go.uber.org/zap"
)

// SnapshotStore хранилище снимка календаря между перезапусками
type SnapshotStore interface {
	Save(ctx context.Context, snap model.CalendarSnapshot) error
	Load(ctx context.Context) (*model.CalendarSnapshot, error)
}

// Options настройки сервиса расписания
type Options struct {
	Location   *time.Location
	ResetCron  string
	QuotaHours float64
	Now        func() time.Time
}

// ScheduleService обёртка над движками: время, политика прошлого, сохранение
type ScheduleService struct {
	cal          *schedule.Calendar
	reservations *schedule.ReservationEngine
	raids        *schedule.RaidEngine
	recordings   *schedule.RecordingEngine
	resolver     *schedule.Resolver
	store        SnapshotStore
	clock        *Clock
	persistMu    sync.Mutex
	logger       *zap.Logger
}

// NewScheduleService создаёт сервис. store может быть nil - тогда состояние живёт только в памяти.
func NewScheduleService(cal *schedule.Calendar, store SnapshotStore, opts Options, logger *zap.Logger) (*ScheduleService, error) {
	clock, err := NewClock(opts.Location, opts.ResetCron, opts.Now)
	if err != nil {
		return nil, fmt.Errorf("create clock: %w", err)
	}

	quota := opts.QuotaHours
	if quota <= 0 {
		quota = schedule.DefaultQuotaHours
	}

	return &ScheduleService{
		cal:          cal,
		reservations: schedule.NewReservationEngine(cal, quota),
		raids:        schedule.NewRaidEngine(cal),
		recordings:   schedule.NewRecordingEngine(cal),
		resolver:     schedule.NewResolver(cal),
		store:        store,
		clock:        clock,
		logger:       logger,
	}, nil
}

// Clock часы сервиса
func (s *ScheduleService) Clock() *Clock {
	return s.clock
}

// CurrentIndex канонический индекс текущего получаса
func (s *ScheduleService) CurrentIndex() int {
	return s.clock.CurrentIndex()
}

// Reserve бронирует комнату. Начало в прошлом запрещено.
func (s *ScheduleService) Reserve(ctx context.Context, room model.Room, user string, start int, hours float64) (model.Run, error) {
	current := s.CurrentIndex()
	if start < current {
		s.logger.Debug("Reservation rejected",
			zap.String("user", user),
			zap.Int("start", start),
			zap.Int("current", current),
			zap.String("reason", "past"))
		return model.Run{}, fmt.Errorf("%w: slot %d, now %d", schedule.ErrReservationInPast, start, current)
	}

	run, err := s.reservations.Reserve(room, user, start, hours)
	if err != nil {
		s.logger.Debug("Reservation rejected",
			zap.Int("room", int(room)),
			zap.String("user", user),
			zap.Int("start", start),
			zap.Float64("hours", hours),
			zap.String("reason", err.Error()))
		return model.Run{}, fmt.Errorf("reserve: %w", err)
	}

	s.logger.Info("Room reserved",
		zap.Int("room", int(room)),
		zap.String("user", user),
		zap.Int("start", run.Start),
		zap.Int("end", run.End))

	s.persist(ctx)
	return run, nil
}

// Cancel отменяет бронь пользователя. Уже начавшуюся бронь отменить нельзя.
func (s *ScheduleService) Cancel(ctx context.Context, room model.Room, user string, index int) (model.Run, error) {
	run, err := s.reservations.Cancel(room, user, index, schedule.NotStartedBefore(s.CurrentIndex()))
	if err != nil {
		s.logger.Debug("Cancel rejected",
			zap.Int("room", int(room)),
			zap.String("user", user),
			zap.Int("index", index),
			zap.String("reason", err.Error()))
		return model.Run{}, fmt.Errorf("cancel reservation: %w", err)
	}

	s.logger.Info("Reservation cancelled",
		zap.Int("room", int(room)),
		zap.String("user", user),
		zap.Int("start", run.Start),
		zap.Int("end", run.End))

	s.persist(ctx)
	return run, nil
}

// WhoHas кто занимает комнату в слоте
func (s *ScheduleService) WhoHas(room model.Room, index int) (model.SlotState, error) {
	state, err := s.reservations.Query(room, index)
	if err != nil {
		return model.SlotState{}, fmt.Errorf("query slot: %w", err)
	}
	return state, nil
}

// AddRaid отмечает рейд
func (s *ScheduleService) AddRaid(ctx context.Context, start int, hours float64) (model.Run, error) {
	run, err := s.raids.AddRaid(start, hours)
	if err != nil {
		return model.Run{}, fmt.Errorf("add raid: %w", err)
	}

	s.logger.Info("Raid added", zap.Int("start", run.Start), zap.Int("end", run.End))
	s.persist(ctx)
	return run, nil
}

// RemoveRaid снимает рейд
func (s *ScheduleService) RemoveRaid(ctx context.Context, index int) (model.Run, error) {
	run, err := s.raids.RemoveRaid(index)
	if err != nil {
		return model.Run{}, fmt.Errorf("remove raid: %w", err)
	}

	s.logger.Info("Raid removed", zap.Int("start", run.Start), zap.Int("end", run.End))
	s.persist(ctx)
	return run, nil
}

// AddRecording ставит сессию записи
func (s *ScheduleService) AddRecording(ctx context.Context, start int, hours float64) (model.Run, error) {
	run, err := s.recordings.AddSession(start, hours)
	if err != nil {
		return model.Run{}, fmt.Errorf("add recording: %w", err)
	}

	s.logger.Info("Recording session added", zap.Int("start", run.Start), zap.Int("end", run.End))
	s.persist(ctx)
	return run, nil
}

// RemoveRecording снимает сессию записи
func (s *ScheduleService) RemoveRecording(ctx context.Context, index int) (model.Run, error) {
	run, err := s.recordings.Cancel(index)
	if err != nil {
		return model.Run{}, fmt.Errorf("remove recording: %w", err)
	}

	s.logger.Info("Recording session removed", zap.Int("start", run.Start), zap.Int("end", run.End))
	s.persist(ctx)
	return run, nil
}

// Grid сетка для картинки
func (s *ScheduleService) Grid(viewer string) schedule.Grid {
	return s.resolver.Grid(viewer)
}

// ResetWeek очищает календарь
func (s *ScheduleService) ResetWeek(ctx context.Context) {
	s.cal.Reset()
	s.logger.Info("Schedule reset", zap.Time("week_start", s.clock.WeekStart(s.clock.Now())))
	s.persist(ctx)
}

// MySchedule брони пользователя и остаток лимита в получасах
func (s *ScheduleService) MySchedule(user string) ([]model.Run, int) {
	var mine []model.Run
	for _, run := range s.cal.Runs() {
		if run.Kind == model.RunReservation && run.Owner == user {
			mine = append(mine, run)
		}
	}

	remaining := s.reservations.QuotaHalfHours() - s.reservations.UsedHalfHours(user)
	if remaining < 0 {
		remaining = 0
	}
	return mine, remaining
}

// Runs все диапазоны текущей недели
func (s *ScheduleService) Runs() []model.Run {
	return s.cal.Runs()
}

// Restore поднимает сохранённый снимок. Снимок прошлой недели не восстанавливается.
func (s *ScheduleService) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	snap, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil {
		s.logger.Info("No saved schedule, starting empty")
		return nil
	}

	weekStart := s.clock.WeekStart(s.clock.Now())
	if snap.WeekStart.Before(weekStart) {
		s.logger.Info("Saved schedule belongs to a previous week, starting empty",
			zap.Time("saved_week", snap.WeekStart),
			zap.Time("current_week", weekStart))
		return nil
	}

	if err := s.cal.Restore(*snap); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}

	s.logger.Info("Schedule restored", zap.Time("week_start", snap.WeekStart))
	return nil
}

// persist сохраняет снимок после изменения. Ошибка сохранения не отменяет изменение.
func (s *ScheduleService) persist(ctx context.Context) {
	if s.store == nil {
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	snap := s.cal.Snapshot()
	snap.WeekStart = s.clock.WeekStart(s.clock.Now())
	if err := s.store.Save(ctx, snap); err != nil {
		s.logger.Error("Failed to save schedule snapshot", zap.Error(err))
	}
}
