package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// WeeklyResetter то, что сбрасывается по расписанию
type WeeklyResetter interface {
	ResetWeek(ctx context.Context)
}

// ResetClock источник времени и расписания сброса
type ResetClock interface {
	Now() time.Time
	NextReset(t time.Time) time.Time
}

// Scheduler очищает календарь в начале каждой недели
type Scheduler struct {
	resetter WeeklyResetter
	clock    ResetClock
	logger   *zap.Logger
	stopChan chan struct{}
	done     chan struct{}

	// after для тестов, по умолчанию time.After
	after func(d time.Duration) <-chan time.Time
}

// NewScheduler создаёт новый планировщик
func NewScheduler(resetter WeeklyResetter, clock ResetClock, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		resetter: resetter,
		clock:    clock,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
		after:    time.After,
	}
}

// Start запускает фоновый сброс
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting weekly reset scheduler")
	go s.runResetTask(ctx)
}

// Stop останавливает планировщик и ждёт выхода из цикла
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping weekly reset scheduler")
	close(s.stopChan)
	<-s.done
}

// runResetTask ждёт ближайший момент сброса, сбрасывает и планирует следующий.
// Следующий момент считается от расписания, а не от фактического пробуждения.
func (s *Scheduler) runResetTask(ctx context.Context) {
	defer close(s.done)

	next := s.clock.NextReset(s.clock.Now())
	for {
		wait := next.Sub(s.clock.Now())
		if wait < 0 {
			wait = 0
		}
		s.logger.Info("Next schedule reset planned", zap.Time("at", next), zap.Duration("in", wait))

		select {
		case <-s.after(wait):
			s.resetter.ResetWeek(ctx)
			next = s.clock.NextReset(next)
		case <-s.stopChan:
			s.logger.Info("Weekly reset task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Weekly reset task cancelled")
			return
		}
	}
}
