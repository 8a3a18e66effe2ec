package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/Freeeeeet/practiceroom_bot/internal/app"
	"github.com/Freeeeeet/practiceroom_bot/internal/config"
	"github.com/Freeeeeet/practiceroom_bot/internal/controller"
	"github.com/Freeeeeet/practiceroom_bot/internal/controller/handlers"
	"github.com/Freeeeeet/practiceroom_bot/internal/controller/state"
	"github.com/Freeeeeet/practiceroom_bot/internal/repository"
	"github.com/Freeeeeet/practiceroom_bot/internal/schedule"
	"github.com/Freeeeeet/practiceroom_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting practice room bot",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", cfg.Location.String()),
		zap.Float64("quota_hours", cfg.QuotaHours),
		zap.Bool("persistence", cfg.DBDSN != ""))

	// Без DB_DSN расписание живёт только в памяти
	var store service.SnapshotStore
	if cfg.DBDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := migrate(ctx, pool, cfg.MigrationsDir, logger); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		store = repository.NewSnapshotRepository(pool)
	}

	scheduleService, err := service.NewScheduleService(schedule.NewCalendar(), store, service.Options{
		Location:   cfg.Location,
		ResetCron:  cfg.ResetCron,
		QuotaHours: cfg.QuotaHours,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create schedule service", zap.Error(err))
	}

	if err := scheduleService.Restore(ctx); err != nil {
		logger.Error("Failed to restore schedule, starting empty", zap.Error(err))
	}

	scheduler := app.NewScheduler(scheduleService, scheduleService.Clock(), logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	cmdHandlers := handlers.NewHandlers(scheduleService, cfg.Access, state.NewManager(state.DefaultTTL, nil), logger)
	botController := controller.NewBotController(botInstance, cmdHandlers, logger)

	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Error("Failed to register bot commands menu", zap.Error(err))
	}

	if err := botController.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Practice room bot stopped")
}

func migrate(ctx context.Context, pool *pgxpool.Pool, dir string, logger *zap.Logger) error {
	migrator, err := app.NewMigrator(pool, dir, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Run(ctx)
}
