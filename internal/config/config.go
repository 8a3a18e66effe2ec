package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/practiceroom_bot/internal/model"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone      = "America/New_York"
	defaultResetCron     = "30 19 * * MON"
	defaultMigrationsDir = "migrations"
	defaultQuotaHours    = 3
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string
	MigrationsDir string
	Location      *time.Location
	ResetCron     string
	QuotaHours    float64
	Access        *Access
}

// Access роли пользователей по Telegram username
type Access struct {
	Admins   []string `yaml:"admins"`
	Officers []string `yaml:"officers"`
	Members  []string `yaml:"members"`

	// MembersOpen разрешает бронировать всем, если список members пуст
	MembersOpen bool `yaml:"members_open"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:         os.Getenv("DB_DSN"),
		Environment:   envOr("ENV", "development"),
		MigrationsDir: envOr("MIGRATIONS_DIR", defaultMigrationsDir),
		ResetCron:     envOr("RESET_CRON", defaultResetCron),
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	loc, err := time.LoadLocation(envOr("TIMEZONE", defaultTimezone))
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	cfg.Location = loc

	quota, err := strconv.ParseFloat(envOr("WEEKLY_QUOTA_HOURS", strconv.Itoa(defaultQuotaHours)), 64)
	if err != nil || quota <= 0 {
		return nil, fmt.Errorf("WEEKLY_QUOTA_HOURS must be a positive number")
	}
	cfg.QuotaHours = quota

	membersOpen, err := strconv.ParseBool(envOr("MEMBERS_OPEN", "true"))
	if err != nil {
		return nil, fmt.Errorf("parse MEMBERS_OPEN: %w", err)
	}

	cfg.Access = &Access{MembersOpen: membersOpen}
	if path := os.Getenv("ACCESS_FILE"); path != "" {
		access, err := LoadAccess(path)
		if err != nil {
			return nil, err
		}
		// Переменная окружения сильнее файла только когда задана явно
		if os.Getenv("MEMBERS_OPEN") != "" {
			access.MembersOpen = membersOpen
		}
		cfg.Access = access
	}

	return cfg, nil
}

// LoadAccess читает YAML файл ролей
func LoadAccess(path string) (*Access, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read access file: %w", err)
	}

	access := &Access{MembersOpen: true}
	if err := yaml.Unmarshal(data, access); err != nil {
		return nil, fmt.Errorf("parse access file: %w", err)
	}

	access.normalize()
	return access, nil
}

func (a *Access) normalize() {
	for _, list := range []*[]string{&a.Admins, &a.Officers, &a.Members} {
		for i, name := range *list {
			(*list)[i] = normalizeUsername(name)
		}
	}
}

// RoleOf роль пользователя. Админ считается и офицером, и участником.
func (a *Access) RoleOf(username string) model.Role {
	name := normalizeUsername(username)
	if name == "" {
		return model.RoleGuest
	}

	switch {
	case contains(a.Admins, name):
		return model.RoleAdmin
	case contains(a.Officers, name):
		return model.RoleOfficer
	case contains(a.Members, name):
		return model.RoleMember
	case a.MembersOpen && len(a.Members) == 0:
		return model.RoleMember
	default:
		return model.RoleGuest
	}
}

func normalizeUsername(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "@"))
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
