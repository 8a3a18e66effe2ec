package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Freeeeeet/practiceroom_bot/internal/model"
	"github.com/Freeeeeet/practiceroom_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// calendarStateID в таблице одна строка - текущая неделя
const calendarStateID = 1

// SnapshotRepository хранит снимок календаря в JSONB
type SnapshotRepository struct {
	*base.Repository
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{Repository: base.NewRepository(pool)}
}

// Save перезаписывает сохранённый снимок
func (r *SnapshotRepository) Save(ctx context.Context, snap model.CalendarSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO calendar_state (id, week_start, payload, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE
		SET week_start = EXCLUDED.week_start,
		    payload = EXCLUDED.payload,
		    updated_at = NOW()
	`

	if _, err := r.ExecAffected(ctx, query, calendarStateID, snap.WeekStart, payload); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	return nil
}

// Load возвращает сохранённый снимок или nil, если его нет
func (r *SnapshotRepository) Load(ctx context.Context) (*model.CalendarSnapshot, error) {
	query := `
		SELECT payload
		FROM calendar_state
		WHERE id = $1
	`

	var payload []byte
	err := r.QueryRow(ctx, query, calendarStateID).Scan(&payload)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Ещё ничего не сохраняли
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap model.CalendarSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snap, nil
}
