package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"mindconnect/internal/domain"
)

type AnalyticsRepo struct {
	db *pgxpool.Pool
}

func NewAnalyticsRepository(db *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{
		db: db,
	}
}

func (r *AnalyticsRepo) Save(ctx context.Context, event domain.AnalyticsEvent) error {
	query := `
		INSERT INTO analytics_events (
			id, event_type, psychologist_id, session_id, page, referrer, section, properties, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	properties := event.Properties
	if properties == nil {
		properties = map[string]any{}
	}

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.Type,
		event.PsychologistID,
		event.SessionID,
		event.Page,
		event.Referrer,
		event.Section,
		properties,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения события аналитики: %w", err)
	}

	return nil
}

func (r *AnalyticsRepo) List(ctx context.Context, filter domain.EventFilter) ([]domain.AnalyticsEvent, error) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if len(filter.Types) > 0 {
		types := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			types = append(types, string(t))
		}
		whereClauses = append(whereClauses, fmt.Sprintf("event_type = ANY($%d)", argIndex))
		args = append(args, types)
		argIndex++
	}

	if filter.PsychologistID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("psychologist_id = $%d", argIndex))
		args = append(args, *filter.PsychologistID)
		argIndex++
	}

	if filter.Since != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at >= $%d", argIndex))
		args = append(args, *filter.Since)
		argIndex++
	}

	if filter.Until != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at < $%d", argIndex))
		args = append(args, *filter.Until)
	}

	query := `
		SELECT id, event_type, psychologist_id, session_id, page, referrer, section, properties, created_at
		FROM analytics_events
	`
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	events := make([]domain.AnalyticsEvent, 0)
	for rows.Next() {
		var e domain.AnalyticsEvent
		if err := rows.Scan(
			&e.ID,
			&e.Type,
			&e.PsychologistID,
			&e.SessionID,
			&e.Page,
			&e.Referrer,
			&e.Section,
			&e.Properties,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обработки результатов: %w", err)
	}

	return events, nil
}
