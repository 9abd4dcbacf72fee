package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mindconnect/internal/domain"
)

const bookingColumns = `
	id, psychologist_id, visitor_name, visitor_email, visitor_phone, message,
	preferred_times, source_page, utm, delivery_status, email_provider_message_id,
	delivery_attempts, created_at, updated_at
`

type BookingRepo struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepo {
	return &BookingRepo{
		db: db,
	}
}

func (r *BookingRepo) Create(ctx context.Context, booking domain.Booking) (int64, error) {
	if booking.DeliveryStatus == "" {
		booking.DeliveryStatus = domain.DeliveryStatusPending
	}

	query := `
		INSERT INTO bookings (
			psychologist_id, visitor_name, visitor_email, visitor_phone, message,
			preferred_times, source_page, utm, delivery_status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		booking.PsychologistID,
		booking.VisitorName,
		booking.VisitorEmail,
		booking.VisitorPhone,
		booking.Message,
		booking.PreferredTimes,
		booking.SourcePage,
		booking.UTM,
		booking.DeliveryStatus,
		time.Now().UTC(),
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("ошибка создания заявки: %w", err)
	}

	return id, nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения заявки: %w", err)
	}

	return &b, nil
}

func (r *BookingRepo) UpdateDelivery(ctx context.Context, id int64, status domain.DeliveryStatus, messageID string) error {
	query := `
		UPDATE bookings
		SET delivery_status = $1,
		    email_provider_message_id = $2,
		    delivery_attempts = delivery_attempts + 1,
		    updated_at = $3
		WHERE id = $4
	`

	tag, err := r.db.Exec(ctx, query, status, messageID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса доставки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *BookingRepo) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if filter.PsychologistID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("psychologist_id = $%d", argIndex))
		args = append(args, *filter.PsychologistID)
		argIndex++
	}

	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("delivery_status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.Since != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at >= $%d", argIndex))
		args = append(args, *filter.Since)
		argIndex++
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM bookings"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета заявок: %w", err)
	}

	query := "SELECT " + bookingColumns + " FROM bookings" + whereClause + " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка обработки результатов: %w", err)
	}

	return bookings, total, nil
}

func scanBooking(row pgx.Row) (domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID,
		&b.PsychologistID,
		&b.VisitorName,
		&b.VisitorEmail,
		&b.VisitorPhone,
		&b.Message,
		&b.PreferredTimes,
		&b.SourcePage,
		&b.UTM,
		&b.DeliveryStatus,
		&b.EmailProviderMessageID,
		&b.DeliveryAttempts,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}
