package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"mindconnect/internal/domain"
)

type InquiryRepo struct {
	db *pgxpool.Pool
}

func NewInquiryRepository(db *pgxpool.Pool) *InquiryRepo {
	return &InquiryRepo{
		db: db,
	}
}

func (r *InquiryRepo) Create(ctx context.Context, inquiry domain.Inquiry) (int64, error) {
	query := `
		INSERT INTO inquiries (type, name, email, phone, subject, message, delivery_status, message_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		inquiry.Type,
		inquiry.Name,
		inquiry.Email,
		inquiry.Phone,
		inquiry.Subject,
		inquiry.Message,
		inquiry.DeliveryStatus,
		inquiry.MessageID,
		time.Now().UTC(),
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("ошибка сохранения обращения: %w", err)
	}

	return id, nil
}

func (r *InquiryRepo) List(ctx context.Context, limit, offset int) ([]domain.Inquiry, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM inquiries").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета обращений: %w", err)
	}

	query := `
		SELECT id, type, name, email, phone, subject, message, delivery_status, message_id, created_at
		FROM inquiries
		ORDER BY created_at DESC, id DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT $1 OFFSET $2"
		args = append(args, limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	inquiries := make([]domain.Inquiry, 0)
	for rows.Next() {
		var inq domain.Inquiry
		if err := rows.Scan(
			&inq.ID,
			&inq.Type,
			&inq.Name,
			&inq.Email,
			&inq.Phone,
			&inq.Subject,
			&inq.Message,
			&inq.DeliveryStatus,
			&inq.MessageID,
			&inq.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		inquiries = append(inquiries, inq)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка обработки результатов: %w", err)
	}

	return inquiries, total, nil
}
