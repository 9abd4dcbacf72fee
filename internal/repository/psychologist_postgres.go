package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"mindconnect/internal/domain"
)

const uniqueViolation = "23505"

const psychologistColumns = `
	id, slug, name, credentials, about, headshot_url, cover_image_url,
	specializations, languages, location, time_zone, years_of_experience,
	services_offered, rate, availability_note, contact_email, website,
	accepting_new_clients, featured, status, views_30_days, bookings_30_days,
	created_at, updated_at
`

type PsychologistRepo struct {
	db *pgxpool.Pool
}

func NewPsychologistRepository(db *pgxpool.Pool) *PsychologistRepo {
	return &PsychologistRepo{
		db: db,
	}
}

func (r *PsychologistRepo) Create(ctx context.Context, slug string, dto domain.CreatePsychologistDTO) (int64, error) {
	status := dto.Status
	if status == "" {
		status = domain.ProfileStatusDraft
	}

	query := `
		INSERT INTO psychologists (
			slug, name, credentials, about, headshot_url, cover_image_url,
			specializations, languages, location, time_zone, years_of_experience,
			services_offered, rate, availability_note, contact_email, website,
			accepting_new_clients, featured, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $20)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		slug,
		dto.Name,
		dto.Credentials,
		dto.About,
		dto.HeadshotURL,
		dto.CoverImageURL,
		nonNil(dto.Specializations),
		nonNil(dto.Languages),
		dto.Location,
		dto.TimeZone,
		dto.YearsOfExperience,
		nonNil(dto.ServicesOffered),
		dto.Rate,
		dto.AvailabilityNote,
		dto.ContactEmail,
		dto.Website,
		dto.AcceptingNewClients,
		dto.Featured,
		status,
		time.Now().UTC(),
	).Scan(&id)

	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrSlugTaken
		}
		return 0, fmt.Errorf("ошибка создания профиля психолога: %w", err)
	}

	return id, nil
}

func (r *PsychologistRepo) GetByID(ctx context.Context, id int64) (*domain.Psychologist, error) {
	query := `SELECT ` + psychologistColumns + ` FROM psychologists WHERE id = $1`

	p, err := scanPsychologist(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения психолога: %w", err)
	}

	return &p, nil
}

func (r *PsychologistRepo) GetBySlug(ctx context.Context, slug string) (*domain.Psychologist, error) {
	query := `SELECT ` + psychologistColumns + ` FROM psychologists WHERE slug = $1`

	p, err := scanPsychologist(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения психолога по адресу: %w", err)
	}

	return &p, nil
}

func (r *PsychologistRepo) Update(ctx context.Context, id int64, dto domain.UpdatePsychologistDTO) error {
	query := "UPDATE psychologists SET "
	var setClauses []string
	var args []interface{}
	argIndex := 1

	set := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if dto.Slug != nil {
		set("slug", *dto.Slug)
	}
	if dto.Name != nil {
		set("name", *dto.Name)
	}
	if dto.Credentials != nil {
		set("credentials", *dto.Credentials)
	}
	if dto.About != nil {
		set("about", *dto.About)
	}
	if dto.HeadshotURL != nil {
		set("headshot_url", *dto.HeadshotURL)
	}
	if dto.CoverImageURL != nil {
		set("cover_image_url", *dto.CoverImageURL)
	}
	if dto.Specializations != nil {
		set("specializations", nonNil(*dto.Specializations))
	}
	if dto.Languages != nil {
		set("languages", nonNil(*dto.Languages))
	}
	if dto.Location != nil {
		set("location", *dto.Location)
	}
	if dto.TimeZone != nil {
		set("time_zone", *dto.TimeZone)
	}
	if dto.YearsOfExperience != nil {
		set("years_of_experience", *dto.YearsOfExperience)
	}
	if dto.ServicesOffered != nil {
		set("services_offered", nonNil(*dto.ServicesOffered))
	}
	if dto.Rate != nil {
		set("rate", *dto.Rate)
	}
	if dto.AvailabilityNote != nil {
		set("availability_note", *dto.AvailabilityNote)
	}
	if dto.ContactEmail != nil {
		set("contact_email", *dto.ContactEmail)
	}
	if dto.Website != nil {
		set("website", *dto.Website)
	}
	if dto.AcceptingNewClients != nil {
		set("accepting_new_clients", *dto.AcceptingNewClients)
	}

	set("updated_at", time.Now().UTC())

	query += strings.Join(setClauses, ", ")
	query += fmt.Sprintf(" WHERE id = $%d", argIndex)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("ошибка обновления психолога: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *PsychologistRepo) UpdateStatus(ctx context.Context, id int64, status domain.ProfileStatus) error {
	return r.exec(ctx, "ошибка обновления статуса",
		`UPDATE psychologists SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id)
}

func (r *PsychologistRepo) SetFeatured(ctx context.Context, id int64, featured bool) error {
	return r.exec(ctx, "ошибка обновления признака избранного",
		`UPDATE psychologists SET featured = $1, updated_at = $2 WHERE id = $3`,
		featured, time.Now().UTC(), id)
}

func (r *PsychologistRepo) SetAccepting(ctx context.Context, id int64, accepting bool, availabilityNote string) error {
	return r.exec(ctx, "ошибка обновления приема клиентов",
		`UPDATE psychologists SET accepting_new_clients = $1, availability_note = $2, updated_at = $3 WHERE id = $4`,
		accepting, availabilityNote, time.Now().UTC(), id)
}

func (r *PsychologistRepo) UpdateHeadshot(ctx context.Context, id int64, url string) error {
	return r.exec(ctx, "ошибка обновления фотографии",
		`UPDATE psychologists SET headshot_url = $1, updated_at = $2 WHERE id = $3`,
		url, time.Now().UTC(), id)
}

func (r *PsychologistRepo) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, "ошибка удаления психолога", `DELETE FROM psychologists WHERE id = $1`, id)
}

func (r *PsychologistRepo) List(ctx context.Context, filter domain.AdminPsychologistFilter) ([]domain.Psychologist, int, error) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(name ILIKE $%d OR contact_email ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+strings.TrimSpace(*filter.Search)+"%")
		argIndex++
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM psychologists"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета психологов: %w", err)
	}

	query := "SELECT " + psychologistColumns + " FROM psychologists" + whereClause + " ORDER BY id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	items, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *PsychologistRepo) ListPublished(ctx context.Context) ([]domain.Psychologist, error) {
	query := "SELECT " + psychologistColumns + " FROM psychologists WHERE status = $1 ORDER BY id"
	return r.query(ctx, query, domain.ProfileStatusPublished)
}

func (r *PsychologistRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM psychologists WHERE slug = $1 AND id <> $2)`,
		slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки адреса профиля: %w", err)
	}
	return exists, nil
}

func (r *PsychologistRepo) IncrementViews(ctx context.Context, id int64) error {
	return r.exec(ctx, "ошибка увеличения счетчика просмотров",
		`UPDATE psychologists SET views_30_days = views_30_days + 1 WHERE id = $1`, id)
}

func (r *PsychologistRepo) IncrementBookings(ctx context.Context, id int64) error {
	return r.exec(ctx, "ошибка увеличения счетчика заявок",
		`UPDATE psychologists SET bookings_30_days = bookings_30_days + 1 WHERE id = $1`, id)
}

func (r *PsychologistRepo) exec(ctx context.Context, errMsg, query string, args ...interface{}) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", errMsg, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PsychologistRepo) query(ctx context.Context, query string, args ...interface{}) ([]domain.Psychologist, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	psychologists := make([]domain.Psychologist, 0)
	for rows.Next() {
		p, err := scanPsychologist(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		psychologists = append(psychologists, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обработки результатов: %w", err)
	}

	return psychologists, nil
}

func scanPsychologist(row pgx.Row) (domain.Psychologist, error) {
	var p domain.Psychologist
	err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Name,
		&p.Credentials,
		&p.About,
		&p.HeadshotURL,
		&p.CoverImageURL,
		&p.Specializations,
		&p.Languages,
		&p.Location,
		&p.TimeZone,
		&p.YearsOfExperience,
		&p.ServicesOffered,
		&p.Rate,
		&p.AvailabilityNote,
		&p.ContactEmail,
		&p.Website,
		&p.AcceptingNewClients,
		&p.Featured,
		&p.Status,
		&p.Views30Days,
		&p.Bookings30Days,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// nonNil keeps NOT NULL text[] columns from receiving NULL.
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
