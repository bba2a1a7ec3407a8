package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/servicehub/booking-engine/internal/domain"
	"github.com/servicehub/booking-engine/pkg/dbmetrics"
	"github.com/servicehub/booking-engine/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// uniqueViolation код ошибки PostgreSQL для нарушения уникального индекса
const uniqueViolation = "23505"

var reviewColumns = []string{
	"id",
	"booking_id",
	"client_id",
	"provider_id",
	"service_id",
	"rating",
	"comment",
	"created_at",
}

// Repository репозиторий отзывов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория отзывов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает отзыв. Отзывы неизменяемы: никаких Update методов.
// Уникальный индекс по booking_id гарантирует один отзыв на бронирование.
func (r *Repository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reviews").
		Columns(
			"booking_id",
			"client_id",
			"provider_id",
			"service_id",
			"rating",
			"comment",
		).
		Values(
			review.BookingID,
			review.ClientID,
			review.ProviderID,
			review.ServiceID,
			review.Rating,
			review.Comment,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&review.ID,
		&createdAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, ErrReviewExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	review.CreatedAt = createdAt.Time

	return review, nil
}

// GetByBookingID получает отзыв по ID бронирования
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Review, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reviewColumns...).
		From("reviews").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	var review domain.Review
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&review.ID,
		&review.BookingID,
		&review.ClientID,
		&review.ProviderID,
		&review.ServiceID,
		&review.Rating,
		&review.Comment,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - scan review: %v", ErrScanRow, err)
	}

	review.CreatedAt = createdAt.Time

	return &review, nil
}

// GetByServiceID получает отзывы на услугу, новые первыми
func (r *Repository) GetByServiceID(ctx context.Context, serviceID int64) ([]*domain.Review, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reviewColumns...).
		From("reviews").
		Where(squirrel.Eq{"service_id": serviceID}).
		OrderBy("created_at DESC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByServiceID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByServiceID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reviews := make([]*domain.Review, 0)

	for rows.Next() {
		var review domain.Review
		var createdAt sql.NullTime

		err := rows.Scan(
			&review.ID,
			&review.BookingID,
			&review.ClientID,
			&review.ProviderID,
			&review.ServiceID,
			&review.Rating,
			&review.Comment,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByServiceID - scan row: %v", ErrScanRow, err)
		}

		review.CreatedAt = createdAt.Time
		reviews = append(reviews, &review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByServiceID - rows error: %v", ErrScanRow, err)
	}

	return reviews, nil
}
