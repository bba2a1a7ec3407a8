package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/servicehub/booking-engine/internal/domain"
	"github.com/servicehub/booking-engine/pkg/dbmetrics"
	"github.com/servicehub/booking-engine/pkg/psqlbuilder"
)

// serviceColumns полный список колонок таблицы services
var serviceColumns = []string{
	"id",
	"provider_id",
	"title",
	"description",
	"category_id",
	"price",
	"price_type",
	"location",
	"weekly_availability",
	"duration_minutes",
	"rating",
	"review_count",
	"featured",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий каталога услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// likeEscaper экранирует метасимволы LIKE/ILIKE, чтобы текст запроса
// сопоставлялся как литеральная подстрока: "100%" не должен матчить
// "100 reasons", а "a_c" - "abc"
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildSearchQuery строит SQL запрос поиска по каталогу.
// Правило сопоставления: подстрока текста (без учета регистра) в названии
// или описании, равенство категории, цена в диапазоне [min, max].
// Сортировка детерминирована: featured и рейтинг сначала, id как tie-break.
func buildSearchQuery(q domain.CatalogQuery) (string, []interface{}, error) {
	selectBuilder := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"active": true})

	if q.Text != "" {
		pattern := "%" + likeEscaper.Replace(q.Text) + "%"
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"description": pattern},
		})
	}

	if q.CategoryID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"category_id": *q.CategoryID})
	}

	if q.MinPrice > 0 {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"price": q.MinPrice})
	}
	if q.MaxPrice != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"price": *q.MaxPrice})
	}

	return selectBuilder.
		OrderBy("featured DESC", "rating DESC", "id ASC").
		ToSql()
}

// Search выполняет поиск по каталогу услуг.
// Пустой результат - валидный ответ, не ошибка.
func (r *Repository) Search(ctx context.Context, q domain.CatalogQuery) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildSearchQuery(q)
	if err != nil {
		return nil, fmt.Errorf("%w: Search - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Search - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanServices(rows)
}

// GetByID получает услугу по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	svc, err := r.scanServiceRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan service: %v", ErrScanRow, err)
	}

	return svc, nil
}

// UpdateRatingAggregate обновляет агрегированный рейтинг и счетчик отзывов.
// Вызывается из транзакции создания отзыва.
func (r *Repository) UpdateRatingAggregate(ctx context.Context, id int64, rating float64, reviewCount int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("services").
		Set("rating", rating).
		Set("review_count", reviewCount).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateRatingAggregate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateRatingAggregate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateRatingAggregate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrServiceNotFound
	}

	return nil
}

// scanServiceRow сканирует одну строку в модель услуги
func (r *Repository) scanServiceRow(row interface{ Scan(...interface{}) error }) (*domain.Service, error) {
	var svc domain.Service
	var weekdays pq.StringArray
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&svc.ID,
		&svc.ProviderID,
		&svc.Title,
		&svc.Description,
		&svc.CategoryID,
		&svc.Price,
		&svc.PriceType,
		&svc.Location,
		&weekdays,
		&svc.DurationMinutes,
		&svc.Rating,
		&svc.ReviewCount,
		&svc.Featured,
		&svc.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	days, err := domain.ParseWeekdays(weekdays)
	if err != nil {
		return nil, err
	}
	svc.WeeklyAvailability = days
	svc.CreatedAt = createdAt.Time
	svc.UpdatedAt = updatedAt.Time

	return &svc, nil
}

// scanServices сканирует результаты запроса в слайс услуг
func (r *Repository) scanServices(rows *sql.Rows) ([]*domain.Service, error) {
	services := make([]*domain.Service, 0)

	for rows.Next() {
		svc, err := r.scanServiceRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanServices - scan row: %v", ErrScanRow, err)
		}
		services = append(services, svc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanServices - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}
