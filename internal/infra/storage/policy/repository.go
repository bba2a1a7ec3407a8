package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/servicehub/booking-engine/internal/domain"
	"github.com/servicehub/booking-engine/pkg/dbmetrics"
	"github.com/servicehub/booking-engine/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

var policyColumns = []string{
	"id",
	"provider_id",
	"service_id",
	"open_time",
	"close_time",
	"slot_step_minutes",
	"advance_booking_days",
	"min_notice_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий политик слотов исполнителей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByProviderAndService получает политику для пары (исполнитель, услуга).
// serviceID == nil означает политику уровня исполнителя.
func (r *Repository) GetByProviderAndService(ctx context.Context, providerID int64, serviceID *int64) (*domain.SlotPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(policyColumns...).
		From("slot_policies").
		Where(squirrel.Eq{"provider_id": providerID})

	if serviceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderAndService - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.SlotPolicy
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.ProviderID,
		&p.ServiceID,
		&p.OpenTime,
		&p.CloseTime,
		&p.SlotStepMinutes,
		&p.AdvanceBookingDays,
		&p.MinNoticeMinutes,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderAndService - scan policy: %v", ErrScanRow, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

// GetWithHierarchy получает политику с учетом иерархии приоритетов:
// 1. Политика конкретной услуги (provider_id, service_id)
// 2. Политика уровня исполнителя (provider_id, NULL)
// Если политика не найдена ни на одном уровне, возвращает ErrPolicyNotFound -
// вызывающий применяет дефолты из конфигурации приложения.
func (r *Repository) GetWithHierarchy(ctx context.Context, providerID int64, serviceID *int64) (*domain.SlotPolicy, error) {
	if serviceID != nil {
		p, err := r.GetByProviderAndService(ctx, providerID, serviceID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrPolicyNotFound) {
			return nil, fmt.Errorf("%w: GetWithHierarchy - service level: %v", ErrExecQuery, err)
		}
	}

	p, err := r.GetByProviderAndService(ctx, providerID, nil)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrPolicyNotFound) {
		return nil, fmt.Errorf("%w: GetWithHierarchy - provider level: %v", ErrExecQuery, err)
	}

	return nil, ErrPolicyNotFound
}

// Upsert создает или обновляет политику для пары (исполнитель, услуга)
func (r *Repository) Upsert(ctx context.Context, p *domain.SlotPolicy) (*domain.SlotPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_policies").
		Columns(
			"provider_id",
			"service_id",
			"open_time",
			"close_time",
			"slot_step_minutes",
			"advance_booking_days",
			"min_notice_minutes",
		).
		Values(
			p.ProviderID,
			p.ServiceID,
			p.OpenTime,
			p.CloseTime,
			p.SlotStepMinutes,
			p.AdvanceBookingDays,
			p.MinNoticeMinutes,
		).
		Suffix(`ON CONFLICT (provider_id, COALESCE(service_id, 0)) DO UPDATE SET
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			slot_step_minutes = EXCLUDED.slot_step_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			min_notice_minutes = EXCLUDED.min_notice_minutes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}
