package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicehub/booking-engine/internal/domain"
	policyRepo "github.com/servicehub/booking-engine/internal/infra/storage/policy"
	serviceRepo "github.com/servicehub/booking-engine/internal/infra/storage/service"
	"github.com/servicehub/booking-engine/pkg/types"
)

type fakeServiceRepo struct {
	services map[int64]*domain.Service
}

func (f *fakeServiceRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	svc, ok := f.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return svc, nil
}

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) GetByProviderWithFilter(_ context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.ProviderID != filter.ProviderID {
			continue
		}
		if filter.StartDate != nil && b.BookingDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && b.BookingDate.After(*filter.EndDate) {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

type fakePolicyRepo struct {
	policy *domain.SlotPolicy
}

func (f *fakePolicyRepo) GetWithHierarchy(_ context.Context, _ int64, _ *int64) (*domain.SlotPolicy, error) {
	if f.policy == nil {
		return nil, policyRepo.ErrPolicyNotFound
	}
	return f.policy, nil
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testDefaults() Defaults {
	return Defaults{
		OpenTime:         types.TimeString("09:00"),
		CloseTime:        types.TimeString("18:00"),
		SlotStepMinutes:  0,
		AdvanceDays:      30,
		MinNoticeMinutes: 60,
		MaxHorizonDays:   90,
	}
}

func mondayService() *domain.Service {
	return &domain.Service{
		ID:                 10,
		ProviderID:         77,
		Title:              "Консультация",
		Price:              2000,
		PriceType:          domain.PricePerSession,
		WeeklyAvailability: []time.Weekday{time.Monday},
		DurationMinutes:    120,
		Active:             true,
	}
}

func newTestUseCase(svcRepo ServiceRepository, bkRepo BookingRepository, plRepo PolicyRepository, now time.Time) *UseCase {
	uc := NewUseCase(svcRepo, bkRepo, plRepo, nil, testDefaults(), nopLogger{})
	uc.timeProvider = &fixedTime{now: now}
	return uc
}

func TestExecute_GridRespectsClosingTime(t *testing.T) {
	// Окно 09:00-15:00 при длительности 120 минут дает ровно три старта:
	// 09:00, 11:00, 13:00. Слот 13:00 заканчивается точно в закрытие.
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeServiceRepo{services: map[int64]*domain.Service{10: mondayService()}},
		&fakeBookingRepo{},
		&fakePolicyRepo{policy: &domain.SlotPolicy{
			ProviderID: 77,
			OpenTime:   types.TimeString("09:00"),
			CloseTime:  types.TimeString("15:00"),
		}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 10, From: monday, HorizonDays: 1})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.Slots[1].StartTime)
	assert.Equal(t, types.TimeString("13:00"), resp.Slots[2].StartTime)
}

func TestExecute_BookedSlotExcluded(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeServiceRepo{services: map[int64]*domain.Service{10: mondayService()}},
		&fakeBookingRepo{bookings: []*domain.Booking{{
			ID:              1,
			ProviderID:      77,
			BookingDate:     monday,
			StartTime:       types.TimeString("11:00"),
			DurationMinutes: 120,
			Status:          domain.StatusConfirmed,
		}}},
		&fakePolicyRepo{policy: &domain.SlotPolicy{
			ProviderID: 77,
			OpenTime:   types.TimeString("09:00"),
			CloseTime:  types.TimeString("15:00"),
		}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 10, From: monday, HorizonDays: 1})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("13:00"), resp.Slots[1].StartTime)
}

func TestExecute_CanceledBookingFreesSlot(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeServiceRepo{services: map[int64]*domain.Service{10: mondayService()}},
		&fakeBookingRepo{bookings: []*domain.Booking{{
			ID:              1,
			ProviderID:      77,
			BookingDate:     monday,
			StartTime:       types.TimeString("11:00"),
			DurationMinutes: 120,
			Status:          domain.StatusCanceled,
		}}},
		&fakePolicyRepo{policy: &domain.SlotPolicy{
			ProviderID: 77,
			OpenTime:   types.TimeString("09:00"),
			CloseTime:  types.TimeString("15:00"),
		}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 10, From: monday, HorizonDays: 1})

	require.NoError(t, err)
	assert.Len(t, resp.Slots, 3)
}

func TestExecute_WeekdayGate(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	tuesday := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeServiceRepo{services: map[int64]*domain.Service{10: mondayService()}},
		&fakeBookingRepo{},
		&fakePolicyRepo{},
		now,
	)

	// услуга доступна только по понедельникам
	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 10, From: tuesday, HorizonDays: 1})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_MinNoticeAppliesOnlyToday(t *testing.T) {
	// Сегодня понедельник 10:30, min_notice 60 минут: слоты до 11:30 отпадают
	now := time.Date(2026, 9, 7, 10, 30, 0, 0, time.UTC)
	today := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeServiceRepo{services: map[int64]*domain.Service{10: mondayService()}},
		&fakeBookingRepo{},
		&fakePolicyRepo{policy: &domain.SlotPolicy{
			ProviderID:       77,
			OpenTime:         types.TimeString("09:00"),
			CloseTime:        types.TimeString("15:00"),
			MinNoticeMinutes: 60,
		}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 10, From: today, HorizonDays: 8})

	require.NoError(t, err)
	// сегодня остается только 13:00, следующий понедельник дает все три
	require.Len(t, resp.Slots, 4)
	assert.Equal(t, today, resp.Slots[0].Date)
	assert.Equal(t, types.TimeString("13:00"), resp.Slots[0].StartTime)
	assert.Equal(t, today.AddDate(0, 0, 7), resp.Slots[1].Date)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[1].StartTime)
}

func TestExecute_AdvanceLimitClampsHorizon(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeServiceRepo{services: map[int64]*domain.Service{10: mondayService()}},
		&fakeBookingRepo{},
		&fakePolicyRepo{policy: &domain.SlotPolicy{
			ProviderID:         77,
			OpenTime:           types.TimeString("09:00"),
			CloseTime:          types.TimeString("15:00"),
			AdvanceBookingDays: 3,
		}},
		now,
	)

	// Горизонт упирается в advance_booking_days: дальше 2026-09-04 слотов нет,
	// а единственный понедельник в этом окне не наступает
	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 10, From: now, HorizonDays: 30})

	require.NoError(t, err)
	assert.Equal(t, 4, resp.HorizonDays)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := newTestUseCase(
		&fakeServiceRepo{services: map[int64]*domain.Service{}},
		&fakeBookingRepo{},
		&fakePolicyRepo{},
		time.Now(),
	)

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 404, HorizonDays: 7})

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_NotBookableServiceReturnsEmpty(t *testing.T) {
	svc := mondayService()
	svc.Active = false

	uc := newTestUseCase(
		&fakeServiceRepo{services: map[int64]*domain.Service{10: svc}},
		&fakeBookingRepo{},
		&fakePolicyRepo{},
		time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 10, HorizonDays: 7})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ZeroHorizonReturnsEmpty(t *testing.T) {
	uc := newTestUseCase(
		&fakeServiceRepo{services: map[int64]*domain.Service{10: mondayService()}},
		&fakeBookingRepo{},
		&fakePolicyRepo{},
		time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 10, HorizonDays: 0})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, 0, resp.HorizonDays)
}

func TestGenerateTimeGrid_CustomStep(t *testing.T) {
	// Шаг 30 минут плотнее длительности: старты перекрывающихся интервалов
	grid, err := generateTimeGrid("09:00", "11:00", 30, 60)

	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:00"}, grid)
}

func TestIsSlotFree_BackToBackIntervals(t *testing.T) {
	booked := []*domain.Booking{{
		StartTime:       types.TimeString("11:00"),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}}

	// граничащие интервалы не пересекаются
	assert.True(t, isSlotFree("10:00", 60, booked))
	assert.True(t, isSlotFree("12:00", 60, booked))
	assert.False(t, isSlotFree("10:30", 60, booked))
	assert.False(t, isSlotFree("11:30", 60, booked))
}
