package create_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicehub/booking-engine/internal/domain"
	policyRepo "github.com/servicehub/booking-engine/internal/infra/storage/policy"
	serviceRepo "github.com/servicehub/booking-engine/internal/infra/storage/service"
	"github.com/servicehub/booking-engine/pkg/providerlock"
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

// fakeBookingRepo хранит бронирования в памяти; потокобезопасен,
// чтобы тесты конкурентного создания были честными
type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	booking.ID = f.nextID
	stored := *booking
	f.bookings = append(f.bookings, &stored)
	return booking, nil
}

func (f *fakeBookingRepo) GetByProviderWithFilter(_ context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

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

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCache struct {
	mu          sync.Mutex
	invalidated []int64
}

func (f *fakeCache) Invalidate(_ context.Context, providerID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, providerID)
	return nil
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
	}
}

func hourlyService() *domain.Service {
	return &domain.Service{
		ID:                 10,
		ProviderID:         77,
		Title:              "Уроки английского",
		Price:              1200,
		PriceType:          domain.PricePerHour,
		WeeklyAvailability: []time.Weekday{time.Monday, time.Wednesday},
		DurationMinutes:    60,
		Active:             true,
	}
}

type testEnv struct {
	uc       *UseCase
	bookings *fakeBookingRepo
	cache    *fakeCache
}

func newTestEnv(svc *domain.Service, now time.Time) *testEnv {
	bookings := &fakeBookingRepo{}
	cache := &fakeCache{}

	uc := NewUseCase(
		&fakeServiceRepo{services: map[int64]*domain.Service{svc.ID: svc}},
		bookings,
		&fakePolicyRepo{},
		fakeTxManager{},
		providerlock.NewManager(time.Second),
		cache,
		testDefaults(),
		nopLogger{},
	)
	uc.timeProvider = &fixedTime{now: now}

	return &testEnv{uc: uc, bookings: bookings, cache: cache}
}

var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

// ближайший понедельник от testNow
var testMonday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func TestExecute_Success(t *testing.T) {
	env := newTestEnv(hourlyService(), testNow)

	resp, err := env.uc.Execute(context.Background(), &Request{
		ClientID:    5,
		ServiceID:   10,
		BookingDate: testMonday,
		StartTime:   types.TimeString("11:00"),
		Notes:       "домофон 42",
	})

	require.NoError(t, err)
	b := resp.Booking
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, int64(77), b.ProviderID)
	assert.Equal(t, 60, b.DurationMinutes)
	assert.Equal(t, 1200.0, b.TotalPrice)
	assert.Equal(t, "Уроки английского", b.ServiceTitle)
	require.NotNil(t, b.Notes)
	assert.Equal(t, "домофон 42", *b.Notes)

	// кеш доступности сброшен после создания
	assert.Equal(t, []int64{77}, env.cache.invalidated)
}

func TestExecute_CustomDurationPrice(t *testing.T) {
	env := newTestEnv(hourlyService(), testNow)

	resp, err := env.uc.Execute(context.Background(), &Request{
		ClientID:        5,
		ServiceID:       10,
		BookingDate:     testMonday,
		StartTime:       types.TimeString("11:00"),
		DurationMinutes: 120,
	})

	require.NoError(t, err)
	assert.Equal(t, 120, resp.Booking.DurationMinutes)
	assert.Equal(t, 2400.0, resp.Booking.TotalPrice)
}

func TestExecute_OverlappingSlotRejected(t *testing.T) {
	env := newTestEnv(hourlyService(), testNow)

	_, err := env.uc.Execute(context.Background(), &Request{
		ClientID:    5,
		ServiceID:   10,
		BookingDate: testMonday,
		StartTime:   types.TimeString("11:00"),
	})
	require.NoError(t, err)

	_, err = env.uc.Execute(context.Background(), &Request{
		ClientID:    6,
		ServiceID:   10,
		BookingDate: testMonday,
		StartTime:   types.TimeString("11:00"),
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	// граничащий слот проходит
	_, err = env.uc.Execute(context.Background(), &Request{
		ClientID:    6,
		ServiceID:   10,
		BookingDate: testMonday,
		StartTime:   types.TimeString("12:00"),
	})
	assert.NoError(t, err)
}

func TestExecute_OffGridStartRejected(t *testing.T) {
	env := newTestEnv(hourlyService(), testNow)

	_, err := env.uc.Execute(context.Background(), &Request{
		ClientID:    5,
		ServiceID:   10,
		BookingDate: testMonday,
		StartTime:   types.TimeString("11:30"),
	})

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_OutsideWorkingWindowRejected(t *testing.T) {
	env := newTestEnv(hourlyService(), testNow)

	// интервал заканчивается после закрытия
	_, err := env.uc.Execute(context.Background(), &Request{
		ClientID:        5,
		ServiceID:       10,
		BookingDate:     testMonday,
		StartTime:       types.TimeString("17:00"),
		DurationMinutes: 120,
	})

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_PastDateRejected(t *testing.T) {
	env := newTestEnv(hourlyService(), testNow)

	_, err := env.uc.Execute(context.Background(), &Request{
		ClientID:    5,
		ServiceID:   10,
		BookingDate: testNow.AddDate(0, 0, -1),
		StartTime:   types.TimeString("11:00"),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_UnavailableWeekdayRejected(t *testing.T) {
	env := newTestEnv(hourlyService(), testNow)

	// вторник не входит в недельное расписание услуги
	tuesday := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	_, err := env.uc.Execute(context.Background(), &Request{
		ClientID:    5,
		ServiceID:   10,
		BookingDate: tuesday,
		StartTime:   types.TimeString("11:00"),
	})

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_MinNoticeRejectedToday(t *testing.T) {
	// сегодня понедельник 10:00, min_notice 60: слот 10:00 уже недоступен
	monday10 := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	env := newTestEnv(hourlyService(), monday10)

	_, err := env.uc.Execute(context.Background(), &Request{
		ClientID:    5,
		ServiceID:   10,
		BookingDate: testMonday,
		StartTime:   types.TimeString("10:00"),
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	// 11:00 ровно на границе notice - проходит
	_, err = env.uc.Execute(context.Background(), &Request{
		ClientID:    5,
		ServiceID:   10,
		BookingDate: testMonday,
		StartTime:   types.TimeString("11:00"),
	})
	assert.NoError(t, err)
}

func TestExecute_ProviderCannotBookOwnService(t *testing.T) {
	env := newTestEnv(hourlyService(), testNow)

	_, err := env.uc.Execute(context.Background(), &Request{
		ClientID:    77,
		ServiceID:   10,
		BookingDate: testMonday,
		StartTime:   types.TimeString("11:00"),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_InactiveServiceRejected(t *testing.T) {
	svc := hourlyService()
	svc.Active = false
	env := newTestEnv(svc, testNow)

	_, err := env.uc.Execute(context.Background(), &Request{
		ClientID:    5,
		ServiceID:   10,
		BookingDate: testMonday,
		StartTime:   types.TimeString("11:00"),
	})

	assert.ErrorIs(t, err, ErrServiceNotBookable)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	env := newTestEnv(hourlyService(), testNow)

	_, err := env.uc.Execute(context.Background(), &Request{
		ClientID:    5,
		ServiceID:   404,
		BookingDate: testMonday,
		StartTime:   types.TimeString("11:00"),
	})

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ConcurrentRequestsExactlyOneWins(t *testing.T) {
	env := newTestEnv(hourlyService(), testNow)

	const attempts = 10
	errs := make([]error, attempts)
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.uc.Execute(context.Background(), &Request{
				ClientID:    int64(100 + i),
				ServiceID:   10,
				BookingDate: testMonday,
				StartTime:   types.TimeString("11:00"),
			})
		}(i)
	}
	wg.Wait()

	var created, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case assert.ErrorIs(t, err, ErrSlotNotAvailable):
			conflicts++
		}
	}

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, env.bookings.bookings, 1)
}

func TestExecute_LockTimeoutMapsToProviderBusy(t *testing.T) {
	env := newTestEnv(hourlyService(), testNow)

	locker := providerlock.NewManager(10 * time.Millisecond)
	env.uc.locker = locker

	// удерживаем блокировку исполнителя извне
	release, err := locker.Acquire(context.Background(), 77)
	require.NoError(t, err)
	defer release()

	_, err = env.uc.Execute(context.Background(), &Request{
		ClientID:    5,
		ServiceID:   10,
		BookingDate: testMonday,
		StartTime:   types.TimeString("11:00"),
	})

	assert.ErrorIs(t, err, ErrProviderBusy)
}

func TestValidateRequest_DurationBounds(t *testing.T) {
	base := Request{
		ClientID:    5,
		ServiceID:   10,
		BookingDate: testMonday,
		StartTime:   types.TimeString("11:00"),
	}

	tooShort := base
	tooShort.DurationMinutes = domain.MinBookingDurationMinutes - 1
	assert.ErrorIs(t, validateRequest(&tooShort), ErrInvalidInput)

	tooLong := base
	tooLong.DurationMinutes = domain.MaxBookingDurationMinutes + 1
	assert.ErrorIs(t, validateRequest(&tooLong), ErrInvalidInput)

	// 0 означает длительность услуги
	assert.NoError(t, validateRequest(&base))
}
