package transition_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicehub/booking-engine/internal/domain"
	bookingRepo "github.com/servicehub/booking-engine/internal/infra/storage/booking"
	"github.com/servicehub/booking-engine/pkg/providerlock"
	"github.com/servicehub/booking-engine/pkg/ptr"
)

// fakeBookingRepo воспроизводит guard по статусу настоящего репозитория:
// обновление с неактуальным from не находит строку
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[int64]*domain.Booking
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	m := make(map[int64]*domain.Booking, len(bookings))
	for _, b := range bookings {
		m[b.ID] = b
	}
	return &fakeBookingRepo{bookings: m}
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	snapshot := *b
	return &snapshot, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, from, to domain.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = to
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, from domain.BookingStatus, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.StatusCanceled
	if reason != "" {
		b.CancellationReason = ptr.Ptr(reason)
	}
	now := time.Now()
	b.CancelledAt = &now
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
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

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const (
	clientID   = int64(5)
	providerID = int64(77)
	strangerID = int64(999)
)

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:         1,
		ClientID:   clientID,
		ProviderID: providerID,
		ServiceID:  10,
		Status:     domain.StatusPending,
	}
}

type testEnv struct {
	uc    *UseCase
	repo  *fakeBookingRepo
	cache *fakeCache
}

func newTestEnv(bookings ...*domain.Booking) *testEnv {
	repo := newFakeBookingRepo(bookings...)
	cache := &fakeCache{}

	uc := NewUseCase(
		repo,
		fakeTxManager{},
		providerlock.NewManager(time.Second),
		cache,
		nopLogger{},
	)

	return &testEnv{uc: uc, repo: repo, cache: cache}
}

func TestExecute_ProviderConfirms(t *testing.T) {
	env := newTestEnv(pendingBooking())

	resp, err := env.uc.Execute(context.Background(), &Request{
		BookingID: 1,
		ActorID:   providerID,
		Event:     domain.EventConfirm,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, resp.Booking.Status)
	// подтверждение не освобождает слот - кеш не трогаем
	assert.Empty(t, env.cache.invalidated)
}

func TestExecute_ProviderCompletesConfirmed(t *testing.T) {
	b := pendingBooking()
	b.Status = domain.StatusConfirmed
	env := newTestEnv(b)

	resp, err := env.uc.Execute(context.Background(), &Request{
		BookingID: 1,
		ActorID:   providerID,
		Event:     domain.EventComplete,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, resp.Booking.Status)
	assert.Equal(t, []int64{providerID}, env.cache.invalidated)
}

func TestExecute_ClientCancelsWithReason(t *testing.T) {
	env := newTestEnv(pendingBooking())

	resp, err := env.uc.Execute(context.Background(), &Request{
		BookingID:    1,
		ActorID:      clientID,
		Event:        domain.EventCancel,
		CancelReason: "изменились планы",
	})

	require.NoError(t, err)
	b := resp.Booking
	assert.Equal(t, domain.StatusCanceled, b.Status)
	require.NotNil(t, b.CancellationReason)
	assert.Equal(t, "изменились планы", *b.CancellationReason)
	assert.NotNil(t, b.CancelledAt)
	// отмена освобождает слот
	assert.Equal(t, []int64{providerID}, env.cache.invalidated)
}

func TestExecute_ClientCannotConfirm(t *testing.T) {
	env := newTestEnv(pendingBooking())

	_, err := env.uc.Execute(context.Background(), &Request{
		BookingID: 1,
		ActorID:   clientID,
		Event:     domain.EventConfirm,
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_StrangerDenied(t *testing.T) {
	env := newTestEnv(pendingBooking())

	_, err := env.uc.Execute(context.Background(), &Request{
		BookingID: 1,
		ActorID:   strangerID,
		Event:     domain.EventCancel,
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_CompleteFromPendingRejected(t *testing.T) {
	env := newTestEnv(pendingBooking())

	_, err := env.uc.Execute(context.Background(), &Request{
		BookingID: 1,
		ActorID:   providerID,
		Event:     domain.EventComplete,
	})

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExecute_TerminalBookingImmutable(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusCompleted, domain.StatusCanceled} {
		b := pendingBooking()
		b.Status = status
		env := newTestEnv(b)

		_, err := env.uc.Execute(context.Background(), &Request{
			BookingID: 1,
			ActorID:   providerID,
			Event:     domain.EventCancel,
		})

		assert.ErrorIs(t, err, ErrInvalidTransition, "status %s", status)
	}
}

func TestExecute_RepeatCancelFails(t *testing.T) {
	env := newTestEnv(pendingBooking())

	_, err := env.uc.Execute(context.Background(), &Request{
		BookingID: 1,
		ActorID:   clientID,
		Event:     domain.EventCancel,
	})
	require.NoError(t, err)

	_, err = env.uc.Execute(context.Background(), &Request{
		BookingID: 1,
		ActorID:   clientID,
		Event:     domain.EventCancel,
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExecute_BookingNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.uc.Execute(context.Background(), &Request{
		BookingID: 404,
		ActorID:   providerID,
		Event:     domain.EventConfirm,
	})

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_CancelReasonOnlyForCancel(t *testing.T) {
	env := newTestEnv(pendingBooking())

	_, err := env.uc.Execute(context.Background(), &Request{
		BookingID:    1,
		ActorID:      providerID,
		Event:        domain.EventConfirm,
		CancelReason: "не отмена",
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_UnknownEventRejected(t *testing.T) {
	env := newTestEnv(pendingBooking())

	_, err := env.uc.Execute(context.Background(), &Request{
		BookingID: 1,
		ActorID:   providerID,
		Event:     domain.TransitionEvent("archive"),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ConcurrentTransitionsExactlyOneWins(t *testing.T) {
	env := newTestEnv(pendingBooking())

	const attempts = 5
	errs := make([]error, attempts)
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.uc.Execute(context.Background(), &Request{
				BookingID: 1,
				ActorID:   providerID,
				Event:     domain.EventConfirm,
			})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, succeeded)
}
