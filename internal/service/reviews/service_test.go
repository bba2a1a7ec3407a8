package reviews_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicehub/booking-engine/internal/domain"
	bookingStorage "github.com/servicehub/booking-engine/internal/infra/storage/booking"
	reviewStorage "github.com/servicehub/booking-engine/internal/infra/storage/review"
	serviceStorage "github.com/servicehub/booking-engine/internal/infra/storage/service"
	"github.com/servicehub/booking-engine/internal/service/reviews"
	"github.com/servicehub/booking-engine/internal/service/reviews/models"
)

type fakeReviewRepo struct {
	byBooking map[int64]*domain.Review
	byService map[int64][]*domain.Review
	nextID    int64
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		byBooking: make(map[int64]*domain.Review),
		byService: make(map[int64][]*domain.Review),
	}
}

func (f *fakeReviewRepo) Create(_ context.Context, review *domain.Review) (*domain.Review, error) {
	if _, exists := f.byBooking[review.BookingID]; exists {
		return nil, reviewStorage.ErrReviewExists
	}
	f.nextID++
	review.ID = f.nextID
	f.byBooking[review.BookingID] = review
	f.byService[review.ServiceID] = append(f.byService[review.ServiceID], review)
	return review, nil
}

func (f *fakeReviewRepo) GetByBookingID(_ context.Context, bookingID int64) (*domain.Review, error) {
	review, ok := f.byBooking[bookingID]
	if !ok {
		return nil, reviewStorage.ErrReviewNotFound
	}
	return review, nil
}

func (f *fakeReviewRepo) GetByServiceID(_ context.Context, serviceID int64) ([]*domain.Review, error) {
	return f.byService[serviceID], nil
}

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingStorage.ErrBookingNotFound
	}
	return b, nil
}

type fakeServiceRepo struct {
	services map[int64]*domain.Service
}

func (f *fakeServiceRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	svc, ok := f.services[id]
	if !ok {
		return nil, serviceStorage.ErrServiceNotFound
	}
	return svc, nil
}

func (f *fakeServiceRepo) UpdateRatingAggregate(_ context.Context, id int64, rating float64, reviewCount int) error {
	svc, ok := f.services[id]
	if !ok {
		return serviceStorage.ErrServiceNotFound
	}
	svc.Rating = rating
	svc.ReviewCount = reviewCount
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func completedBooking() *domain.Booking {
	return &domain.Booking{
		ID:         1,
		ClientID:   5,
		ProviderID: 77,
		ServiceID:  10,
		Status:     domain.StatusCompleted,
	}
}

func newTestService(booking *domain.Booking, svc *domain.Service) (*reviews.Service, *fakeServiceRepo) {
	serviceRepo := &fakeServiceRepo{services: map[int64]*domain.Service{svc.ID: svc}}

	s := reviews.NewService(
		newFakeReviewRepo(),
		&fakeBookingRepo{bookings: map[int64]*domain.Booking{booking.ID: booking}},
		serviceRepo,
		fakeTxManager{},
		nopLogger{},
	)

	return s, serviceRepo
}

func TestCreate_Success(t *testing.T) {
	svc := &domain.Service{ID: 10, Rating: 4.0, ReviewCount: 3}
	s, serviceRepo := newTestService(completedBooking(), svc)

	resp, err := s.Create(context.Background(), &models.CreateReviewRequest{
		BookingID: 1,
		ClientID:  5,
		Rating:    5,
		Comment:   "отличный мастер",
	})

	require.NoError(t, err)
	assert.Equal(t, 5, resp.Rating)
	assert.Equal(t, int64(77), resp.ProviderID)
	assert.Equal(t, int64(10), resp.ServiceID)

	// агрегат пересчитан инкрементально: (4.0*3 + 5) / 4
	repoSvc := serviceRepo.services[10]
	assert.Equal(t, 4, repoSvc.ReviewCount)
	assert.InDelta(t, 4.25, repoSvc.Rating, 0.001)
}

func TestCreate_OnlyBookingClient(t *testing.T) {
	s, _ := newTestService(completedBooking(), &domain.Service{ID: 10})

	_, err := s.Create(context.Background(), &models.CreateReviewRequest{
		BookingID: 1,
		ClientID:  999,
		Rating:    5,
	})

	assert.ErrorIs(t, err, reviews.ErrAccessDenied)
}

func TestCreate_RequiresCompletedBooking(t *testing.T) {
	for _, status := range []domain.BookingStatus{
		domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusCanceled,
	} {
		booking := completedBooking()
		booking.Status = status
		s, _ := newTestService(booking, &domain.Service{ID: 10})

		_, err := s.Create(context.Background(), &models.CreateReviewRequest{
			BookingID: 1,
			ClientID:  5,
			Rating:    4,
		})

		assert.ErrorIs(t, err, reviews.ErrBookingNotCompleted, "status %s", status)
	}
}

func TestCreate_DuplicateReviewRejected(t *testing.T) {
	s, _ := newTestService(completedBooking(), &domain.Service{ID: 10})

	req := &models.CreateReviewRequest{BookingID: 1, ClientID: 5, Rating: 4}

	_, err := s.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = s.Create(context.Background(), req)
	assert.ErrorIs(t, err, reviews.ErrReviewExists)
}

func TestCreate_RatingBounds(t *testing.T) {
	s, _ := newTestService(completedBooking(), &domain.Service{ID: 10})

	for _, rating := range []int{0, 6, -1} {
		_, err := s.Create(context.Background(), &models.CreateReviewRequest{
			BookingID: 1,
			ClientID:  5,
			Rating:    rating,
		})
		assert.ErrorIs(t, err, reviews.ErrInvalidInput, "rating %d", rating)
	}
}

func TestCreate_BookingNotFound(t *testing.T) {
	s, _ := newTestService(completedBooking(), &domain.Service{ID: 10})

	_, err := s.Create(context.Background(), &models.CreateReviewRequest{
		BookingID: 404,
		ClientID:  5,
		Rating:    4,
	})

	assert.ErrorIs(t, err, reviews.ErrBookingNotFound)
}

func TestGetByServiceID_UnknownService(t *testing.T) {
	s, _ := newTestService(completedBooking(), &domain.Service{ID: 10})

	_, err := s.GetByServiceID(context.Background(), 404)

	assert.ErrorIs(t, err, reviews.ErrServiceNotFound)
}
