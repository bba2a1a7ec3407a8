package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/servicehub/booking-engine/internal/domain"
)

func TestService_IsBookable(t *testing.T) {
	svc := &domain.Service{
		Active:             true,
		WeeklyAvailability: []time.Weekday{time.Monday},
	}
	assert.True(t, svc.IsBookable())

	inactive := &domain.Service{
		Active:             false,
		WeeklyAvailability: []time.Weekday{time.Monday},
	}
	assert.False(t, inactive.IsBookable())

	noSchedule := &domain.Service{Active: true}
	assert.False(t, noSchedule.IsBookable())
}

func TestService_AvailableOn(t *testing.T) {
	svc := &domain.Service{
		WeeklyAvailability: []time.Weekday{time.Monday, time.Wednesday},
	}

	assert.True(t, svc.AvailableOn(time.Monday))
	assert.True(t, svc.AvailableOn(time.Wednesday))
	assert.False(t, svc.AvailableOn(time.Sunday))
}

func TestService_TotalPrice(t *testing.T) {
	hourly := &domain.Service{Price: 1000, PriceType: domain.PricePerHour}
	assert.Equal(t, 1500.0, hourly.TotalPrice(90))
	assert.Equal(t, 500.0, hourly.TotalPrice(30))

	perSession := &domain.Service{Price: 2500, PriceType: domain.PricePerSession}
	assert.Equal(t, 2500.0, perSession.TotalPrice(90))

	perProject := &domain.Service{Price: 50000, PriceType: domain.PricePerProject}
	assert.Equal(t, 50000.0, perProject.TotalPrice(480))
}
