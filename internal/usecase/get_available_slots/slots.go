package get_available_slots

import (
	"time"

	"github.com/servicehub/booking-engine/internal/domain"
	"github.com/servicehub/booking-engine/pkg/types"
)

// generateTimeGrid генерирует стартовые времена слотов одного дня.
// Сетка идет от открытия с шагом step; слот попадает в сетку, только
// если интервал [start, start+duration) заканчивается не позже закрытия.
func generateTimeGrid(openTime, closeTime types.TimeString, step, duration int) ([]types.TimeString, error) {
	grid := make([]types.TimeString, 0)
	current := openTime

	for current.IsBefore(closeTime) {
		slotEnd, err := current.AddMinutes(duration)
		if err != nil {
			return nil, err
		}
		if slotEnd.IsAfter(closeTime) {
			break
		}

		grid = append(grid, current)

		current, err = current.AddMinutes(step)
		if err != nil {
			return nil, err
		}
	}

	return grid, nil
}

// filterByNotice отбрасывает слоты, нарушающие минимальное время до брони.
// Для дат в прошлом возвращает пустой список, для будущих дат - все слоты,
// для сегодняшней даты - слоты не раньше now + minNoticeMinutes.
func filterByNotice(grid []types.TimeString, date, now time.Time, minNoticeMinutes int) ([]types.TimeString, error) {
	if isDateInPast(date, now) {
		return []types.TimeString{}, nil
	}
	if !isSameDay(date, now) {
		return grid, nil
	}

	currentTime := types.NewTimeString(now)
	minAllowed, err := currentTime.AddMinutes(minNoticeMinutes)
	if err != nil {
		return nil, err
	}

	filtered := make([]types.TimeString, 0, len(grid))
	for _, slot := range grid {
		if !slot.IsBefore(minAllowed) {
			filtered = append(filtered, slot)
		}
	}

	return filtered, nil
}

// isSlotFree проверяет, что интервал [start, start+duration) не пересекается
// ни с одним активным бронированием.
// Пересечение считается по строгим неравенствам: интервалы, граничащие
// точно в одной точке, не пересекаются.
func isSlotFree(start types.TimeString, duration int, bookings []*domain.Booking) bool {
	slotEnd, err := start.AddMinutes(duration)
	if err != nil {
		return false
	}

	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}

		bookingEnd, err := b.EndTime()
		if err != nil {
			continue
		}

		if b.StartTime.IsBefore(slotEnd) && bookingEnd.IsAfter(start) {
			return false
		}
	}

	return true
}

// groupByDate группирует бронирования по дате
func groupByDate(bookings []*domain.Booking) map[string][]*domain.Booking {
	grouped := make(map[string][]*domain.Booking)
	for _, b := range bookings {
		key := b.BookingDate.Format(domain.DateFormat)
		grouped[key] = append(grouped[key], b)
	}
	return grouped
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	return dateOnly(date).Before(dateOnly(now))
}

// dateOnly обнуляет время, оставляя только дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
