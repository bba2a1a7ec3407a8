package domain

// Default slot policy values, applied when a provider has no stored policy
const (
	DefaultOpenTime         = "09:00"
	DefaultCloseTime        = "18:00"
	DefaultSlotStepMinutes  = 0 // 0 = шаг сетки равен длительности услуги
	DefaultAdvanceDays      = 0 // 0 = unlimited
	DefaultMinNoticeMinutes = 60
)

// Business validation constants
const (
	MinServiceDurationMinutes = 15
	MaxServiceDurationMinutes = 480 // 8 hours
	MinBookingDurationMinutes = 15
	MaxBookingDurationMinutes = 720 // 12 hours
	MinSlotStepMinutes        = 15
	MaxSlotStepMinutes        = 240
	MinAdvanceDays            = 0
	MaxAdvanceDays            = 365
	MinNoticeMinutesLimit     = 0
	MaxNoticeMinutesLimit     = 10080 // 1 week
	MinReviewRating           = 1
	MaxReviewRating           = 5
	MaxNotesLength            = 500
	MaxCancelReasonLength     = 500
	MaxCommentLength          = 1000
	MaxSearchTextLength       = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы бронирований, занимающих слот.
// Используется при подсчете пересечений и фильтрации.
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses статусы, из которых нет переходов
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCanceled,
}
