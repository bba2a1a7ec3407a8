package domain

import (
	"fmt"
	"time"
)

// weekdayByName имена дней недели в хранимом и API представлении
var weekdayByName = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// ParseWeekday парсит имя дня недели ("Monday", "Tuesday", ...)
func ParseWeekday(name string) (time.Weekday, error) {
	day, ok := weekdayByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
	return day, nil
}

// WeekdayNames конвертирует дни недели в хранимое представление
func WeekdayNames(days []time.Weekday) []string {
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return names
}

// ParseWeekdays парсит список имен дней недели
func ParseWeekdays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, len(names))
	for i, name := range names {
		day, err := ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days[i] = day
	}
	return days, nil
}
