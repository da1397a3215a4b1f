package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"NewsChecker/internal/domain"
)

// MonthTable maps localized month names to month numbers.
type MonthTable map[string]time.Month

// RussianMonths holds genitive month names as printed on article pages ("15 Марта 2023").
var RussianMonths = MonthTable{
	"Января":   time.January,
	"Февраля":  time.February,
	"Марта":    time.March,
	"Апреля":   time.April,
	"Мая":      time.May,
	"Июня":     time.June,
	"Июля":     time.July,
	"Августа":  time.August,
	"Сентября": time.September,
	"Октября":  time.October,
	"Ноября":   time.November,
	"Декабря":  time.December,
}

// Validate checks that the table names each of the twelve months exactly once.
func (t MonthTable) Validate() error {
	if len(t) != 12 {
		return fmt.Errorf("month table has %d entries, want 12", len(t))
	}

	seen := make(map[time.Month]string, 12)
	for name, month := range t {
		if month < time.January || month > time.December {
			return fmt.Errorf("month %q maps to %d", name, month)
		}
		if prev, ok := seen[month]; ok {
			return fmt.Errorf("months %q and %q both map to %s", prev, name, month)
		}
		seen[month] = name
	}
	return nil
}

func (t MonthTable) lookup(name string) (time.Month, bool) {
	if month, ok := t[name]; ok {
		return month, true
	}
	for key, month := range t {
		if strings.EqualFold(key, name) {
			return month, true
		}
	}
	return 0, false
}

// ParseLocalizedDate converts "day monthName year" into a calendar date at UTC midnight.
func ParseLocalizedDate(text string, months MonthTable) (time.Time, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q has %d tokens", domain.ErrDateFormat, text, len(fields))
	}

	day, err := strconv.Atoi(fields[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day %q", domain.ErrDateFormat, fields[0])
	}

	month, ok := months.lookup(fields[1])
	if !ok {
		return time.Time{}, fmt.Errorf("%w: unknown month %q", domain.ErrDateFormat, fields[1])
	}

	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: year %q", domain.ErrDateFormat, fields[2])
	}

	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || date.Month() != month {
		return time.Time{}, fmt.Errorf("%w: %q is not a calendar date", domain.ErrDateFormat, text)
	}

	return date, nil
}
