package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	MinSubscriptionYear = 2000
	MaxSubscriptionYear = 2100
)

const DateLayout = "2006-01-02"

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the English name for a 1-based month number.
func MonthName(month int) (string, error) {
	if month < 1 || month > 12 {
		return "", fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidPeriod, month)
	}
	return monthNames[month-1], nil
}

// Period is a subscription month.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidPeriod, p.Month)
	}
	if p.Year < MinSubscriptionYear || p.Year > MaxSubscriptionYear {
		return fmt.Errorf("%w: year %d out of range %d-%d", ErrInvalidPeriod, p.Year, MinSubscriptionYear, MaxSubscriptionYear)
	}
	return nil
}

func (p Period) MonthName() string {
	name, _ := MonthName(p.Month)
	return name
}

// Label renders the period the way reminders show it, e.g. "March 2025".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.MonthName(), p.Year)
}

// Range returns [first of month, first of next month) in loc.
func (p Period) Range(loc *time.Location) (time.Time, time.Time) {
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// DayRange returns [local midnight, next local midnight) for the day containing t.
func DayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// ParseDate accepts a calendar date (2006-01-02, read in loc) or an RFC3339 timestamp.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, validationf("date is required")
	}
	if t, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, validationf("invalid date %q, expected YYYY-MM-DD or RFC3339", value)
	}
	return t, nil
}
