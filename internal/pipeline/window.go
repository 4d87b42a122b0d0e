package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/submission-digest-api/internal/models"
)

// ErrInvalidWindow is returned when window bounds cannot be parsed
var ErrInvalidWindow = errors.New("invalid deadline window")

// Window is an inclusive range of calendar days. Start and End sit at
// midnight in the window's location.
//
// Days are taken in the location the window was built with, which defaults to
// the process-local zone. The same instant can therefore land in different
// windows on hosts in different zones.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow normalizes start and end to midnight in loc
func NewWindow(start, end time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.Local
	}
	return Window{Start: startOfDay(start, loc), End: startOfDay(end, loc)}
}

// Contains reports whether t falls on a day inside the window
func (w Window) Contains(t time.Time) bool {
	day := startOfDay(t, w.Start.Location())
	return !day.Before(w.Start) && !day.After(w.End)
}

// Empty reports whether no day can satisfy the window
func (w Window) Empty() bool {
	return w.Start.After(w.End)
}

func (w Window) String() string {
	return w.Start.Format(time.DateOnly) + ".." + w.End.Format(time.DateOnly)
}

// ParseWindow parses window bounds given as YYYY-MM-DD or RFC 3339. A start
// after the end is not an error; the window simply selects nothing.
func ParseWindow(start, end string, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.Local
	}
	s, err := parseDay("startDate", start, loc)
	if err != nil {
		return Window{}, err
	}
	e, err := parseDay("endDate", end, loc)
	if err != nil {
		return Window{}, err
	}
	return NewWindow(s, e, loc), nil
}

// UpcomingWeek returns Monday through Sunday of the week starting at the next
// Monday. When now is a Monday that Monday is used.
func UpcomingWeek(now time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.Local
	}
	today := startOfDay(now, loc)
	offset := (1 + 7 - int(today.Weekday())) % 7
	monday := today.AddDate(0, 0, offset)
	return Window{Start: monday, End: monday.AddDate(0, 0, 6)}
}

func parseDay(field, value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", ErrInvalidWindow, field)
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, loc); err == nil {
		return t, nil
	}
	if t, ok := models.ParseTimestampIn(value, loc); ok {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("%w: %s %q is not an ISO-8601 date", ErrInvalidWindow, field, value)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
