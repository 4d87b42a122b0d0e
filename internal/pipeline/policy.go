package pipeline

import (
	"fmt"

	"github.com/submission-digest-api/internal/models"
)

// DeadlinePolicy picks the reading period whose deadline represents a
// magazine. ok is false when the magazine has no reading periods.
type DeadlinePolicy func(m models.Magazine) (period models.ReadingPeriod, ok bool)

// FirstReadingPeriod uses the first listed period regardless of its date
func FirstReadingPeriod(m models.Magazine) (models.ReadingPeriod, bool) {
	if len(m.ReadingPeriods) == 0 {
		return models.ReadingPeriod{}, false
	}
	return m.ReadingPeriods[0], true
}

// EarliestReadingPeriod uses the period with the earliest valid deadline,
// falling back to the first period when none is valid.
func EarliestReadingPeriod(m models.Magazine) (models.ReadingPeriod, bool) {
	if len(m.ReadingPeriods) == 0 {
		return models.ReadingPeriod{}, false
	}
	best := -1
	for i, p := range m.ReadingPeriods {
		if !p.Deadline.Valid {
			continue
		}
		if best < 0 || p.Deadline.Time.Before(m.ReadingPeriods[best].Deadline.Time) {
			best = i
		}
	}
	if best < 0 {
		return m.ReadingPeriods[0], true
	}
	return m.ReadingPeriods[best], true
}

// PolicyByName maps a configuration value to a policy
func PolicyByName(name string) (DeadlinePolicy, error) {
	switch name {
	case "", "first":
		return FirstReadingPeriod, nil
	case "earliest":
		return EarliestReadingPeriod, nil
	default:
		return nil, fmt.Errorf("unknown deadline policy %q", name)
	}
}
