package validation

import (
	"fmt"
	"strings"

	"github.com/submission-digest-api/internal/catalog"
	"github.com/submission-digest-api/internal/models"
	"github.com/submission-digest-api/internal/pipeline"
)

// Validator reports problems in upstream magazine records. It is diagnostic
// only: the pipeline decides inclusion on its own and never rejects a batch.
type Validator struct {
	genres    *catalog.Catalog
	policy    pipeline.DeadlinePolicy
	nameCache map[string]bool
}

// NewValidator creates a new validator instance
func NewValidator(genres *catalog.Catalog, policy pipeline.DeadlinePolicy) *Validator {
	if policy == nil {
		policy = pipeline.FirstReadingPeriod
	}
	return &Validator{
		genres:    genres,
		policy:    policy,
		nameCache: make(map[string]bool),
	}
}

// ValidateMagazine validates a single magazine record
func (v *Validator) ValidateMagazine(m *models.Magazine, index int) []models.ValidationError {
	var errors []models.ValidationError
	add := func(field, message string, value interface{}) {
		errors = append(errors, models.ValidationError{
			Index:   index,
			Name:    m.Name,
			Field:   field,
			Message: message,
			Value:   value,
		})
	}

	// Validate name
	name := strings.TrimSpace(m.Name)
	if name == "" {
		add("name", "name is required", nil)
	} else {
		key := strings.ToLower(name)
		if v.nameCache[key] {
			add("name", "duplicate magazine name", m.Name)
		}
		v.nameCache[key] = true
	}

	// Validate reading periods and the deadline the pipeline will use
	if len(m.ReadingPeriods) == 0 {
		add("readingPeriods", "at least one reading period is required", nil)
	} else if period, ok := v.policy(*m); ok && !period.Deadline.Valid {
		add("readingPeriods.deadline", "deadline is missing or not an ISO 8601 date", nil)
	}

	// Validate genre references
	if v.genres != nil {
		for i, g := range m.Genres {
			if _, ok := v.genres.Label(g.OptionID); !ok {
				add(fmt.Sprintf("genres[%d].optionId", i), "unknown genre id", g.OptionID)
			}
		}
	}

	// Validate numeric fields
	if m.YearFounded < 0 {
		add("yearFounded", "yearFounded must not be negative", int(m.YearFounded))
	}
	if n, ok := m.ResponseDays.Int(); ok && n < 0 {
		add("responseDays", "responseDays must not be negative", n)
	}

	return errors
}

// ValidateBatch validates every record of a batch in order
func (v *Validator) ValidateBatch(magazines []models.Magazine) []models.ValidationError {
	var errors []models.ValidationError
	for i := range magazines {
		errors = append(errors, v.ValidateMagazine(&magazines[i], i)...)
	}
	return errors
}
