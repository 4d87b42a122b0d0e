package pipeline

import (
	"testing"
	"time"

	"github.com/submission-digest-api/internal/catalog"
	"github.com/submission-digest-api/internal/models"
)

var testGenres = catalog.Build([]models.GenreOption{
	{ID: 1, Value: "fiction", Label: "Fiction"},
	{ID: 2, Value: "poetry", Label: "Poetry"},
	{ID: 3, Value: "essay", Label: "Essay"},
})

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

// mag builds a magazine whose reading periods end at the given RFC 3339 instants
func mag(t *testing.T, name string, deadlines ...string) models.Magazine {
	t.Helper()
	m := models.Magazine{
		Name:         name,
		Description:  name + " publishes new work.",
		Genres:       []models.GenreRef{{OptionID: 1}},
		ResponseDays: "30",
	}
	for _, d := range deadlines {
		m.ReadingPeriods = append(m.ReadingPeriods, models.ReadingPeriod{
			Theme:    name + " theme",
			Deadline: models.NewDeadline(mustTime(t, d)),
		})
	}
	return m
}

func names(magazines []models.Magazine) []string {
	out := make([]string, len(magazines))
	for i, m := range magazines {
		out[i] = m.Name
	}
	return out
}

func utcPipeline(opts ...Option) *Pipeline {
	return New(testGenres, append([]Option{WithLocation(time.UTC)}, opts...)...)
}

type recordingObserver struct {
	skipped []SkipReason
	unknown []int
}

func (r *recordingObserver) RecordSkipped(_ int, _ string, reason SkipReason) {
	r.skipped = append(r.skipped, reason)
}

func (r *recordingObserver) UnknownGenre(_ string, id int) {
	r.unknown = append(r.unknown, id)
}
