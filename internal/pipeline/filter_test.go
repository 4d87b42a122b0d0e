package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/submission-digest-api/internal/models"
)

func TestFilter_SelectsInclusiveWindow(t *testing.T) {
	p := utcPipeline()
	w := NewWindow(mustDay(t, "2024-05-08"), mustDay(t, "2024-05-12"), time.UTC)

	input := []models.Magazine{
		mag(t, "A", "2024-05-10T00:00:00Z"),
		mag(t, "B", "2024-05-08T00:00:00Z"),
		mag(t, "C", "2024-05-15T00:00:00Z"),
		mag(t, "D", "2024-05-12T23:59:00Z"),
		mag(t, "E", "2024-05-07T23:59:59Z"),
	}

	got := p.Filter(input, w)
	assert.Equal(t, []string{"A", "B", "D"}, names(got))
}

func TestFilter_MalformedRecordsAreSkipped(t *testing.T) {
	rec := &recordingObserver{}
	p := utcPipeline(WithObserver(rec))
	w := NewWindow(mustDay(t, "2024-05-08"), mustDay(t, "2024-05-12"), time.UTC)

	noPeriods := models.Magazine{Name: "No periods"}
	badDeadline := models.Magazine{
		Name:           "Bad deadline",
		ReadingPeriods: []models.ReadingPeriod{{Theme: "x"}},
	}

	input := []models.Magazine{
		noPeriods,
		mag(t, "Kept", "2024-05-09T00:00:00Z"),
		badDeadline,
		mag(t, "Also kept", "2024-05-11T00:00:00Z"),
	}

	got := p.Filter(input, w)
	assert.Equal(t, []string{"Kept", "Also kept"}, names(got))
	assert.Equal(t, []SkipReason{ReasonNoReadingPeriods, ReasonInvalidDeadline}, rec.skipped)
}

func TestFilter_OnlyFirstPeriodCountsByDefault(t *testing.T) {
	p := utcPipeline()
	w := NewWindow(mustDay(t, "2024-05-08"), mustDay(t, "2024-05-12"), time.UTC)

	m := mag(t, "Late first", "2024-06-01T00:00:00Z", "2024-05-10T00:00:00Z")

	assert.Empty(t, p.Filter([]models.Magazine{m}, w))
	assert.Len(t, p.With(WithPolicy(EarliestReadingPeriod)).Filter([]models.Magazine{m}, w), 1)
}

func TestFilter_UsesCalendarDayOfLocation(t *testing.T) {
	berlin := time.FixedZone("CEST", 2*60*60)
	w := NewWindow(mustDay(t, "2024-05-08"), mustDay(t, "2024-05-12"), berlin)

	// 23:30 UTC on the 12th is already the 13th at +02:00
	m := mag(t, "Edge", "2024-05-12T23:30:00Z")

	assert.Len(t, utcPipeline().Filter([]models.Magazine{m}, NewWindow(mustDay(t, "2024-05-08"), mustDay(t, "2024-05-12"), time.UTC)), 1)
	assert.Empty(t, New(testGenres, WithLocation(berlin)).Filter([]models.Magazine{m}, w))
}

func TestFilter_IsSubsetOfInput(t *testing.T) {
	p := utcPipeline()
	w := NewWindow(mustDay(t, "2024-05-01"), mustDay(t, "2024-05-31"), time.UTC)

	var input []models.Magazine
	for day := 20; day <= 40; day++ {
		at := time.Date(2024, 4, day, 12, 0, 0, 0, time.UTC)
		input = append(input, mag(t, at.Format(time.DateOnly), at.Format(time.RFC3339)))
	}

	got := p.Filter(input, w)
	kept := make(map[string]bool)
	for _, m := range got {
		kept[m.Name] = true
	}
	for _, m := range input {
		inWindow := w.Contains(m.ReadingPeriods[0].Deadline.Time)
		assert.Equal(t, inWindow, kept[m.Name], m.Name)
	}
}

func TestSort_AscendingAndStable(t *testing.T) {
	p := utcPipeline()

	input := []models.Magazine{
		mag(t, "late", "2024-05-10T18:00:00Z"),
		mag(t, "tie-1", "2024-05-09T09:00:00Z"),
		mag(t, "same day earlier", "2024-05-10T08:00:00Z"),
		mag(t, "tie-2", "2024-05-09T09:00:00Z"),
		mag(t, "first", "2024-05-08T00:00:00Z"),
		mag(t, "tie-3", "2024-05-09T09:00:00Z"),
	}

	got := p.Sort(input)
	assert.Equal(t, []string{"first", "tie-1", "tie-2", "tie-3", "same day earlier", "late"}, names(got))
	assert.Equal(t, "late", input[0].Name, "input must not be reordered")
}

func TestSort_UnusableDeadlinesLast(t *testing.T) {
	p := utcPipeline()

	input := []models.Magazine{
		{Name: "none"},
		mag(t, "dated", "2024-05-09T00:00:00Z"),
		{Name: "invalid", ReadingPeriods: []models.ReadingPeriod{{}}},
	}

	assert.Equal(t, []string{"dated", "none", "invalid"}, names(p.Sort(input)))
}

func TestSort_Empty(t *testing.T) {
	assert.Empty(t, utcPipeline().Sort(nil))
}

func TestPolicyByName(t *testing.T) {
	m := mag(t, "multi", "2024-06-01T00:00:00Z", "2024-05-01T00:00:00Z")

	first, err := PolicyByName("first")
	assert.NoError(t, err)
	period, ok := first(m)
	assert.True(t, ok)
	assert.Equal(t, 6, int(period.Deadline.Time.Month()))

	earliest, err := PolicyByName("earliest")
	assert.NoError(t, err)
	period, ok = earliest(m)
	assert.True(t, ok)
	assert.Equal(t, 5, int(period.Deadline.Time.Month()))

	_, err = PolicyByName("random")
	assert.Error(t, err)
}
