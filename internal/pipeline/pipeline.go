// Package pipeline selects magazines whose deadline falls inside a window,
// orders them by deadline and projects them into display records.
//
// Every function here is pure apart from events sent to the Observer. A
// Pipeline holds only read-only state and may be shared between goroutines.
package pipeline

import (
	"time"

	"github.com/submission-digest-api/internal/catalog"
	"github.com/submission-digest-api/internal/models"
)

// Pipeline runs Filter -> Sort -> Format over a batch of magazines
type Pipeline struct {
	genres   *catalog.Catalog
	policy   DeadlinePolicy
	loc      *time.Location
	dates    DateFormatter
	observer Observer
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithPolicy overrides which reading period supplies the deadline
func WithPolicy(policy DeadlinePolicy) Option {
	return func(p *Pipeline) {
		if policy != nil {
			p.policy = policy
		}
	}
}

// WithLocation sets the zone used for calendar days and date display
func WithLocation(loc *time.Location) Option {
	return func(p *Pipeline) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// WithLocale selects the date format. Unsupported locales fall back to en-US.
func WithLocale(locale string) Option {
	return func(p *Pipeline) {
		p.dates = NewDateFormatter(locale)
	}
}

// WithObserver installs an event hook
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		if o != nil {
			p.observer = o
		}
	}
}

// New creates a Pipeline over an immutable genre catalog
func New(genres *catalog.Catalog, opts ...Option) *Pipeline {
	p := &Pipeline{
		genres:   genres,
		policy:   FirstReadingPeriod,
		loc:      time.Local,
		dates:    NewDateFormatter(""),
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.genres == nil {
		p.genres = catalog.Build(nil)
	}
	return p
}

// With returns a copy of p with opts applied
func (p *Pipeline) With(opts ...Option) *Pipeline {
	clone := *p
	for _, opt := range opts {
		opt(&clone)
	}
	return &clone
}

// Location returns the zone used for calendar days
func (p *Pipeline) Location() *time.Location {
	return p.loc
}

// Locale returns the locale used for formatting deadlines
func (p *Pipeline) Locale() string {
	return p.dates.Locale()
}

// ParseWindow parses window bounds in the pipeline's location
func (p *Pipeline) ParseWindow(start, end string) (Window, error) {
	return ParseWindow(start, end, p.loc)
}

// Result is the outcome of a single Run
type Result struct {
	Window     Window
	Records    []models.DisplayRecord
	Considered int
	Skipped    int
}

// Run filters, sorts and formats magazines for window w
func (p *Pipeline) Run(magazines []models.Magazine, w Window) Result {
	selected, skipped := p.filter(magazines, w)
	sorted := p.Sort(selected)

	records := make([]models.DisplayRecord, len(sorted))
	for i, m := range sorted {
		records[i] = p.Format(m)
	}

	return Result{
		Window:     w,
		Records:    records,
		Considered: len(magazines),
		Skipped:    skipped,
	}
}

// deadline returns the deadline chosen by the policy, if usable
func (p *Pipeline) deadline(m models.Magazine) (time.Time, bool) {
	period, ok := p.policy(m)
	if !ok || !period.Deadline.Valid {
		return time.Time{}, false
	}
	return period.Deadline.Time, true
}
