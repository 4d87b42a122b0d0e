package pipeline

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// SkipReason says why a magazine was left out of a result
type SkipReason string

const (
	ReasonNoReadingPeriods SkipReason = "no_reading_periods"
	ReasonInvalidDeadline  SkipReason = "invalid_deadline"
	ReasonUndecodable      SkipReason = "undecodable_record"
)

// Observer receives per-record events from the pipeline and the ingestion
// boundary. Implementations must be safe for concurrent use.
type Observer interface {
	RecordSkipped(index int, name string, reason SkipReason)
	UnknownGenre(name string, id int)
}

// NopObserver discards every event
type NopObserver struct{}

func (NopObserver) RecordSkipped(int, string, SkipReason) {}
func (NopObserver) UnknownGenre(string, int)              {}

// LogObserver writes events to a zerolog logger
type LogObserver struct {
	log zerolog.Logger
}

// NewLogObserver creates a LogObserver
func NewLogObserver(log zerolog.Logger) LogObserver {
	return LogObserver{log: log.With().Str("component", "pipeline").Logger()}
}

func (o LogObserver) RecordSkipped(index int, name string, reason SkipReason) {
	o.log.Warn().
		Int("index", index).
		Str("magazine", name).
		Str("reason", string(reason)).
		Msg("Magazine skipped")
}

func (o LogObserver) UnknownGenre(name string, id int) {
	o.log.Debug().
		Str("magazine", name).
		Int("genre_id", id).
		Msg("Unknown genre id")
}

// Counters tallies events for the metrics endpoint
type Counters struct {
	skipped       atomic.Int64
	unknownGenres atomic.Int64
}

func (c *Counters) RecordSkipped(int, string, SkipReason) { c.skipped.Add(1) }
func (c *Counters) UnknownGenre(string, int)              { c.unknownGenres.Add(1) }

// Skipped returns the number of skipped records seen so far
func (c *Counters) Skipped() int64 { return c.skipped.Load() }

// UnknownGenres returns the number of unresolved genre ids seen so far
func (c *Counters) UnknownGenres() int64 { return c.unknownGenres.Load() }

// Multi fans events out to several observers
func Multi(observers ...Observer) Observer {
	return multiObserver(observers)
}

type multiObserver []Observer

func (m multiObserver) RecordSkipped(index int, name string, reason SkipReason) {
	for _, o := range m {
		o.RecordSkipped(index, name, reason)
	}
}

func (m multiObserver) UnknownGenre(name string, id int) {
	for _, o := range m {
		o.UnknownGenre(name, id)
	}
}
