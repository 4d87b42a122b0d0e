package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/submission-digest-api/internal/models"
)

// digestScheduler is the concrete implementation of Scheduler
type digestScheduler struct {
	archive  ArchiveService
	interval time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	running bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// newScheduler creates a Scheduler that archives every interval
func newScheduler(archive ArchiveService, interval time.Duration, log zerolog.Logger) *digestScheduler {
	return &digestScheduler{
		archive:  archive,
		interval: interval,
		log:      log.With().Str("service", "scheduler").Logger(),
	}
}

// Start archives the upcoming week immediately and then on every tick. It
// blocks until ctx is cancelled or Stop is called. A stopped scheduler does
// not start again.
func (s *digestScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running || s.stopped {
		s.mu.Unlock()
		return
	}
	s.running = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	defer close(done)

	s.log.Info().Dur("interval", s.interval).Msg("Digest scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Digest scheduler stopping")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// Stop cancels the scheduler and waits for the current run to finish. It
// also applies when Start has not been reached yet.
func (s *digestScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if !s.running {
		return
	}

	s.cancel()
	<-s.done
	s.running = false
	s.log.Info().Msg("Digest scheduler stopped")
}

func (s *digestScheduler) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("Scheduled digest panicked - recovered")
		}
	}()

	digest, err := s.archive.Create(ctx, models.DigestRequest{})
	if err != nil {
		if ctx.Err() == nil {
			s.log.Error().Err(err).Msg("Scheduled digest failed")
		}
		return
	}
	s.log.Info().Str("digest_id", digest.ID).Msg("Scheduled digest archived")
}

// NewScheduler exposes the scheduler for callers that wire their own archive
func NewScheduler(archive ArchiveService, interval time.Duration, log zerolog.Logger) Scheduler {
	return newScheduler(archive, interval, log)
}
