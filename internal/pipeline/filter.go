package pipeline

import (
	"github.com/submission-digest-api/internal/models"
)

// Filter keeps the magazines whose deadline falls on a day inside w, in input
// order. Magazines without reading periods or with an unreadable deadline are
// dropped and reported to the observer.
func (p *Pipeline) Filter(magazines []models.Magazine, w Window) []models.Magazine {
	kept, _ := p.filter(magazines, w)
	return kept
}

func (p *Pipeline) filter(magazines []models.Magazine, w Window) ([]models.Magazine, int) {
	kept := make([]models.Magazine, 0, len(magazines))
	skipped := 0

	for i, m := range magazines {
		period, ok := p.policy(m)
		if !ok {
			p.observer.RecordSkipped(i, m.Name, ReasonNoReadingPeriods)
			skipped++
			continue
		}
		if !period.Deadline.Valid {
			p.observer.RecordSkipped(i, m.Name, ReasonInvalidDeadline)
			skipped++
			continue
		}
		if w.Contains(period.Deadline.Time) {
			kept = append(kept, m)
		}
	}

	return kept, skipped
}
