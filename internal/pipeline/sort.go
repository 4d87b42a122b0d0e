package pipeline

import (
	"slices"

	"github.com/submission-digest-api/internal/models"
)

// Sort returns a copy of magazines ordered by deadline instant, earliest
// first. Equal deadlines keep their input order. Magazines without a usable
// deadline go last.
func (p *Pipeline) Sort(magazines []models.Magazine) []models.Magazine {
	sorted := slices.Clone(magazines)
	slices.SortStableFunc(sorted, func(a, b models.Magazine) int {
		da, okA := p.deadline(a)
		db, okB := p.deadline(b)
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		}
		return da.Compare(db)
	})
	return sorted
}
