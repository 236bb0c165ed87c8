package queries

import (
	"context"
	"time"

	"calmtable/internal/domain/reservation"
	"calmtable/internal/pkg/clock"
)

type AvailabilityQueries interface {
	// GetForDate reports, slot by slot, whether the date can still take
	// reservations. Past dates come back with no slots at all, and on the
	// current date slots that already started are omitted rather than shown
	// as full.
	GetForDate(ctx context.Context, date time.Time) (*AvailabilityView, error)
}

// SlotCountRepo returns active (pending or confirmed) reservation counts per
// slot label for one date. Slots with zero reservations may be absent.
type SlotCountRepo interface {
	CountActiveByDate(ctx context.Context, date time.Time) (map[string]int, error)
}

type availabilityQueriesImpl struct {
	repo    SlotCountRepo
	catalog *reservation.Catalog
	clock   clock.Clock
}

func NewAvailabilityQueries(repo SlotCountRepo, catalog *reservation.Catalog, clock clock.Clock) AvailabilityQueries {
	return &availabilityQueriesImpl{repo: repo, catalog: catalog, clock: clock}
}

func (q *availabilityQueriesImpl) GetForDate(ctx context.Context, date time.Time) (*AvailabilityView, error) {
	now := q.clock.Now()
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	view := &AvailabilityView{Date: day, Slots: []SlotAvailability{}}
	if day.Before(today) {
		return view, nil
	}

	counts, err := q.repo.CountActiveByDate(ctx, day)
	if err != nil {
		return nil, err
	}

	capacity := q.catalog.Capacity()
	for _, slot := range q.catalog.Slots() {
		if day.Equal(today) && !slot.StartsAfter(now) {
			continue
		}
		remaining := capacity - counts[slot.Label()]
		if remaining < 0 {
			remaining = 0
		}
		view.Slots = append(view.Slots, SlotAvailability{
			Slot:      slot.Label(),
			Available: remaining > 0,
			Remaining: remaining,
		})
	}
	return view, nil
}
