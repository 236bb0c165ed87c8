package reservation

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownSlot     = errors.New("unknown time slot")
	ErrInvalidSlotList = errors.New("slot catalog requires at least one slot")
	ErrInvalidCapacity = errors.New("slot capacity must be positive")
)

// Slot is a fixed time-of-day label ("19:00") reservations are booked
// against. Minutes since midnight keeps comparisons against the local clock
// trivial and avoids fake dates.
type Slot struct {
	label   string
	minutes int
}

func ParseSlot(label string) (Slot, error) {
	t, err := time.Parse("15:04", label)
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %q", ErrUnknownSlot, label)
	}
	return Slot{label: t.Format("15:04"), minutes: t.Hour()*60 + t.Minute()}, nil
}

func (s Slot) Label() string {
	return s.label
}

// StartsAfter reports whether the slot's start is strictly later than the
// wall-clock time of t (seconds truncated, date ignored).
func (s Slot) StartsAfter(t time.Time) bool {
	return s.minutes > t.Hour()*60+t.Minute()
}

// StartsBefore reports whether the slot's start is strictly earlier than the
// wall-clock time of t. A slot starting exactly now is neither before nor
// after.
func (s Slot) StartsBefore(t time.Time) bool {
	return s.minutes < t.Hour()*60+t.Minute()
}

// Catalog is the static ordered list of bookable slots with a shared
// per-slot capacity. Iteration order is declaration (chronological) order.
type Catalog struct {
	slots    []Slot
	capacity int
}

func NewCatalog(labels []string, capacity int) (*Catalog, error) {
	if len(labels) == 0 {
		return nil, ErrInvalidSlotList
	}
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	slots := make([]Slot, 0, len(labels))
	for _, label := range labels {
		slot, err := ParseSlot(label)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return &Catalog{slots: slots, capacity: capacity}, nil
}

func (c *Catalog) Capacity() int {
	return c.capacity
}

func (c *Catalog) Slots() []Slot {
	out := make([]Slot, len(c.slots))
	copy(out, c.slots)
	return out
}

func (c *Catalog) Lookup(label string) (Slot, error) {
	for _, slot := range c.slots {
		if slot.label == label {
			return slot, nil
		}
	}
	return Slot{}, fmt.Errorf("%w: %q", ErrUnknownSlot, label)
}
