package review

import (
	"time"

	"calmtable/internal/pkg/clock"

	"github.com/google/uuid"
)

type Services struct {
	Clock              clock.Clock
	EligibilityChecker EligibilityChecker
}

type EligibilityInput struct {
	UserID uuid.UUID
	Now    time.Time
}

// EligibilityChecker decides whether a user may review at all: at least one
// confirmed reservation whose slot lies strictly in the past, matched by
// ownership or case-insensitive email.
type EligibilityChecker interface {
	CanReview(input EligibilityInput) error
}
