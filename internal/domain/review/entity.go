package review

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrEmptyComment   = errors.New("comment is required")
	ErrCommentTooLong = errors.New("comment exceeds 1000 characters")
	ErrNotEligible    = errors.New("user has no qualifying reservation")
)

const maxCommentLength = 1000

type Rating int

func NewRating(value int) (Rating, error) {
	if value < 1 || value > 5 {
		return 0, ErrInvalidRating
	}
	return Rating(value), nil
}

func (r Rating) Int() int {
	return int(r)
}

type Comment struct {
	value string
}

func NewComment(value string) (Comment, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Comment{}, ErrEmptyComment
	}
	if len(trimmed) > maxCommentLength {
		return Comment{}, ErrCommentTooLong
	}
	return Comment{value: trimmed}, nil
}

func (c Comment) String() string {
	return c.value
}

type Review struct {
	id         uuid.UUID
	menuItemID uuid.UUID
	userID     uuid.UUID
	rating     Rating
	comment    Comment
	createdAt  time.Time
}

// NewReview runs the eligibility gate before constructing the aggregate.
// Uniqueness per (menu item, user) is enforced by the store.
func NewReview(services *Services, userID, menuItemID uuid.UUID, rating Rating, comment Comment) (*Review, error) {
	if err := services.EligibilityChecker.CanReview(EligibilityInput{
		UserID: userID,
		Now:    services.Clock.Now(),
	}); err != nil {
		return nil, err
	}

	return &Review{
		id:         uuid.New(),
		menuItemID: menuItemID,
		userID:     userID,
		rating:     rating,
		comment:    comment,
	}, nil
}

func ReconstructReview(id, menuItemID, userID uuid.UUID, rating Rating, comment Comment, createdAt time.Time) *Review {
	return &Review{
		id:         id,
		menuItemID: menuItemID,
		userID:     userID,
		rating:     rating,
		comment:    comment,
		createdAt:  createdAt,
	}
}

func (r *Review) ID() uuid.UUID         { return r.id }
func (r *Review) MenuItemID() uuid.UUID { return r.menuItemID }
func (r *Review) UserID() uuid.UUID     { return r.userID }
func (r *Review) Rating() Rating        { return r.rating }
func (r *Review) Comment() Comment      { return r.comment }
func (r *Review) CreatedAt() time.Time  { return r.createdAt }
