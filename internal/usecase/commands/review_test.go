package commands_test

import (
	"context"
	"testing"
	"time"

	"calmtable/internal/pkg/clock"
	"calmtable/internal/usecase/commands"
	"calmtable/internal/usecase/queries"
	"calmtable/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	store    *fakeStore
	commands commands.ReviewCommands

	userID     uuid.UUID
	menuItemID uuid.UUID
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()

	store := newFakeStore()
	store.hasPastConfirmed = true

	userID := uuid.New()
	store.addUser(&shared.UserSnapshot{
		ID: userID, Username: "ada", Email: "ada@example.com", Role: "customer", IsActive: true,
	})

	clk := clock.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	uow := &fakeUoW{store: store}

	return &reviewFixture{
		store:      store,
		commands:   commands.NewReviewCommands(uow, clk, &fakeReviewViews{store: store}),
		userID:     userID,
		menuItemID: store.addMenuItem("Truffle Pasta", "18.50", true),
	}
}

func (f *reviewFixture) input() commands.CreateReviewInput {
	return commands.CreateReviewInput{
		UserID:     f.userID,
		UserEmail:  "ada@example.com",
		MenuItemID: f.menuItemID,
		Rating:     5,
		Comment:    "The pasta was sublime.",
	}
}

func TestCreateReview(t *testing.T) {
	t.Run("eligible diner can review", func(t *testing.T) {
		f := newReviewFixture(t)

		view, err := f.commands.CreateReview(context.Background(), f.input())
		require.NoError(t, err)

		assert.Equal(t, 5, view.Rating)
		assert.Equal(t, "The pasta was sublime.", view.Comment)
		assert.Equal(t, f.userID, view.UserID)
		assert.Len(t, f.store.reviews, 1)
	})

	t.Run("a staff account cannot review", func(t *testing.T) {
		f := newReviewFixture(t)

		staffID := uuid.New()
		f.store.addUser(&shared.UserSnapshot{
			ID: staffID, Username: "host", Email: "host@calmtable.test", Role: "staff", IsActive: true,
		})

		input := f.input()
		input.UserID = staffID
		input.UserEmail = "host@calmtable.test"

		_, err := f.commands.CreateReview(context.Background(), input)
		assert.ErrorIs(t, err, commands.ErrForbiddenRole)
		assert.Empty(t, f.store.reviews)
	})

	t.Run("no past confirmed reservation", func(t *testing.T) {
		f := newReviewFixture(t)
		f.store.hasPastConfirmed = false

		_, err := f.commands.CreateReview(context.Background(), f.input())
		assert.ErrorIs(t, err, commands.ErrNotEligible)
		assert.Empty(t, f.store.reviews)
	})

	t.Run("one review per item per user", func(t *testing.T) {
		f := newReviewFixture(t)

		_, err := f.commands.CreateReview(context.Background(), f.input())
		require.NoError(t, err)

		_, err = f.commands.CreateReview(context.Background(), f.input())
		assert.ErrorIs(t, err, commands.ErrDuplicateReview)
		assert.Len(t, f.store.reviews, 1)
	})

	t.Run("same user may review a different item", func(t *testing.T) {
		f := newReviewFixture(t)

		_, err := f.commands.CreateReview(context.Background(), f.input())
		require.NoError(t, err)

		other := f.input()
		other.MenuItemID = f.store.addMenuItem("Grilled Salmon", "24.00", true)

		_, err = f.commands.CreateReview(context.Background(), other)
		assert.NoError(t, err)
		assert.Len(t, f.store.reviews, 2)
	})

	t.Run("unknown menu item", func(t *testing.T) {
		f := newReviewFixture(t)

		input := f.input()
		input.MenuItemID = uuid.New()

		_, err := f.commands.CreateReview(context.Background(), input)
		assert.ErrorIs(t, err, commands.ErrMenuItemNotFound)
	})

	t.Run("rating bounds", func(t *testing.T) {
		f := newReviewFixture(t)

		for _, rating := range []int{0, 6, -1} {
			input := f.input()
			input.Rating = rating

			_, err := f.commands.CreateReview(context.Background(), input)
			assert.ErrorIs(t, err, commands.ErrReviewValidation)
		}
	})

	t.Run("empty comment", func(t *testing.T) {
		f := newReviewFixture(t)

		input := f.input()
		input.Comment = "   "

		_, err := f.commands.CreateReview(context.Background(), input)
		assert.ErrorIs(t, err, commands.ErrReviewValidation)
	})
}

func TestDeleteReview(t *testing.T) {
	create := func(t *testing.T, f *reviewFixture) uuid.UUID {
		t.Helper()
		view, err := f.commands.CreateReview(context.Background(), f.input())
		require.NoError(t, err)
		return view.ID
	}

	t.Run("author deletes own review", func(t *testing.T) {
		f := newReviewFixture(t)
		id := create(t, f)

		actor := queries.Actor{ID: f.userID, Email: "ada@example.com", Role: "customer"}
		err := f.commands.DeleteReview(context.Background(), actor, id)
		require.NoError(t, err)
		assert.Empty(t, f.store.reviews)
	})

	t.Run("staff deletes another user's review", func(t *testing.T) {
		f := newReviewFixture(t)
		id := create(t, f)

		actor := queries.Actor{ID: uuid.New(), Email: "staff@example.com", Role: "staff"}
		err := f.commands.DeleteReview(context.Background(), actor, id)
		require.NoError(t, err)
		assert.Empty(t, f.store.reviews)
	})

	t.Run("other customer is forbidden", func(t *testing.T) {
		f := newReviewFixture(t)
		id := create(t, f)

		actor := queries.Actor{ID: uuid.New(), Email: "eve@example.com", Role: "customer"}
		err := f.commands.DeleteReview(context.Background(), actor, id)
		assert.ErrorIs(t, err, commands.ErrReviewForbidden)
		assert.Len(t, f.store.reviews, 1)
	})

	t.Run("unknown review", func(t *testing.T) {
		f := newReviewFixture(t)

		actor := queries.Actor{ID: f.userID, Email: "ada@example.com", Role: "customer"}
		err := f.commands.DeleteReview(context.Background(), actor, uuid.New())
		assert.ErrorIs(t, err, commands.ErrReviewNotFound)
	})
}
