//go:build unit

package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"calmtable/internal/domain/user"
	"calmtable/internal/handler/api"
	"calmtable/internal/usecase/commands"
	"calmtable/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type stubReservationCommands struct {
	createFn func(ctx context.Context, input commands.CreateReservationInput) (*queries.ReservationView, error)
	updateFn func(ctx context.Context, id uuid.UUID, status string) (*queries.ReservationView, error)
}

func (s *stubReservationCommands) CreateReservation(ctx context.Context, input commands.CreateReservationInput) (*queries.ReservationView, error) {
	return s.createFn(ctx, input)
}

func (s *stubReservationCommands) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*queries.ReservationView, error) {
	return s.updateFn(ctx, id, status)
}

type stubReservationQueries struct {
	getByIDFn func(ctx context.Context, actor queries.Actor, id uuid.UUID) (*queries.ReservationView, error)
	byCodeFn  func(ctx context.Context, code string) (*queries.ReservationView, error)
}

func (s *stubReservationQueries) GetByID(ctx context.Context, actor queries.Actor, id uuid.UUID) (*queries.ReservationView, error) {
	return s.getByIDFn(ctx, actor, id)
}

func (s *stubReservationQueries) GetByIDSystem(context.Context, uuid.UUID) (*queries.ReservationView, error) {
	return nil, queries.ErrViewNotFound
}

func (s *stubReservationQueries) GetByConfirmationCode(ctx context.Context, code string) (*queries.ReservationView, error) {
	return s.byCodeFn(ctx, code)
}

func (s *stubReservationQueries) ListMine(context.Context, queries.Actor) ([]*queries.ReservationView, error) {
	return nil, nil
}

func (s *stubReservationQueries) ListByDate(context.Context, time.Time) ([]*queries.ReservationView, error) {
	return nil, nil
}

type stubAvailabilityQueries struct {
	getFn func(ctx context.Context, date time.Time) (*queries.AvailabilityView, error)
}

func (s *stubAvailabilityQueries) GetForDate(ctx context.Context, date time.Time) (*queries.AvailabilityView, error) {
	return s.getFn(ctx, date)
}

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	commands     *stubReservationCommands
	queries      *stubReservationQueries
	availability *stubAvailabilityQueries
	userID       uuid.UUID
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.commands = &stubReservationCommands{}
	s.queries = &stubReservationQueries{}
	s.availability = &stubAvailabilityQueries{}
	s.userID = uuid.New()

	handler := api.NewReservationHandler(s.commands, s.queries, s.availability)

	authed := authAs(s.userID, "ada@example.com", user.RoleCustomer)
	s.router.POST("/reservations", authed, handler.CreateReservation)
	s.router.GET("/availability", handler.GetAvailability)
	s.router.GET("/reservations/code/:code", handler.GetByConfirmationCode)
	s.router.GET("/reservations/:id", authed, handler.GetReservation)
	s.router.PATCH("/reservations/:id/status", authed, handler.UpdateStatus)
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func sampleReservationView() *queries.ReservationView {
	return &queries.ReservationView{
		ID:               uuid.New(),
		GuestName:        "Ada Lovelace",
		GuestEmail:       "ada@example.com",
		Date:             time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		Slot:             "19:00",
		PartySize:        2,
		Status:           "pending",
		ConfirmationCode: "AB12CD34",
	}
}

const validReservationBody = `{
	"guest_name": "Ada Lovelace",
	"guest_email": "ada@example.com",
	"date": "2026-03-11",
	"slot": "19:00",
	"party_size": 2
}`

func (s *ReservationHandlerTestSuite) TestCreateReservation() {
	s.Run("created", func() {
		s.commands.createFn = func(_ context.Context, input commands.CreateReservationInput) (*queries.ReservationView, error) {
			s.Equal("19:00", input.Slot)
			s.Equal(2, input.PartySize)
			s.Require().NotNil(input.UserID)
			s.Equal(s.userID, *input.UserID)
			return sampleReservationView(), nil
		}

		w := performRequest(s.router, http.MethodPost, "/reservations", validReservationBody)

		s.Equal(http.StatusCreated, w.Code)
		s.Contains(w.Body.String(), "AB12CD34")
	})

	s.Run("anonymous caller", func() {
		s.commands.createFn = func(context.Context, commands.CreateReservationInput) (*queries.ReservationView, error) {
			return nil, commands.ErrAuthenticationRequired
		}

		w := performRequest(s.router, http.MethodPost, "/reservations", validReservationBody)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("staff account", func() {
		s.commands.createFn = func(context.Context, commands.CreateReservationInput) (*queries.ReservationView, error) {
			return nil, commands.ErrForbiddenRole
		}

		w := performRequest(s.router, http.MethodPost, "/reservations", validReservationBody)
		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("slot fully booked", func() {
		s.commands.createFn = func(context.Context, commands.CreateReservationInput) (*queries.ReservationView, error) {
			return nil, commands.ErrCapacityExceeded
		}

		w := performRequest(s.router, http.MethodPost, "/reservations", validReservationBody)
		s.Equal(http.StatusConflict, w.Code)
	})

	s.Run("unknown slot", func() {
		s.commands.createFn = func(context.Context, commands.CreateReservationInput) (*queries.ReservationView, error) {
			return nil, commands.ErrInvalidTimeSlot
		}

		w := performRequest(s.router, http.MethodPost, "/reservations", validReservationBody)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("domain validation failure", func() {
		s.commands.createFn = func(context.Context, commands.CreateReservationInput) (*queries.ReservationView, error) {
			return nil, commands.ErrReservationValidation
		}

		w := performRequest(s.router, http.MethodPost, "/reservations", validReservationBody)
		s.Equal(http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("missing required fields", func() {
		w := performRequest(s.router, http.MethodPost, "/reservations", `{"guest_name": "Ada"}`)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("malformed date", func() {
		w := performRequest(s.router, http.MethodPost, "/reservations",
			`{"guest_name":"Ada","guest_email":"ada@example.com","date":"11-03-2026","slot":"19:00","party_size":2}`)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestGetAvailability() {
	s.Run("ok", func() {
		s.availability.getFn = func(_ context.Context, date time.Time) (*queries.AvailabilityView, error) {
			s.Equal("2026-03-11", date.Format("2006-01-02"))
			return &queries.AvailabilityView{
				Date:  date,
				Slots: []queries.SlotAvailability{{Slot: "19:00", Available: true, Remaining: 3}},
			}, nil
		}

		w := performRequest(s.router, http.MethodGet, "/availability?date=2026-03-11", "")

		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), `"remaining":3`)
	})

	s.Run("missing date", func() {
		w := performRequest(s.router, http.MethodGet, "/availability", "")
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	s.Run("ok", func() {
		view := sampleReservationView()
		s.queries.getByIDFn = func(_ context.Context, actor queries.Actor, id uuid.UUID) (*queries.ReservationView, error) {
			s.Equal(s.userID, actor.ID)
			s.Equal(view.ID, id)
			return view, nil
		}

		w := performRequest(s.router, http.MethodGet, "/reservations/"+view.ID.String(), "")
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("not found", func() {
		s.queries.getByIDFn = func(context.Context, queries.Actor, uuid.UUID) (*queries.ReservationView, error) {
			return nil, queries.ErrViewNotFound
		}

		w := performRequest(s.router, http.MethodGet, "/reservations/"+uuid.NewString(), "")
		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("someone else's reservation", func() {
		s.queries.getByIDFn = func(context.Context, queries.Actor, uuid.UUID) (*queries.ReservationView, error) {
			return nil, queries.ErrViewDenied
		}

		w := performRequest(s.router, http.MethodGet, "/reservations/"+uuid.NewString(), "")
		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("invalid id", func() {
		w := performRequest(s.router, http.MethodGet, "/reservations/not-a-uuid", "")
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestGetByConfirmationCode() {
	s.Run("ok", func() {
		s.queries.byCodeFn = func(_ context.Context, code string) (*queries.ReservationView, error) {
			s.Equal("AB12CD34", code)
			return sampleReservationView(), nil
		}

		w := performRequest(s.router, http.MethodGet, "/reservations/code/AB12CD34", "")
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("unknown code", func() {
		s.queries.byCodeFn = func(context.Context, string) (*queries.ReservationView, error) {
			return nil, queries.ErrViewNotFound
		}

		w := performRequest(s.router, http.MethodGet, "/reservations/code/ZZZZZZZZ", "")
		s.Equal(http.StatusNotFound, w.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestUpdateStatus() {
	s.Run("ok", func() {
		s.commands.updateFn = func(_ context.Context, _ uuid.UUID, status string) (*queries.ReservationView, error) {
			s.Equal("confirmed", status)
			view := sampleReservationView()
			view.Status = "confirmed"
			return view, nil
		}

		w := performRequest(s.router, http.MethodPatch,
			"/reservations/"+uuid.NewString()+"/status", `{"status":"confirmed"}`)

		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), `"status":"confirmed"`)
	})

	s.Run("not found", func() {
		s.commands.updateFn = func(context.Context, uuid.UUID, string) (*queries.ReservationView, error) {
			return nil, commands.ErrReservationNotFound
		}

		w := performRequest(s.router, http.MethodPatch,
			"/reservations/"+uuid.NewString()+"/status", `{"status":"confirmed"}`)
		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("unknown status", func() {
		s.commands.updateFn = func(context.Context, uuid.UUID, string) (*queries.ReservationView, error) {
			return nil, commands.ErrReservationValidation
		}

		w := performRequest(s.router, http.MethodPatch,
			"/reservations/"+uuid.NewString()+"/status", `{"status":"teleported"}`)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}
