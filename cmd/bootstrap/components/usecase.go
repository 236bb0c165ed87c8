package components

import (
	"time"

	"calmtable/internal/domain/order"
	"calmtable/internal/domain/reservation"
	"calmtable/internal/notify"
	"calmtable/internal/payment"
	"calmtable/internal/pkg/clock"
	"calmtable/internal/pkg/config"
	"calmtable/internal/usecase"
	"calmtable/internal/usecase/commands"
	"calmtable/internal/usecase/queries"
	"calmtable/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	func(cfg config.Config) clock.Clock {
		loc, err := time.LoadLocation(cfg.Reservation.TimeZone)
		if err != nil {
			loc = time.UTC
		}
		return clock.NewRealClock(loc)
	},
	func(cfg config.Config) (*reservation.Catalog, error) {
		return reservation.NewCatalog(cfg.Reservation.TimeSlots, cfg.Reservation.MaxPerSlot)
	},
	func(cfg config.Config) *order.NumberGenerator {
		return order.NewNumberGenerator(cfg.Order.NumberPrefix)
	},
	func(cfg config.Config) notify.Mailer {
		return notify.NewMailer(cfg.Mail)
	},
	func(cfg config.Config, uow shared.UnitOfWork, mailer notify.Mailer, clk clock.Clock) notify.Dispatcher {
		return notify.NewDispatcher(cfg.Dispatch, uow, mailer, clk)
	},
	func(cfg config.Config) payment.Gateway {
		return payment.NewGateway(cfg.Stripe)
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewReservationCommands,
		commands.NewOrderCommands,
		commands.NewMenuCommands,
		commands.NewReviewCommands,
		commands.NewNotificationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
		queries.NewAvailabilityQueries,
		queries.NewMenuQueries,
		queries.NewOrderQueries,
		queries.NewReviewQueries,
		queries.NewNotificationQueries,
		queries.NewAnalyticsQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
