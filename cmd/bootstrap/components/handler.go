package components

import (
	"calmtable/internal/handler"
	"calmtable/internal/handler/api"
	"calmtable/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewReservationHandler,
		api.NewOrderHandler,
		api.NewMenuHandler,
		api.NewReviewHandler,
		api.NewNotificationHandler,
		api.NewAnalyticsHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	auth *api.AuthHandler,
	reservation *api.ReservationHandler,
	order *api.OrderHandler,
	menu *api.MenuHandler,
	review *api.ReviewHandler,
	notification *api.NotificationHandler,
	analytics *api.AnalyticsHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:         auth,
		Reservation:  reservation,
		Order:        order,
		Menu:         menu,
		Review:       review,
		Notification: notification,
		Analytics:    analytics,
	}
}
