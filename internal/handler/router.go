package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"calmtable/internal/handler/api"
	"calmtable/internal/handler/middleware"
	"calmtable/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth         *api.AuthHandler
	Reservation  *api.ReservationHandler
	Order        *api.OrderHandler
	Menu         *api.MenuHandler
	Review       *api.ReviewHandler
	Notification *api.NotificationHandler
	Analytics    *api.AnalyticsHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register},
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
				{Method: http.MethodPatch, Path: "/me", Handler: h.Auth.UpdateProfile},
			})
		}

		apiGroup.GET("/availability", h.Reservation.GetAvailability)

		reservations := apiGroup.Group("/reservations")
		{
			reservations.GET("/code/:code", h.Reservation.GetByConfirmationCode)

			// Booking requires a customer account; the command layer also
			// rejects staff callers.
			authRequired := reservations.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Reservation.CreateReservation},
				{Method: http.MethodGet, Path: "", Handler: h.Reservation.ListMyReservations},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Reservation.GetReservation},
			})

			staffOnly := reservations.Group("")
			staffOnly.Use(authMiddleware.RequireAuth(), authMiddleware.RequireStaff())
			addRoutes(staffOnly, []route{
				{Method: http.MethodGet, Path: "/date/:date", Handler: h.Reservation.ListByDate},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: h.Reservation.UpdateStatus},
			})
		}

		menu := apiGroup.Group("/menu")
		{
			addRoutes(menu, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Menu.ListMenu},
				{Method: http.MethodGet, Path: "/featured", Handler: h.Menu.Featured},
				{Method: http.MethodGet, Path: "/best", Handler: h.Menu.BestOrdered},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Menu.GetMenuItem},
				{Method: http.MethodGet, Path: "/:id/reviews", Handler: h.Review.ListByMenuItem},
			})

			staffOnly := menu.Group("")
			staffOnly.Use(authMiddleware.RequireAuth(), authMiddleware.RequireStaff())
			addRoutes(staffOnly, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Menu.CreateMenuItem},
				{Method: http.MethodPut, Path: "/:id", Handler: h.Menu.UpdateMenuItem},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Menu.DeleteMenuItem},
				{Method: http.MethodPatch, Path: "/:id/availability", Handler: h.Menu.SetAvailability},
				{Method: http.MethodPatch, Path: "/:id/featured", Handler: h.Menu.SetFeatured},
			})
		}

		orders := apiGroup.Group("/orders")
		{
			authRequired := orders.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Order.PlaceOrder},
				{Method: http.MethodGet, Path: "", Handler: h.Order.ListMyOrders},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Order.GetOrder},
			})

			staffOnly := orders.Group("")
			staffOnly.Use(authMiddleware.RequireAuth(), authMiddleware.RequireStaff())
			addRoutes(staffOnly, []route{
				{Method: http.MethodGet, Path: "/all", Handler: h.Order.ListAllOrders},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: h.Order.UpdateStatus},
			})
		}

		reviews := apiGroup.Group("/reviews")
		reviews.Use(authMiddleware.RequireAuth())
		{
			addRoutes(reviews, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Review.CreateReview},
				{Method: http.MethodGet, Path: "/mine", Handler: h.Review.ListMyReviews},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Review.DeleteReview},
			})
		}

		notifications := apiGroup.Group("/notifications")
		notifications.Use(authMiddleware.RequireAuth())
		{
			addRoutes(notifications, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Notification.ListNotifications},
				{Method: http.MethodGet, Path: "/unread-count", Handler: h.Notification.UnreadCount},
				{Method: http.MethodPost, Path: "/:id/read", Handler: h.Notification.MarkRead},
				{Method: http.MethodPost, Path: "/read-all", Handler: h.Notification.MarkAllRead},
			})
		}

		analytics := apiGroup.Group("/analytics")
		analytics.Use(authMiddleware.RequireAuth(), authMiddleware.RequireStaff())
		{
			addRoutes(analytics, []route{
				{Method: http.MethodGet, Path: "/summary", Handler: h.Analytics.Summary},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
