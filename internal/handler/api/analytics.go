package api

import (
	"net/http"
	"time"

	resdto "calmtable/internal/handler/dto/response"
	"calmtable/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsQueries queries.AnalyticsQueries
}

func NewAnalyticsHandler(analyticsQueries queries.AnalyticsQueries) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsQueries: analyticsQueries,
	}
}

// @Summary Dashboard summary
// @Description Staff aggregates over orders and reservations for a period
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD), defaults to 30 days ago"
// @Param to query string false "End date (YYYY-MM-DD), defaults to tomorrow"
// @Success 200 {object} resdto.AnalyticsSummaryResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now.AddDate(0, 0, 1)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date format, expected YYYY-MM-DD",
			})
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date format, expected YYYY-MM-DD",
			})
			return
		}
		to = parsed
	}

	summary, err := h.analyticsQueries.Summary(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromAnalyticsSummary(summary))
}
