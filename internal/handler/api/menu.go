package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	reqdto "calmtable/internal/handler/dto/request"
	resdto "calmtable/internal/handler/dto/response"
	"calmtable/internal/usecase/commands"
	"calmtable/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MenuHandler struct {
	menuCommands commands.MenuCommands
	menuQueries  queries.MenuQueries
}

func NewMenuHandler(menuCommands commands.MenuCommands, menuQueries queries.MenuQueries) *MenuHandler {
	return &MenuHandler{
		menuCommands: menuCommands,
		menuQueries:  menuQueries,
	}
}

// @Summary List menu
// @Description List menu items, optionally filtered by category, availability and featured flag
// @Tags menu
// @Produce json
// @Param category query string false "Category filter"
// @Param available query bool false "Availability filter"
// @Param featured query bool false "Featured filter"
// @Success 200 {array} resdto.MenuItemResponse
// @Router /menu [get]
func (h *MenuHandler) ListMenu(c *gin.Context) {
	var filter queries.MenuFilter
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if raw := c.Query("available"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.IsAvailable = &v
		}
	}
	if raw := c.Query("featured"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.IsFeatured = &v
		}
	}

	views, err := h.menuQueries.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromMenuItemViews(views))
}

// @Summary Featured items
// @Description List featured, available menu items
// @Tags menu
// @Produce json
// @Success 200 {array} resdto.MenuItemResponse
// @Router /menu/featured [get]
func (h *MenuHandler) Featured(c *gin.Context) {
	views, err := h.menuQueries.Featured(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromMenuItemViews(views))
}

// @Summary Best ordered items
// @Description Rank available items by total quantity ordered
// @Tags menu
// @Produce json
// @Param limit query int false "Result limit"
// @Success 200 {array} resdto.MenuItemResponse
// @Router /menu/best [get]
func (h *MenuHandler) BestOrdered(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	views, err := h.menuQueries.BestOrdered(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromMenuItemViews(views))
}

// @Summary Get menu item
// @Description Get a menu item with its rating aggregates
// @Tags menu
// @Produce json
// @Param id path string true "Menu item ID"
// @Success 200 {object} resdto.MenuItemResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /menu/{id} [get]
func (h *MenuHandler) GetMenuItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid menu item ID format",
		})
		return
	}

	view, err := h.menuQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrViewNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Menu item not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromMenuItemView(view))
}

// @Summary Create menu item
// @Description Staff creation of a catalog item
// @Tags menu
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.MenuItemRequest true "Menu item request"
// @Success 201 {object} resdto.MenuItemResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /menu [post]
func (h *MenuHandler) CreateMenuItem(c *gin.Context) {
	var req reqdto.MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.menuCommands.CreateItem(c.Request.Context(), req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrMenuValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Menu item validation failed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromMenuItemView(view))
}

// @Summary Update menu item
// @Description Staff update of a catalog item
// @Tags menu
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Menu item ID"
// @Param request body reqdto.MenuItemRequest true "Menu item request"
// @Success 200 {object} resdto.MenuItemResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /menu/{id} [put]
func (h *MenuHandler) UpdateMenuItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid menu item ID format",
		})
		return
	}

	var req reqdto.MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.menuCommands.UpdateItem(c.Request.Context(), id, req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrMenuItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Menu item not found",
			})
		case errors.Is(err, commands.ErrMenuValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Menu item validation failed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromMenuItemView(view))
}

// @Summary Delete menu item
// @Description Staff removal of a catalog item; past order lines keep their snapshots
// @Tags menu
// @Security BearerAuth
// @Param id path string true "Menu item ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /menu/{id} [delete]
func (h *MenuHandler) DeleteMenuItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid menu item ID format",
		})
		return
	}

	if err := h.menuCommands.DeleteItem(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, commands.ErrMenuItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Menu item not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Set availability
// @Description Staff toggle of a menu item's availability
// @Tags menu
// @Accept json
// @Security BearerAuth
// @Param id path string true "Menu item ID"
// @Param request body reqdto.SetFlagRequest true "Flag request"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /menu/{id}/availability [patch]
func (h *MenuHandler) SetAvailability(c *gin.Context) {
	h.setFlag(c, h.menuCommands.SetAvailability)
}

// @Summary Set featured
// @Description Staff toggle of a menu item's featured flag
// @Tags menu
// @Accept json
// @Security BearerAuth
// @Param id path string true "Menu item ID"
// @Param request body reqdto.SetFlagRequest true "Flag request"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /menu/{id}/featured [patch]
func (h *MenuHandler) SetFeatured(c *gin.Context) {
	h.setFlag(c, h.menuCommands.SetFeatured)
}

func (h *MenuHandler) setFlag(c *gin.Context, apply func(ctx context.Context, id uuid.UUID, value bool) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid menu item ID format",
		})
		return
	}

	var req reqdto.SetFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := apply(c.Request.Context(), id, *req.Value); err != nil {
		switch {
		case errors.Is(err, commands.ErrMenuItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Menu item not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
