package handler

import (
	"net/http"

	"github.com/buzlove/love-tree-backend/internal/geo"
	"github.com/buzlove/love-tree-backend/internal/repository"
	"github.com/gin-gonic/gin"
)

// MapPointHandler handles the visitor map endpoints.
type MapPointHandler struct {
	points *repository.MapPointRepository
}

// NewMapPointHandler creates a new map point handler.
func NewMapPointHandler(points *repository.MapPointRepository) *MapPointHandler {
	return &MapPointHandler{points: points}
}

type addLocationRequest struct {
	Country  string `json:"country" binding:"required"`
	Province string `json:"province" binding:"required"`
}

// ListAll handles GET /api/map/all.
func (h *MapPointHandler) ListAll(c *gin.Context) {
	points, err := h.points.ListAll(c.Request.Context())
	if err != nil {
		failWith(c, http.StatusInternalServerError, "unable to load map points")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"points":  points,
	})
}

// Add handles POST /api/map/add: resolves the place locally, bumps or
// creates its point, and returns the refreshed point list.
func (h *MapPointHandler) Add(c *gin.Context) {
	var req addLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failWith(c, http.StatusBadRequest, "country and province are required")
		return
	}

	lat, lng, ok := geo.Coordinates(req.Country, req.Province)
	if !ok {
		failWith(c, http.StatusBadRequest, "unsupported country or province")
		return
	}

	ctx := c.Request.Context()
	if err := h.points.AddVisit(ctx, req.Country, req.Province, lat, lng); err != nil {
		failWith(c, http.StatusInternalServerError, "unable to save location")
		return
	}

	points, err := h.points.ListAll(ctx)
	if err != nil {
		failWith(c, http.StatusInternalServerError, "unable to load map points")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"points":  points,
	})
}
