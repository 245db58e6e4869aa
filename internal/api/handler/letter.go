package handler

import (
	"errors"
	"net/http"

	"github.com/buzlove/love-tree-backend/internal/domain"
	"github.com/buzlove/love-tree-backend/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LetterHandler handles the device-scoped letter endpoints.
type LetterHandler struct {
	letters *repository.LetterRepository
}

// NewLetterHandler creates a new letter handler.
func NewLetterHandler(letters *repository.LetterRepository) *LetterHandler {
	return &LetterHandler{letters: letters}
}

type createLetterRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Date    string `json:"date" binding:"required"`
	Color   string `json:"color" binding:"required"`
}

// List handles GET /api/letters for the calling device.
func (h *LetterHandler) List(c *gin.Context) {
	device := deviceID(c)
	if device == "" {
		failWith(c, http.StatusBadRequest, "missing device identifier")
		return
	}

	letters, err := h.letters.ListByDevice(c.Request.Context(), device)
	if err != nil {
		failWith(c, http.StatusInternalServerError, "unable to load letters")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"letters": letters,
	})
}

// Create handles POST /api/letters, binding the letter to the device.
func (h *LetterHandler) Create(c *gin.Context) {
	device := deviceID(c)
	if device == "" {
		failWith(c, http.StatusBadRequest, "missing device identifier")
		return
	}

	var req createLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failWith(c, http.StatusBadRequest, "invalid letter payload")
		return
	}

	letter := &domain.Letter{
		ID:       uuid.New().String(),
		DeviceID: device,
		Title:    req.Title,
		Content:  req.Content,
		Date:     req.Date,
		Color:    req.Color,
	}
	if err := h.letters.Create(c.Request.Context(), letter); err != nil {
		failWith(c, http.StatusInternalServerError, "unable to save letter")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"letter":  letter,
	})
}

// Get handles GET /api/letters/:id. A letter belonging to another device is
// hidden behind a 403, not leaked.
func (h *LetterHandler) Get(c *gin.Context) {
	letter, err := h.letters.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		failWith(c, http.StatusNotFound, "letter not found")
		return
	}
	if err != nil {
		failWith(c, http.StatusInternalServerError, "unable to load letter")
		return
	}

	if device := deviceID(c); device != "" && letter.DeviceID != device {
		failWith(c, http.StatusForbidden, "letter belongs to another device")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"letter":  letter,
	})
}
