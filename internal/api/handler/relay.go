package handler

import (
	"net/http"

	"github.com/buzlove/love-tree-backend/internal/domain"
	"github.com/buzlove/love-tree-backend/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RelayHandler handles the public relay wall endpoints.
type RelayHandler struct {
	relay *repository.RelayRepository
}

// NewRelayHandler creates a new relay handler.
func NewRelayHandler(relay *repository.RelayRepository) *RelayHandler {
	return &RelayHandler{relay: relay}
}

type createRelayRequest struct {
	Name     string `json:"name"`
	Years    string `json:"years"`
	Disease  string `json:"disease"`
	Identity string `json:"identity"`
	Text     string `json:"text" binding:"required"`
	Date     string `json:"date"`
	Color    string `json:"color"`
}

// List handles GET /api/relay, newest first.
func (h *RelayHandler) List(c *gin.Context) {
	msgs, err := h.relay.ListAll(c.Request.Context())
	if err != nil {
		failWith(c, http.StatusInternalServerError, "unable to load messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"messages": msgs,
	})
}

// Create handles POST /api/relay.
func (h *RelayHandler) Create(c *gin.Context) {
	var req createRelayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failWith(c, http.StatusBadRequest, "invalid message payload")
		return
	}

	msg := &domain.RelayMessage{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Years:    req.Years,
		Disease:  req.Disease,
		Identity: req.Identity,
		Text:     req.Text,
		Date:     req.Date,
		Color:    req.Color,
	}
	if err := h.relay.Create(c.Request.Context(), msg); err != nil {
		failWith(c, http.StatusInternalServerError, "unable to save message")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msg,
	})
}
