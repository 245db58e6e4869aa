package handler

import (
	"io"
	"net/http"

	"github.com/buzlove/love-tree-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps the buffered audio upload. 60 seconds of 16-bit
// stereo at 48kHz is ~11.5MB; 16MB leaves headroom for WAV headers.
const maxUploadBytes = 16 << 20

// MascotHandler handles the mascot endpoints.
type MascotHandler struct {
	mascots *service.MascotService
}

// NewMascotHandler creates a new mascot handler.
// Parameters:
//   - mascots: generation orchestrator and record store front.
// Returns:
//   - *MascotHandler: initialized handler.
func NewMascotHandler(mascots *service.MascotService) *MascotHandler {
	return &MascotHandler{mascots: mascots}
}

// FromAudio handles POST /api/mascot/from-audio. The multipart field
// "audio" is buffered fully in memory before the pipeline runs.
func (h *MascotHandler) FromAudio(c *gin.Context) {
	device := deviceID(c)
	if device == "" {
		failWith(c, http.StatusBadRequest, "missing device identifier")
		return
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		failWith(c, http.StatusBadRequest, "no audio supplied")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		failWith(c, http.StatusRequestEntityTooLarge, "audio too long")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		failWith(c, http.StatusBadRequest, "no audio supplied")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil || len(audio) == 0 || len(audio) > maxUploadBytes {
		failWith(c, http.StatusBadRequest, "no audio supplied")
		return
	}

	mascot, err := h.mascots.GenerateFromAudio(c.Request.Context(), device, audio)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"mascot":  mascot,
	})
}

// List handles GET /api/mascot, all records ordered by likes.
func (h *MascotHandler) List(c *gin.Context) {
	mascots, err := h.mascots.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"mascots": mascots,
	})
}

// Latest handles GET /api/mascot/latest. A device with no prior generation
// gets {success:true, mascot:null}; the sentinel is not an error.
func (h *MascotHandler) Latest(c *gin.Context) {
	device := deviceID(c)
	if device == "" {
		failWith(c, http.StatusBadRequest, "missing device identifier")
		return
	}

	mascot, err := h.mascots.Latest(c.Request.Context(), device)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"mascot":  mascot,
	})
}

// Like handles PATCH /api/mascot/:id/like.
func (h *MascotHandler) Like(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		failWith(c, http.StatusBadRequest, "missing mascot id")
		return
	}

	likes, err := h.mascots.Like(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"likes":   likes,
	})
}
