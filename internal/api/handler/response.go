package handler

import (
	"net/http"

	"github.com/buzlove/love-tree-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// headerDeviceID carries the client-generated device identifier. Handlers
// read it once and pass it down as an explicit argument; deeper layers
// never touch request state.
const headerDeviceID = "X-Device-Id"

func deviceID(c *gin.Context) string {
	return c.GetHeader(headerDeviceID)
}

// fail writes the error envelope with a status derived from the error's
// kind. Clients get the step-category message, never raw vendor payloads.
func fail(c *gin.Context, err error) {
	c.JSON(statusFor(service.KindOf(err)), gin.H{
		"success": false,
		"error":   service.MessageOf(err),
	})
}

func failWith(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   msg,
	})
}

func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindInvalidInput, service.KindAudioTooLong:
		return http.StatusBadRequest
	case service.KindUnintelligible:
		return http.StatusUnprocessableEntity
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindQuota:
		return http.StatusServiceUnavailable
	case service.KindAuth, service.KindConfig, service.KindStorage:
		return http.StatusInternalServerError
	default:
		// vendor and transport failures are upstream problems
		return http.StatusBadGateway
	}
}
