package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/dto"
	apperrors "github.com/rajanishsd/Zivohealthv4-sub001/pkg/errors"
)

// DeviceAPI is the slice of the device service the handlers use.
type DeviceAPI interface {
	Register(req dto.RegisterDeviceRequest) (*dto.DeviceTokenDTO, error)
	List(userID, platform string) ([]dto.DeviceTokenDTO, error)
}

// DeviceHandler serves the /reminders/devices routes.
type DeviceHandler struct {
	service DeviceAPI
}

func NewDeviceHandler(service DeviceAPI) *DeviceHandler {
	return &DeviceHandler{service: service}
}

// Register upserts a push token for a user+platform pair.
func (h *DeviceHandler) Register(c *gin.Context) {
	var req dto.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ValidationError("Invalid request body"))
		return
	}

	token, err := h.service.Register(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// List returns registered device tokens, optionally filtered.
func (h *DeviceHandler) List(c *gin.Context) {
	tokens, err := h.service.List(c.Query("user_id"), c.Query("platform"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}
