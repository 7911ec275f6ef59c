// Package handlers contains the gin handlers for the REST surface. Handlers
// bind and decode requests, delegate to the service layer, and render
// AppError codes with their HTTP status.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rajanishsd/Zivohealthv4-sub001/internal/dto"
	"github.com/rajanishsd/Zivohealthv4-sub001/internal/repository"
	apperrors "github.com/rajanishsd/Zivohealthv4-sub001/pkg/errors"
)

// ReminderAPI is the slice of the reminder service the handlers use.
type ReminderAPI interface {
	Enqueue(ctx context.Context, req dto.CreateReminderRequest) (*dto.EnqueueResponse, error)
	GetByID(id uuid.UUID) (*dto.ReminderDTO, error)
	List(params repository.ReminderListParams) ([]dto.ReminderDTO, error)
	Update(id uuid.UUID, req dto.UpdateReminderRequest) (*dto.ReminderDTO, error)
	Delete(id uuid.UUID) error
	Acknowledge(id uuid.UUID) error
}

// ReminderHandler serves the /reminders routes.
type ReminderHandler struct {
	service ReminderAPI
}

func NewReminderHandler(service ReminderAPI) *ReminderHandler {
	return &ReminderHandler{service: service}
}

// Enqueue accepts a creation request and publishes it to the input queue.
// The row itself is created asynchronously by the ingestion worker.
func (h *ReminderHandler) Enqueue(c *gin.Context) {
	var req dto.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ValidationError("Invalid request body"))
		return
	}

	resp, err := h.service.Enqueue(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List returns reminders matching the query filters.
func (h *ReminderHandler) List(c *gin.Context) {
	params := repository.ReminderListParams{
		UserID: c.Query("user_id"),
		Status: c.Query("status"),
	}

	if raw := c.Query("start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, apperrors.ValidationError("start must be an RFC3339 timestamp"))
			return
		}
		params.From = &t
	}
	if raw := c.Query("end"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, apperrors.ValidationError("end must be an RFC3339 timestamp"))
			return
		}
		params.To = &t
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, apperrors.ValidationError("limit must be a non-negative integer"))
			return
		}
		params.Limit = n
	}

	reminders, err := h.service.List(params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminders)
}

// Get returns a single reminder by id.
func (h *ReminderHandler) Get(c *gin.Context) {
	id, ok := reminderID(c)
	if !ok {
		return
	}

	reminder, err := h.service.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminder)
}

// Update applies a partial update to a reminder.
func (h *ReminderHandler) Update(c *gin.Context) {
	id, ok := reminderID(c)
	if !ok {
		return
	}

	var req dto.UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ValidationError("Invalid request body"))
		return
	}

	reminder, err := h.service.Update(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminder)
}

// Delete removes a reminder permanently.
func (h *ReminderHandler) Delete(c *gin.Context) {
	id, ok := reminderID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Acknowledge marks a reminder acknowledged by the user.
func (h *ReminderHandler) Acknowledge(c *gin.Context) {
	id, ok := reminderID(c)
	if !ok {
		return
	}

	if err := h.service.Acknowledge(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AckResponse{Acknowledged: true})
}

// reminderID parses the :id path parameter, rendering a validation error on
// malformed input.
func reminderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.ValidationError("id must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}
