package handlers

import (
	"net/http"
	"time"

	"github.com/yashikaparyani/event-management-backend/internal/middleware"
	"github.com/yashikaparyani/event-management-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type EventRequest struct {
	Name          string    `json:"name" binding:"required,min=1,max=255"`
	Type          string    `json:"type" binding:"required"`
	Description   string    `json:"description"`
	Venue         string    `json:"venue"`
	CoordinatorID uint      `json:"coordinator_id" binding:"required"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
}

type EventUpdateRequest struct {
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

type JoinEventRequest struct {
	JoinCode string `json:"join_code" binding:"required"`
}

// CreateEvent godoc
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request body EventRequest true "Event data"
// @Success      201 {object} models.Event
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	event, err := h.eventService.CreateEvent(services.EventInput{
		Name:          req.Name,
		Type:          req.Type,
		Description:   req.Description,
		Venue:         req.Venue,
		CoordinatorID: req.CoordinatorID,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// ListEvents godoc
// @Summary      List events
// @Tags         events
// @Produce      json
// @Success      200 {array} models.Event
// @Router       /api/v1/events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.eventService.ListEvents()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetEvent godoc
// @Summary      Get one event
// @Tags         events
// @Param        id path int true "Event ID"
// @Success      200 {object} models.Event
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.GetEvent(eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, event)
}

// UpdateEvent godoc
// @Summary      Update an event
// @Tags         events
// @Param        id path int true "Event ID"
// @Param        request body EventUpdateRequest true "Fields to update"
// @Success      200 {object} models.Event
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/events/{id} [put]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	eventID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req EventUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	event, err := h.eventService.UpdateEvent(eventID, middleware.Claims(c), services.EventInput{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Venue:       req.Venue,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, event)
}

// JoinEvent godoc
// @Summary      Register for an event by join code
// @Tags         events
// @Param        request body JoinEventRequest true "Join code"
// @Success      200 {object} models.Event
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/events/join [post]
func (h *EventHandler) JoinEvent(c *gin.Context) {
	var req JoinEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	claims := middleware.Claims(c)
	event, err := h.eventService.RegisterByCode(req.JoinCode, claims.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, event)
}

// Dashboard godoc
// @Summary      Event dashboard summary
// @Tags         events
// @Param        id path int true "Event ID"
// @Success      200 {object} services.EventDashboard
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/events/{id}/dashboard [get]
func (h *EventHandler) Dashboard(c *gin.Context) {
	eventID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	dashboard, err := h.eventService.Dashboard(eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
