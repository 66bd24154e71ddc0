package handlers

import (
	"net/http"

	"github.com/yashikaparyani/event-management-backend/internal/middleware"
	"github.com/yashikaparyani/event-management-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type DebateHandler struct {
	debateService *services.DebateService
}

func NewDebateHandler(debateService *services.DebateService) *DebateHandler {
	return &DebateHandler{debateService: debateService}
}

type CreateDebateRequest struct {
	EventID      uint     `json:"event_id" binding:"required"`
	Topics       []string `json:"topics" binding:"required,min=1"`
	Rules        []string `json:"rules"`
	TimerDefault int      `json:"timer_default"`
}

type RegisterTeamRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	MemberIDs []uint `json:"member_ids" binding:"required,min=1"`
}

// CreateDebate godoc
// @Summary      Create a debate under a Debate event
// @Tags         debates
// @Accept       json
// @Produce      json
// @Param        request body CreateDebateRequest true "Debate data"
// @Success      201 {object} models.Debate
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/debates [post]
func (h *DebateHandler) CreateDebate(c *gin.Context) {
	var req CreateDebateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	debate, err := h.debateService.CreateDebate(req.EventID, req.Topics, req.Rules, req.TimerDefault)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, debate)
}

// GetDebate godoc
// @Summary      Get a debate with its teams
// @Tags         debates
// @Param        id path int true "Debate ID"
// @Success      200 {object} models.Debate
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/debates/{id} [get]
func (h *DebateHandler) GetDebate(c *gin.Context) {
	debateID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	debate, err := h.debateService.GetDebate(debateID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, debate)
}

// RegisterTeam godoc
// @Summary      Register a team for a debate
// @Tags         debates
// @Param        id path int true "Debate ID"
// @Param        request body RegisterTeamRequest true "Team data"
// @Success      201 {object} models.DebateTeam
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/debates/{id}/teams [post]
func (h *DebateHandler) RegisterTeam(c *gin.Context) {
	debateID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req RegisterTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	team, err := h.debateService.RegisterTeam(debateID, req.Name, req.MemberIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, team)
}

// RegisterAudience godoc
// @Summary      Register as audience for a debate
// @Tags         debates
// @Param        id path int true "Debate ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/debates/{id}/audience [post]
func (h *DebateHandler) RegisterAudience(c *gin.Context) {
	debateID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	claims := middleware.Claims(c)
	if _, err := h.debateService.RegisterAudience(debateID, claims.UserID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "registered as audience"})
}

// SessionState godoc
// @Summary      Most recent debate session snapshot for an event
// @Tags         debates
// @Param        event_id query int true "Event ID"
// @Success      200 {object} services.DebateSessionState
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/debates/session [get]
func (h *DebateHandler) SessionState(c *gin.Context) {
	eventID, ok := uintQuery(c, "event_id")
	if !ok {
		return
	}

	state, err := h.debateService.SessionState(eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

// Leaderboard godoc
// @Summary      Debate scoreboard sorted by total points
// @Tags         debates
// @Param        event_id query int true "Event ID"
// @Success      200 {array} models.DebateTeamScore
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/debates/leaderboard [get]
func (h *DebateHandler) Leaderboard(c *gin.Context) {
	eventID, ok := uintQuery(c, "event_id")
	if !ok {
		return
	}

	scores, err := h.debateService.Leaderboard(eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, scores)
}
