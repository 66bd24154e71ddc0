package handlers

import (
	"net/http"

	"github.com/yashikaparyani/event-management-backend/internal/middleware"
	"github.com/yashikaparyani/event-management-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

type CreateQuizRequest struct {
	EventID     uint                     `json:"event_id" binding:"required"`
	Title       string                   `json:"title" binding:"required,min=1,max=255"`
	Description string                   `json:"description"`
	Questions   []services.QuestionInput `json:"questions" binding:"required,min=1"`
}

// CreateQuiz godoc
// @Summary      Create a quiz under an event
// @Tags         quizzes
// @Accept       json
// @Produce      json
// @Param        request body CreateQuizRequest true "Quiz data"
// @Success      201 {object} models.Quiz
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/quizzes [post]
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	quiz, err := h.quizService.CreateQuiz(req.EventID, middleware.Claims(c), req.Title, req.Description, req.Questions)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// GetQuiz godoc
// @Summary      Get a quiz with its questions (correct answers omitted)
// @Tags         quizzes
// @Param        id path int true "Quiz ID"
// @Success      200 {object} models.Quiz
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	quiz, err := h.quizService.GetQuiz(quizID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// ListByEvent godoc
// @Summary      List quizzes for an event
// @Tags         quizzes
// @Param        event_id query int true "Event ID"
// @Success      200 {array} models.Quiz
// @Router       /api/v1/quizzes [get]
func (h *QuizHandler) ListByEvent(c *gin.Context) {
	eventID, ok := uintQuery(c, "event_id")
	if !ok {
		return
	}

	quizzes, err := h.quizService.ListByEvent(eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// SessionState godoc
// @Summary      Current or most recent quiz session state
// @Tags         quizzes
// @Param        id path int true "Quiz ID"
// @Success      200 {object} services.SessionState
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/session [get]
func (h *QuizHandler) SessionState(c *gin.Context) {
	quizID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	state, err := h.quizService.SessionState(quizID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

// Leaderboard godoc
// @Summary      Quiz leaderboard recomputed from the answer log
// @Tags         quizzes
// @Param        id path int true "Quiz ID"
// @Success      200 {array} live.QuizStanding
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/leaderboard [get]
func (h *QuizHandler) Leaderboard(c *gin.Context) {
	quizID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	standings, err := h.quizService.Leaderboard(quizID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, standings)
}
