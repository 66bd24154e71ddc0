package handlers

import (
	"log"
	"net/http"

	"github.com/yashikaparyani/event-management-backend/internal/live"
	"github.com/yashikaparyani/event-management-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSHandler upgrades live-session connections. The token travels as a
// query parameter because the browser WebSocket API cannot set headers;
// identity is resolved once here and pinned to the connection.
type WSHandler struct {
	authService *services.AuthService
	directory   live.Directory
	gateway     *live.Gateway
}

func NewWSHandler(authService *services.AuthService, directory live.Directory, gateway *live.Gateway) *WSHandler {
	return &WSHandler{authService: authService, directory: directory, gateway: gateway}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *WSHandler) authenticate(c *gin.Context) *live.Identity {
	claims, err := h.authService.ValidateToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired token"})
		return nil
	}

	ident, err := h.directory.User(claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "identity lookup failed"})
		return nil
	}
	if ident == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unknown user"})
		return nil
	}
	return ident
}

// HandleQuizSocket godoc
// @Summary      Live quiz connection
// @Description  Bidirectional JSON frames {event, data} for quiz sessions
// @Tags         websocket
// @Param        token query string true "JWT"
// @Router       /ws/quiz [get]
func (h *WSHandler) HandleQuizSocket(c *gin.Context) {
	ident := h.authenticate(c)
	if ident == nil {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	h.gateway.ServeQuiz(live.NewClient(conn, *ident))
}

// HandleDebateSocket godoc
// @Summary      Live debate connection
// @Description  Bidirectional JSON frames {event, data} for debate sessions
// @Tags         websocket
// @Param        token query string true "JWT"
// @Router       /ws/debate [get]
func (h *WSHandler) HandleDebateSocket(c *gin.Context) {
	ident := h.authenticate(c)
	if ident == nil {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	h.gateway.ServeDebate(live.NewClient(conn, *ident))
}
