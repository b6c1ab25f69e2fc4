package handler

import (
	"net/http"

	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"ruangchat/internal/adapter/api/middleware"
	ws "ruangchat/internal/infrastructure/websocket"
	"ruangchat/internal/usecase"
	"ruangchat/pkg/errors"
	"ruangchat/pkg/response"
)

type WebSocketHandler struct {
	wsManager      *ws.Manager
	authMiddleware *middleware.AuthMiddleware
	authUseCase    *usecase.AuthUseCase
	sessionDeps    ws.SessionDeps
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // You should restrict this in production
	},
}

func NewWebSocketHandler(wsManager *ws.Manager, authMiddleware *middleware.AuthMiddleware, authUseCase *usecase.AuthUseCase, sessionDeps ws.SessionDeps) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:      wsManager,
		authMiddleware: authMiddleware,
		authUseCase:    authUseCase,
		sessionDeps:    sessionDeps,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return errors.Unauthorized("Authentication required", nil)
	}

	userID, err := h.authMiddleware.GetUIDFromToken(c.Request().Context(), token)
	if err != nil {
		return errors.Unauthorized("Invalid or expired token", err)
	}

	user, err := h.authUseCase.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := ws.NewClient(uuid.New().String(), userID, conn)

	h.wsManager.Register <- client

	session := ws.NewSession(client, h.wsManager, user, h.sessionDeps)
	session.Start()

	go client.WritePump()
	go session.ReadPump()

	return nil
}
