package router

import (
	"github.com/labstack/echo/v4"

	"ruangchat/internal/adapter/api/handler"
)

func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	// Token is passed as ?token= because browsers cannot set headers on the
	// websocket upgrade request.
	e.GET("/v1/ws", wsHandler.HandleWebSocket)
}
