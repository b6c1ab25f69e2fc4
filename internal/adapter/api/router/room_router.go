package router

import (
	"github.com/labstack/echo/v4"

	"ruangchat/internal/adapter/api/handler"
	"ruangchat/internal/adapter/api/middleware"
)

func SetupRoomRouter(e *echo.Echo, roomHandler *handler.RoomHandler, authMiddleware *middleware.AuthMiddleware) {
	roomGroup := e.Group("/v1/rooms")
	roomGroup.Use(authMiddleware.Authenticate)

	roomGroup.POST("", roomHandler.CreateRoom)               // POST /v1/rooms - Create new room
	roomGroup.GET("", roomHandler.ListRooms)                 // GET /v1/rooms - Current room directory
	roomGroup.GET("/:id/viewers", roomHandler.ActiveViewers) // GET /v1/rooms/:id/viewers - Unexpired viewer count
}
