package handler

import (
	"github.com/labstack/echo/v4"

	"ruangchat/internal/usecase"
	"ruangchat/pkg/response"
)

type RoomHandler struct {
	roomDirectory *usecase.RoomDirectoryUseCase
	authUseCase   *usecase.AuthUseCase
}

func NewRoomHandler(roomDirectory *usecase.RoomDirectoryUseCase, authUseCase *usecase.AuthUseCase) *RoomHandler {
	return &RoomHandler{
		roomDirectory: roomDirectory,
		authUseCase:   authUseCase,
	}
}

type createRoomRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

func (h *RoomHandler) CreateRoom(c echo.Context) error {
	var req createRoomRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	user, err := h.authUseCase.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	room, err := h.roomDirectory.CreateRoom(c.Request().Context(), user, usecase.CreateRoomInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, room)
}

func (h *RoomHandler) ListRooms(c echo.Context) error {
	return response.Success(c, h.roomDirectory.Rooms())
}

func (h *RoomHandler) ActiveViewers(c echo.Context) error {
	roomID := c.Param("id")

	count, err := h.roomDirectory.ActiveViewers(c.Request().Context(), roomID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"room_id": roomID,
		"viewers": count,
	})
}
