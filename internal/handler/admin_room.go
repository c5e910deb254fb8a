package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hostelpad/hostel-booking/internal/model"
	"github.com/hostelpad/hostel-booking/internal/repository"
)

// AdminRoomHandler serves room management for admins.  Occupied is never
// writable through this surface; only the booking engine moves it.
type AdminRoomHandler struct {
	Rooms   *repository.RoomRepo
	Hostels *repository.HostelRepo
}

func NewAdminRoomHandler(rooms *repository.RoomRepo, hostels *repository.HostelRepo) *AdminRoomHandler {
	if rooms == nil || hostels == nil {
		panic("nil repository passed to NewAdminRoomHandler")
	}
	return &AdminRoomHandler{Rooms: rooms, Hostels: hostels}
}

type roomReq struct {
	Name       string `json:"name"`
	Floor      uint32 `json:"floor"`
	RoomType   string `json:"room_type"`
	PriceCents uint32 `json:"price_cents"`
	Capacity   uint32 `json:"capacity"`
}

// Create handles POST /v1/admin/hostels/:id/rooms.  New rooms start empty.
func (h *AdminRoomHandler) Create(c echo.Context) error {
	hostelID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hostel id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	ctx := c.Request().Context()
	if _, err := h.Hostels.GetByID(ctx, hostelID); err != nil {
		return repoError(c, err)
	}
	room := model.Room{
		HostelID:   hostelID,
		Name:       req.Name,
		Floor:      req.Floor,
		RoomType:   req.RoomType,
		PriceCents: req.PriceCents,
		Capacity:   req.Capacity,
	}
	if err := h.Rooms.Create(ctx, &room); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, toRoomResp(room))
}

// Update handles PATCH /v1/admin/rooms/:id.  Shrinking capacity below the
// current occupancy is refused with 409.
func (h *AdminRoomHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	ctx := c.Request().Context()
	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	room.Name = req.Name
	room.Floor = req.Floor
	room.RoomType = req.RoomType
	room.PriceCents = req.PriceCents
	room.Capacity = req.Capacity
	if err := h.Rooms.Update(ctx, room); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toRoomResp(room))
}

// Delete handles DELETE /v1/admin/rooms/:id.  Occupied rooms cannot be
// deleted.
func (h *AdminRoomHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	if err := h.Rooms.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "room deleted"})
}
