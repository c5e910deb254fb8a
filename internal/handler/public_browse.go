package handler

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/hostelpad/hostel-booking/internal/engine"
	"github.com/hostelpad/hostel-booking/internal/model"
	"github.com/hostelpad/hostel-booking/internal/repository"
)

// PublicHandler serves the unauthenticated browse endpoints: hostel
// listings and per-hostel room views.  These routes sit behind the Redis
// cache and rate limiter.
type PublicHandler struct {
	Hostels *repository.HostelRepo
	Rooms   *repository.RoomRepo
	Engine  *engine.Engine
}

func NewPublicHandler(hostels *repository.HostelRepo, rooms *repository.RoomRepo, eng *engine.Engine) *PublicHandler {
	if hostels == nil || rooms == nil || eng == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Hostels: hostels, Rooms: rooms, Engine: eng}
}

type hostelResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
	RoomCount   uint32 `json:"room_count"`
}

func toHostelResp(h model.Hostel) hostelResp {
	return hostelResp{
		ID: h.ID, Name: h.Name, Gender: string(h.Gender),
		Description: h.Description, ImageURL: h.ImageURL, RoomCount: h.RoomCount,
	}
}

type roomResp struct {
	ID         uint64 `json:"id"`
	HostelID   uint64 `json:"hostel_id"`
	Name       string `json:"name"`
	Floor      uint32 `json:"floor"`
	RoomType   string `json:"room_type"`
	PriceCents uint32 `json:"price_cents"`
	Capacity   uint32 `json:"capacity"`
	Occupied   uint32 `json:"occupied"`
	Available  bool   `json:"available"`
}

func toRoomResp(r model.Room) roomResp {
	return roomResp{
		ID: r.ID, HostelID: r.HostelID, Name: r.Name, Floor: r.Floor,
		RoomType: r.RoomType, PriceCents: r.PriceCents,
		Capacity: r.Capacity, Occupied: r.Occupied, Available: r.Available(),
	}
}

// ListHostels handles GET /v1/hostels.  The optional ?q= parameter
// filters by name substring, backing the home screen search box.
func (h *PublicHandler) ListHostels(c echo.Context) error {
	hostels, err := h.Hostels.List(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database_error"})
	}
	out := make([]hostelResp, 0, len(hostels))
	for _, hs := range hostels {
		out = append(out, toHostelResp(hs))
	}
	return c.JSON(http.StatusOK, echo.Map{"hostels": out})
}

// GetHostel handles GET /v1/hostels/:id.
func (h *PublicHandler) GetHostel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hostel id"})
	}
	hs, err := h.Hostels.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toHostelResp(hs))
}

// floorGroup is one floor's rooms in the grouped room list.
type floorGroup struct {
	Floor uint32     `json:"floor"`
	Rooms []roomResp `json:"rooms"`
}

// ListRoomsByFloor handles GET /v1/hostels/:id/rooms.  Rooms come back
// grouped by floor in ascending order, the shape the room list screen
// renders directly.
func (h *PublicHandler) ListRoomsByFloor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hostel id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Hostels.GetByID(ctx, id); err != nil {
		return repoError(c, err)
	}
	rooms, err := h.Rooms.ListByHostel(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database_error"})
	}

	byFloor := make(map[uint32][]roomResp)
	for _, r := range rooms {
		byFloor[r.Floor] = append(byFloor[r.Floor], toRoomResp(r))
	}
	floors := make([]uint32, 0, len(byFloor))
	for f := range byFloor {
		floors = append(floors, f)
	}
	sort.Slice(floors, func(i, j int) bool { return floors[i] < floors[j] })

	out := make([]floorGroup, 0, len(floors))
	for _, f := range floors {
		out = append(out, floorGroup{Floor: f, Rooms: byFloor[f]})
	}
	return c.JSON(http.StatusOK, echo.Map{"hostel_id": id, "floors": out})
}

// ListAvailableRooms handles GET /v1/hostels/:id/rooms/available, backed
// by the engine's availability query.
func (h *PublicHandler) ListAvailableRooms(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hostel id"})
	}
	rooms, err := h.Engine.RoomsAvailable(c.Request().Context(), id)
	if err != nil {
		return engineError(c, err)
	}
	out := make([]roomResp, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, toRoomResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"hostel_id": id, "rooms": out})
}
