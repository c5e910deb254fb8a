package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hostelpad/hostel-booking/internal/model"
	"github.com/hostelpad/hostel-booking/internal/repository"
)

// AdminHostelHandler serves hostel management for admins.
type AdminHostelHandler struct {
	Hostels *repository.HostelRepo
}

func NewAdminHostelHandler(hostels *repository.HostelRepo) *AdminHostelHandler {
	if hostels == nil {
		panic("nil repository passed to NewAdminHostelHandler")
	}
	return &AdminHostelHandler{Hostels: hostels}
}

type hostelReq struct {
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	RoomCount   uint32 `json:"room_count"`
}

// Create handles POST /v1/admin/hostels.
func (h *AdminHostelHandler) Create(c echo.Context) error {
	var req hostelReq
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	gender, err := model.ParseGenderPolicy(req.Gender)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gender must be MALE, FEMALE or MIXED"})
	}
	hs := model.Hostel{
		Name:        req.Name,
		Gender:      gender,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		RoomCount:   req.RoomCount,
	}
	if err := h.Hostels.Create(c.Request().Context(), &hs); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, toHostelResp(hs))
}

// Update handles PATCH /v1/admin/hostels/:id.
func (h *AdminHostelHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hostel id"})
	}
	var req hostelReq
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	gender, err := model.ParseGenderPolicy(req.Gender)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gender must be MALE, FEMALE or MIXED"})
	}
	ctx := c.Request().Context()
	hs, err := h.Hostels.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	hs.Name = req.Name
	hs.Gender = gender
	hs.Description = req.Description
	hs.ImageURL = req.ImageURL
	hs.RoomCount = req.RoomCount
	if err := h.Hostels.Update(ctx, hs); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toHostelResp(hs))
}

// Delete handles DELETE /v1/admin/hostels/:id.  Deletion cascades to the
// hostel's rooms and is refused while any room has approved bookings.
func (h *AdminHostelHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hostel id"})
	}
	if err := h.Hostels.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "hostel deleted"})
}
