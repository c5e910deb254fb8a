package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hostelpad/hostel-booking/internal/model"
	"github.com/hostelpad/hostel-booking/internal/repository"
)

// AdminUserHandler serves user administration: listing accounts and
// promoting or demoting roles.
type AdminUserHandler struct {
	Users *repository.UserRepo
}

func NewAdminUserHandler(users *repository.UserRepo) *AdminUserHandler {
	if users == nil {
		panic("nil repository passed to NewAdminUserHandler")
	}
	return &AdminUserHandler{Users: users}
}

type userResp struct {
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

func toUserResp(u model.User) userResp {
	return userResp{ID: u.ID, Email: u.Email, FullName: u.FullName, Phone: u.Phone, Role: string(u.Role)}
}

// List handles GET /v1/admin/users.
func (h *AdminUserHandler) List(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database_error"})
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResp(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

type updateRoleReq struct {
	Role string `json:"role"`
}

// UpdateRole handles PATCH /v1/admin/users/:id/role.  Admins cannot demote
// themselves; that would lock the last admin out.
func (h *AdminUserHandler) UpdateRole(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req updateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be USER, AGENT or ADMIN"})
	}
	if id == callerID && role != model.RoleAdmin {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot demote yourself"})
	}
	ctx := c.Request().Context()
	if err := h.Users.UpdateRole(ctx, id, role); err != nil {
		return repoError(c, err)
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}
