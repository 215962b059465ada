package handler

import (
	"net/http"

	"littlelemon/internal/domain/access"
	"littlelemon/internal/domain/model"
	"littlelemon/internal/middleware"
	"littlelemon/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /groups/{manager,delivery-crew}/users
type RosterHandler struct {
	uc *usecase.RosterUsecase
}

func NewRosterHandler(uc *usecase.RosterUsecase) *RosterHandler {
	return &RosterHandler{uc: uc}
}

type assignMemberRequest struct {
	UserID int64 `json:"user_id"`
}

// ★ /groups 配下は管理者限定
func (h *RosterHandler) RegisterRoutes(g *echo.Group) {
	groups := g.Group("/groups", middleware.AccessGuard(access.ActionRosterManage))
	groups.GET("/:group/users", h.list)
	groups.POST("/:group/users", h.assign)
	groups.DELETE("/:group/users/:id", h.remove)
}

func groupRole(c echo.Context) (model.Role, bool) {
	return model.ParseStaffRole(c.Param("group"))
}

func (h *RosterHandler) list(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	role, ok := groupRole(c)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "group not found"})
	}

	out, err := h.uc.ListMembers(c.Request().Context(), p, role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RosterHandler) assign(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	role, ok := groupRole(c)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "group not found"})
	}

	var req assignMemberRequest
	if err := c.Bind(&req); err != nil || req.UserID <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
	}

	out, err := h.uc.Assign(c.Request().Context(), p, role, req.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *RosterHandler) remove(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}
	role, ok := groupRole(c)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "group not found"})
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
	}

	if err := h.uc.Remove(c.Request().Context(), p, role, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "removed from group"})
}
