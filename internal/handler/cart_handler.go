package handler

import (
	"net/http"

	"littlelemon/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cart/menu-items のHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartLineRequest struct {
	MenuItemID int64 `json:"menuitem_id"`
	Quantity   int64 `json:"quantity"`
}

type clearCartResponse struct {
	Message string `json:"message"`
	Removed int64  `json:"removed"`
}

func (h *CartHandler) RegisterRoutes(g *echo.Group) {
	cart := g.Group("/cart/menu-items")
	cart.GET("", h.list)
	cart.POST("", h.add)
	cart.DELETE("", h.clear)
	cart.DELETE("/:id", h.deleteLine)
}

func (h *CartHandler) list(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.ListCart(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) add(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	var req AddCartLineRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	line, err := h.uc.AddLine(c.Request().Context(), p, usecase.AddLineInput{
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, line)
}

func (h *CartHandler) clear(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	n, err := h.uc.ClearCart(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, clearCartResponse{Message: "cart cleared", Removed: n})
}

func (h *CartHandler) deleteLine(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteLine(c.Request().Context(), p, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "cart line deleted"})
}
