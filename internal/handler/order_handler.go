package handler

import (
	"net/http"
	"strconv"
	"time"

	"littlelemon/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// PATCH/PUT 共通。PATCH は省略したフィールドを変更しない。
type OrderUpdateRequest struct {
	Status         *int   `json:"status"`
	DeliveryCrewID *int64 `json:"delivery_crew_id"`
}

func (h *OrderHandler) RegisterRoutes(g *echo.Group, mws ...echo.MiddlewareFunc) {
	orders := g.Group("/orders", mws...)
	orders.GET("", h.list)
	orders.POST("", h.create)
	orders.GET("/:id", h.detail)
	orders.PATCH("/:id", h.patch)
	orders.PUT("/:id", h.replace)
	orders.DELETE("/:id", h.delete)
}

func (h *OrderHandler) create(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.CreateFromCart(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	in, msg := parseOrderListQuery(c)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
	}

	out, err := h.uc.List(c.Request().Context(), p, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// クエリの形式エラーはここで400、値の妥当性はusecaseで見る。
func parseOrderListQuery(c echo.Context) (usecase.OrderListInput, string) {
	var in usecase.OrderListInput
	var err error

	if in.Page, err = queryInt(c, "page", 0); err != nil {
		return in, "invalid page"
	}
	if in.Limit, err = queryInt(c, "limit", 0); err != nil {
		return in, "invalid limit"
	}
	if v := c.QueryParam("status"); v != "" {
		s, err := strconv.Atoi(v)
		if err != nil {
			return in, "invalid status"
		}
		in.Status = &s
	}
	if v := c.QueryParam("min_total"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return in, "invalid min_total"
		}
		in.MinTotal = &d
	}
	if v := c.QueryParam("max_total"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return in, "invalid max_total"
		}
		in.MaxTotal = &d
	}
	if v := c.QueryParam("from"); v != "" {
		t, ok := parseDateParam(v, false)
		if !ok {
			return in, "invalid from"
		}
		in.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, ok := parseDateParam(v, true)
		if !ok {
			return in, "invalid to"
		}
		in.To = &t
	}
	in.Sort = c.QueryParam("ordering")
	return in, ""
}

// RFC3339 か YYYY-MM-DD。日付だけの to はその日の終わりまで含める。
func parseDateParam(s string, endOfDay bool) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, true
}

func (h *OrderHandler) detail(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	items, err := h.uc.GetDetail(c.Request().Context(), p, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *OrderHandler) patch(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req OrderUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	o, err := h.uc.UpdatePartial(c.Request().Context(), p, id, usecase.OrderPatchInput{
		Status:         req.Status,
		DeliveryCrewID: req.DeliveryCrewID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) replace(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req OrderUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	o, err := h.uc.Replace(c.Request().Context(), p, id, usecase.OrderReplaceInput{
		Status:         req.Status,
		DeliveryCrewID: req.DeliveryCrewID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) delete(c echo.Context) error {
	p, ok := getPrincipal(c)
	if !ok {
		return unauthorized(c)
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), p, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
