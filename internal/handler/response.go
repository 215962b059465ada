package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"littlelemon/internal/domain/model"
	"littlelemon/internal/middleware"
	"littlelemon/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func statusOf(kind usecase.ErrorKind) int {
	switch kind {
	case usecase.KindUnauthorized:
		return http.StatusUnauthorized
	case usecase.KindForbidden:
		return http.StatusForbidden
	case usecase.KindNotFound:
		return http.StatusNotFound
	case usecase.KindInvalidInput, usecase.KindEmptyCart:
		return http.StatusBadRequest
	case usecase.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// usecaseのエラーをHTTPに変換する。500だけ原因をログに出す。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if ue, ok := usecase.AsError(err); ok && ue.Kind != usecase.KindInternal {
		return c.JSON(statusOf(ue.Kind), ErrorResponse{Error: ue.Message})
	}

	//500
	middleware.LoggerFrom(c).ErrorContext(c.Request().Context(), "internal error",
		slog.String("method", c.Request().Method),
		slog.String("path", c.Path()),
		slog.Any("error", err),
	)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// middleware.PrincipalResolver が入れた値を取り出す
func getPrincipal(c echo.Context) (model.Principal, bool) {
	return middleware.PrincipalFromContext(c)
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
}

func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
