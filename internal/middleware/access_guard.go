package middleware

import (
	"net/http"

	"littlelemon/internal/domain/access"

	"github.com/labstack/echo/v4"
)

// AccessGuard はルートグループ単位のロール判定（対象なし）。
// 対象ごとの判定はusecaseで行う。
func AccessGuard(action access.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFromContext(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			d := access.Authorize(p, action, nil)
			if !d.Allowed {
				return c.JSON(http.StatusForbidden, errorJSON(d.Reason))
			}
			return next(c)
		}
	}
}
