package middleware

import (
	"net/http"

	"littlelemon/internal/domain/model"
	"littlelemon/internal/repository"

	"github.com/labstack/echo/v4"
)

// PrincipalResolver は AuthJWT の後に置く。
// DBから最新のユーザーとグループを引き、token_version を照合して
// model.Principal を context に入れる。ロールはリクエストをまたいで保持しない。
func PrincipalResolver(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawUserID := c.Get(CtxUserIDKey)
			userID, ok := rawUserID.(int64)
			if !ok || userID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			rawTV := c.Get(CtxTokenVersionKey)
			tv, ok := rawTV.(int)
			if !ok || tv < 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			ctx := c.Request().Context()
			user, err := userRepo.FindByID(ctx, userID)
			if err != nil || user == nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//token_version が一致しなければ強制ログアウト扱い（401）
			if user.TokenVersion != tv || !user.IsActive {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			roles, err := userRepo.RolesOf(ctx, userID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errorJSON("internal server error"))
			}

			c.Set(CtxPrincipalKey, model.Principal{
				UserID:     user.ID,
				Roles:      roles,
				SuperAdmin: user.IsSuperAdmin,
			})
			return next(c)
		}
	}
}

func PrincipalFromContext(c echo.Context) (model.Principal, bool) {
	p, ok := c.Get(CtxPrincipalKey).(model.Principal)
	if !ok || p.UserID <= 0 {
		return model.Principal{}, false
	}
	return p, true
}
