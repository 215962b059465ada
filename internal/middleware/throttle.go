package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// Throttle はユーザー単位（未ログインならIP単位）のトークンバケット。
// 返したミドルウェアを複数のグループで使うとバケットも共有する。
// perSecond が0以下なら素通し。
func Throttle(perSecond float64, burst int) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store:               store,
		IdentifierExtractor: throttleKey,
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, errorJSON("too many requests"))
		},
	})
}

func throttleKey(c echo.Context) (string, error) {
	if id, ok := c.Get(CtxUserIDKey).(int64); ok && id > 0 {
		return "user:" + strconv.FormatInt(id, 10), nil
	}
	return "ip:" + c.RealIP(), nil
}
