package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"littlelemon/internal/config"
	"littlelemon/internal/handler"
	"littlelemon/internal/middleware"
	"littlelemon/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// 起動に必要なハンドラ一式
type Handlers struct {
	Auth   *handler.AuthHandler
	Menu   *handler.MenuHandler
	Cart   *handler.CartHandler
	Order  *handler.OrderHandler
	Roster *handler.RosterHandler
	Audit  *handler.AuditHandler
	Health *handler.HealthHandler
}

// New はルートを登録したechoを返す。/metrics は metrics が nil なら出さない。
func New(cfg config.Config, logger *slog.Logger, userRepo repository.UserRepository, h Handlers, metrics http.Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.ContextLogger(logger))
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())

	h.Health.RegisterRoutes(e)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
	h.Auth.RegisterRoutes(e)

	//ここから下は JWT + 最新のロール
	api := e.Group("",
		middleware.AuthJWT(cfg),
		middleware.PrincipalResolver(userRepo),
	)
	throttle := middleware.Throttle(cfg.ThrottleRate, cfg.ThrottleBurst)
	h.Menu.RegisterRoutes(api, throttle)
	h.Cart.RegisterRoutes(api)
	h.Order.RegisterRoutes(api, throttle)
	h.Roster.RegisterRoutes(api)
	h.Audit.RegisterRoutes(api)

	return e
}

// Run はシグナル等で ctx が終わるまで待ち、graceful shutdown する。
func Run(ctx context.Context, addr string, e *echo.Echo, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(e, "littlelemon-api"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
