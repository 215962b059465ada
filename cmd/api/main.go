package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"littlelemon/internal/config"
	"littlelemon/internal/handler"
	"littlelemon/internal/infra/db"
	"littlelemon/internal/infra/events"
	infraRepo "littlelemon/internal/infra/repository"
	"littlelemon/internal/logging"
	"littlelemon/internal/server"
	"littlelemon/internal/telemetry"
	"littlelemon/internal/usecase"
	auth "littlelemon/internal/usecase/auth_usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	if err := run(); err != nil {
		slog.Error("api exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// .env は無くてもよい（本番は環境変数）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//テレメトリ
	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownMeter(context.Background()) }()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.DBAutoMigrate {
		if err := db.AutoMigrate(gormDB); err != nil {
			return err
		}
		logger.Info("auto migrate done")
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	menuRepo := infraRepo.NewMenuItemGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	publisher, err := events.New(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, auth.DefaultAccessTTL)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, clock)
	catalogUC := usecase.NewCatalogUsecase(menuRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, menuRepo, clock)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, orderItemRepo, publisher, idGen, clock, logger)
	rosterUC := usecase.NewRosterUsecase(txm, userRepo, clock)
	auditUC := usecase.NewAuditUsecase(auditRepo)

	if cfg.AdminUsername != "" {
		if err := bootstrapSuperAdmin(ctx, rosterUC, cfg.AdminUsername, logger); err != nil {
			return err
		}
	}

	//Handler生成
	e := server.New(cfg, logger, userRepo, server.Handlers{
		Auth:   handler.NewAuthHandler(registerUC, loginUC),
		Menu:   handler.NewMenuHandler(catalogUC),
		Cart:   handler.NewCartHandler(cartUC),
		Order:  handler.NewOrderHandler(orderUC),
		Roster: handler.NewRosterHandler(rosterUC),
		Audit:  handler.NewAuditHandler(auditUC),
		Health: handler.NewHealthHandler(sqlDB),
	}, metricsHandler)

	return server.Run(ctx, cfg.Addr(), e, logger)
}

// ADMIN_USERNAME のユーザーを管理者にする。未登録なら登録後の再起動を待つ。
func bootstrapSuperAdmin(ctx context.Context, roster *usecase.RosterUsecase, username string, logger *slog.Logger) error {
	admin, err := roster.GrantSuperAdmin(ctx, username)
	if usecase.IsKind(err, usecase.KindNotFound) {
		logger.Warn("admin user not registered yet", slog.String("username", username))
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("super admin ready", slog.Int64("user_id", admin.ID))
	return nil
}
