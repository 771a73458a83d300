// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"go-blog-api/config"
	"go-blog-api/db"
	"go-blog-api/handler"
	"go-blog-api/logger"
	"go-blog-api/model"
	"go-blog-api/repository"
	"go-blog-api/router"
	"go-blog-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

// App is a fully wired application.
type App struct {
	Router  http.Handler
	Auth    *service.AuthService
	Sweeper *service.RefreshTokenSweeper
}

// Dependencies are the stores the application is assembled from. Redis may
// be nil, which disables access token revocation.
type Dependencies struct {
	Users  repository.IUserRepository
	Tokens repository.ITokenRepository
	Posts  repository.IPostRepository
	Redis  *redis.Client
	Checks map[string]handler.HealthCheck
}

// New wires every layer on top of a Postgres database and an optional Redis
// client.
func New(cfg *config.Config, database *sql.DB, rdb *redis.Client) *App {
	checks := map[string]handler.HealthCheck{"database": database.PingContext}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	return Assemble(cfg, Dependencies{
		Users:  repository.NewUserRepository(database),
		Tokens: repository.NewTokenRepository(database),
		Posts:  repository.NewPostRepository(database),
		Redis:  rdb,
		Checks: checks,
	})
}

// Assemble builds services, handlers and routes from already constructed
// stores.
func Assemble(cfg *config.Config, deps Dependencies) *App {
	hasher := service.NewPasswordHasher(cfg.Auth.BcryptCost)

	var denylist service.ITokenDenylist
	if deps.Redis != nil {
		denylist = service.NewRedisDenylist(deps.Redis)
	}

	authService := service.NewAuthService(deps.Users, deps.Tokens, service.AuthOptions{
		Hasher:              hasher,
		AccessCodec:         service.NewTokenCodec([]byte(cfg.JWT.AccessSecret), cfg.JWT.AccessTTL, model.TokenUseAccess),
		RefreshCodec:        service.NewTokenCodec([]byte(cfg.JWT.RefreshSecret), cfg.JWT.RefreshTTL, model.TokenUseRefresh),
		Denylist:            denylist,
		RotateRefreshTokens: cfg.Auth.RotateRefreshTokens,
	})
	userService := service.NewUserService(deps.Users, deps.Tokens, hasher)
	postService := service.NewPostService(deps.Posts)

	transport := handler.NewTokenTransport(cfg.Auth.TokenTransport, cfg.Auth.SecureCookies, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	r := router.NewRouter(router.Handlers{
		Auth:       handler.NewAuthHandler(authService, transport, cfg.Auth.UnifyCredentialErrors),
		Users:      handler.NewUserHandler(userService),
		Posts:      handler.NewPostHandler(postService),
		Health:     handler.NewHealthHandler(deps.Checks),
		Middleware: handler.NewAuthMiddleware(authService, transport),
		Authorizer: authService,
	})

	return &App{
		Router:  r,
		Auth:    authService,
		Sweeper: service.NewRefreshTokenSweeper(deps.Tokens, cfg.Auth.RefreshSweepInterval),
	}
}

func Run() {
	config.LoadConfig(".")
	cfg := &config.AppConfig
	logger.Init(cfg.Log.Level)
	logger.Log.Info("Configuration loaded successfully")

	if cfg.Auth.RunMigrations {
		if err := db.Migrate(cfg.DatabaseURL()); err != nil {
			logger.Log.Fatalf("Error running migrations: %v", err)
		}
	}

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb, err = db.ConnectRedis()
		if err != nil {
			logger.Log.Fatalf("Error connecting to Redis: %v", err)
		}
		defer rdb.Close()
	} else {
		logger.Log.Warn("Redis is not configured; access tokens stay valid until they expire")
	}

	application := New(cfg, database, rdb)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go application.Sweeper.Run(sweepCtx)

	// --- Start the Server with Graceful Shutdown ---
	port := cfg.Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")
	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
