package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ppldoc/superadmin-console/internal/cache"
	"github.com/ppldoc/superadmin-console/internal/config"
	"github.com/ppldoc/superadmin-console/internal/console"
	"github.com/ppldoc/superadmin-console/internal/database"
	"github.com/ppldoc/superadmin-console/internal/events"
	"github.com/ppldoc/superadmin-console/internal/handler"
	"github.com/ppldoc/superadmin-console/internal/middleware"
	"github.com/ppldoc/superadmin-console/internal/repository"
	"github.com/ppldoc/superadmin-console/internal/service"
	"github.com/ppldoc/superadmin-console/internal/session"
	"github.com/ppldoc/superadmin-console/internal/sse"
	"github.com/ppldoc/superadmin-console/internal/web"
	"github.com/ppldoc/superadmin-console/internal/worker"
	"github.com/ppldoc/superadmin-console/pkg/hms"
)

// main is the entrypoint of the hospital super-admin console.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting superadmin console")

	// 3. Connect to Redis (sessions and flashes)
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3a. Audit trail database, optional
	var (
		db        *sqlx.DB
		auditRec  service.AuditRecorder = service.NopRecorder{}
		audits    handler.AuditLister
		dbPing    handler.Pinger
		auditRepo *repository.AuditRepository
	)
	if cfg.DB.Enabled() {
		db, err = database.Connect(&cfg.DB)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.Migrate(db.DB, "file://migrations"); err != nil {
			log.Error().Err(err).Msg("migration failed")
			fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
			os.Exit(1)
		}
		log.Info().Msg("migrations completed successfully")

		auditRepo = repository.NewAuditRepository(db)
		auditRec, audits = auditRepo, auditRepo
		dbPing = handler.PingerFunc(db.PingContext)
	} else {
		log.Warn().Msg("DB_HOST not set, audit trail disabled")
	}

	// 4. Backend client and session store
	client := hms.NewClient(hms.Config{BaseURL: cfg.Backend.BaseURL, Timeout: cfg.Backend.Timeout})
	log.Info().Str("backend", client.BaseURL()).Dur("timeout", cfg.Backend.Timeout).Msg("Backend client ready")
	store := session.NewRedisStore(redisClient, cfg.Session.TTL)

	// 5. Event bus, workspaces and browser push
	bus := events.NewBus()
	manager := console.NewManager(client, cfg.PageSize, cfg.FailurePolicy)
	defer manager.Attach(bus)()
	hub := sse.NewHub()
	defer sse.NewHubNotifier(hub).Attach(bus)()

	// 6. Initialize services
	authSvc := service.NewAuthService(client, store, auditRec)
	hospitalSvc := service.NewHospitalService(client, bus, auditRec)
	superAdminSvc := service.NewSuperAdminService(client, bus, auditRec)

	// 7. Initialize handlers
	limiter := middleware.NewLoginRateLimiter(5, time.Minute)
	defer limiter.Stop()
	shell := handler.NewShell(store, manager, hub, authSvc, cfg.Session, cfg.FailurePolicy)
	handlers := &handler.Handlers{
		Health:   handler.NewHealthHandler(redisClient, dbPing, hub),
		Auth:     handler.NewAuthHandler(shell, authSvc, limiter),
		Hospital: handler.NewHospitalHandler(shell, hospitalSvc, auditRec),
		Detail:   handler.NewHospitalDetailHandler(shell, superAdminSvc, auditRec),
		API:      handler.NewAPIHandler(shell, audits),
		Validate: handler.NewValidateHandler(),
		SSE:      handler.NewSSEHandler(hub),
	}

	// 8. Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	tmpl, err := web.Templates()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse templates")
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware())
	router.SetHTMLTemplate(tmpl)
	handler.SetupRoutes(router, handlers,
		middleware.SessionMiddleware(store, cfg.Session),
		middleware.RequireSession())

	// 9. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 10. Start workers
	go worker.NewWorkspaceSweeper(manager, cfg.Worker.WorkspaceIdle, cfg.Worker.SweepInterval).Start(ctx)
	if auditRepo != nil {
		go worker.NewAuditPruneWorker(auditRepo, cfg.Worker.AuditRetention, cfg.Worker.AuditPruneInterval).Start(ctx)
	}

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers
	cancel()

	// 14. Shutdown HTTP server with timeout; open SSE streams end with it
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog global logger.
func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
