package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rafabene/pharmacy-authz/docs"
	"github.com/rafabene/pharmacy-authz/internal/domain/permissions"
	"github.com/rafabene/pharmacy-authz/internal/domain/ports"
	httphandlers "github.com/rafabene/pharmacy-authz/internal/handlers/http"
	"github.com/rafabene/pharmacy-authz/internal/handlers/middleware"
	"github.com/rafabene/pharmacy-authz/internal/infrastructure/config"
	"github.com/rafabene/pharmacy-authz/internal/infrastructure/i18n"
	"github.com/rafabene/pharmacy-authz/internal/infrastructure/logging"
	"github.com/rafabene/pharmacy-authz/internal/infrastructure/metrics"
	"github.com/rafabene/pharmacy-authz/internal/infrastructure/permissionfile"
	"github.com/rafabene/pharmacy-authz/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/pharmacy-authz/internal/infrastructure/session"
	"github.com/rafabene/pharmacy-authz/internal/services"
)

func main() {
	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Inicializar logger
	logger := logging.NewSlogLogger(cfg.Logging.Level)
	logger.Info("starting pharmacy authz",
		"env", cfg.Env,
		"version", "dev",
	)

	// Tabela de permissões: inválida impede o boot
	table, err := permissionfile.NewLoader(logger).Load(cfg.Permissions.File)
	if err != nil {
		logger.Error("invalid permission table", "error", err, "file", cfg.Permissions.File)
		log.Fatal(err)
	}
	logger.Info("permission table loaded",
		"file", cfg.Permissions.File,
		"fingerprint", table.Fingerprint(),
		"routes", table.Len(permissions.NamespaceRoutes),
		"groups", table.Len(permissions.NamespaceGroups),
		"items", table.Len(permissions.NamespaceItems),
		"features", table.Len(permissions.NamespaceFeatures),
	)

	// Inicializar i18n
	i18nService, err := i18n.NewEmbeddedService("en")
	if err != nil {
		logger.Error("failed to initialize i18n", "error", err)
		log.Fatal(err)
	}
	logger.Info("i18n initialized",
		"default_language", i18nService.GetDefaultLanguage(),
		"supported_languages", i18nService.GetSupportedLanguages(),
	)

	// Métricas
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMetrics := metrics.NewPrometheusMetrics(registry)

	// Sessão
	if cfg.JWT.Secret == "" {
		logger.Warn("JWT_SECRET not set: every request is anonymous")
	}
	tokenParser := session.NewTokenParser(cfg.JWT.Secret, cfg.JWT.Issuer)
	principals := session.NewContextProvider()

	// Trilha de auditoria (opcional)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var recorder ports.DenialRecorder = services.NopRecorder{}
	var auditService *services.AuditService
	if cfg.Audit.Enabled {
		db, err := postgres.NewDatabaseConnection(&cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			log.Fatal(err)
		}
		if err := postgres.Migrate(db); err != nil {
			logger.Error("failed to migrate database", "error", err)
			log.Fatal(err)
		}

		auditService = services.NewAuditService(postgres.NewDenialRepository(db), logger)
		recorder = auditService

		if cfg.Audit.RetentionDays > 0 {
			go purgeDenials(ctx, auditService, time.Duration(cfg.Audit.RetentionDays)*24*time.Hour, logger)
		}
	}

	// Inicializar services
	paths := services.RedirectPaths{
		Login:        cfg.Auth.LoginPath,
		AccessDenied: cfg.Auth.AccessDeniedPath,
		TenantSelect: cfg.Auth.TenantSelectPath,
	}
	resolver := permissions.NewResolver(table)
	authzService := services.NewAuthorizationService(resolver, principals, promMetrics, paths.Login)
	navigationService := services.NewNavigationService(resolver, principals, paths, recorder, promMetrics, logger)

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Middleware global para adicionar base URL ao contexto
	router.Use(func(c *gin.Context) {
		c.Set("base_url", cfg.Server.BaseURL)
		c.Next()
	})

	// Middleware i18n
	i18nMiddleware := middleware.NewI18nMiddleware(i18nService)
	router.Use(i18nMiddleware.DetectLanguage())

	// Middleware CORS
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	router.Use(middleware.RequestMetrics(promMetrics))
	router.Use(middleware.Authentication(tokenParser, cfg.Auth.CookieName, logger))

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	httphandlers.RegisterRoutes(router, httphandlers.RouterDeps{
		Authz:      authzService,
		Navigation: navigationService,
		Audit:      auditService,
		Table:      table,
		Paths:      paths,
		Env:        cfg.Env,
		SPADir:     cfg.Server.SPADir,
		Logger:     logger,
	})

	// HTTP Server
	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("server starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			log.Fatal(err)
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	navigationService.Wait()

	logger.Info("server exited")
}

// purgeDenials remove periodicamente as negações fora da retenção
func purgeDenials(ctx context.Context, audit *services.AuditService, retention time.Duration, logger ports.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		if _, err := audit.Purge(ctx, retention); err != nil {
			logger.Error("failed to purge access denials", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
