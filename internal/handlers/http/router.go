package http

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/pharmacy-authz/internal/domain/permissions"
	"github.com/rafabene/pharmacy-authz/internal/domain/ports"
	"github.com/rafabene/pharmacy-authz/internal/handlers/middleware"
	"github.com/rafabene/pharmacy-authz/internal/services"
)

// RouterDeps reúne o que as rotas HTTP precisam
type RouterDeps struct {
	Authz      *services.AuthorizationService
	Navigation *services.NavigationService
	Audit      *services.AuditService // nil desativa /api/v1/audit
	Table      *permissions.Table
	Paths      services.RedirectPaths
	Env        string
	SPADir     string
	Logger     ports.Logger
}

// RegisterRoutes registra a API, o health check e o fallback de páginas do SPA
func RegisterRoutes(router *gin.Engine, deps RouterDeps) {
	navigationHandler := NewNavigationHandler(deps.Navigation, deps.Authz)
	authzHandler := NewAuthzHandler(deps.Authz)
	healthHandler := NewHealthHandler(deps.Env, deps.Table)
	pageHandler := NewPageHandler(deps.SPADir)

	router.GET("/health", healthHandler.Health)
	router.GET("/", navigationHandler.Root)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/navigation/check", navigationHandler.Check)

		authz := v1.Group("/authz")
		{
			authz.GET("/routes", authzHandler.RouteAccess)
			authz.GET("/items", authzHandler.ItemAccess)
			authz.GET("/groups/:key", authzHandler.GroupAccess)
			authz.GET("/features/:key", authzHandler.FeatureAccess)
			authz.POST("/batch", authzHandler.Batch)
			authz.GET("/home", authzHandler.HomeRoute)
		}

		if deps.Audit != nil {
			auditHandler := NewAuditHandler(deps.Audit, deps.Logger)
			audit := v1.Group("/audit", RequireFeature(deps.Authz, AuditFeature))
			{
				audit.GET("/denials", auditHandler.ListDenials)
			}
		}
	}

	// Navegações de página: arquivos estáticos, depois guards, depois o shell do SPA
	router.NoRoute(
		pageHandler.Assets,
		middleware.GuardPages(deps.Navigation, deps.Paths),
		pageHandler.Shell,
	)
}
