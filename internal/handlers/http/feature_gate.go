package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/rafabene/pharmacy-authz/internal/domain/errors"
	"github.com/rafabene/pharmacy-authz/internal/domain/permissions"
	"github.com/rafabene/pharmacy-authz/internal/handlers/dto"
	"github.com/rafabene/pharmacy-authz/internal/services"
)

// RequireFeature protege endpoints da API por uma feature da tabela.
// Anônimo recebe 401; sem farmácia ativa ou sem a feature, 403.
func RequireFeature(authz *services.AuthorizationService, feature string) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := authz.Authorize(c.Request.Context(), permissions.NamespaceFeatures, feature)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, domainerrors.ErrUnauthenticated):
			dto.WriteProblem(c, dto.UnauthenticatedErrorResponseI18n(c))
		case errors.Is(err, domainerrors.ErrNoPharmacy):
			dto.WriteProblem(c, dto.NoPharmacyErrorResponseI18n(c))
		case errors.Is(err, domainerrors.ErrForbidden):
			dto.WriteProblem(c, dto.ForbiddenErrorResponseI18n(c, feature))
		default:
			dto.WriteProblem(c, dto.InternalErrorResponseI18n(c))
		}
	}
}
