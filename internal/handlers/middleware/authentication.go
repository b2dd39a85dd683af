package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
	"github.com/rafabene/pharmacy-authz/internal/domain/ports"
	"github.com/rafabene/pharmacy-authz/internal/infrastructure/session"
)

// PrincipalContextKey guarda o principal também no contexto do Gin
const PrincipalContextKey = "principal"

// TokenParser converte um token em principal
type TokenParser interface {
	Parse(token string) (entities.Principal, error)
}

// Authentication resolve o principal da requisição.
// Ordem: header "Authorization: Bearer <token>", depois o cookie cookieName.
// Token ausente ou inválido resulta no principal anônimo; quem decide é o guard.
func Authentication(parser TokenParser, cookieName string, logger ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := entities.Anonymous()

		if token := extractToken(c, cookieName); token != "" {
			parsed, err := parser.Parse(token)
			if err != nil {
				logger.Debug("rejected access token", "error", err, "path", c.Request.URL.Path)
			} else {
				principal = parsed
			}
		}

		c.Set(PrincipalContextKey, principal)
		c.Request = c.Request.WithContext(session.WithPrincipal(c.Request.Context(), principal))

		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if cookieName == "" {
		return ""
	}
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return token
}
