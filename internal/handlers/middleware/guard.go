package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/pharmacy-authz/internal/services"
)

// GinNavigator executa os redirecionamentos dos guards como respostas 302
type GinNavigator struct {
	c     *gin.Context
	paths services.RedirectPaths
}

// NewGinNavigator cria um navigator para a requisição corrente
func NewGinNavigator(c *gin.Context, paths services.RedirectPaths) *GinNavigator {
	return &GinNavigator{c: c, paths: paths}
}

func (n *GinNavigator) NavigateTo(path string, query url.Values) {
	target := path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	n.c.Redirect(http.StatusFound, target)
}

func (n *GinNavigator) RedirectToLogin(returnURL string) {
	n.NavigateTo(n.paths.Login, url.Values{services.QueryReturnURL: {returnURL}})
}

func (n *GinNavigator) RedirectToAccessDenied(attemptedRoute, returnURL string) {
	n.NavigateTo(n.paths.AccessDenied, url.Values{
		services.QueryAttemptedRoute: {attemptedRoute},
		services.QueryReturnURL:      {returnURL},
	})
}

// IsPageNavigation indica se a requisição é a navegação de uma página do SPA
func IsPageNavigation(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	return r.URL.Path != "/api" && !strings.HasPrefix(r.URL.Path, "/api/")
}

// GuardPages executa a cadeia de guards nas navegações de página.
// Na negação responde 302 para o destino do guard e interrompe a cadeia do Gin.
func GuardPages(navigation *services.NavigationService, paths services.RedirectPaths) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsPageNavigation(c.Request) {
			c.Next()
			return
		}

		if !navigation.Navigate(c.Request.Context(), c.Request.URL.RequestURI(), NewGinNavigator(c, paths)) {
			c.Abort()
			return
		}

		c.Next()
	}
}
