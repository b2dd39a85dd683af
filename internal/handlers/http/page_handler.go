package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/pharmacy-authz/internal/handlers/dto"
	"github.com/rafabene/pharmacy-authz/internal/handlers/middleware"
)

// PageHandler serve o build do SPA para as navegações liberadas pelos guards.
// Sem diretório configurado, navegações liberadas recebem 204.
type PageHandler struct {
	dir string
}

// NewPageHandler cria um novo PageHandler; dir vazio desativa o shell
func NewPageHandler(dir string) *PageHandler {
	return &PageHandler{dir: dir}
}

// Assets serve arquivos estáticos existentes sem passar pelos guards.
// Requisições que não são navegações de página recebem 404.
func (h *PageHandler) Assets(c *gin.Context) {
	if !middleware.IsPageNavigation(c.Request) {
		dto.WriteProblem(c, dto.NotFoundErrorResponseI18n(c, c.Request.URL.Path))
		return
	}

	if file, ok := h.asset(c.Request.URL.Path); ok {
		c.File(file)
		c.Abort()
		return
	}

	c.Next()
}

// Shell serve o index.html do SPA
func (h *PageHandler) Shell(c *gin.Context) {
	if h.dir == "" {
		c.Status(http.StatusNoContent)
		return
	}
	c.File(filepath.Join(h.dir, "index.html"))
}

func (h *PageHandler) asset(requestPath string) (string, bool) {
	if h.dir == "" {
		return "", false
	}

	// path.Clean com "/" na frente impede sair do diretório com ".."
	clean := path.Clean("/" + requestPath)
	if clean == "/" || !strings.Contains(path.Base(clean), ".") {
		return "", false
	}

	file := filepath.Join(h.dir, filepath.FromSlash(clean))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		return "", false
	}
	return file, true
}
