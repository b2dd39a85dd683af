package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/pharmacy-authz/internal/domain/permissions"
)

// HealthResponse descreve a instância e a tabela de permissões carregada
type HealthResponse struct {
	Status           string         `json:"status" example:"ok"`
	Env              string         `json:"env" example:"development"`
	TableFingerprint string         `json:"table_fingerprint"`
	Entries          map[string]int `json:"entries"`
}

// HealthHandler responde o health check
type HealthHandler struct {
	env   string
	table *permissions.Table
}

// NewHealthHandler cria um novo HealthHandler
func NewHealthHandler(env string, table *permissions.Table) *HealthHandler {
	return &HealthHandler{env: env, table: table}
}

// Health retorna o estado da instância
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	entries := make(map[string]int, 4)
	for _, ns := range permissions.Namespaces() {
		entries[string(ns)] = h.table.Len(ns)
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:           "ok",
		Env:              h.env,
		TableFingerprint: h.table.Fingerprint(),
		Entries:          entries,
	})
}
