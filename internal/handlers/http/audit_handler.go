package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/pharmacy-authz/internal/domain/ports"
	"github.com/rafabene/pharmacy-authz/internal/handlers/dto"
	"github.com/rafabene/pharmacy-authz/internal/services"
)

// AuditFeature libera a consulta da trilha de negações
const AuditFeature = "audit.view"

// AuditHandler expõe a trilha de negações
type AuditHandler struct {
	audit  *services.AuditService
	logger ports.Logger
}

// NewAuditHandler cria um novo AuditHandler
func NewAuditHandler(audit *services.AuditService, logger ports.Logger) *AuditHandler {
	return &AuditHandler{
		audit:  audit,
		logger: logger,
	}
}

// ListDenials lista as negações mais recentes
// @Summary      Trilha de negações
// @Description  Requer a feature audit.view
// @Tags         audit
// @Produce      json
// @Param        page          query     int     false  "Página (começa em 1)"
// @Param        page_size     query     int     false  "Itens por página (max 100)"
// @Param        role          query     string  false  "Filtra por papel"
// @Param        principal_id  query     string  false  "Filtra por principal"
// @Success      200           {object}  dto.ListDenialsResponse
// @Failure      400           {object}  dto.ErrorResponse
// @Failure      401           {object}  dto.ErrorResponse
// @Failure      403           {object}  dto.ErrorResponse
// @Router       /audit/denials [get]
func (h *AuditHandler) ListDenials(c *gin.Context) {
	var query dto.ListDenialsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		dto.WriteProblem(c, dto.ValidationErrorResponseI18n(c, dto.BindingErrors(err)))
		return
	}

	filters := query.ToFilters()
	denials, err := h.audit.ListDenials(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list access denials", "error", err)
		dto.WriteProblem(c, dto.InternalErrorResponseI18n(c))
		return
	}

	page, pageSize := filters.Page, filters.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	c.JSON(http.StatusOK, dto.ListDenialsResponse{
		Items:    dto.ToDenialResponses(denials),
		Page:     page,
		PageSize: pageSize,
	})
}
