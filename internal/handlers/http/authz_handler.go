package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/pharmacy-authz/internal/domain/permissions"
	"github.com/rafabene/pharmacy-authz/internal/handlers/dto"
	"github.com/rafabene/pharmacy-authz/internal/services"
)

// AuthzHandler responde perguntas de acesso do principal corrente
type AuthzHandler struct {
	authz *services.AuthorizationService
}

// NewAuthzHandler cria um novo AuthzHandler
func NewAuthzHandler(authz *services.AuthorizationService) *AuthzHandler {
	return &AuthzHandler{authz: authz}
}

// RouteAccess decide o acesso a uma rota
// @Summary      Acesso a rota
// @Tags         authz
// @Produce      json
// @Param        path  query     string  true  "Caminho da rota"
// @Success      200   {object}  dto.AccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /authz/routes [get]
func (h *AuthzHandler) RouteAccess(c *gin.Context) {
	h.pathAccess(c, permissions.NamespaceRoutes)
}

// ItemAccess decide o acesso a um item de navegação
// @Summary      Acesso a item de navegação
// @Tags         authz
// @Produce      json
// @Param        path  query     string  true  "Caminho do item"
// @Success      200   {object}  dto.AccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /authz/items [get]
func (h *AuthzHandler) ItemAccess(c *gin.Context) {
	h.pathAccess(c, permissions.NamespaceItems)
}

// GroupAccess decide o acesso a um grupo de navegação
// @Summary      Acesso a grupo de navegação
// @Tags         authz
// @Produce      json
// @Param        key  path      string  true  "Chave do grupo"
// @Success      200  {object}  dto.AccessResponse
// @Router       /authz/groups/{key} [get]
func (h *AuthzHandler) GroupAccess(c *gin.Context) {
	h.keyAccess(c, permissions.NamespaceGroups)
}

// FeatureAccess decide o acesso a uma feature
// @Summary      Acesso a feature
// @Tags         authz
// @Produce      json
// @Param        key  path      string  true  "Chave da feature"
// @Success      200  {object}  dto.AccessResponse
// @Router       /authz/features/{key} [get]
func (h *AuthzHandler) FeatureAccess(c *gin.Context) {
	h.keyAccess(c, permissions.NamespaceFeatures)
}

// Batch decide várias chaves com um único snapshot do principal
// @Summary      Acessos em lote
// @Tags         authz
// @Accept       json
// @Produce      json
// @Param        request  body      dto.BatchAccessRequest  true  "Chaves por namespace"
// @Success      200      {object}  dto.BatchAccessResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /authz/batch [post]
func (h *AuthzHandler) Batch(c *gin.Context) {
	var req dto.BatchAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.WriteProblem(c, dto.ValidationErrorResponseI18n(c, dto.BindingErrors(err)))
		return
	}

	result := h.authz.EvaluateBatch(c.Request.Context(), req.ToBatchRequest())
	c.JSON(http.StatusOK, dto.ToBatchAccessResponse(result))
}

// HomeRoute retorna a página inicial do principal
// @Summary      Página inicial
// @Tags         authz
// @Produce      json
// @Success      200  {object}  dto.HomeRouteResponse
// @Router       /authz/home [get]
func (h *AuthzHandler) HomeRoute(c *gin.Context) {
	role, path := h.authz.HomeRoute(c.Request.Context())
	c.JSON(http.StatusOK, dto.HomeRouteResponse{Role: string(role), Path: path})
}

func (h *AuthzHandler) pathAccess(c *gin.Context, ns permissions.Namespace) {
	path := c.Query("path")
	if path == "" {
		dto.WriteProblem(c, dto.ValidationErrorResponseI18n(c, []dto.ValidationError{
			{Field: "path", Message: "path is required", Tag: "required"},
		}))
		return
	}

	eval := h.authz.Evaluate(c.Request.Context(), ns, path)
	c.JSON(http.StatusOK, dto.ToAccessResponse(path, eval))
}

func (h *AuthzHandler) keyAccess(c *gin.Context, ns permissions.Namespace) {
	key := c.Param("key")

	eval := h.authz.Evaluate(c.Request.Context(), ns, key)
	c.JSON(http.StatusOK, dto.ToAccessResponse(key, eval))
}
