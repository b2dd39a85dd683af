package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/pharmacy-authz/internal/handlers/dto"
	"github.com/rafabene/pharmacy-authz/internal/services"
)

// NavigationHandler expõe os guards para o roteador do SPA
type NavigationHandler struct {
	navigation *services.NavigationService
	authz      *services.AuthorizationService
}

// NewNavigationHandler cria um novo NavigationHandler
func NewNavigationHandler(navigation *services.NavigationService, authz *services.AuthorizationService) *NavigationHandler {
	return &NavigationHandler{
		navigation: navigation,
		authz:      authz,
	}
}

// Check executa a cadeia de guards para um caminho
// @Summary      Decide uma navegação
// @Description  Executa os guards do caminho e retorna permissão ou o redirecionamento
// @Tags         navigation
// @Accept       json
// @Produce      json
// @Param        request  body      dto.NavigationCheckRequest  true  "Caminho solicitado"
// @Success      200      {object}  dto.NavigationCheckResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /navigation/check [post]
func (h *NavigationHandler) Check(c *gin.Context) {
	var req dto.NavigationCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.WriteProblem(c, dto.ValidationErrorResponseI18n(c, dto.BindingErrors(err)))
		return
	}

	decision := h.navigation.Check(c.Request.Context(), req.Path)
	c.JSON(http.StatusOK, dto.ToNavigationCheckResponse(decision))
}

// Root redireciona "/" para a página inicial do principal (ou para o login)
func (h *NavigationHandler) Root(c *gin.Context) {
	_, path := h.authz.HomeRoute(c.Request.Context())
	c.Redirect(http.StatusFound, path)
}
