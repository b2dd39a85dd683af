package dto

import (
	"github.com/rafabene/pharmacy-authz/internal/domain/permissions"
	"github.com/rafabene/pharmacy-authz/internal/services"
)

// NavigationCheckRequest pede a decisão dos guards para um caminho do SPA
type NavigationCheckRequest struct {
	Path string `json:"path" binding:"required,startswith=/,max=2048"`
}

// RedirectResponse é a instrução de redirecionamento de uma negação
type RedirectResponse struct {
	Kind  string            `json:"kind" example:"login"`
	Path  string            `json:"path" example:"/login"`
	URL   string            `json:"url" example:"/login?returnUrl=%2Fdashboard"`
	Query map[string]string `json:"query,omitempty"`
}

// NavigationCheckResponse é o resultado do "can activate" do roteador
type NavigationCheckResponse struct {
	Allowed  bool              `json:"allowed"`
	Guard    string            `json:"guard,omitempty" example:"route"`
	Reason   string            `json:"reason,omitempty" example:"unauthenticated"`
	Redirect *RedirectResponse `json:"redirect,omitempty"`
}

// ToNavigationCheckResponse converte a decisão dos guards
func ToNavigationCheckResponse(d services.Decision) NavigationCheckResponse {
	response := NavigationCheckResponse{
		Allowed: d.Allowed,
		Guard:   d.Guard,
		Reason:  string(d.Reason),
	}

	if d.Redirect != nil {
		query := make(map[string]string, len(d.Redirect.Query))
		for key := range d.Redirect.Query {
			query[key] = d.Redirect.Query.Get(key)
		}
		response.Redirect = &RedirectResponse{
			Kind:  string(d.Redirect.Kind),
			Path:  d.Redirect.Path,
			URL:   d.Redirect.URL(),
			Query: query,
		}
	}

	return response
}

// AccessResponse é a decisão para uma única chave
type AccessResponse struct {
	Namespace  string `json:"namespace" example:"routes"`
	Key        string `json:"key" example:"/patients/42"`
	Allowed    bool   `json:"allowed"`
	Reason     string `json:"reason" example:"pattern_match"`
	MatchedKey string `json:"matched_key,omitempty" example:"/patients/:id"`
}

// ToAccessResponse converte uma avaliação do resolver
func ToAccessResponse(key string, eval permissions.Evaluation) AccessResponse {
	return AccessResponse{
		Namespace:  string(eval.Namespace),
		Key:        key,
		Allowed:    eval.Allowed,
		Reason:     string(eval.Reason),
		MatchedKey: eval.MatchedKey,
	}
}

// BatchAccessRequest agrupa as chaves usadas para renderizar a navegação
type BatchAccessRequest struct {
	Routes   []string `json:"routes" binding:"omitempty,max=200,dive,max=2048"`
	Groups   []string `json:"groups" binding:"omitempty,max=200,dive,max=256"`
	Items    []string `json:"items" binding:"omitempty,max=200,dive,max=2048"`
	Features []string `json:"features" binding:"omitempty,max=200,dive,max=256"`
}

// ToBatchRequest converte para a entrada do serviço
func (r BatchAccessRequest) ToBatchRequest() services.BatchRequest {
	return services.BatchRequest{
		Routes:   r.Routes,
		Groups:   r.Groups,
		Items:    r.Items,
		Features: r.Features,
	}
}

// BatchAccessResponse contém as decisões indexadas pela chave consultada
type BatchAccessResponse struct {
	Role     string          `json:"role" example:"pharmacy_staff"`
	Routes   map[string]bool `json:"routes"`
	Groups   map[string]bool `json:"groups"`
	Items    map[string]bool `json:"items"`
	Features map[string]bool `json:"features"`
}

// ToBatchAccessResponse converte o resultado do serviço
func ToBatchAccessResponse(result services.BatchResult) BatchAccessResponse {
	return BatchAccessResponse{
		Role:     string(result.Role),
		Routes:   result.Routes,
		Groups:   result.Groups,
		Items:    result.Items,
		Features: result.Features,
	}
}

// HomeRouteResponse é a página inicial do principal
type HomeRouteResponse struct {
	Role string `json:"role,omitempty" example:"pharmacy_staff"`
	Path string `json:"path" example:"/invoices"`
}
