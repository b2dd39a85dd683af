package dto

import (
	"time"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
	"github.com/rafabene/pharmacy-authz/internal/domain/repositories"
)

// ListDenialsQuery são os filtros da listagem de negações
type ListDenialsQuery struct {
	Page        int    `form:"page" binding:"omitempty,min=1,max=1000000"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Role        string `form:"role" binding:"omitempty,max=64"`
	PrincipalID string `form:"principal_id" binding:"omitempty,max=128"`
}

// ToFilters converte a query em filtros do repositório
func (q ListDenialsQuery) ToFilters() repositories.DenialFilters {
	filters := repositories.DenialFilters{
		PrincipalID: q.PrincipalID,
		Page:        q.Page,
		PageSize:    q.PageSize,
	}
	if q.Role != "" {
		role := entities.Role(q.Role)
		filters.Role = &role
	}
	return filters
}

// DenialResponse representa uma negação registrada
type DenialResponse struct {
	ID             string    `json:"id"`
	PrincipalID    string    `json:"principal_id,omitempty"`
	PrincipalEmail string    `json:"principal_email,omitempty"`
	Role           string    `json:"role,omitempty"`
	PharmacyID     string    `json:"pharmacy_id,omitempty"`
	AttemptedRoute string    `json:"attempted_route"`
	Guard          string    `json:"guard"`
	Reason         string    `json:"reason"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// ListDenialsResponse é uma página da trilha de negações
type ListDenialsResponse struct {
	Items    []DenialResponse `json:"items"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// ToDenialResponse converte uma entidade Denial para DenialResponse
func ToDenialResponse(denial *entities.Denial) DenialResponse {
	return DenialResponse{
		ID:             denial.ID,
		PrincipalID:    denial.PrincipalID,
		PrincipalEmail: denial.PrincipalEmail,
		Role:           string(denial.Role),
		PharmacyID:     denial.PharmacyID,
		AttemptedRoute: denial.AttemptedRoute,
		Guard:          denial.Guard,
		Reason:         string(denial.Reason),
		OccurredAt:     denial.OccurredAt,
	}
}

// ToDenialResponses converte uma lista de entidades Denial
func ToDenialResponses(denials []*entities.Denial) []DenialResponse {
	responses := make([]DenialResponse, len(denials))
	for i, denial := range denials {
		responses[i] = ToDenialResponse(denial)
	}
	return responses
}
