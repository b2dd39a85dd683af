package entities

import (
	"github.com/rafabene/pharmacy-authz/internal/domain/valueobjects"
)

// Principal é o snapshot imutável de quem está navegando.
// É lido uma única vez no início de cada decisão.
type Principal struct {
	ID         string
	Role       Role
	PharmacyID string // farmácia ativa (tenant); vazio quando nenhuma foi selecionada
	Email      valueobjects.Email
}

// Anonymous retorna um principal não autenticado
func Anonymous() Principal {
	return Principal{}
}

// Authenticated verifica se o principal possui identidade.
// Um principal autenticado pode não ter papel; nesse caso toda autorização nega.
func (p Principal) Authenticated() bool {
	return p.ID != ""
}

// EffectiveRole retorna o papel usado nas decisões de autorização.
// Principais anônimos ou com papel desconhecido não têm papel efetivo.
func (p Principal) EffectiveRole() Role {
	if !p.Authenticated() || !p.Role.IsValid() {
		return ""
	}
	return p.Role
}

// HasActivePharmacy verifica se há um tenant selecionado
func (p Principal) HasActivePharmacy() bool {
	return p.PharmacyID != ""
}
