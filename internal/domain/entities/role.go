package entities

import (
	"fmt"
	"strings"
)

// Role representa o papel único atribuído a um principal
type Role string

// Papéis do tier farmácia
const (
	RoleAccountOwner             Role = "account_owner"
	RolePharmacyManager          Role = "pharmacy_manager"
	RolePharmacyStaff            Role = "pharmacy_staff"
	RolePharmacyInventoryManager Role = "pharmacy_inventory_manager"
)

// Papéis do tier plataforma
const (
	RoleSuperAdmin   Role = "super_admin"
	RoleSupportAdmin Role = "support_admin"
	RoleSalesAdmin   Role = "sales_admin"
	RoleFinanceAdmin Role = "finance_admin"
)

// BypassRole recebe acesso a todo recurso sem consultar a tabela de permissões.
// O bypass é estrutural: o papel nunca aparece dentro de uma entrada da tabela.
const BypassRole = RoleAccountOwner

var pharmacyRoles = []Role{
	RoleAccountOwner,
	RolePharmacyManager,
	RolePharmacyStaff,
	RolePharmacyInventoryManager,
}

var platformRoles = []Role{
	RoleSuperAdmin,
	RoleSupportAdmin,
	RoleSalesAdmin,
	RoleFinanceAdmin,
}

// AllRoles retorna todos os papéis conhecidos
func AllRoles() []Role {
	roles := make([]Role, 0, len(pharmacyRoles)+len(platformRoles))
	roles = append(roles, pharmacyRoles...)
	return append(roles, platformRoles...)
}

// ParseRole converte um identificador textual em Role
func ParseRole(s string) (Role, error) {
	role := Role(strings.TrimSpace(s))
	if !role.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

// IsValid verifica se o papel é um dos papéis conhecidos
func (r Role) IsValid() bool {
	return r.IsPharmacy() || r.IsPlatform()
}

// IsBypass verifica se o papel ignora a tabela de permissões
func (r Role) IsBypass() bool {
	return r == BypassRole
}

// IsPharmacy verifica se o papel pertence ao tier farmácia
func (r Role) IsPharmacy() bool {
	for _, role := range pharmacyRoles {
		if role == r {
			return true
		}
	}
	return false
}

// IsPlatform verifica se o papel pertence ao tier plataforma
func (r Role) IsPlatform() bool {
	for _, role := range platformRoles {
		if role == r {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
