package permissions

import "github.com/rafabene/pharmacy-authz/internal/domain/entities"

// homeRoutes é a rota inicial de cada papel.
// É um padrão de UX, não uma decisão de autorização.
var homeRoutes = map[entities.Role]string{
	entities.RoleAccountOwner:             "/dashboard",
	entities.RolePharmacyManager:          "/dashboard",
	entities.RolePharmacyStaff:            "/invoices",
	entities.RolePharmacyInventoryManager: "/inventory",
	entities.RoleSuperAdmin:               "/platform",
	entities.RoleSupportAdmin:             "/platform/support",
	entities.RoleSalesAdmin:               "/platform/sales",
	entities.RoleFinanceAdmin:             "/platform/finance",
}

// HomeRoute retorna a rota inicial do papel; false para papéis desconhecidos
func HomeRoute(role entities.Role) (string, bool) {
	path, ok := homeRoutes[role]
	return path, ok
}
