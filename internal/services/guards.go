package services

import (
	"net/url"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
	"github.com/rafabene/pharmacy-authz/internal/domain/permissions"
	"github.com/rafabene/pharmacy-authz/internal/domain/ports"
)

// Parâmetros de query dos redirecionamentos
const (
	QueryReturnURL      = "returnUrl"
	QueryAttemptedRoute = "attemptedRoute"
)

// Nomes dos guards (usados em logs, métricas e auditoria)
const (
	GuardRoute    = "route"
	GuardPlatform = "platform"
	GuardTenant   = "tenant"
)

// RedirectPaths são os destinos dos redirecionamentos de negação
type RedirectPaths struct {
	Login        string
	AccessDenied string
	TenantSelect string
}

// Navigation é a entrada de um guard: o caminho solicitado e o snapshot do principal
type Navigation struct {
	Path      string // como veio do host, podendo conter query e fragmento
	Principal entities.Principal
}

// AttemptedRoute retorna o caminho normalizado usado na autorização
func (n Navigation) AttemptedRoute() string {
	return permissions.NormalizePath(n.Path)
}

// RedirectKind identifica o destino de uma negação
type RedirectKind string

const (
	RedirectLogin        RedirectKind = "login"
	RedirectAccessDenied RedirectKind = "access_denied"
	RedirectTenantSelect RedirectKind = "tenant_select"
)

// Redirect é a instrução de navegação de uma negação
type Redirect struct {
	Kind  RedirectKind
	Path  string
	Query url.Values
}

// URL retorna o destino com a query codificada
func (r Redirect) URL() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// Decision é o resultado de um guard: prosseguir ou redirecionar
type Decision struct {
	Allowed  bool
	Guard    string
	Reason   entities.DenialReason
	Redirect *Redirect
}

// Allow retorna uma decisão de prosseguir
func Allow() Decision {
	return Decision{Allowed: true}
}

// Apply executa o redirecionamento no host de navegação; decisões ALLOW não fazem nada
func (d Decision) Apply(nav ports.Navigator) {
	if d.Allowed || d.Redirect == nil {
		return
	}

	returnURL := d.Redirect.Query.Get(QueryReturnURL)
	switch d.Redirect.Kind {
	case RedirectLogin:
		nav.RedirectToLogin(returnURL)
	case RedirectAccessDenied:
		nav.RedirectToAccessDenied(d.Redirect.Query.Get(QueryAttemptedRoute), returnURL)
	default:
		nav.NavigateTo(d.Redirect.Path, d.Redirect.Query)
	}
}

// Guard decide se uma navegação pode prosseguir.
// Guards são funções puras do snapshot: não leem sessão nem fazem I/O.
type Guard interface {
	Check(nav Navigation) Decision
}

// GuardFunc adapta uma função comum para Guard
type GuardFunc func(nav Navigation) Decision

func (f GuardFunc) Check(nav Navigation) Decision {
	return f(nav)
}

// Chain executa os guards da esquerda para a direita.
// A primeira negação interrompe a cadeia: nenhum guard seguinte é invocado.
func Chain(guards ...Guard) Guard {
	return GuardFunc(func(nav Navigation) Decision {
		for _, g := range guards {
			if d := g.Check(nav); !d.Allowed {
				return d
			}
		}
		return Allow()
	})
}

func (p RedirectPaths) login(guard string, nav Navigation) Decision {
	return Decision{
		Guard:  guard,
		Reason: entities.DenialUnauthenticated,
		Redirect: &Redirect{
			Kind:  RedirectLogin,
			Path:  p.Login,
			Query: url.Values{QueryReturnURL: {nav.Path}},
		},
	}
}

func (p RedirectPaths) accessDenied(guard string, nav Navigation) Decision {
	return Decision{
		Guard:  guard,
		Reason: entities.DenialUnauthorized,
		Redirect: &Redirect{
			Kind: RedirectAccessDenied,
			Path: p.AccessDenied,
			Query: url.Values{
				QueryAttemptedRoute: {nav.AttemptedRoute()},
				QueryReturnURL:      {nav.Path},
			},
		},
	}
}

func (p RedirectPaths) tenantSelect(guard string, nav Navigation) Decision {
	return Decision{
		Guard:  guard,
		Reason: entities.DenialNoPharmacy,
		Redirect: &Redirect{
			Kind:  RedirectTenantSelect,
			Path:  p.TenantSelect,
			Query: url.Values{QueryReturnURL: {nav.Path}},
		},
	}
}

// RouteGuard autoriza a navegação pela tabela de rotas
type RouteGuard struct {
	resolver *permissions.Resolver
	paths    RedirectPaths
}

func NewRouteGuard(resolver *permissions.Resolver, paths RedirectPaths) *RouteGuard {
	return &RouteGuard{resolver: resolver, paths: paths}
}

func (g *RouteGuard) Check(nav Navigation) Decision {
	if !nav.Principal.Authenticated() {
		return g.paths.login(GuardRoute, nav)
	}

	eval := g.resolver.Evaluate(permissions.NamespaceRoutes, nav.Principal.EffectiveRole(), nav.Path)
	if !eval.Allowed {
		return g.paths.accessDenied(GuardRoute, nav)
	}
	return Allow()
}

// PlatformGuard restringe áreas da plataforma aos papéis do tier plataforma.
// O papel de bypass é da farmácia e não entra aqui.
type PlatformGuard struct {
	paths RedirectPaths
}

func NewPlatformGuard(paths RedirectPaths) *PlatformGuard {
	return &PlatformGuard{paths: paths}
}

func (g *PlatformGuard) Check(nav Navigation) Decision {
	if !nav.Principal.Authenticated() {
		return g.paths.login(GuardPlatform, nav)
	}
	if !nav.Principal.EffectiveRole().IsPlatform() {
		return g.paths.accessDenied(GuardPlatform, nav)
	}
	return Allow()
}

// TenantGuard exige uma farmácia ativa para papéis do tier farmácia
type TenantGuard struct {
	paths RedirectPaths
}

func NewTenantGuard(paths RedirectPaths) *TenantGuard {
	return &TenantGuard{paths: paths}
}

func (g *TenantGuard) Check(nav Navigation) Decision {
	if !nav.Principal.Authenticated() {
		return g.paths.login(GuardTenant, nav)
	}
	// papel vazio ou desconhecido segue adiante e é negado pelo guard de rota
	if nav.Principal.EffectiveRole().IsPharmacy() && !nav.Principal.HasActivePharmacy() {
		return g.paths.tenantSelect(GuardTenant, nav)
	}
	return Allow()
}
