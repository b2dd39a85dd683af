package services

import (
	"context"
	"fmt"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
	domainerrors "github.com/rafabene/pharmacy-authz/internal/domain/errors"
	"github.com/rafabene/pharmacy-authz/internal/domain/permissions"
	"github.com/rafabene/pharmacy-authz/internal/domain/ports"
)

// AuthorizationService responde perguntas de acesso para o principal corrente.
// Cada chamada lê um único snapshot do principal.
type AuthorizationService struct {
	resolver   *permissions.Resolver
	principals ports.PrincipalProvider
	metrics    ports.Metrics
	loginPath  string
}

// NewAuthorizationService cria um novo AuthorizationService
func NewAuthorizationService(
	resolver *permissions.Resolver,
	principals ports.PrincipalProvider,
	metrics ports.Metrics,
	loginPath string,
) *AuthorizationService {
	return &AuthorizationService{
		resolver:   resolver,
		principals: principals,
		metrics:    metrics,
		loginPath:  loginPath,
	}
}

// Principal retorna o snapshot corrente
func (s *AuthorizationService) Principal(ctx context.Context) entities.Principal {
	return s.principals.Snapshot(ctx)
}

func (s *AuthorizationService) CanAccessRoute(ctx context.Context, path string) bool {
	return s.Evaluate(ctx, permissions.NamespaceRoutes, path).Allowed
}

func (s *AuthorizationService) CanAccessGroup(ctx context.Context, groupKey string) bool {
	return s.Evaluate(ctx, permissions.NamespaceGroups, groupKey).Allowed
}

func (s *AuthorizationService) CanAccessItem(ctx context.Context, path string) bool {
	return s.Evaluate(ctx, permissions.NamespaceItems, path).Allowed
}

func (s *AuthorizationService) CanAccessFeature(ctx context.Context, featureKey string) bool {
	return s.Evaluate(ctx, permissions.NamespaceFeatures, featureKey).Allowed
}

// Evaluate retorna a decisão detalhada para uma chave
func (s *AuthorizationService) Evaluate(ctx context.Context, ns permissions.Namespace, key string) permissions.Evaluation {
	role := s.principals.Snapshot(ctx).EffectiveRole()
	return s.evaluate(ns, role, key)
}

// Authorize exige principal autenticado, farmácia ativa para papéis do tier
// farmácia e permissão na tabela. Erros envolvem ErrUnauthenticated,
// ErrNoPharmacy ou ErrForbidden.
func (s *AuthorizationService) Authorize(ctx context.Context, ns permissions.Namespace, key string) error {
	principal := s.principals.Snapshot(ctx)
	if !principal.Authenticated() {
		return &domainerrors.DomainError{
			Type:    domainerrors.ProblemTypeUnauthorized,
			Message: "authentication required",
			Err:     domainerrors.ErrUnauthenticated,
		}
	}

	role := principal.EffectiveRole()
	if role.IsPharmacy() && !principal.HasActivePharmacy() {
		return &domainerrors.DomainError{
			Type:    domainerrors.ProblemTypeForbidden,
			Message: fmt.Sprintf("principal %s has no active pharmacy", principal.ID),
			Err:     domainerrors.ErrNoPharmacy,
		}
	}

	if eval := s.evaluate(ns, role, key); !eval.Allowed {
		return &domainerrors.DomainError{
			Type:    domainerrors.ProblemTypeForbidden,
			Message: fmt.Sprintf("%s %q denied for role %q (%s)", ns, eval.Key, role, eval.Reason),
			Err:     domainerrors.ErrForbidden,
		}
	}
	return nil
}

func (s *AuthorizationService) evaluate(ns permissions.Namespace, role entities.Role, key string) permissions.Evaluation {
	eval := s.resolver.Evaluate(ns, role, key)
	s.metrics.ObserveDecision(string(ns), eval.Allowed)
	return eval
}

// BatchRequest agrupa as chaves consultadas para montar a navegação
type BatchRequest struct {
	Routes   []string
	Groups   []string
	Items    []string
	Features []string
}

// BatchResult contém as decisões por namespace, indexadas pela chave consultada
type BatchResult struct {
	Role     entities.Role
	Routes   map[string]bool
	Groups   map[string]bool
	Items    map[string]bool
	Features map[string]bool
}

// EvaluateBatch decide todas as chaves com o mesmo snapshot do principal
func (s *AuthorizationService) EvaluateBatch(ctx context.Context, req BatchRequest) BatchResult {
	role := s.principals.Snapshot(ctx).EffectiveRole()

	decide := func(ns permissions.Namespace, keys []string) map[string]bool {
		out := make(map[string]bool, len(keys))
		for _, key := range keys {
			out[key] = s.evaluate(ns, role, key).Allowed
		}
		return out
	}

	return BatchResult{
		Role:     role,
		Routes:   decide(permissions.NamespaceRoutes, req.Routes),
		Groups:   decide(permissions.NamespaceGroups, req.Groups),
		Items:    decide(permissions.NamespaceItems, req.Items),
		Features: decide(permissions.NamespaceFeatures, req.Features),
	}
}

// HomeRoute retorna a página inicial do principal.
// É uma conveniência de UX, não uma checagem de segurança: sem papel cai no login.
func (s *AuthorizationService) HomeRoute(ctx context.Context) (entities.Role, string) {
	role := s.principals.Snapshot(ctx).EffectiveRole()
	if path, ok := permissions.HomeRoute(role); ok {
		return role, path
	}
	return role, s.loginPath
}
