package session

import (
	"context"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
)

type principalKey struct{}

// WithPrincipal anexa o principal autenticado ao contexto da requisição
func WithPrincipal(ctx context.Context, principal entities.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// FromContext recupera o principal anexado por WithPrincipal
func FromContext(ctx context.Context) (entities.Principal, bool) {
	if ctx == nil {
		return entities.Anonymous(), false
	}
	principal, ok := ctx.Value(principalKey{}).(entities.Principal)
	return principal, ok
}

// ContextProvider lê o principal do contexto da requisição.
// Sem principal no contexto retorna o anônimo.
type ContextProvider struct{}

// NewContextProvider cria o provider baseado em contexto
func NewContextProvider() ContextProvider {
	return ContextProvider{}
}

func (ContextProvider) Snapshot(ctx context.Context) entities.Principal {
	principal, ok := FromContext(ctx)
	if !ok {
		return entities.Anonymous()
	}
	return principal
}
