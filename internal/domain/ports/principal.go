package ports

import (
	"context"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
)

// PrincipalProvider fornece o principal corrente como snapshot imutável.
// Implementações não podem entrar em pânico; na dúvida retornam entities.Anonymous().
type PrincipalProvider interface {
	Snapshot(ctx context.Context) entities.Principal
}

// PrincipalProviderFunc adapta uma função comum para PrincipalProvider
type PrincipalProviderFunc func(ctx context.Context) entities.Principal

func (f PrincipalProviderFunc) Snapshot(ctx context.Context) entities.Principal {
	return f(ctx)
}
