package repositories

import (
	"context"
	"time"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
)

// DenialRepository define a interface para persistência da trilha de negações
type DenialRepository interface {
	Create(ctx context.Context, denial *entities.Denial) error
	List(ctx context.Context, filters DenialFilters) ([]*entities.Denial, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// DenialFilters contém filtros para listagem de negações
type DenialFilters struct {
	Role        *entities.Role
	PrincipalID string
	Page        int // Página (começa em 1)
	PageSize    int // Itens por página (default: 20, max: 100)
}
