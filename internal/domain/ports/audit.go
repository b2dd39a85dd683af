package ports

import (
	"context"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
)

// DenialRecorder registra navegações negadas.
// O registro é best effort: falhas nunca alteram uma decisão já tomada.
type DenialRecorder interface {
	RecordDenial(ctx context.Context, denial entities.Denial)
}

// Metrics recebe contadores das decisões de autorização
type Metrics interface {
	ObserveDecision(namespace string, allowed bool)
	ObserveGuardDenial(guard string, reason string)
}
