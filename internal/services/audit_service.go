package services

import (
	"context"
	"time"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
	"github.com/rafabene/pharmacy-authz/internal/domain/ports"
	"github.com/rafabene/pharmacy-authz/internal/domain/repositories"
)

// AuditService mantém a trilha de navegações negadas
type AuditService struct {
	denialRepo repositories.DenialRepository
	logger     ports.Logger
	now        func() time.Time
}

// NewAuditService cria um novo AuditService
func NewAuditService(denialRepo repositories.DenialRepository, logger ports.Logger) *AuditService {
	return &AuditService{
		denialRepo: denialRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// RecordDenial grava a negação; falhas são logadas e nunca propagadas
func (s *AuditService) RecordDenial(ctx context.Context, denial entities.Denial) {
	if denial.OccurredAt.IsZero() {
		denial.OccurredAt = s.now().UTC()
	}

	if err := s.denialRepo.Create(ctx, &denial); err != nil {
		s.logger.Error("failed to record access denial",
			"error", err,
			"principal_id", denial.PrincipalID,
			"route", denial.AttemptedRoute,
		)
	}
}

// ListDenials lista as negações mais recentes primeiro
func (s *AuditService) ListDenials(ctx context.Context, filters repositories.DenialFilters) ([]*entities.Denial, error) {
	return s.denialRepo.List(ctx, filters)
}

// Purge remove negações mais antigas que retention
func (s *AuditService) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().UTC().Add(-retention)

	deleted, err := s.denialRepo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("purged access denials", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}

// NopRecorder descarta as negações (auditoria desativada)
type NopRecorder struct{}

func (NopRecorder) RecordDenial(context.Context, entities.Denial) {}
