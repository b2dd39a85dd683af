package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
	"github.com/rafabene/pharmacy-authz/internal/domain/repositories"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// DenialRepository implementa repositories.DenialRepository
type DenialRepository struct {
	db *gorm.DB
}

// NewDenialRepository cria um novo DenialRepository
func NewDenialRepository(db *gorm.DB) repositories.DenialRepository {
	return &DenialRepository{db: db}
}

func (r *DenialRepository) Create(ctx context.Context, denial *entities.Denial) error {
	if denial.ID == "" {
		denial.ID = uuid.NewString()
	}
	if denial.OccurredAt.IsZero() {
		denial.OccurredAt = time.Now().UTC()
	}

	model := r.toModel(denial)
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *DenialRepository) List(ctx context.Context, filters repositories.DenialFilters) ([]*entities.Denial, error) {
	var models []*DenialModel

	query := r.db.WithContext(ctx).Model(&DenialModel{})

	// Aplicar filtros
	if filters.Role != nil {
		query = query.Where("role = ?", string(*filters.Role))
	}
	if filters.PrincipalID != "" {
		query = query.Where("principal_id = ?", filters.PrincipalID)
	}

	// Paginação
	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	offset := (page - 1) * pageSize
	query = query.Order("occurred_at DESC").Order("id").Limit(pageSize).Offset(offset)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.toEntities(models), nil
}

// DeleteBefore remove negações anteriores ao corte (retenção)
func (r *DenialRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("occurred_at < ?", cutoff.UnixMilli()).Delete(&DenialModel{})
	return result.RowsAffected, result.Error
}

// Conversores
func (r *DenialRepository) toModel(denial *entities.Denial) *DenialModel {
	return &DenialModel{
		ID:             denial.ID,
		PrincipalID:    denial.PrincipalID,
		PrincipalEmail: denial.PrincipalEmail,
		Role:           string(denial.Role),
		PharmacyID:     denial.PharmacyID,
		AttemptedRoute: denial.AttemptedRoute,
		Guard:          denial.Guard,
		Reason:         string(denial.Reason),
		OccurredAt:     denial.OccurredAt.UnixMilli(),
	}
}

func (r *DenialRepository) toEntity(model *DenialModel) *entities.Denial {
	return &entities.Denial{
		ID:             model.ID,
		PrincipalID:    model.PrincipalID,
		PrincipalEmail: model.PrincipalEmail,
		Role:           entities.Role(model.Role),
		PharmacyID:     model.PharmacyID,
		AttemptedRoute: model.AttemptedRoute,
		Guard:          model.Guard,
		Reason:         entities.DenialReason(model.Reason),
		OccurredAt:     time.UnixMilli(model.OccurredAt).UTC(),
	}
}

func (r *DenialRepository) toEntities(models []*DenialModel) []*entities.Denial {
	denials := make([]*entities.Denial, 0, len(models))
	for _, model := range models {
		denials = append(denials, r.toEntity(model))
	}
	return denials
}
