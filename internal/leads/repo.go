package leads

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/leadflowhq/leadflow-backend/pkg/errors"

	"github.com/leadflowhq/leadflow-backend/pkg/db/models"
	"github.com/leadflowhq/leadflow-backend/pkg/pagination"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository returns a gorm-backed lead repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, orgID string, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&lead).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "lead not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load lead")
	}
	return &lead, nil
}

func (r *repository) FindByExternalID(ctx context.Context, orgID, externalID string) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND external_id = ?", orgID, externalID).
		First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to match lead by external id")
	}
	return &lead, nil
}

func (r *repository) FindByEmail(ctx context.Context, orgID, email string, excludeConverted bool) (*models.Lead, error) {
	q := r.db.WithContext(ctx).
		Where("org_id = ? AND lower(email) = lower(?)", orgID, email)
	if excludeConverted {
		q = q.Where("status <> ?", "converted")
	}

	var lead models.Lead
	err := q.Order("created_at ASC").First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to match lead by email")
	}
	return &lead, nil
}

func (r *repository) FindByPhone(ctx context.Context, orgID, phone string, excludeConverted bool) (*models.Lead, error) {
	q := r.db.WithContext(ctx).
		Where("org_id = ? AND phone = ?", orgID, phone)
	if excludeConverted {
		q = q.Where("status <> ?", "converted")
	}

	var lead models.Lead
	err := q.Order("created_at ASC").First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to match lead by phone")
	}
	return &lead, nil
}

func (r *repository) Create(ctx context.Context, lead *models.Lead) (*models.Lead, error) {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(lead).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to create lead")
	}
	return lead, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Lead{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.CodeInternal, res.Error, "failed to update lead")
	}
	if res.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeNotFound, "lead not found")
	}
	return nil
}

func (r *repository) FindInRange(ctx context.Context, orgID string, from, to time.Time) ([]models.Lead, error) {
	var rows []models.Lead
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND created_at >= ? AND created_at <= ?", orgID, from, to).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load leads for range")
	}
	return rows, nil
}

func (r *repository) List(ctx context.Context, orgID string, limit int, cursor *pagination.Cursor) (*LeadList, error) {
	q := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if cursor != nil {
		q = q.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Lead
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to list leads")
	}

	list := &LeadList{Leads: rows}
	if len(rows) > limit {
		list.Leads = rows[:limit]
		last := list.Leads[len(list.Leads)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		list.NextCursor = &next
	}
	return list, nil
}

func (r *repository) FindWithInteractions(ctx context.Context, orgID string, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.WithContext(ctx).
		Preload("Interactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("occurred_at ASC")
		}).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&lead).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "lead not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load lead")
	}
	return &lead, nil
}
