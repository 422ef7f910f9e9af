package enrichment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/leadflowhq/leadflow-backend/pkg/db/models"
	apperrors "github.com/leadflowhq/leadflow-backend/pkg/errors"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository returns a gorm-backed listing repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if listing.ID == uuid.Nil {
		listing.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to create listing")
	}
	return listing, nil
}

func (r *repository) FindByID(ctx context.Context, orgID string, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "listing not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load listing")
	}
	return &listing, nil
}

func (r *repository) SaveScore(ctx context.Context, id uuid.UUID, score int, summary string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"score":         score,
			"score_summary": summary,
			"scored_at":     time.Now().UTC(),
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.CodeInternal, res.Error, "failed to save listing score")
	}
	if res.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeNotFound, "listing not found")
	}
	return nil
}
