package enrichment

import (
	"context"

	"github.com/google/uuid"
	"github.com/leadflowhq/leadflow-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence for listings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, listing *models.Listing) (*models.Listing, error)
	FindByID(ctx context.Context, orgID string, id uuid.UUID) (*models.Listing, error)
	SaveScore(ctx context.Context, id uuid.UUID, score int, summary string) error
}
