package leads

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leadflowhq/leadflow-backend/pkg/db/models"
	"github.com/leadflowhq/leadflow-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the leads table. The match
// finders return (nil, nil) when no row exists; a non-nil error always means
// the lookup itself failed.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, orgID string, id uuid.UUID) (*models.Lead, error)
	FindByExternalID(ctx context.Context, orgID, externalID string) (*models.Lead, error)
	FindByEmail(ctx context.Context, orgID, email string, excludeConverted bool) (*models.Lead, error)
	FindByPhone(ctx context.Context, orgID, phone string, excludeConverted bool) (*models.Lead, error)
	Create(ctx context.Context, lead *models.Lead) (*models.Lead, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	FindInRange(ctx context.Context, orgID string, from, to time.Time) ([]models.Lead, error)
	List(ctx context.Context, orgID string, limit int, cursor *pagination.Cursor) (*LeadList, error)
	FindWithInteractions(ctx context.Context, orgID string, id uuid.UUID) (*models.Lead, error)
}
