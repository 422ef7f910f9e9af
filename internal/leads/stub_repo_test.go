package leads

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leadflowhq/leadflow-backend/pkg/db/models"
	"github.com/leadflowhq/leadflow-backend/pkg/pagination"
	"gorm.io/gorm"
)

// stubRepository lets each test wire just the calls it cares about.
type stubRepository struct {
	findByID         func(ctx context.Context, orgID string, id uuid.UUID) (*models.Lead, error)
	findByExternalID func(ctx context.Context, orgID, externalID string) (*models.Lead, error)
	findByEmail      func(ctx context.Context, orgID, email string, excludeConverted bool) (*models.Lead, error)
	findByPhone      func(ctx context.Context, orgID, phone string, excludeConverted bool) (*models.Lead, error)
	create           func(ctx context.Context, lead *models.Lead) (*models.Lead, error)
	update           func(ctx context.Context, id uuid.UUID, updates map[string]any) error
	findInRange      func(ctx context.Context, orgID string, from, to time.Time) ([]models.Lead, error)
	list             func(ctx context.Context, orgID string, limit int, cursor *pagination.Cursor) (*LeadList, error)
	withInteractions func(ctx context.Context, orgID string, id uuid.UUID) (*models.Lead, error)
}

func (s *stubRepository) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepository) FindByID(ctx context.Context, orgID string, id uuid.UUID) (*models.Lead, error) {
	if s.findByID == nil {
		return nil, nil
	}
	return s.findByID(ctx, orgID, id)
}

func (s *stubRepository) FindByExternalID(ctx context.Context, orgID, externalID string) (*models.Lead, error) {
	if s.findByExternalID == nil {
		return nil, nil
	}
	return s.findByExternalID(ctx, orgID, externalID)
}

func (s *stubRepository) FindByEmail(ctx context.Context, orgID, email string, excludeConverted bool) (*models.Lead, error) {
	if s.findByEmail == nil {
		return nil, nil
	}
	return s.findByEmail(ctx, orgID, email, excludeConverted)
}

func (s *stubRepository) FindByPhone(ctx context.Context, orgID, phone string, excludeConverted bool) (*models.Lead, error) {
	if s.findByPhone == nil {
		return nil, nil
	}
	return s.findByPhone(ctx, orgID, phone, excludeConverted)
}

func (s *stubRepository) Create(ctx context.Context, lead *models.Lead) (*models.Lead, error) {
	if s.create == nil {
		return lead, nil
	}
	return s.create(ctx, lead)
}

func (s *stubRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if s.update == nil {
		return nil
	}
	return s.update(ctx, id, updates)
}

func (s *stubRepository) FindInRange(ctx context.Context, orgID string, from, to time.Time) ([]models.Lead, error) {
	if s.findInRange == nil {
		return nil, nil
	}
	return s.findInRange(ctx, orgID, from, to)
}

func (s *stubRepository) List(ctx context.Context, orgID string, limit int, cursor *pagination.Cursor) (*LeadList, error) {
	if s.list == nil {
		return &LeadList{}, nil
	}
	return s.list(ctx, orgID, limit, cursor)
}

func (s *stubRepository) FindWithInteractions(ctx context.Context, orgID string, id uuid.UUID) (*models.Lead, error) {
	if s.withInteractions == nil {
		return nil, nil
	}
	return s.withInteractions(ctx, orgID, id)
}
