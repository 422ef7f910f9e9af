package leads

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/leadflowhq/leadflow-backend/pkg/db/models"
	"github.com/leadflowhq/leadflow-backend/pkg/enums"
	"github.com/leadflowhq/leadflow-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "leads-test", Output: io.Discard})
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, testLogger(), nil)
	require.NoError(t, err)
	return svc
}

func formWith(externalID string, fields ...LeadFormField) LeadForm {
	return LeadForm{
		ExternalID: externalID,
		Platform:   "facebook",
		Fields:     fields,
	}
}

func field(name string, values ...string) LeadFormField {
	return LeadFormField{Name: name, Values: values}
}

func TestImportCreatesNewLeadWithDefaults(t *testing.T) {
	var created *models.Lead
	repo := &stubRepository{
		create: func(_ context.Context, lead *models.Lead) (*models.Lead, error) {
			lead.ID = uuid.New()
			created = lead
			return lead, nil
		},
	}

	form := formWith("fb-1",
		field("FULL_NAME", "Ana Maria Costa"),
		field("email", "ana@example.com"),
		field("phone_number", "+972501234567"),
		field("city", "Tel Aviv"),
		field("budget", "1500000"),
	)
	form.Platform = "instagram"

	result, err := newTestService(t, repo).Import(context.Background(), "org-1", []LeadForm{form})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Details, 1)
	assert.Equal(t, ImportStatusImported, result.Details[0].Status)
	assert.Equal(t, "fb-1", result.Details[0].ExternalID)

	assert.Equal(t, "org-1", created.OrgID)
	assert.Equal(t, enums.LeadStatusNew, created.Status)
	assert.Equal(t, enums.LeadScoreWarm, created.Score)
	require.NotNil(t, created.FirstName)
	assert.Equal(t, "Ana", *created.FirstName)
	require.NotNil(t, created.LastName)
	assert.Equal(t, "Maria Costa", *created.LastName)
	require.NotNil(t, created.Budget)
	assert.Equal(t, 1500000.0, *created.Budget)
	require.NotNil(t, created.UTMSource)
	assert.Equal(t, "instagram", *created.UTMSource)
	require.NotNil(t, created.UTMMedium)
	assert.Equal(t, "paid-social", *created.UTMMedium)
}

func TestImportInvalidBudgetBecomesNil(t *testing.T) {
	var created *models.Lead
	repo := &stubRepository{
		create: func(_ context.Context, lead *models.Lead) (*models.Lead, error) {
			lead.ID = uuid.New()
			created = lead
			return lead, nil
		},
	}

	_, err := newTestService(t, repo).Import(context.Background(), "org-1", []LeadForm{
		formWith("fb-2", field("budget", "about two million")),
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Nil(t, created.Budget)
}

func TestImportUpdatesExistingLead(t *testing.T) {
	existingID := uuid.New()
	var appliedUpdates map[string]any

	repo := &stubRepository{
		findByExternalID: func(_ context.Context, _, externalID string) (*models.Lead, error) {
			assert.Equal(t, "fb-1", externalID)
			return &models.Lead{ID: existingID}, nil
		},
		update: func(_ context.Context, id uuid.UUID, updates map[string]any) error {
			assert.Equal(t, existingID, id)
			appliedUpdates = updates
			return nil
		},
		create: func(context.Context, *models.Lead) (*models.Lead, error) {
			t.Fatal("matched form must update, not create")
			return nil, nil
		},
	}

	result, err := newTestService(t, repo).Import(context.Background(), "org-1", []LeadForm{
		formWith("fb-1", field("city", "Haifa"), field("email", "ana@example.com")),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, ImportStatusUpdated, result.Details[0].Status)
	assert.Equal(t, existingID.String(), result.Details[0].LeadID)

	require.NotNil(t, appliedUpdates)
	assert.Equal(t, "Haifa", appliedUpdates["city"])
	assert.Equal(t, "ana@example.com", appliedUpdates["email"])
	assert.NotContains(t, appliedUpdates, "budget")
}

func TestImportSameExternalIDTwiceImportsThenUpdates(t *testing.T) {
	store := map[string]*models.Lead{}
	repo := &stubRepository{
		findByExternalID: func(_ context.Context, _, externalID string) (*models.Lead, error) {
			return store[externalID], nil
		},
		create: func(_ context.Context, lead *models.Lead) (*models.Lead, error) {
			lead.ID = uuid.New()
			store[*lead.ExternalID] = lead
			return lead, nil
		},
	}

	svc := newTestService(t, repo)
	form := formWith("fb-9", field("email", "dup@example.com"))

	first, err := svc.Import(context.Background(), "org-1", []LeadForm{form})
	require.NoError(t, err)
	second, err := svc.Import(context.Background(), "org-1", []LeadForm{form})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Imported)
	assert.Equal(t, 0, first.Updated)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 1, second.Updated)
	assert.Len(t, store, 1)
}

func TestImportContinuesPastFailingItem(t *testing.T) {
	boom := errors.New("db write failed")
	var createCalls int

	repo := &stubRepository{
		create: func(_ context.Context, lead *models.Lead) (*models.Lead, error) {
			createCalls++
			if createCalls == 2 {
				return nil, boom
			}
			lead.ID = uuid.New()
			return lead, nil
		},
	}

	result, err := newTestService(t, repo).Import(context.Background(), "org-1", []LeadForm{
		formWith("fb-1", field("email", "a@example.com")),
		formWith("fb-2", field("email", "b@example.com")),
		formWith("fb-3", field("email", "c@example.com")),
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 3, createCalls)
	assert.Equal(t, ImportStatusError, result.Details[1].Status)
	assert.Equal(t, boom.Error(), result.Details[1].Message)
}

func TestImportUniqueViolationCountsAsDuplicate(t *testing.T) {
	repo := &stubRepository{
		create: func(context.Context, *models.Lead) (*models.Lead, error) {
			return nil, errors.New(`duplicate key value violates unique constraint "uq_leads_org_external"`)
		},
	}

	result, err := newTestService(t, repo).Import(context.Background(), "org-1", []LeadForm{
		formWith("fb-1", field("email", "a@example.com")),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 0, result.Errors)
	assert.True(t, result.Success)
	assert.Equal(t, ImportStatusDuplicate, result.Details[0].Status)
}

func TestImportEmptyBatchIsNotSuccessful(t *testing.T) {
	result, err := newTestService(t, &stubRepository{}).Import(context.Background(), "org-1", nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Details)
}
