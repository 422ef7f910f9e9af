package enrichment

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/leadflowhq/leadflow-backend/pkg/db/models"
	apperrors "github.com/leadflowhq/leadflow-backend/pkg/errors"
	"github.com/leadflowhq/leadflow-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

type stubListingRepo struct {
	findByID  func(ctx context.Context, orgID string, id uuid.UUID) (*models.Listing, error)
	saveScore func(ctx context.Context, id uuid.UUID, score int, summary string) error
	create    func(ctx context.Context, listing *models.Listing) (*models.Listing, error)
}

func (s *stubListingRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubListingRepo) Create(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if s.create == nil {
		listing.ID = uuid.New()
		return listing, nil
	}
	return s.create(ctx, listing)
}

func (s *stubListingRepo) FindByID(ctx context.Context, orgID string, id uuid.UUID) (*models.Listing, error) {
	if s.findByID == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "listing not found")
	}
	return s.findByID(ctx, orgID, id)
}

func (s *stubListingRepo) SaveScore(ctx context.Context, id uuid.UUID, score int, summary string) error {
	if s.saveScore == nil {
		return nil
	}
	return s.saveScore(ctx, id, score, summary)
}

type stubCompleter struct {
	answer string
	err    error
}

func (s *stubCompleter) Complete(context.Context, string, string) (string, error) {
	return s.answer, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "enrichment-test", Output: io.Discard})
}

func listingFixture() *models.Listing {
	return &models.Listing{
		ID:      uuid.New(),
		OrgID:   "org-1",
		Address: "12 Rothschild Blvd",
		City:    ptr("Tel Aviv"),
		Price:   ptr(2400000.0),
		Rooms:   ptr(4.0),
		SizeSqm: ptr(110.0),
	}
}

func newTestService(t *testing.T, repo Repository, completer Completer) Service {
	t.Helper()
	svc, err := NewService(repo, completer, testLogger())
	require.NoError(t, err)
	return svc
}

func TestCreateListingPersistsInput(t *testing.T) {
	var created *models.Listing
	repo := &stubListingRepo{
		create: func(_ context.Context, listing *models.Listing) (*models.Listing, error) {
			listing.ID = uuid.New()
			created = listing
			return listing, nil
		},
	}

	listing, err := newTestService(t, repo, nil).CreateListing(context.Background(), "org-1", NewListingInput{
		Address: "12 Rothschild Blvd",
		City:    "Tel Aviv",
		Price:   2400000,
		Rooms:   4,
		SizeSqm: 110,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "org-1", created.OrgID)
	assert.Equal(t, listing.ID, created.ID)
	require.NotNil(t, created.Rooms)
	assert.Equal(t, 4.0, *created.Rooms)
	assert.Nil(t, created.Description)
}

func TestScoreListingUsesModelAnswer(t *testing.T) {
	fixture := listingFixture()
	var savedScore int
	var savedSummary string

	repo := &stubListingRepo{
		findByID: func(context.Context, string, uuid.UUID) (*models.Listing, error) {
			return fixture, nil
		},
		saveScore: func(_ context.Context, id uuid.UUID, score int, summary string) error {
			assert.Equal(t, fixture.ID, id)
			savedScore = score
			savedSummary = summary
			return nil
		},
	}
	completer := &stubCompleter{answer: `{"score": 82, "summary": "Prime central location with strong paid-social appeal."}`}

	listing, err := newTestService(t, repo, completer).ScoreListing(context.Background(), "org-1", fixture.ID)
	require.NoError(t, err)

	assert.Equal(t, 82, savedScore)
	assert.Equal(t, "Prime central location with strong paid-social appeal.", savedSummary)
	require.NotNil(t, listing.Score)
	assert.Equal(t, 82, *listing.Score)
}

func TestScoreListingParsesFencedAnswer(t *testing.T) {
	fixture := listingFixture()
	repo := &stubListingRepo{
		findByID: func(context.Context, string, uuid.UUID) (*models.Listing, error) {
			return fixture, nil
		},
	}
	completer := &stubCompleter{answer: "```json\n{\"score\": 64, \"summary\": \"Solid family listing.\"}\n```"}

	listing, err := newTestService(t, repo, completer).ScoreListing(context.Background(), "org-1", fixture.ID)
	require.NoError(t, err)
	require.NotNil(t, listing.Score)
	assert.Equal(t, 64, *listing.Score)
}

func TestScoreListingClampsOutOfRangeModelScore(t *testing.T) {
	fixture := listingFixture()
	repo := &stubListingRepo{
		findByID: func(context.Context, string, uuid.UUID) (*models.Listing, error) {
			return fixture, nil
		},
	}
	completer := &stubCompleter{answer: `{"score": 140, "summary": "Exceptional."}`}

	listing, err := newTestService(t, repo, completer).ScoreListing(context.Background(), "org-1", fixture.ID)
	require.NoError(t, err)
	require.NotNil(t, listing.Score)
	assert.Equal(t, 100, *listing.Score)
}

func TestScoreListingFallsBackWhenModelFails(t *testing.T) {
	fixture := listingFixture()
	repo := &stubListingRepo{
		findByID: func(context.Context, string, uuid.UUID) (*models.Listing, error) {
			return fixture, nil
		},
	}
	completer := &stubCompleter{err: errors.New("rate limited")}

	withModel, err := newTestService(t, repo, completer).ScoreListing(context.Background(), "org-1", fixture.ID)
	require.NoError(t, err)
	withoutModel, err := newTestService(t, repo, nil).ScoreListing(context.Background(), "org-1", fixture.ID)
	require.NoError(t, err)

	require.NotNil(t, withModel.Score)
	require.NotNil(t, withoutModel.Score)
	assert.Equal(t, *withoutModel.Score, *withModel.Score, "fallback must be deterministic")
	require.NotNil(t, withModel.ScoreSummary)
	assert.Contains(t, *withModel.ScoreSummary, "Heuristic")
}

func TestScoreListingNotFoundPropagates(t *testing.T) {
	_, err := newTestService(t, &stubListingRepo{}, nil).ScoreListing(context.Background(), "org-1", uuid.New())
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code())
}

func TestHeuristicScoreBounds(t *testing.T) {
	cheap := &models.Listing{Price: ptr(300000.0), SizeSqm: ptr(120.0), Rooms: ptr(5.0), Description: ptr(string(make([]byte, 250)))}
	score, summary := heuristicScore(cheap)
	assert.GreaterOrEqual(t, score, 0)
	assert.LessOrEqual(t, score, 100)
	assert.NotEmpty(t, summary)

	bare := &models.Listing{}
	score, _ = heuristicScore(bare)
	assert.GreaterOrEqual(t, score, 0)
	assert.LessOrEqual(t, score, 100)
}
