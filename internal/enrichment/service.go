package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/leadflowhq/leadflow-backend/pkg/db/models"
	"github.com/leadflowhq/leadflow-backend/pkg/logger"
)

const scoringSystemPrompt = "You are a real-estate marketing analyst. " +
	"Score how attractive a listing is to paid-social lead campaigns on a 0-100 scale. " +
	"Respond with a JSON object: {\"score\": <int 0-100>, \"summary\": \"<one sentence>\"}."

// NewListingInput is the payload to create a listing.
type NewListingInput struct {
	Address     string  `json:"address" validate:"required"`
	City        string  `json:"city" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Rooms       int     `json:"rooms" validate:"required,gt=0"`
	SizeSqm     float64 `json:"size_sqm" validate:"required,gt=0"`
	Description string  `json:"description"`
}

// Service creates listings and scores them for campaign fit.
type Service interface {
	CreateListing(ctx context.Context, orgID string, input NewListingInput) (*models.Listing, error)
	ScoreListing(ctx context.Context, orgID string, listingID uuid.UUID) (*models.Listing, error)
}

type service struct {
	repo      Repository
	completer Completer
	logg      *logger.Logger
}

// NewService wires the enrichment service. A nil completer is allowed and
// routes every scoring request through the heuristic fallback.
func NewService(repo Repository, completer Completer, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("enrichment: repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("enrichment: logger is required")
	}
	return &service{repo: repo, completer: completer, logg: logg}, nil
}

func (s *service) CreateListing(ctx context.Context, orgID string, input NewListingInput) (*models.Listing, error) {
	rooms := float64(input.Rooms)
	listing := &models.Listing{
		OrgID:   orgID,
		Address: input.Address,
		City:    &input.City,
		Price:   &input.Price,
		Rooms:   &rooms,
		SizeSqm: &input.SizeSqm,
	}
	if input.Description != "" {
		listing.Description = &input.Description
	}
	return s.repo.Create(ctx, listing)
}

// ScoreListing asks the model for a campaign-fit score and persists it. When
// the model is unavailable or answers garbage, the deterministic heuristic
// takes over so the endpoint always produces a score.
func (s *service) ScoreListing(ctx context.Context, orgID string, listingID uuid.UUID) (*models.Listing, error) {
	listing, err := s.repo.FindByID(ctx, orgID, listingID)
	if err != nil {
		return nil, err
	}

	score, summary := s.modelScore(ctx, listing)
	if summary == "" {
		score, summary = heuristicScore(listing)
	}

	if err := s.repo.SaveScore(ctx, listing.ID, score, summary); err != nil {
		return nil, err
	}

	listing.Score = &score
	listing.ScoreSummary = &summary
	return listing, nil
}

func (s *service) modelScore(ctx context.Context, listing *models.Listing) (int, string) {
	if s.completer == nil {
		return 0, ""
	}

	prompt := fmt.Sprintf(
		"Address: %s\nCity: %s\nPrice: %.0f\nRooms: %.1f\nSize: %.0f sqm\nDescription: %s",
		listing.Address,
		stringValue(listing.City),
		floatValue(listing.Price),
		floatValue(listing.Rooms),
		floatValue(listing.SizeSqm),
		stringValue(listing.Description),
	)

	raw, err := s.completer.Complete(ctx, scoringSystemPrompt, prompt)
	if err != nil {
		s.logg.Warn(ctx, "listing scoring model call failed, falling back to heuristic")
		return 0, ""
	}

	var parsed struct {
		Score   int    `json:"score"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil || parsed.Summary == "" {
		s.logg.Warn(ctx, "listing scoring model returned an unparseable answer")
		return 0, ""
	}
	if parsed.Score < 0 {
		parsed.Score = 0
	}
	if parsed.Score > 100 {
		parsed.Score = 100
	}
	return parsed.Score, parsed.Summary
}

// extractJSON tolerates models that wrap the JSON answer in code fences or
// prose by cutting out the first top-level object.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return raw
	}
	return raw[start : end+1]
}

// heuristicScore is the deterministic fallback: smaller price per sqm, more
// rooms and a substantive description all push the score up.
func heuristicScore(listing *models.Listing) (int, string) {
	score := 50

	price := floatValue(listing.Price)
	size := floatValue(listing.SizeSqm)
	if size > 0 && price > 0 {
		perSqm := price / size
		switch {
		case perSqm < 5000:
			score += 20
		case perSqm < 10000:
			score += 10
		case perSqm > 20000:
			score -= 15
		}
	}

	switch rooms := floatValue(listing.Rooms); {
	case rooms >= 4:
		score += 10
	case rooms >= 3:
		score += 5
	}

	description := stringValue(listing.Description)
	if len(description) >= 200 {
		score += 10
	} else if len(description) == 0 {
		score -= 10
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, "Heuristic score from price per sqm, room count and description depth."
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func floatValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
