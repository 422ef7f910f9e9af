package attribution

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/leadflowhq/leadflow-backend/pkg/db/models"
	"github.com/leadflowhq/leadflow-backend/pkg/logger"
)

// Touchpoint is one event on a lead's timeline. Attribution fields repeat
// the lead's fixed UTM values on every touchpoint.
type Touchpoint struct {
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source"`
	Medium      string    `json:"medium"`
	Campaign    string    `json:"campaign,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Journey is a lead's reconstructed timeline. TimeToConversionDays and
// TotalRevenue are present only for converted leads; for open leads the
// fields are absent from the payload, not zeroed.
type Journey struct {
	LeadID               string       `json:"leadId"`
	Status               string       `json:"status"`
	Touchpoints          []Touchpoint `json:"touchpoints"`
	ConversionPath       []string     `json:"conversionPath"`
	TimeToConversionDays *int         `json:"timeToConversionDays,omitempty"`
	TotalRevenue         *float64     `json:"totalRevenue,omitempty"`
}

// JourneyLoader fetches one lead together with its interactions. It reports
// a not-found error when no lead matches under the org scope.
type JourneyLoader interface {
	FindWithInteractions(ctx context.Context, orgID string, id uuid.UUID) (*models.Lead, error)
}

// JourneyService reconstructs per-lead journeys.
type JourneyService interface {
	Journey(ctx context.Context, orgID string, leadID uuid.UUID) (*Journey, error)
}

type journeyService struct {
	loader JourneyLoader
	logg   *logger.Logger
}

// NewJourneyService wires the journey service.
func NewJourneyService(loader JourneyLoader, logg *logger.Logger) (JourneyService, error) {
	if loader == nil {
		return nil, fmt.Errorf("attribution: journey loader is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("attribution: logger is required")
	}
	return &journeyService{loader: loader, logg: logg}, nil
}

// Journey builds the chronological touchpoint list for one lead: creation,
// every recorded interaction, and the conversion when one happened. The
// loader's not-found error passes through untouched.
func (s *journeyService) Journey(ctx context.Context, orgID string, leadID uuid.UUID) (*Journey, error) {
	lead, err := s.loader.FindWithInteractions(ctx, orgID, leadID)
	if err != nil {
		return nil, err
	}

	source := stringOrDefault(lead.UTMSource, defaultSource)
	medium := stringOrDefault(lead.UTMMedium, defaultMedium)
	campaign := ""
	if lead.UTMCampaign != nil {
		campaign = *lead.UTMCampaign
	}

	touchpoints := []Touchpoint{{
		Type:      "lead_created",
		Timestamp: lead.CreatedAt.UTC(),
		Source:    source,
		Medium:    medium,
		Campaign:  campaign,
	}}

	for _, interaction := range lead.Interactions {
		tp := Touchpoint{
			Type:      interaction.Type.String(),
			Timestamp: interaction.OccurredAt.UTC(),
			Source:    source,
			Medium:    medium,
			Campaign:  campaign,
		}
		if interaction.Description != nil {
			tp.Description = *interaction.Description
		}
		touchpoints = append(touchpoints, tp)
	}

	if lead.IsConverted() && lead.ConvertedAt != nil {
		touchpoints = append(touchpoints, Touchpoint{
			Type:      "conversion",
			Timestamp: lead.ConvertedAt.UTC(),
			Source:    source,
			Medium:    medium,
			Campaign:  campaign,
		})
	}

	sort.SliceStable(touchpoints, func(i, j int) bool {
		return touchpoints[i].Timestamp.Before(touchpoints[j].Timestamp)
	})

	journey := &Journey{
		LeadID:         lead.ID.String(),
		Status:         lead.Status.String(),
		Touchpoints:    touchpoints,
		ConversionPath: conversionPath(touchpoints),
	}

	if lead.IsConverted() && lead.ConvertedAt != nil {
		days := wholeDaysBetween(lead.CreatedAt, *lead.ConvertedAt)
		journey.TimeToConversionDays = &days

		revenue := 0.0
		if lead.OrderValue != nil {
			revenue = *lead.OrderValue
		}
		journey.TotalRevenue = &revenue
	}
	return journey, nil
}

// conversionPath is the ordered set of distinct "source / medium" strings
// across the touchpoints. Attribution is fixed per lead today, so the path
// collapses to a single entry until per-touchpoint attribution lands.
func conversionPath(touchpoints []Touchpoint) []string {
	seen := map[string]bool{}
	path := []string{}
	for _, tp := range touchpoints {
		step := tp.Source + " / " + tp.Medium
		if seen[step] {
			continue
		}
		seen[step] = true
		path = append(path, step)
	}
	return path
}

// wholeDaysBetween floors the elapsed time to whole days, matching a
// millisecond diff divided by a day's milliseconds.
func wholeDaysBetween(from, to time.Time) int {
	diff := to.Sub(from)
	if diff < 0 {
		return 0
	}
	return int(diff.Milliseconds() / (24 * time.Hour).Milliseconds())
}
