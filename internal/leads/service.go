package leads

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leadflowhq/leadflow-backend/pkg/db"
	"github.com/leadflowhq/leadflow-backend/pkg/db/models"
	"github.com/leadflowhq/leadflow-backend/pkg/enums"
	apperrors "github.com/leadflowhq/leadflow-backend/pkg/errors"
	"github.com/leadflowhq/leadflow-backend/pkg/logger"
	"github.com/leadflowhq/leadflow-backend/pkg/metrics"
	"github.com/leadflowhq/leadflow-backend/pkg/pagination"
)

const (
	importBatchName  = "lead_import"
	paidSocialMedium = "paid-social"
)

// Service handles lead ingestion and read access.
type Service interface {
	Import(ctx context.Context, orgID string, forms []LeadForm) (*ImportResult, error)
	List(ctx context.Context, orgID string, limit int, cursor string) (*LeadList, error)
	Get(ctx context.Context, orgID string, leadID uuid.UUID) (*models.Lead, error)
}

type service struct {
	repo     Repository
	resolver *Resolver
	logg     *logger.Logger
	batches  *metrics.BatchMetrics
}

// NewService wires a lead service. The metrics collector is optional.
func NewService(repo Repository, logg *logger.Logger, batches *metrics.BatchMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("leads: repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("leads: logger is required")
	}
	return &service{
		repo:     repo,
		resolver: NewResolver(repo),
		logg:     logg,
		batches:  batches,
	}, nil
}

// Import processes the batch strictly in input order. A failing form is
// recorded as an error detail and never aborts the remaining forms; the
// result's Success flag is true when at least one form did not error.
func (s *service) Import(ctx context.Context, orgID string, forms []LeadForm) (*ImportResult, error) {
	started := time.Now()
	result := &ImportResult{Details: make([]ImportDetail, 0, len(forms))}

	for _, form := range forms {
		detail := s.importOne(ctx, orgID, form)
		result.Details = append(result.Details, detail)

		switch detail.Status {
		case ImportStatusImported:
			result.Imported++
		case ImportStatusUpdated:
			result.Updated++
		case ImportStatusDuplicate:
			result.Duplicates++
		case ImportStatusError:
			result.Errors++
		}
		if s.batches != nil {
			s.batches.IncOutcome(importBatchName, string(detail.Status))
		}
	}

	result.Success = len(forms) > 0 && result.Errors < len(forms)
	if s.batches != nil {
		s.batches.ObserveDuration(importBatchName, time.Since(started))
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"imported":   result.Imported,
		"updated":    result.Updated,
		"duplicates": result.Duplicates,
		"errors":     result.Errors,
	}), "lead import batch processed")
	return result, nil
}

func (s *service) importOne(ctx context.Context, orgID string, form LeadForm) ImportDetail {
	detail := ImportDetail{ExternalID: form.ExternalID}
	fields := mapFormFields(form.Fields)

	email := ""
	if fields.Email != nil {
		email = *fields.Email
	}
	phone := ""
	if fields.Phone != nil {
		phone = *fields.Phone
	}

	existing, err := s.resolver.Resolve(ctx, orgID, ResolveInput{
		ExternalID: form.ExternalID,
		Email:      email,
		Phone:      phone,
	})
	if err != nil {
		detail.Status = ImportStatusError
		detail.Message = err.Error()
		s.logg.Error(ctx, "lead import item failed during matching", err)
		return detail
	}

	if existing != nil {
		if err := s.repo.Update(ctx, existing.ID, fields.updates(form.Platform)); err != nil {
			detail.Status = ImportStatusError
			detail.Message = err.Error()
			s.logg.Error(s.logg.WithLeadID(ctx, existing.ID.String()), "lead import item failed during update", err)
			return detail
		}
		detail.Status = ImportStatusUpdated
		detail.LeadID = existing.ID.String()
		detail.Message = "existing lead refreshed from form data"
		return detail
	}

	lead := fields.newLead(orgID, form)
	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_leads_org_external") {
			detail.Status = ImportStatusDuplicate
			detail.Message = "lead with this external id already exists"
			return detail
		}
		detail.Status = ImportStatusError
		detail.Message = err.Error()
		s.logg.Error(ctx, "lead import item failed during create", err)
		return detail
	}

	detail.Status = ImportStatusImported
	detail.LeadID = created.ID.String()
	detail.Message = "new lead created"
	return detail
}

func (s *service) List(ctx context.Context, orgID string, limit int, cursor string) (*LeadList, error) {
	parsed, err := pagination.ParseCursor(cursor)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, err, "invalid pagination cursor")
	}
	return s.repo.List(ctx, orgID, pagination.NormalizeLimit(limit), parsed)
}

func (s *service) Get(ctx context.Context, orgID string, leadID uuid.UUID) (*models.Lead, error) {
	return s.repo.FindByID(ctx, orgID, leadID)
}

// formFields holds the recognized fields extracted from a lead form.
type formFields struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	City      *string
	Budget    *float64
}

// mapFormFields maps platform field names onto lead columns. Names are
// matched case-insensitively; unknown names are ignored. A later field wins
// over an earlier one with the same name.
func mapFormFields(fields []LeadFormField) formFields {
	var out formFields
	for _, field := range fields {
		value := strings.TrimSpace(field.FirstValue())
		if value == "" {
			continue
		}

		switch strings.ToLower(strings.TrimSpace(field.Name)) {
		case "full_name":
			first, last := splitFullName(value)
			out.FirstName = &first
			if last != "" {
				out.LastName = &last
			}
		case "first_name":
			v := value
			out.FirstName = &v
		case "last_name":
			v := value
			out.LastName = &v
		case "email":
			v := value
			out.Email = &v
		case "phone", "phone_number":
			v := value
			out.Phone = &v
		case "city":
			v := value
			out.City = &v
		case "budget":
			// Non-numeric budgets are dropped rather than rejected.
			if parsed, err := strconv.ParseFloat(value, 64); err == nil {
				out.Budget = &parsed
			}
		}
	}
	return out
}

// splitFullName takes the first whitespace-separated token as the first name
// and joins the remainder as the last name.
func splitFullName(value string) (string, string) {
	parts := strings.Fields(value)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// updates builds the column map applied to an existing matched lead. Only
// fields the form actually carried are written.
func (f formFields) updates(platform string) map[string]any {
	updates := map[string]any{
		"utm_source": enums.NormalizeLeadPlatform(platform).String(),
		"utm_medium": paidSocialMedium,
		"updated_at": time.Now().UTC(),
	}
	if f.FirstName != nil {
		updates["first_name"] = *f.FirstName
	}
	if f.LastName != nil {
		updates["last_name"] = *f.LastName
	}
	if f.Email != nil {
		updates["email"] = *f.Email
	}
	if f.Phone != nil {
		updates["phone"] = *f.Phone
	}
	if f.City != nil {
		updates["city"] = *f.City
	}
	if f.Budget != nil {
		updates["budget"] = *f.Budget
	}
	return updates
}

func (f formFields) newLead(orgID string, form LeadForm) *models.Lead {
	externalID := form.ExternalID
	source := enums.NormalizeLeadPlatform(form.Platform).String()
	medium := paidSocialMedium

	return &models.Lead{
		OrgID:      orgID,
		Status:     enums.LeadStatusNew,
		Score:      enums.LeadScoreWarm,
		FirstName:  f.FirstName,
		LastName:   f.LastName,
		Email:      f.Email,
		Phone:      f.Phone,
		City:       f.City,
		Budget:     f.Budget,
		ExternalID: &externalID,
		UTMSource:  &source,
		UTMMedium:  &medium,
	}
}
