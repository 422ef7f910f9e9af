package conversions

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leadflowhq/leadflow-backend/internal/leads"
	"github.com/leadflowhq/leadflow-backend/internal/warehouse"
	"github.com/leadflowhq/leadflow-backend/pkg/db/models"
	"github.com/leadflowhq/leadflow-backend/pkg/enums"
	"github.com/leadflowhq/leadflow-backend/pkg/logger"
	"github.com/leadflowhq/leadflow-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

const (
	orderBatchName      = "order_processing"
	orderDedupeScope    = "shopify-order"
	orderDedupeTTL      = 7 * 24 * time.Hour
	shopifyCreatedAtFmt = time.RFC3339
)

// Service reconciles external orders against existing leads.
type Service interface {
	ProcessOrders(ctx context.Context, orgID string, orders []ShopifyOrder) (*ProcessResult, error)
}

type service struct {
	repo      leads.Repository
	resolver  *leads.Resolver
	publisher EventPublisher
	dedupe    IdempotencyStore
	logg      *logger.Logger
	batches   *metrics.BatchMetrics
}

// NewService wires the order conversion service. Publisher, dedupe store and
// metrics are optional; the repository and logger are not.
func NewService(repo leads.Repository, logg *logger.Logger, publisher EventPublisher, dedupe IdempotencyStore, batches *metrics.BatchMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("conversions: lead repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("conversions: logger is required")
	}
	return &service{
		repo:      repo,
		resolver:  leads.NewResolver(repo),
		publisher: publisher,
		dedupe:    dedupe,
		logg:      logg,
		batches:   batches,
	}, nil
}

// ProcessOrders walks the batch sequentially in input order. One order's
// failure is captured in its own detail and never stops the rest; Success is
// true when at least one order did not error.
func (s *service) ProcessOrders(ctx context.Context, orgID string, orders []ShopifyOrder) (*ProcessResult, error) {
	started := time.Now()
	result := &ProcessResult{Details: make([]OrderDetail, 0, len(orders))}

	for _, order := range orders {
		detail := s.processOne(ctx, orgID, order)
		result.Details = append(result.Details, detail)
		result.Processed++

		switch detail.Outcome {
		case OutcomeConverted:
			result.Conversions++
			result.Revenue += detail.Revenue
		case OutcomeNoMatch:
			result.NoMatches++
		case OutcomeDuplicate:
			result.Duplicates++
		case OutcomeError:
			result.Errors++
		}
		if s.batches != nil {
			s.batches.IncOutcome(orderBatchName, string(detail.Outcome))
		}
	}

	result.Success = len(orders) > 0 && result.Errors < len(orders)
	if s.batches != nil {
		s.batches.ObserveDuration(orderBatchName, time.Since(started))
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"processed":   result.Processed,
		"conversions": result.Conversions,
		"no_matches":  result.NoMatches,
		"errors":      result.Errors,
	}), "order batch processed")
	return result, nil
}

func (s *service) processOne(ctx context.Context, orgID string, order ShopifyOrder) OrderDetail {
	detail := OrderDetail{OrderRef: orderRef(order)}

	if s.dedupe != nil {
		// Shopify order ids are only unique per shop, so the key carries the org.
		key := s.dedupe.IdempotencyKey(orderDedupeScope, orgID+":"+strconv.FormatInt(order.ID, 10))
		fresh, err := s.dedupe.SetNX(ctx, key, orgID, orderDedupeTTL)
		if err != nil {
			// Dedupe is advisory. A store outage must not block revenue.
			s.logg.Warn(ctx, "order dedupe check failed, processing anyway")
		} else if !fresh {
			detail.Outcome = OutcomeDuplicate
			detail.Message = "order already processed"
			return detail
		}
	}

	email := strings.TrimSpace(order.Customer.Email)
	if email == "" {
		email = strings.TrimSpace(order.Email)
	}
	phone := strings.TrimSpace(order.Customer.Phone)
	if phone == "" {
		phone = strings.TrimSpace(order.Phone)
	}

	lead, err := s.resolver.Resolve(ctx, orgID, leads.ResolveInput{
		Email:            email,
		Phone:            phone,
		ExcludeConverted: true,
	})
	if err != nil {
		detail.Outcome = OutcomeError
		detail.Message = err.Error()
		s.logg.Error(ctx, "order matching failed", err)
		return detail
	}
	if lead == nil {
		detail.Outcome = OutcomeNoMatch
		detail.Message = "no open lead matches this order"
		return detail
	}

	price, err := decimal.NewFromString(strings.TrimSpace(order.TotalPrice))
	if err != nil {
		detail.Outcome = OutcomeError
		detail.Message = fmt.Sprintf("invalid total_price %q", order.TotalPrice)
		return detail
	}
	orderValue, _ := price.Float64()

	convertedAt, err := time.Parse(shopifyCreatedAtFmt, order.CreatedAt)
	if err != nil {
		detail.Outcome = OutcomeError
		detail.Message = fmt.Sprintf("invalid created_at %q", order.CreatedAt)
		return detail
	}
	convertedAt = convertedAt.UTC()

	updates := map[string]any{
		"status":       enums.LeadStatusConverted.String(),
		"order_value":  orderValue,
		"converted_at": convertedAt,
		"notes":        appendNote(lead.Notes, fmt.Sprintf("Converted by Shopify order %s for %s %s", detail.OrderRef, price.StringFixed(2), order.Currency)),
		"updated_at":   time.Now().UTC(),
	}
	for column, value := range extractUTM(order.NoteAttributes) {
		updates[column] = value
	}

	if err := s.repo.Update(ctx, lead.ID, updates); err != nil {
		detail.Outcome = OutcomeError
		detail.Message = err.Error()
		s.logg.Error(s.logg.WithLeadID(ctx, lead.ID.String()), "failed to convert lead", err)
		return detail
	}

	s.publish(ctx, orgID, lead, order, detail.OrderRef, orderValue, convertedAt)

	detail.Outcome = OutcomeConverted
	detail.LeadID = lead.ID.String()
	detail.Revenue = orderValue
	return detail
}

func (s *service) publish(ctx context.Context, orgID string, lead *models.Lead, order ShopifyOrder, orderRef string, orderValue float64, convertedAt time.Time) {
	if s.publisher == nil {
		return
	}

	event := warehouse.ConversionEvent{
		EventID:     uuid.NewString(),
		OrgID:       orgID,
		LeadID:      lead.ID.String(),
		OrderRef:    orderRef,
		OrderValue:  orderValue,
		Currency:    order.Currency,
		ConvertedAt: convertedAt,
		OccurredAt:  time.Now().UTC(),
	}
	if lead.UTMSource != nil {
		event.UTMSource = *lead.UTMSource
	}
	if lead.UTMMedium != nil {
		event.UTMMedium = *lead.UTMMedium
	}
	if lead.UTMCampaign != nil {
		event.UTMCampaign = *lead.UTMCampaign
	}

	if err := s.publisher.PublishConversion(ctx, event); err != nil {
		s.logg.Error(s.logg.WithLeadID(ctx, event.LeadID), "failed to publish conversion event", err)
	}
}

// extractUTM scans note attributes for the five standard UTM names, matched
// case-insensitively. The first value per name wins; absent names are left
// out so the lead's existing attribution is not overwritten.
func extractUTM(attributes []OrderNoteAttribute) map[string]any {
	recognized := map[string]string{
		"utm_source":   "utm_source",
		"utm_medium":   "utm_medium",
		"utm_campaign": "utm_campaign",
		"utm_term":     "utm_term",
		"utm_content":  "utm_content",
	}

	out := map[string]any{}
	for _, attr := range attributes {
		column, ok := recognized[strings.ToLower(strings.TrimSpace(attr.Name))]
		if !ok {
			continue
		}
		if _, seen := out[column]; seen {
			continue
		}
		out[column] = attr.Value
	}
	return out
}

func appendNote(existing *string, note string) string {
	if existing == nil || strings.TrimSpace(*existing) == "" {
		return note
	}
	return *existing + "\n" + note
}

func orderRef(order ShopifyOrder) string {
	if order.OrderNumber != 0 {
		return fmt.Sprintf("#%d", order.OrderNumber)
	}
	return strconv.FormatInt(order.ID, 10)
}
