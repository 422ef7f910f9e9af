package warehouse

import (
	"time"

	"cloud.google.com/go/bigquery"
)

// ConversionEvent is the envelope published when an order converts a lead.
// The warehouse worker consumes these and appends them to BigQuery; the
// reporting path never reads them back.
type ConversionEvent struct {
	EventID     string    `json:"event_id"`
	OrgID       string    `json:"org_id"`
	LeadID      string    `json:"lead_id"`
	OrderRef    string    `json:"order_ref"`
	OrderValue  float64   `json:"order_value"`
	Currency    string    `json:"currency"`
	UTMSource   string    `json:"utm_source,omitempty"`
	UTMMedium   string    `json:"utm_medium,omitempty"`
	UTMCampaign string    `json:"utm_campaign,omitempty"`
	ConvertedAt time.Time `json:"converted_at"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Save implements bigquery.ValueSaver so events stream straight into the
// conversion_events table with the event id as the insert id for dedup.
func (e ConversionEvent) Save() (map[string]bigquery.Value, string, error) {
	return map[string]bigquery.Value{
		"event_id":     e.EventID,
		"org_id":       e.OrgID,
		"lead_id":      e.LeadID,
		"order_ref":    e.OrderRef,
		"order_value":  e.OrderValue,
		"currency":     e.Currency,
		"utm_source":   e.UTMSource,
		"utm_medium":   e.UTMMedium,
		"utm_campaign": e.UTMCampaign,
		"converted_at": e.ConvertedAt,
		"occurred_at":  e.OccurredAt,
	}, e.EventID, nil
}
