package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/leadflowhq/leadflow-backend/pkg/enums"
)

// Lead is a prospective customer captured from an ad platform lead form or
// discovered during order reconciliation. Every query against this table must
// filter by OrgID.
type Lead struct {
	ID     uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrgID  string           `gorm:"column:org_id;not null;index:idx_leads_org_created,priority:1;uniqueIndex:uq_leads_org_external,priority:1" json:"orgId"`
	Status enums.LeadStatus `gorm:"column:status;type:text;not null;default:'new'" json:"status"`
	Score  enums.LeadScore  `gorm:"column:score;type:text;not null;default:'warm'" json:"score"`

	FirstName *string  `gorm:"column:first_name" json:"firstName,omitempty"`
	LastName  *string  `gorm:"column:last_name" json:"lastName,omitempty"`
	Email     *string  `gorm:"column:email" json:"email,omitempty"`
	Phone     *string  `gorm:"column:phone" json:"phone,omitempty"`
	City      *string  `gorm:"column:city" json:"city,omitempty"`
	Budget    *float64 `gorm:"column:budget" json:"budget,omitempty"`

	UTMSource   *string `gorm:"column:utm_source" json:"utmSource,omitempty"`
	UTMMedium   *string `gorm:"column:utm_medium" json:"utmMedium,omitempty"`
	UTMCampaign *string `gorm:"column:utm_campaign" json:"utmCampaign,omitempty"`
	UTMTerm     *string `gorm:"column:utm_term" json:"utmTerm,omitempty"`
	UTMContent  *string `gorm:"column:utm_content" json:"utmContent,omitempty"`

	// ExternalID is the platform-assigned lead id, used for idempotent re-import.
	ExternalID *string `gorm:"column:external_id;uniqueIndex:uq_leads_org_external,priority:2" json:"externalId,omitempty"`

	OrderValue  *float64   `gorm:"column:order_value" json:"orderValue,omitempty"`
	ConvertedAt *time.Time `gorm:"column:converted_at" json:"convertedAt,omitempty"`
	Notes       *string    `gorm:"column:notes" json:"notes,omitempty"`

	Interactions []LeadInteraction `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE" json:"interactions,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:idx_leads_org_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName overrides the default gorm naming.
func (Lead) TableName() string {
	return "leads"
}

// IsConverted reports whether the lead already carries a matched order.
func (l *Lead) IsConverted() bool {
	return l != nil && l.Status == enums.LeadStatusConverted
}
