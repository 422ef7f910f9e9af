package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/leadflowhq/leadflow-backend/pkg/enums"
)

// LeadInteraction is one recorded touch with a lead (call, email, meeting, note).
type LeadInteraction struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LeadID      uuid.UUID             `gorm:"column:lead_id;type:uuid;not null;index" json:"leadId"`
	OrgID       string                `gorm:"column:org_id;not null" json:"orgId"`
	Type        enums.InteractionType `gorm:"column:type;type:text;not null" json:"type"`
	Description *string               `gorm:"column:description" json:"description,omitempty"`
	OccurredAt  time.Time             `gorm:"column:occurred_at;not null" json:"occurredAt"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName overrides the default gorm naming.
func (LeadInteraction) TableName() string {
	return "lead_interactions"
}
