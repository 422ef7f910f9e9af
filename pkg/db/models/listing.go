package models

import (
	"time"

	"github.com/google/uuid"
)

// Listing is a real-estate property tracked for LLM scoring.
type Listing struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrgID       string    `gorm:"column:org_id;not null;index" json:"orgId"`
	Address     string    `gorm:"column:address;not null" json:"address"`
	City        *string   `gorm:"column:city" json:"city,omitempty"`
	Price       *float64  `gorm:"column:price" json:"price,omitempty"`
	Rooms       *float64  `gorm:"column:rooms" json:"rooms,omitempty"`
	SizeSqm     *float64  `gorm:"column:size_sqm" json:"sizeSqm,omitempty"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`

	Score        *int       `gorm:"column:score" json:"score,omitempty"`
	ScoreSummary *string    `gorm:"column:score_summary" json:"scoreSummary,omitempty"`
	ScoredAt     *time.Time `gorm:"column:scored_at" json:"scoredAt,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName overrides the default gorm naming.
func (Listing) TableName() string {
	return "listings"
}
