package leads

import "github.com/leadflowhq/leadflow-backend/pkg/db/models"

// LeadForm is one submitted lead form from an ad platform webhook or batch
// export. Field names arrive however the platform sends them, so mapping is
// case-insensitive.
type LeadForm struct {
	ExternalID string          `json:"external_id" validate:"required"`
	Platform   string          `json:"platform"`
	CreatedAt  string          `json:"created_time"`
	Fields     []LeadFormField `json:"field_data" validate:"required,min=1,dive"`
}

// LeadFormField mirrors the platform field payload: a name plus one or more
// values, of which only the first is used.
type LeadFormField struct {
	Name   string   `json:"name" validate:"required"`
	Values []string `json:"values"`
}

// FirstValue returns the first submitted value for the field, or "".
func (f LeadFormField) FirstValue() string {
	if len(f.Values) == 0 {
		return ""
	}
	return f.Values[0]
}

// ImportStatus classifies the outcome for one form within a batch.
type ImportStatus string

const (
	ImportStatusImported  ImportStatus = "imported"
	ImportStatusUpdated   ImportStatus = "updated"
	ImportStatusDuplicate ImportStatus = "duplicate"
	ImportStatusError     ImportStatus = "error"
)

// ImportDetail reports the per-form outcome of a batch import.
type ImportDetail struct {
	ExternalID string       `json:"external_id"`
	Status     ImportStatus `json:"status"`
	LeadID     string       `json:"lead_id,omitempty"`
	Message    string       `json:"message,omitempty"`
}

// ImportResult summarizes a batch import. Success is true when at least one
// form resolved to something other than an error.
type ImportResult struct {
	Success    bool           `json:"success"`
	Imported   int            `json:"imported"`
	Updated    int            `json:"updated"`
	Duplicates int            `json:"duplicates"`
	Errors     int            `json:"errors"`
	Details    []ImportDetail `json:"details"`
}

// LeadList is one page of leads plus the cursor for the next page.
type LeadList struct {
	Leads      []models.Lead `json:"leads"`
	NextCursor *string       `json:"next_cursor,omitempty"`
}
