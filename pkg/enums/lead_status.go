package enums

import "fmt"

// LeadStatus tracks the lifecycle of a lead from capture to close.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusClosed    LeadStatus = "closed"
)

var validLeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusConverted,
	LeadStatusClosed,
}

// String implements fmt.Stringer.
func (s LeadStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known LeadStatus.
func (s LeadStatus) IsValid() bool {
	for _, candidate := range validLeadStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLeadStatus converts raw input into a LeadStatus.
func ParseLeadStatus(value string) (LeadStatus, error) {
	for _, candidate := range validLeadStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lead status %q", value)
}
