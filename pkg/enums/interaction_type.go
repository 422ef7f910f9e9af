package enums

import "fmt"

// InteractionType classifies a recorded touch with a lead.
type InteractionType string

const (
	InteractionTypeEmail   InteractionType = "email"
	InteractionTypeCall    InteractionType = "call"
	InteractionTypeMeeting InteractionType = "meeting"
	InteractionTypeNote    InteractionType = "note"
)

var validInteractionTypes = []InteractionType{
	InteractionTypeEmail,
	InteractionTypeCall,
	InteractionTypeMeeting,
	InteractionTypeNote,
}

// String implements fmt.Stringer.
func (t InteractionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known InteractionType.
func (t InteractionType) IsValid() bool {
	for _, candidate := range validInteractionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseInteractionType converts raw input into an InteractionType.
func ParseInteractionType(value string) (InteractionType, error) {
	for _, candidate := range validInteractionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid interaction type %q", value)
}
