package enums

import "fmt"

// LeadScore is the qualitative temperature assigned to a lead on capture.
type LeadScore string

const (
	LeadScoreCold LeadScore = "cold"
	LeadScoreWarm LeadScore = "warm"
	LeadScoreHot  LeadScore = "hot"
)

var validLeadScores = []LeadScore{
	LeadScoreCold,
	LeadScoreWarm,
	LeadScoreHot,
}

// String implements fmt.Stringer.
func (s LeadScore) String() string {
	return string(s)
}

// IsValid reports whether the value is a known LeadScore.
func (s LeadScore) IsValid() bool {
	for _, candidate := range validLeadScores {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLeadScore converts raw input into a LeadScore.
func ParseLeadScore(value string) (LeadScore, error) {
	for _, candidate := range validLeadScores {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lead score %q", value)
}
