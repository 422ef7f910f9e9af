package enums

import "strings"

// LeadPlatform identifies the ad platform a lead form came from.
type LeadPlatform string

const (
	LeadPlatformFacebook  LeadPlatform = "facebook"
	LeadPlatformInstagram LeadPlatform = "instagram"
)

// String implements fmt.Stringer.
func (p LeadPlatform) String() string {
	return string(p)
}

// IsValid reports whether the value is a known LeadPlatform.
func (p LeadPlatform) IsValid() bool {
	return p == LeadPlatformFacebook || p == LeadPlatformInstagram
}

// NormalizeLeadPlatform lowercases raw platform input, defaulting to facebook
// when the value is empty or unrecognized.
func NormalizeLeadPlatform(value string) LeadPlatform {
	platform := LeadPlatform(strings.ToLower(strings.TrimSpace(value)))
	if !platform.IsValid() {
		return LeadPlatformFacebook
	}
	return platform
}
