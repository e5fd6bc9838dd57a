// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "BR"

// Normalizer formats phone numbers typed without a country code for a fixed region.
type Normalizer struct {
	region string
}

// NewNormalizer returns a normalizer for region, falling back to DefaultRegion.
func NewNormalizer(region string) Normalizer {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = DefaultRegion
	}
	return Normalizer{region: region}
}

// NormalizeE164 formats a phone number to E.164. If parsing fails, it returns the trimmed input.
func (n Normalizer) NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, n.regionOrDefault())
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

// WhatsAppURL returns a wa.me link for a valid number, or "" when the
// number cannot be parsed.
func (n Normalizer) WhatsAppURL(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	number, err := phonenumbers.Parse(trimmed, n.regionOrDefault())
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return ""
	}

	e164 := phonenumbers.Format(number, phonenumbers.E164)
	return "https://wa.me/" + strings.TrimPrefix(e164, "+")
}

func (n Normalizer) regionOrDefault() string {
	if n.region == "" {
		return DefaultRegion
	}
	return n.region
}
