package validation

import (
	"regexp"
	"time"
)

// SlugPattern defines the valid tenant slug format: lowercase
// alphanumeric with hyphens, starting with a letter or digit.
var SlugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ListingIDPattern defines the valid listing identifier format.
var ListingIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// FilterKeyPattern defines the valid filter key format. Filter keys
// become query parameter names on the catalog redirect, so they must
// never collide with the reserved ids/utm_* parameters.
var FilterKeyPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// ValidateTenantSlug checks a tenant slug from a public path.
func ValidateTenantSlug(slug string) bool {
	if slug == "" || len(slug) > 64 {
		return false
	}
	return SlugPattern.MatchString(slug)
}

// ValidateListingID checks a single listing identifier.
func ValidateListingID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	return ListingIDPattern.MatchString(id)
}

// ValidateListingIDs checks every id in a set.
func ValidateListingIDs(ids []string) bool {
	for _, id := range ids {
		if !ValidateListingID(id) {
			return false
		}
	}
	return true
}

// ValidateFilterKey checks a filter map key.
func ValidateFilterKey(key string) bool {
	if key == "" || len(key) > 64 || key == "ids" {
		return false
	}
	if len(key) >= 4 && key[:4] == "utm_" {
		return false
	}
	return FilterKeyPattern.MatchString(key)
}

// ValidateTitle checks an operator-supplied display label.
func ValidateTitle(title string) bool {
	return len(title) <= 200
}

// ValidateExpiry checks that an optional expiry lies in the future.
// nil means the link never expires and is always valid.
func ValidateExpiry(expiresAt *time.Time, now time.Time) bool {
	return expiresAt == nil || expiresAt.After(now)
}
