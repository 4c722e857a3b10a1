package validation

import (
	"strings"
	"testing"
	"time"
)

func TestValidateTenantSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"valley", true},
		{"valley-motors", true},
		{"4runner-depot", true},
		{"a", true},
		{"", false},
		{"Valley", false},
		{"-valley", false},
		{"valley motors", false},
		{"valley/..", false},
		{strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		if got := ValidateTenantSlug(tt.slug); got != tt.want {
			t.Errorf("ValidateTenantSlug(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}

func TestValidateListingIDs(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want bool
	}{
		{"empty set", nil, true},
		{"simple", []string{"veh-123", "VEH_456"}, true},
		{"blank entry", []string{"veh-123", ""}, false},
		{"space", []string{"veh 123"}, false},
		{"comma", []string{"a,b"}, false},
		{"too long", []string{strings.Repeat("x", 65)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateListingIDs(tt.ids); got != tt.want {
				t.Errorf("ValidateListingIDs(%v) = %v, want %v", tt.ids, got, tt.want)
			}
		})
	}
}

func TestValidateFilterKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"state", true},
		{"price_max", true},
		{"Make", true},
		{"", false},
		{"ids", false},
		{"utm_source", false},
		{"utm_whatever", false},
		{"price-max", false},
		{"1state", false},
	}
	for _, tt := range tests {
		if got := ValidateFilterKey(tt.key); got != tt.want {
			t.Errorf("ValidateFilterKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestValidateTitle(t *testing.T) {
	if !ValidateTitle("") {
		t.Error("empty title rejected")
	}
	if !ValidateTitle(strings.Repeat("x", 200)) {
		t.Error("200-char title rejected")
	}
	if ValidateTitle(strings.Repeat("x", 201)) {
		t.Error("201-char title accepted")
	}
}

func TestValidateExpiry(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Minute)
	past := now.Add(-time.Minute)

	if !ValidateExpiry(nil, now) {
		t.Error("nil expiry rejected")
	}
	if !ValidateExpiry(&future, now) {
		t.Error("future expiry rejected")
	}
	if ValidateExpiry(&past, now) {
		t.Error("past expiry accepted")
	}
	if ValidateExpiry(&now, now) {
		t.Error("expiry equal to now accepted")
	}
}
