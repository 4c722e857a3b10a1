// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"testing"
	"time"

	"lotlinks/internal/kv"
	"lotlinks/internal/links"
	"lotlinks/internal/models"
	"lotlinks/internal/token"
)

// SigningSecret is the fixed secret used by test fixtures.
const SigningSecret = "test-signing-secret"

// BaseURL is the public base URL used by test fixtures.
const BaseURL = "http://share.test"

// NewLinkService builds a fully wired link service over an in-memory
// store and returns the pieces tests commonly need.
func NewLinkService(t *testing.T) (*links.Service, *links.Repository, *kv.MemoryStore) {
	t.Helper()

	store := kv.NewMemoryStore()
	codec := token.NewCodec(SigningSecret)
	repo := links.NewRepository(store)
	svc := links.NewService(codec, repo, BaseURL)
	return svc, repo, store
}

// CreateTestLink creates a share link and fails the test on error.
func CreateTestLink(t *testing.T, svc *links.Service, params links.CreateParams) *models.CreateLinkResult {
	t.Helper()

	result, err := svc.Create(context.Background(), params)
	if err != nil {
		t.Fatalf("failed to create test link: %v", err)
	}
	return result
}

// CatalogParams returns creation params for a catalog link with the
// given filters.
func CatalogParams(tenant string, filters map[string]string) links.CreateParams {
	return links.CreateParams{
		TenantID:   tenant,
		TenantSlug: tenant,
		Kind:       models.KindCatalog,
		Filters:    filters,
		Title:      "Test catalog link",
	}
}

// SingleParams returns creation params for a single-listing link.
func SingleParams(tenant, listingID string) links.CreateParams {
	return links.CreateParams{
		TenantID:   tenant,
		TenantSlug: tenant,
		Kind:       models.KindSingle,
		ListingIDs: []string{listingID},
		Title:      "Test single link",
	}
}

// ExpiresIn returns a pointer to now+d for expiry fields.
func ExpiresIn(d time.Duration) *time.Time {
	t := time.Now().UTC().Add(d)
	return &t
}
