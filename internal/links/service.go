package links

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"lotlinks/internal/models"
	"lotlinks/internal/token"
)

// Public path segments for the two resolver link types.
const (
	LinkTypeSingle  = "p" // single-listing shorthand
	LinkTypeGeneric = "l"
)

// Service implements the authenticated link-management operations:
// create, list, revoke. It is the only component that mutates
// ShareLinkRecord state.
type Service struct {
	codec   *token.Codec
	repo    *Repository
	baseURL string
}

// NewService creates a management service. baseURL is the public base
// used for all constructed URLs, without a trailing slash.
func NewService(codec *token.Codec, repo *Repository, baseURL string) *Service {
	return &Service{codec: codec, repo: repo, baseURL: strings.TrimRight(baseURL, "/")}
}

// CreateParams are the operator-supplied inputs for a new share link.
type CreateParams struct {
	TenantID   string
	TenantSlug string
	Kind       models.LinkKind
	ListingIDs []string
	Filters    map[string]string
	Title      string
	Watermark  bool
	ExpiresAt  *time.Time
}

// Create signs a token for the given inputs, persists the matching
// record, and returns the record plus the distributable URLs. The
// stored token is by construction the signature of the creation
// payload; the resolver re-derives it on every hit.
func (s *Service) Create(ctx context.Context, p CreateParams) (*models.CreateLinkResult, error) {
	now := time.Now().UTC()

	payload := token.Payload{
		TenantID:   p.TenantID,
		Kind:       string(p.Kind),
		ListingIDs: p.ListingIDs,
		Filters:    p.Filters,
		CreatedAt:  now,
		ExpiresAt:  p.ExpiresAt,
	}
	tok, err := s.codec.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("sign share link token: %w", err)
	}

	record := &models.ShareLinkRecord{
		ID:         uuid.New(),
		TenantID:   p.TenantID,
		Token:      tok,
		Kind:       p.Kind,
		Title:      p.Title,
		ListingIDs: p.ListingIDs,
		Filters:    p.Filters,
		Watermark:  p.Watermark,
		Status:     models.StatusActive,
		CreatedAt:  now,
		ExpiresAt:  p.ExpiresAt,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	urls := models.LinkURLs{ShortURL: s.ShortURL(p.TenantSlug, record)}
	if p.Kind == models.KindSingle && len(p.ListingIDs) == 1 {
		urls.CanonicalURL = s.ListingURL(p.TenantSlug, p.ListingIDs[0])
	}

	return &models.CreateLinkResult{Record: record, Token: tok, URLs: urls}, nil
}

// List returns every link for the tenant, annotated with a derived
// display status. Expired-but-not-revoked links are included; hiding
// them is a presentation concern of the caller.
func (s *Service) List(ctx context.Context, tenantID string) ([]models.AnnotatedLink, error) {
	records, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	annotated := make([]models.AnnotatedLink, 0, len(records))
	for _, record := range records {
		status := "active"
		switch {
		case record.IsRevoked():
			status = "revoked"
		case record.IsExpired(now):
			status = "expired"
		}
		annotated = append(annotated, models.AnnotatedLink{
			ShareLinkRecord: record,
			DisplayStatus:   status,
		})
	}
	return annotated, nil
}

// Revoke marks a link revoked. Idempotent by way of Repository.Revoke.
func (s *Service) Revoke(ctx context.Context, tenantID, token string) error {
	return s.repo.Revoke(ctx, tenantID, token)
}

// ShortURL builds the resolver URL for a record.
func (s *Service) ShortURL(tenantSlug string, record *models.ShareLinkRecord) string {
	linkType := LinkTypeGeneric
	if record.Kind == models.KindSingle && len(record.ListingIDs) == 1 {
		linkType = LinkTypeSingle
	}
	return s.baseURL + "/" + tenantSlug + "/" + linkType + "/" + record.Token
}

// ListingURL builds the canonical single-listing view URL.
func (s *Service) ListingURL(tenantSlug, listingID string) string {
	return s.baseURL + "/" + tenantSlug + "/listings/" + listingID
}

// CatalogURL builds the tenant's catalog browse URL.
func (s *Service) CatalogURL(tenantSlug string) string {
	return s.baseURL + "/" + tenantSlug + "/listings"
}

// RedirectTarget computes the destination for a resolved link.
//
// The single-listing shorthand (and a single-kind record with exactly
// one listing) goes straight to the canonical listing view. Everything
// else lands on the catalog view with the record's listing ids, its
// filters, and any incoming utm_* parameters carried over. The
// incoming query is propagation-only: nothing else from the request
// reaches the target, so a visitor can never steer the redirect.
func (s *Service) RedirectTarget(tenantSlug, linkType string, record *models.ShareLinkRecord, query url.Values) (string, bool) {
	if linkType == LinkTypeSingle || (record.Kind == models.KindSingle && len(record.ListingIDs) == 1) {
		if len(record.ListingIDs) == 0 {
			return "", false
		}
		return s.ListingURL(tenantSlug, record.ListingIDs[0]), true
	}

	params := url.Values{}
	if len(record.ListingIDs) > 0 {
		params.Set("ids", strings.Join(record.ListingIDs, ","))
	}
	for key, value := range record.Filters {
		if value != "" {
			params.Set(key, value)
		}
	}
	for key, values := range query {
		if !strings.HasPrefix(key, "utm_") {
			continue
		}
		for _, value := range values {
			params.Add(key, value)
		}
	}

	target := s.CatalogURL(tenantSlug)
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	return target, true
}
