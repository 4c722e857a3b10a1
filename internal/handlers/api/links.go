// Package api implements the authenticated JSON management surface for
// share links, consumed by the operator UI.
package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"lotlinks/internal/analytics"
	"lotlinks/internal/kv"
	"lotlinks/internal/links"
	"lotlinks/internal/middleware"
	"lotlinks/internal/models"
	"lotlinks/internal/validation"
)

// LinkHandler handles share link management via JSON API. Every route
// runs behind middleware.RequireTenant, which scopes the call to one
// tenant.
type LinkHandler struct {
	svc   *links.Service
	stats *analytics.Aggregator
}

// NewLinkHandler creates a new management API handler.
func NewLinkHandler(svc *links.Service, stats *analytics.Aggregator) *LinkHandler {
	return &LinkHandler{svc: svc, stats: stats}
}

// Create issues a new share link for the authenticated tenant.
func (h *LinkHandler) Create(c fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)
	if tenant == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		Kind       string            `json:"kind"`
		Title      string            `json:"title"`
		ListingIDs []string          `json:"listing_ids"`
		Filters    map[string]string `json:"filters"`
		Watermark  bool              `json:"watermark"`
		ExpiresAt  *time.Time        `json:"expires_at"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	kind, ok := models.ParseLinkKind(body.Kind)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "kind must be single, selection, or catalog")
	}
	if msg := validateCreate(kind, body.ListingIDs, body.Filters, body.Title, body.ExpiresAt); msg != "" {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	result, err := h.svc.Create(c.Context(), links.CreateParams{
		TenantID:   tenant.ID,
		TenantSlug: tenant.Slug,
		Kind:       kind,
		ListingIDs: body.ListingIDs,
		Filters:    body.Filters,
		Title:      body.Title,
		Watermark:  body.Watermark,
		ExpiresAt:  body.ExpiresAt,
	})
	if err != nil {
		if errors.Is(err, kv.ErrUnavailable) {
			return jsonError(c, fiber.StatusServiceUnavailable, "storage unavailable, retry the request")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create share link")
	}

	return jsonCreated(c, result)
}

// List returns every link for the tenant, including expired and revoked
// ones; each entry carries a derived display status for labeling.
func (h *LinkHandler) List(c fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)
	if tenant == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	annotated, err := h.svc.List(c.Context(), tenant.ID)
	if err != nil {
		if errors.Is(err, kv.ErrUnavailable) {
			return jsonError(c, fiber.StatusServiceUnavailable, "storage unavailable, retry the request")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to list share links")
	}

	return jsonSuccess(c, annotated)
}

// Revoke marks a link revoked. Revoking an already-revoked link
// succeeds without error.
func (h *LinkHandler) Revoke(c fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)
	if tenant == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	token := c.Params("token")
	if token == "" {
		return jsonError(c, fiber.StatusBadRequest, "token is required")
	}

	if err := h.svc.Revoke(c.Context(), tenant.ID, token); err != nil {
		switch {
		case errors.Is(err, links.ErrLinkNotFound), errors.Is(err, links.ErrCorruptRecord):
			return jsonError(c, fiber.StatusNotFound, "share link not found")
		case errors.Is(err, kv.ErrUnavailable):
			return jsonError(c, fiber.StatusServiceUnavailable, "storage unavailable, retry the request")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to revoke share link")
	}

	return jsonSuccess(c, fiber.Map{"revoked": true})
}

// Stats returns the click aggregate for one link.
func (h *LinkHandler) Stats(c fiber.Ctx) error {
	tenant := middleware.TenantFromCtx(c)
	if tenant == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	token := c.Params("token")
	if token == "" {
		return jsonError(c, fiber.StatusBadRequest, "token is required")
	}

	stats, err := h.stats.Stats(c.Context(), tenant.ID, token)
	if err != nil {
		if errors.Is(err, kv.ErrUnavailable) {
			return jsonError(c, fiber.StatusServiceUnavailable, "storage unavailable, retry the request")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to load click stats")
	}

	return jsonSuccess(c, stats)
}

// validateCreate returns a user-facing message for the first validation
// failure, or "" when the inputs are acceptable.
func validateCreate(kind models.LinkKind, listingIDs []string, filters map[string]string, title string, expiresAt *time.Time) string {
	if !validation.ValidateTitle(title) {
		return "title is too long"
	}
	if !validation.ValidateListingIDs(listingIDs) {
		return "listing ids must contain only letters, numbers, hyphens, and underscores"
	}
	for key := range filters {
		if !validation.ValidateFilterKey(key) {
			return "invalid filter key: " + key
		}
	}
	if !validation.ValidateExpiry(expiresAt, time.Now()) {
		return "expires_at must be in the future"
	}

	switch kind {
	case models.KindSingle:
		if len(listingIDs) != 1 {
			return "single links require exactly one listing id"
		}
	case models.KindSelection:
		if len(listingIDs) == 0 {
			return "selection links require at least one listing id"
		}
	case models.KindCatalog:
		if len(listingIDs) > 0 {
			return "catalog links must not carry listing ids"
		}
	}
	return ""
}
