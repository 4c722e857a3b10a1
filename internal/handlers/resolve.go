package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"lotlinks/internal/analytics"
	"lotlinks/internal/config"
	"lotlinks/internal/links"
	"lotlinks/internal/metrics"
	"lotlinks/internal/token"
	"lotlinks/internal/validation"
)

// ResolveHandler serves public share-link resolution: anonymous
// visitors following a "{tenantSlug}/{linkType}/{token}" path.
type ResolveHandler struct {
	codec   *token.Codec
	repo    *links.Repository
	svc     *links.Service
	stats   *analytics.Aggregator
	tenants *config.TenantRegistry
}

// NewResolveHandler creates a new resolve handler.
func NewResolveHandler(codec *token.Codec, repo *links.Repository, svc *links.Service, stats *analytics.Aggregator, tenants *config.TenantRegistry) *ResolveHandler {
	return &ResolveHandler{codec: codec, repo: repo, svc: svc, stats: stats, tenants: tenants}
}

// Resolve verifies a share token and redirects the visitor to the
// listing or catalog view it grants.
//
// Failure surfaces split deliberately: a malformed path or unknown link
// type means a client constructed the URL wrong and gets a JSON error,
// while token verification failures mean a human followed a dead link
// and get a readable HTML page. The HTML pages never say why the link
// failed beyond invalid/expired/revoked, and the signature is checked
// before any storage read so an invalid token can't probe which
// tenant/token pairs exist.
func (h *ResolveHandler) Resolve(c fiber.Ctx) error {
	c.Set("Cache-Control", "no-store")

	tenantSlug := c.Params("tenant")
	linkType := c.Params("linkType")
	tok := c.Params("token")

	if linkType != links.LinkTypeSingle && linkType != links.LinkTypeGeneric ||
		!validation.ValidateTenantSlug(tenantSlug) || tok == "" {
		metrics.RecordResolution("malformed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"error":  "unrecognized link path",
		})
	}

	payload, err := h.codec.Decode(tok)
	if err != nil {
		return h.failPage(c, fiber.StatusNotFound, "invalid",
			"Invalid link", "This link is not valid. Check that it was copied completely.")
	}

	// The tenant in the path must be the one signed into the token.
	tenant, ok := h.tenants.BySlug(tenantSlug)
	if !ok || payload.TenantID != tenant.ID {
		return h.failPage(c, fiber.StatusNotFound, "invalid",
			"Invalid link", "This link is not valid. Check that it was copied completely.")
	}

	// Cheap expiry check from the signed payload; no storage touched
	// yet. The stored record below remains authoritative.
	now := time.Now()
	if payload.IsExpired(now) {
		return h.failPage(c, fiber.StatusGone, "expired",
			"Link expired", "This link has expired. Ask the sender for a new one.")
	}

	record, err := h.repo.Get(c.Context(), payload.TenantID, tok)
	if err != nil {
		if errors.Is(err, links.ErrLinkNotFound) || errors.Is(err, links.ErrCorruptRecord) {
			return h.failPage(c, fiber.StatusNotFound, "not_found",
				"Link not found", "This link is no longer available.")
		}
		// Transient storage failure. Never retried here: a retry could
		// issue the redirect twice.
		slog.Error("share link lookup failed", "tenant", payload.TenantID, "error", err)
		return h.failPage(c, fiber.StatusServiceUnavailable, "error",
			"Something went wrong", "Please try the link again in a moment.")
	}

	// Revocation dominates everything, including a future expiry.
	if record.IsRevoked() {
		return h.failPage(c, fiber.StatusGone, "revoked",
			"Link revoked", "This link has been revoked by its owner.")
	}
	if record.IsExpired(now) {
		return h.failPage(c, fiber.StatusGone, "expired",
			"Link expired", "This link has expired. Ask the sender for a new one.")
	}

	// Never trust the stored token verbatim: re-derive it from the
	// verified payload and compare.
	derived, err := h.codec.Encode(payload)
	if err != nil || derived != record.Token {
		return h.failPage(c, fiber.StatusNotFound, "invalid",
			"Invalid link", "This link is not valid. Check that it was copied completely.")
	}

	target, ok := h.svc.RedirectTarget(tenantSlug, linkType, record, queryValues(c))
	if !ok {
		return h.failPage(c, fiber.StatusNotFound, "invalid",
			"Invalid link", "This link is not valid. Check that it was copied completely.")
	}

	// Record the click off the request path; its outcome never affects
	// the redirect. Request buffers are reused after the handler
	// returns, so the strings are cloned before the goroutine starts.
	source := strings.Clone(c.Query("src"))
	if source == "" {
		source = "direct"
	}
	referrer := strings.Clone(c.Get("Referer"))
	go func(tenantID, tok string) {
		if err := h.stats.RecordClick(context.Background(), tenantID, tok, source, referrer); err != nil {
			slog.Error("failed to record share link click", "tenant", tenantID, "error", err)
		}
	}(record.TenantID, record.Token)

	metrics.RecordResolution("redirect")
	return c.Redirect().Status(fiber.StatusFound).To(target)
}

// failPage renders the generic HTML failure page for a category. The
// response carries no machine-actionable detail and never echoes the
// token.
func (h *ResolveHandler) failPage(c fiber.Ctx, status int, outcome, title, message string) error {
	metrics.RecordResolution(outcome)
	return c.Status(status).Render("error", fiber.Map{
		"Title":   title,
		"Message": message,
	})
}

// queryValues converts the request query into url.Values for redirect
// computation.
func queryValues(c fiber.Ctx) url.Values {
	values := url.Values{}
	for key, value := range c.Queries() {
		values.Set(key, value)
	}
	return values
}
