package middleware

import (
	"context"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"

	"lotlinks/internal/config"
)

// AuthMiddleware authenticates management API callers and resolves the
// tenant they act for. Two credential forms are accepted on the
// Authorization header: static API keys mapped to a tenant slug via
// configuration, and, when an issuer is configured, OIDC ID tokens
// carrying the tenant slug in a claim. The public resolver never goes
// through here; share links work without a session.
type AuthMiddleware struct {
	verifier    *oidc.IDTokenVerifier // nil when OIDC is not configured
	tenantClaim string
	apiKeys     map[string]string // key -> tenant slug
	tenants     *config.TenantRegistry
}

// NewAuthMiddleware creates the middleware, performing OIDC discovery
// if an issuer is configured.
func NewAuthMiddleware(ctx context.Context, cfg *config.Config, tenants *config.TenantRegistry) (*AuthMiddleware, error) {
	m := &AuthMiddleware{
		tenantClaim: cfg.OIDCTenantClaim,
		apiKeys:     cfg.ParseAPIKeys(),
		tenants:     tenants,
	}

	if cfg.OIDCIssuer != "" {
		provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
		if err != nil {
			return nil, err
		}
		oidcCfg := &oidc.Config{ClientID: cfg.OIDCClientID}
		if cfg.OIDCClientID == "" {
			oidcCfg = &oidc.Config{SkipClientIDCheck: true}
		}
		m.verifier = provider.Verifier(oidcCfg)
	}

	return m, nil
}

// RequireTenant rejects the request unless it carries valid credentials,
// and stores the resolved tenant in Locals("tenant").
func (m *AuthMiddleware) RequireTenant(c fiber.Ctx) error {
	raw := bearerToken(c.Get("Authorization"))
	if raw == "" {
		return unauthorized(c)
	}

	if slug, ok := m.apiKeys[raw]; ok {
		return m.admit(c, slug)
	}

	if m.verifier != nil {
		if slug, ok := m.verifyIDToken(c.Context(), raw); ok {
			return m.admit(c, slug)
		}
	}

	return unauthorized(c)
}

func (m *AuthMiddleware) admit(c fiber.Ctx, slug string) error {
	tenant, ok := m.tenants.BySlug(slug)
	if !ok {
		return unauthorized(c)
	}
	c.Locals("tenant", tenant)
	return c.Next()
}

func (m *AuthMiddleware) verifyIDToken(ctx context.Context, raw string) (string, bool) {
	idToken, err := m.verifier.Verify(ctx, raw)
	if err != nil {
		return "", false
	}

	claims := make(map[string]any)
	if err := idToken.Claims(&claims); err != nil {
		return "", false
	}

	slug, _ := claims[m.tenantClaim].(string)
	return slug, slug != ""
}

// TenantFromCtx returns the tenant stored by RequireTenant.
func TenantFromCtx(c fiber.Ctx) *config.Tenant {
	tenant, _ := c.Locals("tenant").(*config.Tenant)
	return tenant
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status": "error",
		"error":  "unauthorized",
	})
}
