package server

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lotlinks/internal/analytics"
	"lotlinks/internal/config"
	"lotlinks/internal/handlers"
	"lotlinks/internal/handlers/api"
	"lotlinks/internal/links"
	"lotlinks/internal/middleware"
	"lotlinks/internal/token"
)

// Deps bundles the collaborators the route handlers need.
type Deps struct {
	Codec     *token.Codec
	Repo      *links.Repository
	Links     *links.Service
	Analytics *analytics.Aggregator
	Tenants   *config.TenantRegistry
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, deps Deps) error {
	authMiddleware, err := middleware.NewAuthMiddleware(ctx, s.Cfg, deps.Tenants)
	if err != nil {
		return err
	}

	resolveHandler := handlers.NewResolveHandler(deps.Codec, deps.Repo, deps.Links, deps.Analytics, deps.Tenants)
	linkHandler := api.NewLinkHandler(deps.Links, deps.Analytics)

	// Operational endpoints
	s.App.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Management API - authenticated, tenant-scoped
	s.App.Post("/api/links", authMiddleware.RequireTenant, linkHandler.Create)
	s.App.Get("/api/links", authMiddleware.RequireTenant, linkHandler.List)
	s.App.Get("/api/links/:token/stats", authMiddleware.RequireTenant, linkHandler.Stats)
	s.App.Delete("/api/links/:token", authMiddleware.RequireTenant, linkHandler.Revoke)

	// Public resolver - must be last (catch-all path shape)
	s.App.Get("/:tenant/:linkType/:token", resolveHandler.Resolve)

	return nil
}
