package server

import (
	"github.com/gofiber/fiber/v3"
	redisstorage "github.com/gofiber/storage/redis/v3"

	"lotlinks/internal/config"
)

// limiterStorage returns the backing store for the rate limiter. When
// the kv backend is Redis the limiter shares it; otherwise the limiter
// falls back to fiber's in-process default (nil).
func limiterStorage(cfg *config.Config) fiber.Storage {
	if cfg.StoreBackend != "redis" || cfg.RedisURL == "" {
		return nil
	}
	return redisstorage.New(redisstorage.Config{
		URL:   cfg.RedisURL,
		Reset: false,
	})
}
