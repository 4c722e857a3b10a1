package config

import (
	"os"
	"strings"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string // public base for constructed share and redirect URLs
	ViewsDir   string // template directory, overridable for tests

	// Token signing
	SigningSecret string // HMAC key for share tokens (required in production)

	// Storage
	StoreBackend string // "redis", "postgres", or "memory"
	RedisURL     string
	DatabaseURL  string

	// Tenants
	TenantsFile string // YAML tenant registry, optional

	// Management API auth
	OIDCIssuer      string
	OIDCClientID    string
	OIDCTenantClaim string // ID-token claim carrying the tenant slug
	APIKeys         string // "key:tenantSlug" pairs, comma separated

	// CORS
	CORSOrigins string // Comma-separated allowed origins
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:        getEnv("ENV", "development"),
		ServerAddr: getEnv("SERVER_ADDR", ":3000"),
		BaseURL:    getEnv("BASE_URL", "http://localhost:3000"),
		ViewsDir:   getEnv("VIEWS_DIR", "./views"),

		SigningSecret: getEnv("SIGNING_SECRET", "dev-only-signing-secret"),

		StoreBackend: getEnv("STORE_BACKEND", "redis"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:  getEnv("DATABASE_URL", "postgres://localhost:5432/lotlinks?sslmode=disable"),

		TenantsFile: getEnv("TENANTS_FILE", "tenants.yaml"),

		OIDCIssuer:      getEnv("OIDC_ISSUER", ""),
		OIDCClientID:    getEnv("OIDC_CLIENT_ID", ""),
		OIDCTenantClaim: getEnv("OIDC_TENANT_CLAIM", "tenant"),
		APIKeys:         getEnv("API_KEYS", ""),

		CORSOrigins: getEnv("CORS_ORIGINS", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// ParseAPIKeys parses the API_KEYS value into a key -> tenant slug map.
// Malformed entries are dropped.
func (c *Config) ParseAPIKeys() map[string]string {
	keys := make(map[string]string)
	for _, pair := range strings.Split(c.APIKeys, ",") {
		key, slug, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || key == "" || slug == "" {
			continue
		}
		keys[key] = slug
	}
	return keys
}
