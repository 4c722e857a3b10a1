package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"lotlinks/internal/analytics"
	"lotlinks/internal/config"
	"lotlinks/internal/kv"
	"lotlinks/internal/links"
	"lotlinks/internal/metrics"
	"lotlinks/internal/server"
	"lotlinks/internal/token"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	if !cfg.IsDev() {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
		if cfg.SigningSecret == "" || cfg.SigningSecret == "dev-only-signing-secret" {
			log.Fatal("SIGNING_SECRET must be set in production")
		}
	}

	tenants, err := config.LoadTenants(cfg.TenantsFile)
	if err != nil {
		log.Fatalf("Failed to load tenant registry: %v", err)
	}
	if tenants.Open() {
		log.Println("No tenant registry found; running with an open slug-as-id registry")
	}

	linksStore, clicksStore, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreBackend, err)
	}
	defer closeStores()

	codec := token.NewCodec(cfg.SigningSecret)
	repo := links.NewRepository(linksStore)
	svc := links.NewService(codec, repo, cfg.BaseURL)
	aggregator := analytics.NewAggregator(clicksStore)

	metrics.Init(clicksStore)

	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, server.Deps{
		Codec:     codec,
		Repo:      repo,
		Links:     svc,
		Analytics: aggregator,
		Tenants:   tenants,
	}); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()
	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

// openStores builds the links and clicks stores on the configured
// backend. Both namespaces share one connection.
func openStores(ctx context.Context, cfg *config.Config) (kv.Store, kv.Store, func(), error) {
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := kv.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := kv.RunMigrations(cfg.DatabaseURL); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		log.Println("Migrations completed successfully")
		return kv.NewPostgresStore(pool, "links"),
			kv.NewPostgresStore(pool, "clicks"),
			pool.Close, nil

	case "memory":
		return kv.NewMemoryStore(), kv.NewMemoryStore(), func() {}, nil

	default:
		client, err := kv.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		closer := func() {
			if err := client.Close(); err != nil {
				log.Printf("Failed to close redis client: %v", err)
			}
		}
		return kv.NewRedisStore(client, "links"),
			kv.NewRedisStore(client, "clicks"),
			closer, nil
	}
}
