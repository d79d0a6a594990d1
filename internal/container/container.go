package container

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"showcase/catalog/internal/client"
	"showcase/catalog/internal/config"
	"showcase/catalog/internal/domain"
	"showcase/catalog/internal/fetcher"
	"showcase/catalog/internal/locator"
	"showcase/catalog/internal/proxy"
	"showcase/catalog/internal/service"
	"showcase/catalog/internal/session"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config  *config.Config
	Client  client.AssetClient
	Metrics *client.Metrics
	Fetcher *fetcher.Fetcher
	Locator *locator.Locator
	Store   session.Store

	Service *service.Service

	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config, opts ...client.Option) (*Container, error) {
	container := &Container{
		Config:  cfg,
		Metrics: client.NewMetrics(),
	}

	// Initialize ProxySupplier
	var proxySupplier proxy.ProxySupplier
	if len(cfg.Assets.Proxies) > 0 {
		proxySupplier = proxy.NewProxySupplier(context.Background(), cfg.Assets.Proxies, cfg.Assets.BaseURL)
	}

	assetClient := client.NewAssetClient(cfg.Assets, proxySupplier, container.Metrics, opts...)
	container.Client = assetClient

	container.Fetcher = fetcher.NewFetcher(assetClient, cfg.Assets)
	container.Locator = locator.NewLocator(assetClient, container.Fetcher, cfg.Assets)

	ttl := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		// Test connection
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			_ = rdb.Close()
			_ = assetClient.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.redis = rdb
		container.Store = session.NewRedisStore(rdb, cfg.Redis.KeyPrefix, ttl)
	default:
		container.Store = session.NewMemoryStore(cfg.Session.MaxEntries, ttl)
	}

	container.Service = service.NewService(
		container.Locator,
		container.Fetcher,
		container.Store,
		container.Metrics,
		session.NewID(cfg.Session.ID),
		domain.FetchMode(cfg.Assets.FetchMode),
		cfg.Assets.MaxWorkers,
	)
	log.Infof("🪪 Session %s (%s store)", container.Service.SessionID(), cfg.Session.Backend)

	return container, nil
}

// Run builds the catalog, or a single product when app.product_id is set,
// and writes it as JSON to app.output.
func (c *Container) Run(ctx context.Context) error {
	if id := c.Config.App.ProductID; id != "" {
		product, err := c.Service.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		return writeJSON(c.Config.App.Output, product)
	}

	catalog, err := c.Service.GetCatalog(ctx)
	if err != nil {
		return err
	}
	return writeJSON(c.Config.App.Output, catalog)
}

func writeJSON(output string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	data = append(data, '\n')

	if output == "" || output == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	log.Infof("💾 Output written to %s", output)
	return nil
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if err := c.Client.Close(); err != nil {
		log.Warnf("Failed to close asset client: %v", err)
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warnf("Failed to close Redis client: %v", err)
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
